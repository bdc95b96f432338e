package sound

import (
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			return out
		}
	}
}

func TestClickIsShortAndDecays(t *testing.T) {
	rate := beep.SampleRate(44100)
	s, err := Click(rate, 880, 0)
	require.NoError(t, err)

	samples := drain(t, s)
	require.Len(t, samples, rate.N(clickDuration))

	var peakHead, peakTail float64
	quarter := len(samples) / 4
	for i, smp := range samples {
		assert.LessOrEqual(t, math.Abs(smp[0]), 1.0)
		assert.Equal(t, smp[0], smp[1])
		if i < quarter {
			peakHead = math.Max(peakHead, math.Abs(smp[0]))
		}
		if i >= 3*quarter {
			peakTail = math.Max(peakTail, math.Abs(smp[0]))
		}
	}
	assert.Greater(t, peakHead, peakTail)
}

func TestClickVolume(t *testing.T) {
	rate := beep.SampleRate(44100)
	loud, err := Click(rate, 440, 0)
	require.NoError(t, err)
	quiet, err := Click(rate, 440, -1)
	require.NoError(t, err)

	a, b := drain(t, loud), drain(t, quiet)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.InDelta(t, a[i][0]/2, b[i][0], 1e-9)
	}
}

func TestClickRejectsBadFrequency(t *testing.T) {
	_, err := Click(beep.SampleRate(8000), 6000, 0)
	assert.Error(t, err)
}

func TestUninitializedClickerIsSilent(t *testing.T) {
	c := NewClicker(880, 0)
	c.Click()
	c.Pause()
	assert.True(t, c.Paused())
	c.Resume()
	assert.False(t, c.Paused())
	c.Close()
}
