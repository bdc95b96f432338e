// Package sound plays the demo's click feedback.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(48000)
	clickDuration = 40 * time.Millisecond
)

// Clicker plays short tones through the speaker. A Clicker that was
// never initialised ignores every call, so the demo runs without audio
// hardware.
type Clicker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	ctrl        *beep.Ctrl
	toneHz      float64
	volume      float64
	initialized bool
}

// NewClicker creates a clicker. volume uses beep's base-2 exponent: 0
// is unity, -1 halves the amplitude.
func NewClicker(toneHz, volume float64) *Clicker {
	mixer := &beep.Mixer{}
	return &Clicker{
		mixer:  mixer,
		ctrl:   &beep.Ctrl{Streamer: mixer},
		toneHz: toneHz,
		volume: volume,
	}
}

// Init opens the audio device and starts the mixer.
func (c *Clicker) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	speaker.Play(c.ctrl)
	c.initialized = true
	return nil
}

// Click queues one click.
func (c *Clicker) Click() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	s, err := Click(sampleRate, c.toneHz, c.volume)
	if err != nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Pause silences playback until Resume.
func (c *Clicker) Pause() { c.setPaused(true) }

// Resume restarts playback.
func (c *Clicker) Resume() { c.setPaused(false) }

// Paused reports whether playback is paused.
func (c *Clicker) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return c.ctrl.Paused
	}
	speaker.Lock()
	defer speaker.Unlock()
	return c.ctrl.Paused
}

func (c *Clicker) setPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		c.ctrl.Paused = paused
		return
	}
	speaker.Lock()
	c.ctrl.Paused = paused
	speaker.Unlock()
}

// Close stops all sounds.
func (c *Clicker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	c.initialized = false
}

// Click returns a short sine tone with a linear decay.
func Click(rate beep.SampleRate, hz, volume float64) (beep.Streamer, error) {
	tone, err := generators.SineTone(rate, hz)
	if err != nil {
		return nil, fmt.Errorf("sine tone: %w", err)
	}

	total := rate.N(clickDuration)
	pos := 0
	decay := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		if len(samples) > total-pos {
			samples = samples[:total-pos]
		}
		n, ok := tone.Stream(samples)
		for i := 0; i < n; i++ {
			gain := 1 - float64(pos)/float64(total)
			samples[i][0] *= gain
			samples[i][1] *= gain
			pos++
		}
		return n, ok
	})

	return &effects.Volume{Streamer: decay, Base: 2, Volume: volume}, nil
}
