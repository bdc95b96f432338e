package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCodeNames(t *testing.T) {
	tests := []struct {
		code KeyCode
		name string
	}{
		{KeyA, "A"},
		{KeyQ, "Q"},
		{KeyZ, "Z"},
		{Digit0, "0"},
		{Digit9, "9"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{KeyEscape, "Escape"},
		{KeySlash, "Slash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.code.String())

			parsed, err := ParseKeyCode(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.code, parsed)
		})
	}
}

func TestParseKeyCodeCaseInsensitive(t *testing.T) {
	code, err := ParseKeyCode("escape")
	require.NoError(t, err)
	assert.Equal(t, KeyEscape, code)

	code, err = ParseKeyCode("q")
	require.NoError(t, err)
	assert.Equal(t, KeyQ, code)

	_, err = ParseKeyCode("Hyper")
	assert.Error(t, err)
}

func TestEveryKeyCodeHasAName(t *testing.T) {
	for code := KeyCode(1); code < keyCodeCount; code++ {
		assert.NotEmpty(t, code.String(), "key code %d", code)
	}
}

func TestLetterAndDigitKeys(t *testing.T) {
	assert.Equal(t, KeyC, LetterKey('c'))
	assert.Equal(t, KeyC, LetterKey('C'))
	assert.Equal(t, KeyUnidentified, LetterKey('!'))
	assert.Equal(t, Digit5, DigitKey('5'))
	assert.Equal(t, KeyUnidentified, DigitKey('x'))
}

func TestPhysicalKey(t *testing.T) {
	assert.True(t, Code(KeyQ).Identified())
	assert.Equal(t, "Q", Code(KeyQ).String())

	k := Unidentified(0x1c)
	assert.False(t, k.Identified())
	assert.Equal(t, "Unidentified(0x1c)", k.String())
}

func TestInputStrings(t *testing.T) {
	assert.Equal(t, "pressed", Pressed.String())
	assert.Equal(t, "released", Released.String())
	assert.Equal(t, "other(3)", MouseOther(3).String())
	assert.Equal(t, "pixels(1.5, -2.0)", PixelDelta(1.5, -2).String())
	assert.Equal(t, "800x500", PhysicalSize{Width: 800, Height: 500}.String())
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "redraw_requested", EventName(RedrawRequested{}))
	assert.Equal(t, "mouse_motion", EventName(MouseMotion{}))
	assert.Equal(t, "touch", EventName(TouchInput{}))
	assert.Equal(t, "int", EventName(42))
}
