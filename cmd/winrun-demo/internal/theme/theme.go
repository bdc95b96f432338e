// Package theme holds the demo HUD's colours and metrics.
package theme

import (
	"image/color"
	"runtime"

	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// Palette defines the HUD colours.
type Palette struct {
	Background color.NRGBA
	Surface    color.NRGBA
	Primary    color.NRGBA
	Text       color.NRGBA
	TextMuted  color.NRGBA
	Border     color.NRGBA
	Active     color.NRGBA
	Inactive   color.NRGBA
}

// Config defines the HUD metrics.
type Config struct {
	CornerRadius unit.Dp
	Spacing      unit.Dp
	Padding      unit.Dp
	SidebarWidth unit.Dp
	FontTitle    unit.Sp
	FontBody     unit.Sp
	FontCaption  unit.Sp
}

// Theme wraps the material theme with HUD styling.
type Theme struct {
	*material.Theme
	Palette Palette
	Config  Config
}

// New returns a theme with the Go fonts loaded. macOS gets slightly
// larger corners and padding.
func New() *Theme {
	mt := material.NewTheme()
	mt.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	t := &Theme{
		Theme: mt,
		Palette: Palette{
			Background: color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF},
			Surface:    color.NRGBA{R: 0x2C, G: 0x2C, B: 0x2C, A: 0xFF},
			Primary:    color.NRGBA{R: 0x0A, G: 0x84, B: 0xFF, A: 0xFF},
			Text:       color.NRGBA{R: 0xF5, G: 0xF5, B: 0xF7, A: 0xFF},
			TextMuted:  color.NRGBA{R: 0x86, G: 0x86, B: 0x8B, A: 0xFF},
			Border:     color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF},
			Active:     color.NRGBA{R: 0x30, G: 0xD1, B: 0x58, A: 0xFF},
			Inactive:   color.NRGBA{R: 0xFF, G: 0x9F, B: 0x0A, A: 0xFF},
		},
		Config: Config{
			CornerRadius: unit.Dp(4),
			Spacing:      unit.Dp(8),
			Padding:      unit.Dp(16),
			SidebarWidth: unit.Dp(200),
			FontTitle:    unit.Sp(20),
			FontBody:     unit.Sp(14),
			FontCaption:  unit.Sp(12),
		},
	}

	if runtime.GOOS == "darwin" {
		t.Config.CornerRadius = unit.Dp(10)
		t.Config.Padding = unit.Dp(20)
		t.Config.FontBody = unit.Sp(13)
	}
	return t
}
