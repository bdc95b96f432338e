package window

import "fmt"

// PhysicalSize is a size in physical pixels.
type PhysicalSize struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

func (s PhysicalSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// PhysicalPosition is a position in physical pixels relative to the
// top-left corner of the window's client area.
type PhysicalPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p PhysicalPosition) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// ElementState describes whether a key or button is pressed or released.
type ElementState uint8

const (
	Released ElementState = iota
	Pressed
)

func (s ElementState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// MouseButton identifies a mouse button.
type MouseButton uint16

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseBack
	MouseForward
	// mouseOtherBase is the first value used for MouseOther buttons.
	mouseOtherBase
)

// MouseOther returns the button with the given platform index for
// buttons beyond the five named ones.
func MouseOther(n uint16) MouseButton {
	return mouseOtherBase + MouseButton(n)
}

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	case MouseBack:
		return "back"
	case MouseForward:
		return "forward"
	default:
		return fmt.Sprintf("other(%d)", uint16(b-mouseOtherBase))
	}
}

// TouchPhase is the phase of a touch or scroll gesture.
type TouchPhase uint8

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)

func (p TouchPhase) String() string {
	switch p {
	case TouchStarted:
		return "started"
	case TouchMoved:
		return "moved"
	case TouchEnded:
		return "ended"
	case TouchCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ScrollUnit tells how a ScrollDelta should be interpreted.
type ScrollUnit uint8

const (
	// ScrollLines is a delta in rows and columns of text.
	ScrollLines ScrollUnit = iota
	// ScrollPixels is a delta in physical pixels, as reported by touchpads.
	ScrollPixels
)

// ScrollDelta is the amount scrolled by a mouse wheel or touchpad.
type ScrollDelta struct {
	Unit ScrollUnit `json:"unit"`
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
}

// LineDelta returns a scroll delta measured in lines.
func LineDelta(x, y float64) ScrollDelta {
	return ScrollDelta{Unit: ScrollLines, X: x, Y: y}
}

// PixelDelta returns a scroll delta measured in pixels.
func PixelDelta(x, y float64) ScrollDelta {
	return ScrollDelta{Unit: ScrollPixels, X: x, Y: y}
}

func (d ScrollDelta) String() string {
	if d.Unit == ScrollPixels {
		return fmt.Sprintf("pixels(%.1f, %.1f)", d.X, d.Y)
	}
	return fmt.Sprintf("lines(%.1f, %.1f)", d.X, d.Y)
}

// Touch is a single touch point update.
type Touch struct {
	Device   DeviceID         `json:"device"`
	Phase    TouchPhase       `json:"phase"`
	Location PhysicalPosition `json:"location"`
	// Force is the normalized pressure in [0, 1], or negative when the
	// device does not report pressure.
	Force float64 `json:"force"`
	// ID identifies the finger for the duration of a touch sequence.
	ID uint64 `json:"id"`
}

func (t Touch) String() string {
	return fmt.Sprintf("touch#%d %s at %s", t.ID, t.Phase, t.Location)
}
