package window

import "fmt"

// WindowEvent is a raw platform event addressed to one window.
type WindowEvent interface {
	isWindowEvent()
}

// DeviceEvent is a raw platform event from an input device, reported
// independently of any window.
type DeviceEvent interface {
	isDeviceEvent()
}

// CloseRequested is sent when the user asks to close the window.
type CloseRequested struct{}

// Resized is sent when the client area changes size.
type Resized struct {
	Size PhysicalSize
}

// RedrawRequested is the redraw tick.
type RedrawRequested struct{}

// Focused is sent when the window gains or loses keyboard focus.
type Focused struct {
	Focused bool
}

// KeyboardInput is a key press or release.
type KeyboardInput struct {
	Device    DeviceID
	State     ElementState
	Key       PhysicalKey
	Repeat    bool
	Synthetic bool
}

// CursorMoved is sent when the pointer moves inside the window.
type CursorMoved struct {
	Device   DeviceID
	Position PhysicalPosition
}

// CursorEntered is sent when the pointer enters the window.
type CursorEntered struct {
	Device DeviceID
}

// CursorLeft is sent when the pointer leaves the window.
type CursorLeft struct {
	Device DeviceID
}

// MouseWheel is a scroll event.
type MouseWheel struct {
	Device DeviceID
	Delta  ScrollDelta
	Phase  TouchPhase
}

// MouseInput is a mouse button press or release.
type MouseInput struct {
	Device DeviceID
	State  ElementState
	Button MouseButton
}

// TouchInput is a touch point update.
type TouchInput struct {
	Touch Touch
}

// ScaleFactorChanged is sent when the ratio between logical and physical
// pixels changes. Writer accepts a new inner size while the event is
// being handled.
type ScaleFactorChanged struct {
	ScaleFactor float64
	Writer      SizeWriter
}

// Events below are reported by backends but not forwarded to handlers.

// Moved is sent when the window moves on screen.
type Moved struct {
	X, Y int32
}

// Destroyed is sent after the native window has been destroyed.
type Destroyed struct{}

// ModifiersChanged is sent when modifier key state changes. Modifier keys
// also arrive as KeyboardInput.
type ModifiersChanged struct {
	Shift, Control, Alt, Super bool
}

// Occluded is sent when the window becomes hidden or visible.
type Occluded struct {
	Occluded bool
}

// DroppedFile is sent when a file is dropped onto the window.
type DroppedFile struct {
	Path string
}

func (CloseRequested) isWindowEvent()     {}
func (Resized) isWindowEvent()            {}
func (RedrawRequested) isWindowEvent()    {}
func (Focused) isWindowEvent()            {}
func (KeyboardInput) isWindowEvent()      {}
func (CursorMoved) isWindowEvent()        {}
func (CursorEntered) isWindowEvent()      {}
func (CursorLeft) isWindowEvent()         {}
func (MouseWheel) isWindowEvent()         {}
func (MouseInput) isWindowEvent()         {}
func (TouchInput) isWindowEvent()         {}
func (ScaleFactorChanged) isWindowEvent() {}
func (Moved) isWindowEvent()              {}
func (Destroyed) isWindowEvent()          {}
func (ModifiersChanged) isWindowEvent()   {}
func (Occluded) isWindowEvent()           {}
func (DroppedFile) isWindowEvent()        {}

// MouseMotion is raw, unaccelerated pointer motion. Units are whatever
// the device reports.
type MouseMotion struct {
	DX, DY float64
}

// DeviceAdded is sent when an input device is connected.
type DeviceAdded struct{}

// DeviceRemoved is sent when an input device is disconnected.
type DeviceRemoved struct{}

// DeviceButton is a raw button event from a device.
type DeviceButton struct {
	Button uint32
	State  ElementState
}

func (MouseMotion) isDeviceEvent()   {}
func (DeviceAdded) isDeviceEvent()   {}
func (DeviceRemoved) isDeviceEvent() {}
func (DeviceButton) isDeviceEvent()  {}

// EventName returns a short name for a window or device event, used in
// logs and metrics labels.
func EventName(ev any) string {
	switch ev.(type) {
	case CloseRequested:
		return "close_requested"
	case Resized:
		return "resized"
	case RedrawRequested:
		return "redraw_requested"
	case Focused:
		return "focused"
	case KeyboardInput:
		return "keyboard_input"
	case CursorMoved:
		return "cursor_moved"
	case CursorEntered:
		return "cursor_entered"
	case CursorLeft:
		return "cursor_left"
	case MouseWheel:
		return "mouse_wheel"
	case MouseInput:
		return "mouse_input"
	case TouchInput:
		return "touch"
	case ScaleFactorChanged:
		return "scale_factor_changed"
	case Moved:
		return "moved"
	case Destroyed:
		return "destroyed"
	case ModifiersChanged:
		return "modifiers_changed"
	case Occluded:
		return "occluded"
	case DroppedFile:
		return "dropped_file"
	case MouseMotion:
		return "mouse_motion"
	case DeviceAdded:
		return "device_added"
	case DeviceRemoved:
		return "device_removed"
	case DeviceButton:
		return "device_button"
	default:
		return fmt.Sprintf("%T", ev)
	}
}
