package window

// WindowID identifies a native window within one event loop.
type WindowID uint64

// DeviceID identifies an input device. Backends that cannot tell devices
// apart report zero.
type DeviceID uint64

// Attributes describe the window to create.
type Attributes struct {
	Title        string
	Resizable    bool
	InnerSize    PhysicalSize
	MinInnerSize PhysicalSize
}

// NativeWindow is the platform window handle. The session and the
// handler share the same value; both may call it from inside callbacks.
type NativeWindow interface {
	ID() WindowID
	RequestRedraw()
	SetCursorVisible(visible bool)
	InnerSize() PhysicalSize
	ScaleFactor() float64
}

// SizeWriter requests a new inner size in response to a scale factor
// change. It is only valid for the duration of the callback it was
// passed to.
type SizeWriter interface {
	RequestInnerSize(size PhysicalSize) error
}

// ActiveLoop is the event loop as seen from inside an event callback.
type ActiveLoop interface {
	CreateWindow(attrs Attributes) (NativeWindow, error)
	// Exit asks the loop to stop after the current event. No further
	// events are delivered except Exiting.
	Exit()
}

// Application receives raw platform events from an EventLoop.
type Application interface {
	Resumed(loop ActiveLoop)
	Suspended(loop ActiveLoop)
	WindowEvent(loop ActiveLoop, id WindowID, ev WindowEvent)
	DeviceEvent(loop ActiveLoop, dev DeviceID, ev DeviceEvent)
	// Exiting is the last call an application receives.
	Exiting(loop ActiveLoop)
}

// EventLoop is a poll-mode platform event loop. Run blocks until the loop
// exits and delivers every event on the calling goroutine.
type EventLoop interface {
	Run(app Application) error
}
