package window

// Queries are asked by the session before the window exists, except
// CursorShouldBeVisible which is polled on every redraw tick.
type Queries interface {
	// MinSize returns the smallest inner size, in pixels, the window may
	// be resized to.
	MinSize() (width, height uint16)

	// StartSize returns the inner size, in pixels, of the window when it
	// is first created.
	StartSize() (width, height uint16)

	// CursorShouldBeVisible reports whether the pointer should be shown
	// over the window. The handler may change its answer at any time; the
	// platform cursor follows within one redraw tick.
	CursorShouldBeVisible() bool
}

// LifecycleHandler receives window lifecycle callbacks.
type LifecycleHandler interface {
	// Redraw is called once per redraw tick. Returning false ends the
	// run loop.
	Redraw() bool

	GotFocus()

	// LostFocus is a good place to pause audio or lower the frame rate.
	LostFocus()

	// WindowCreated is called exactly once, after the native window
	// exists. The handler may keep w to create rendering resources or
	// request redraws.
	WindowCreated(w NativeWindow)

	// Resized is called with the new inner size in physical pixels. A
	// redraw is requested right after it returns.
	Resized(size PhysicalSize)
}

// KeyboardHandler receives key presses and releases.
type KeyboardHandler interface {
	KeyboardInput(state ElementState, key PhysicalKey)
}

// PointerHandler receives cursor, button, wheel and raw motion input.
type PointerHandler interface {
	CursorEntered()
	CursorLeft()

	// CursorMoved is only called while the cursor is visible.
	CursorMoved(position PhysicalPosition)

	MouseInput(state ElementState, button MouseButton)
	MouseWheel(delta ScrollDelta, phase TouchPhase)

	// MouseMotion reports raw device motion and is only called while the
	// window has focus. The delta follows no standard unit; scale it as
	// the application sees fit.
	MouseMotion(dx, dy float64)
}

// TouchHandler receives touch point updates.
type TouchHandler interface {
	Touch(touch Touch)
}

// EnvironmentHandler receives display environment changes.
type EnvironmentHandler interface {
	// ScaleFactorChanged is called when the display DPI changes or the
	// window moves to a display with a different scale. The writer may be
	// used before returning to request a new inner size; its error is for
	// the handler to act on.
	ScaleFactorChanged(scaleFactor float64, writer SizeWriter)
}

// Handler is implemented by applications driven by Run. Callbacks return
// no errors; a panic in any of them propagates out of Run.
type Handler interface {
	Queries
	LifecycleHandler
	KeyboardHandler
	PointerHandler
	TouchHandler
	EnvironmentHandler
}

// NopHandler implements Handler with no-op callbacks, a 640x480 window and
// a visible cursor. Embed it and override what you need.
type NopHandler struct{}

func (NopHandler) MinSize() (uint16, uint16)               { return 640, 480 }
func (NopHandler) StartSize() (uint16, uint16)             { return 640, 480 }
func (NopHandler) CursorShouldBeVisible() bool             { return true }
func (NopHandler) Redraw() bool                            { return true }
func (NopHandler) GotFocus()                               {}
func (NopHandler) LostFocus()                              {}
func (NopHandler) WindowCreated(NativeWindow)              {}
func (NopHandler) Resized(PhysicalSize)                    {}
func (NopHandler) KeyboardInput(ElementState, PhysicalKey) {}
func (NopHandler) CursorEntered()                          {}
func (NopHandler) CursorLeft()                             {}
func (NopHandler) CursorMoved(PhysicalPosition)            {}
func (NopHandler) MouseInput(ElementState, MouseButton)    {}
func (NopHandler) MouseWheel(ScrollDelta, TouchPhase)      {}
func (NopHandler) MouseMotion(float64, float64)            {}
func (NopHandler) Touch(Touch)                             {}
func (NopHandler) ScaleFactorChanged(float64, SizeWriter)  {}

var _ Handler = NopHandler{}
