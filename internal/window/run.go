package window

import (
	"errors"
	"fmt"
)

// RunError is returned by Run when the event loop or the window could
// not be started.
type RunError struct {
	Op  string
	Err error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// IsRunError reports whether err is or wraps a *RunError.
func IsRunError(err error) bool {
	var re *RunError
	return errors.As(err, &re)
}

// Run drives h from loop until the window is closed or h.Redraw returns
// false. It returns a *RunError if the loop fails or the window cannot be
// created. Panics raised by h propagate to the caller.
func Run(loop EventLoop, h Handler, title string, opts ...Option) error {
	session := NewSession(h, title, opts...)

	if err := loop.Run(session); err != nil {
		return &RunError{Op: "run", Err: err}
	}
	if err := session.Err(); err != nil {
		return &RunError{Op: "create window", Err: err}
	}
	return nil
}
