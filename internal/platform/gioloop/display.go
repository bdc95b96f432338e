package gioloop

import (
	"errors"
	"os"
	"runtime"
)

// ErrNoDisplay is returned by New when no display server can be reached.
var ErrNoDisplay = errors.New("gioloop: no display available")

// displayAvailable reports whether a window can be opened. Only X11 and
// Wayland systems can be checked up front.
func displayAvailable() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	default:
		return true
	}
}
