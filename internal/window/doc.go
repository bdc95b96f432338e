// Package window turns a platform event loop into a small callback
// interface for real-time graphical applications.
//
// An EventLoop delivers raw events to a Session, which owns exactly one
// native window and forwards the events to a Handler. The session keeps
// the loop redrawing continuously, applies the handler's cursor
// visibility once per change and only forwards raw mouse motion while the
// window has focus.
//
// Handlers usually embed NopHandler:
//
//	type game struct {
//		window.NopHandler
//		frames int
//	}
//
//	func (g *game) Redraw() bool {
//		g.frames++
//		return g.frames < 600
//	}
//
//	err := window.Run(loop, &game{}, "game")
package window
