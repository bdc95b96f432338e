// Package inhibit keeps the desktop screensaver from starting while a
// window has focus.
//
// Inhibit and Release never block: they record the desired state and a
// worker goroutine reconciles it with the bus, so they are safe to call
// from event loop callbacks.
package inhibit

import (
	"errors"
	"log/slog"
	"sync"

	"winrun/internal/logging"
)

// ErrUnsupported is returned by New on platforms without a screensaver
// inhibition service.
var ErrUnsupported = errors.New("inhibit: not supported on this platform")

// Bus is the screensaver service. Cookies identify an inhibition.
type Bus interface {
	Inhibit(app, reason string) (cookie uint32, err error)
	UnInhibit(cookie uint32) error
	Close() error
}

// Inhibitor serialises inhibition requests onto a Bus.
type Inhibitor struct {
	app string
	bus Bus
	log *slog.Logger

	mu      sync.Mutex
	want    bool
	reason  string
	active  bool
	cookie  uint32
	lastErr error

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

// NewWithBus starts an inhibitor on the given bus.
func NewWithBus(app string, bus Bus) *Inhibitor {
	in := &Inhibitor{
		app:  app,
		bus:  bus,
		log:  logging.Component("inhibit"),
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go in.run()
	return in
}

// Inhibit asks for the screensaver to be held off.
func (in *Inhibitor) Inhibit(reason string) {
	in.mu.Lock()
	in.want = true
	in.reason = reason
	in.mu.Unlock()
	in.signal()
}

// Release drops the inhibition, if any.
func (in *Inhibitor) Release() {
	in.mu.Lock()
	in.want = false
	in.mu.Unlock()
	in.signal()
}

// Active reports whether the bus currently holds an inhibition for us.
func (in *Inhibitor) Active() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.active
}

// Err returns the last bus error.
func (in *Inhibitor) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.lastErr
}

// Close releases any inhibition, stops the worker and closes the bus.
func (in *Inhibitor) Close() error {
	select {
	case <-in.quit:
		return nil
	default:
	}
	close(in.quit)
	<-in.done
	return in.bus.Close()
}

func (in *Inhibitor) signal() {
	select {
	case in.wake <- struct{}{}:
	default:
	}
}

func (in *Inhibitor) run() {
	defer close(in.done)
	for {
		select {
		case <-in.wake:
			in.reconcile(false)
		case <-in.quit:
			in.reconcile(true)
			return
		}
	}
}

// reconcile brings the bus in line with the requested state. When
// closing, any inhibition is released regardless of the request.
func (in *Inhibitor) reconcile(closing bool) {
	in.mu.Lock()
	want := in.want && !closing
	reason := in.reason
	active := in.active
	cookie := in.cookie
	in.mu.Unlock()

	switch {
	case want && !active:
		c, err := in.bus.Inhibit(in.app, reason)
		in.mu.Lock()
		in.lastErr = err
		if err == nil {
			in.active = true
			in.cookie = c
		}
		in.mu.Unlock()
		if err != nil {
			in.log.Warn("screensaver inhibit failed", "error", err)
			return
		}
		in.log.Debug("screensaver inhibited", "cookie", c, "reason", reason)

	case !want && active:
		err := in.bus.UnInhibit(cookie)
		in.mu.Lock()
		in.lastErr = err
		in.active = false
		in.cookie = 0
		in.mu.Unlock()
		if err != nil {
			in.log.Warn("screensaver release failed", "cookie", cookie, "error", err)
			return
		}
		in.log.Debug("screensaver released", "cookie", cookie)
	}
}
