//go:build linux

package inhibit

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverName  = "org.freedesktop.ScreenSaver"
	screenSaverPath  = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
	screenSaverIface = "org.freedesktop.ScreenSaver"
)

// New connects to the session bus and returns an inhibitor that talks
// to org.freedesktop.ScreenSaver. app is the application name shown by
// the desktop.
func New(app string) (*Inhibitor, error) {
	bus, err := dialSessionBus()
	if err != nil {
		return nil, err
	}
	return NewWithBus(app, bus), nil
}

type sessionBus struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func dialSessionBus() (*sessionBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	var owned bool
	if err := conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, screenSaverName).Store(&owned); err != nil {
		conn.Close()
		return nil, fmt.Errorf("query %s: %w", screenSaverName, err)
	}
	if !owned {
		conn.Close()
		return nil, fmt.Errorf("%w: %s has no owner", ErrUnsupported, screenSaverName)
	}

	return &sessionBus{conn: conn, obj: conn.Object(screenSaverName, screenSaverPath)}, nil
}

func (b *sessionBus) Inhibit(app, reason string) (uint32, error) {
	var cookie uint32
	if err := b.obj.Call(screenSaverIface+".Inhibit", 0, app, reason).Store(&cookie); err != nil {
		return 0, fmt.Errorf("ScreenSaver.Inhibit: %w", err)
	}
	return cookie, nil
}

func (b *sessionBus) UnInhibit(cookie uint32) error {
	if err := b.obj.Call(screenSaverIface+".UnInhibit", 0, cookie).Err; err != nil {
		return fmt.Errorf("ScreenSaver.UnInhibit: %w", err)
	}
	return nil
}

func (b *sessionBus) Close() error {
	return b.conn.Close()
}
