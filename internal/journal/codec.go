package journal

import (
	"encoding/json"
	"fmt"

	"winrun/internal/window"
)

// Kind is the kind of a journal entry.
type Kind string

const (
	KindResumed      Kind = "resumed"
	KindSuspended    Kind = "suspended"
	KindCreateWindow Kind = "create_window"
	KindWindowEvent  Kind = "window"
	KindDeviceEvent  Kind = "device"
	KindExiting      Kind = "exiting"
)

// scalePayload is stored for ScaleFactorChanged; the size writer is not
// recorded and is supplied again on replay.
type scalePayload struct {
	ScaleFactor float64 `json:"scale_factor"`
}

// EncodeWindowEvent returns the event name and its JSON payload.
func EncodeWindowEvent(ev window.WindowEvent) (string, []byte, error) {
	name := window.EventName(ev)

	var v any = ev
	if e, ok := ev.(window.ScaleFactorChanged); ok {
		v = scalePayload{ScaleFactor: e.ScaleFactor}
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return name, payload, nil
}

// DecodeWindowEvent reverses EncodeWindowEvent. ScaleFactorChanged events
// get writer as their size writer.
func DecodeWindowEvent(name string, payload []byte, writer window.SizeWriter) (window.WindowEvent, error) {
	var ev window.WindowEvent
	var err error

	switch name {
	case "close_requested":
		ev = window.CloseRequested{}
	case "redraw_requested":
		ev = window.RedrawRequested{}
	case "destroyed":
		ev = window.Destroyed{}
	case "resized":
		ev, err = decode[window.Resized](payload)
	case "focused":
		ev, err = decode[window.Focused](payload)
	case "keyboard_input":
		ev, err = decode[window.KeyboardInput](payload)
	case "cursor_moved":
		ev, err = decode[window.CursorMoved](payload)
	case "cursor_entered":
		ev, err = decode[window.CursorEntered](payload)
	case "cursor_left":
		ev, err = decode[window.CursorLeft](payload)
	case "mouse_wheel":
		ev, err = decode[window.MouseWheel](payload)
	case "mouse_input":
		ev, err = decode[window.MouseInput](payload)
	case "touch":
		ev, err = decode[window.TouchInput](payload)
	case "moved":
		ev, err = decode[window.Moved](payload)
	case "modifiers_changed":
		ev, err = decode[window.ModifiersChanged](payload)
	case "occluded":
		ev, err = decode[window.Occluded](payload)
	case "dropped_file":
		ev, err = decode[window.DroppedFile](payload)
	case "scale_factor_changed":
		var p scalePayload
		if err = json.Unmarshal(payload, &p); err == nil {
			ev = window.ScaleFactorChanged{ScaleFactor: p.ScaleFactor, Writer: writer}
		}
	default:
		return nil, fmt.Errorf("unknown window event %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return ev, nil
}

// EncodeDeviceEvent returns the event name and its JSON payload.
func EncodeDeviceEvent(ev window.DeviceEvent) (string, []byte, error) {
	name := window.EventName(ev)
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return name, payload, nil
}

// DecodeDeviceEvent reverses EncodeDeviceEvent.
func DecodeDeviceEvent(name string, payload []byte) (window.DeviceEvent, error) {
	var ev window.DeviceEvent
	var err error

	switch name {
	case "mouse_motion":
		ev, err = decode[window.MouseMotion](payload)
	case "device_added":
		ev = window.DeviceAdded{}
	case "device_removed":
		ev = window.DeviceRemoved{}
	case "device_button":
		ev, err = decode[window.DeviceButton](payload)
	default:
		return nil, fmt.Errorf("unknown device event %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return ev, nil
}

func decode[T any](payload []byte) (T, error) {
	var v T
	err := json.Unmarshal(payload, &v)
	return v, err
}
