package session

import (
	"sync"

	"github.com/user-none/retrohost/retro"
)

// MaxPorts is the number of controller ports served.
const MaxPorts = 2

// Mouse button bits in PortState.MouseButtons.
const (
	MouseButtonLeft uint8 = 1 << iota
	MouseButtonRight
)

// PortState is the input snapshot of one port.
type PortState struct {
	// Buttons has bit N set when joypad id N is pressed.
	Buttons uint16
	// Analogs is left X, left Y, right X, right Y.
	Analogs [4]int16
	// Pointer is X, Y in libretro screen coordinates [-0x7fff, 0x7fff].
	Pointer      [2]int16
	MouseButtons uint8
}

// Pressed reports whether joypad button id is down.
func (p PortState) Pressed(id uint) bool {
	return id < 16 && p.Buttons&(1<<id) != 0
}

// InputState is written by the frontend and read by the core. It is safe
// for concurrent use.
type InputState struct {
	mu    sync.Mutex
	ports [MaxPorts]PortState
}

// Set replaces the snapshot of port. Out of range ports are ignored.
func (in *InputState) Set(port int, st PortState) {
	if port < 0 || port >= MaxPorts {
		return
	}
	in.mu.Lock()
	in.ports[port] = st
	in.mu.Unlock()
}

// Update edits the snapshot of port in place.
func (in *InputState) Update(port int, fn func(*PortState)) {
	if port < 0 || port >= MaxPorts {
		return
	}
	in.mu.Lock()
	fn(&in.ports[port])
	in.mu.Unlock()
}

// Get returns a copy of the snapshot of port.
func (in *InputState) Get(port int) PortState {
	if port < 0 || port >= MaxPorts {
		return PortState{}
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.ports[port]
}

// Query answers an input_state callback.
func (in *InputState) Query(port uint, device retro.Device, index, id uint) int16 {
	if port >= MaxPorts {
		return 0
	}
	p := in.Get(int(port))

	switch device {
	case retro.DeviceJoypad:
		if id == retro.JoypadMask {
			return int16(p.Buttons)
		}
		if p.Pressed(id) {
			return 1
		}
	case retro.DeviceAnalog:
		if index < 2 && id < 2 {
			return p.Analogs[index*2+id]
		}
	case retro.DevicePointer:
		if index != 0 {
			return 0
		}
		switch id {
		case retro.PointerX, retro.PointerY:
			return p.Pointer[id]
		case retro.PointerPressed:
			if p.MouseButtons&MouseButtonLeft != 0 {
				return 1
			}
		}
	case retro.DeviceMouse:
		switch id {
		case retro.MouseLeft:
			if p.MouseButtons&MouseButtonLeft != 0 {
				return 1
			}
		case retro.MouseRight:
			if p.MouseButtons&MouseButtonRight != 0 {
				return 1
			}
		}
	}
	return 0
}
