// Package frontend holds what the window backends share: the default
// keymap, hotkeys, rewind hold tracking and the per-tick driver.
package frontend

import (
	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/retro"
)

// Binding ties a joypad button to a keyboard key name and a standard
// gamepad button name. Backends resolve the names to their own codes.
type Binding struct {
	Name string
	ID   uint
	Key  string
	Pad  string
}

// DefaultBindings is the fixed keymap of port 0. Gamepad names follow the
// Xbox layout, so the core's B (bottom face button) is pad "A".
var DefaultBindings = []Binding{
	{"Up", retro.JoypadUp, "ArrowUp", "DpadUp"},
	{"Down", retro.JoypadDown, "ArrowDown", "DpadDown"},
	{"Left", retro.JoypadLeft, "ArrowLeft", "DpadLeft"},
	{"Right", retro.JoypadRight, "ArrowRight", "DpadRight"},
	{"B", retro.JoypadB, "Z", "A"},
	{"A", retro.JoypadA, "X", "B"},
	{"Y", retro.JoypadY, "A", "X"},
	{"X", retro.JoypadX, "S", "Y"},
	{"L", retro.JoypadL, "Q", "L1"},
	{"R", retro.JoypadR, "W", "R1"},
	{"L2", retro.JoypadL2, "1", "L2"},
	{"R2", retro.JoypadR2, "2", "R2"},
	{"L3", retro.JoypadL3, "", "L3"},
	{"R3", retro.JoypadR3, "", "R3"},
	{"Select", retro.JoypadSelect, "Space", "Select"},
	{"Start", retro.JoypadStart, "Enter", "Start"},
}

// ReservedKeys are used by hotkeys and never drive the joypad.
var ReservedKeys = map[string]bool{
	"R":     true, // Rewind
	"P":     true, // Pause
	"F2":    true, // Save slot
	"F4":    true, // Load slot
	"F6":    true, // Previous slot
	"F7":    true, // Next slot
	"F12":   true, // Screenshot
	"Shift": true,
}

// RewindKey is held to step back through the rewind history.
const RewindKey = "R"

// AnalogThreshold is how far a stick must move to press a direction.
const AnalogThreshold = 0.25

// AxisValue scales a stick axis in [-1, 1] to the core's analog range.
func AxisValue(v float64) int16 {
	switch {
	case v >= 1:
		return 0x7fff
	case v <= -1:
		return -0x7fff
	}
	return int16(v * 0x7fff)
}

// PointerPosition maps window coordinates to pointer coordinates over the
// frame viewport, each in [-0x7fff, 0x7fff]. ok is false when the point is
// outside the viewport.
func PointerPosition(x, y int, vp gfx.Rect) (px, py int16, ok bool) {
	if vp.W <= 0 || vp.H <= 0 {
		return 0, 0, false
	}
	if x < vp.X || y < vp.Y || x >= vp.X+vp.W || y >= vp.Y+vp.H {
		return 0, 0, false
	}
	scale := func(off, size int) int16 {
		v := off*0x10000/size - 0x8000
		return int16(max(-0x7fff, min(0x7fff, v)))
	}
	return scale(x-vp.X, vp.W), scale(y-vp.Y, vp.H), true
}
