package ebitenview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/user-none/retrohost/frontend"
	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/session"
)

// keyNameMap maps key names used by the keymap to ebiten keys.
var keyNameMap = map[string]ebiten.Key{
	"A":          ebiten.KeyA,
	"P":          ebiten.KeyP,
	"Q":          ebiten.KeyQ,
	"R":          ebiten.KeyR,
	"S":          ebiten.KeyS,
	"W":          ebiten.KeyW,
	"X":          ebiten.KeyX,
	"Z":          ebiten.KeyZ,
	"1":          ebiten.Key1,
	"2":          ebiten.Key2,
	"Enter":      ebiten.KeyEnter,
	"Space":      ebiten.KeySpace,
	"Shift":      ebiten.KeyShift,
	"ArrowUp":    ebiten.KeyArrowUp,
	"ArrowDown":  ebiten.KeyArrowDown,
	"ArrowLeft":  ebiten.KeyArrowLeft,
	"ArrowRight": ebiten.KeyArrowRight,
	"F2":         ebiten.KeyF2,
	"F4":         ebiten.KeyF4,
	"F6":         ebiten.KeyF6,
	"F7":         ebiten.KeyF7,
	"F12":        ebiten.KeyF12,
}

// padNameMap maps gamepad button names to standard gamepad buttons.
var padNameMap = map[string]ebiten.StandardGamepadButton{
	"A":         ebiten.StandardGamepadButtonRightBottom,
	"B":         ebiten.StandardGamepadButtonRightRight,
	"X":         ebiten.StandardGamepadButtonRightLeft,
	"Y":         ebiten.StandardGamepadButtonRightTop,
	"L1":        ebiten.StandardGamepadButtonFrontTopLeft,
	"R1":        ebiten.StandardGamepadButtonFrontTopRight,
	"L2":        ebiten.StandardGamepadButtonFrontBottomLeft,
	"R2":        ebiten.StandardGamepadButtonFrontBottomRight,
	"L3":        ebiten.StandardGamepadButtonLeftStick,
	"R3":        ebiten.StandardGamepadButtonRightStick,
	"Start":     ebiten.StandardGamepadButtonCenterRight,
	"Select":    ebiten.StandardGamepadButtonCenterLeft,
	"DpadUp":    ebiten.StandardGamepadButtonLeftTop,
	"DpadDown":  ebiten.StandardGamepadButtonLeftBottom,
	"DpadLeft":  ebiten.StandardGamepadButtonLeftLeft,
	"DpadRight": ebiten.StandardGamepadButtonLeftRight,
}

// hotkeyKeys are checked for just-pressed each tick.
var hotkeyKeys = []string{"F2", "F4", "F6", "F7", "F12", "P"}

// ParseKey converts a key name to an ebiten key.
func ParseKey(name string) (ebiten.Key, bool) {
	k, ok := keyNameMap[name]
	return k, ok
}

// ParsePad converts a gamepad button name to a standard gamepad button.
func ParsePad(name string) (ebiten.StandardGamepadButton, bool) {
	b, ok := padNameMap[name]
	return b, ok
}

// InputMapping maps joypad ids to ebiten inputs.
type InputMapping struct {
	Keys    map[uint]ebiten.Key
	Gamepad map[uint]ebiten.StandardGamepadButton
}

// BuildMapping resolves bindings to ebiten inputs. Reserved and unknown
// key names are skipped.
func BuildMapping(bindings []frontend.Binding) InputMapping {
	m := InputMapping{
		Keys:    make(map[uint]ebiten.Key),
		Gamepad: make(map[uint]ebiten.StandardGamepadButton),
	}
	for _, b := range bindings {
		if b.Key != "" && !frontend.ReservedKeys[b.Key] {
			if k, ok := ParseKey(b.Key); ok {
				m.Keys[b.ID] = k
			}
		}
		if b.Pad != "" {
			if p, ok := ParsePad(b.Pad); ok {
				m.Gamepad[b.ID] = p
			}
		}
	}
	return m
}

// pollPort reads one port. Keyboard and mouse only feed port 0.
func pollPort(m InputMapping, pad ebiten.GamepadID, hasPad, keyboard bool, vp gfx.Rect) session.PortState {
	var st session.PortState

	if keyboard {
		for id, key := range m.Keys {
			if ebiten.IsKeyPressed(key) {
				st.Buttons |= 1 << id
			}
		}
		x, y := ebiten.CursorPosition()
		if px, py, ok := frontend.PointerPosition(x, y, vp); ok {
			st.Pointer = [2]int16{px, py}
		}
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			st.MouseButtons |= session.MouseButtonLeft
		}
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
			st.MouseButtons |= session.MouseButtonRight
		}
	}

	if !hasPad || !ebiten.IsStandardGamepadLayoutAvailable(pad) {
		return st
	}
	for id, btn := range m.Gamepad {
		if ebiten.IsStandardGamepadButtonPressed(pad, btn) {
			st.Buttons |= 1 << id
		}
	}

	axes := [4]ebiten.StandardGamepadAxis{
		ebiten.StandardGamepadAxisLeftStickHorizontal,
		ebiten.StandardGamepadAxisLeftStickVertical,
		ebiten.StandardGamepadAxisRightStickHorizontal,
		ebiten.StandardGamepadAxisRightStickVertical,
	}
	for i, axis := range axes {
		st.Analogs[i] = frontend.AxisValue(ebiten.StandardGamepadAxisValue(pad, axis))
	}

	// The left stick also drives whatever the d-pad is bound to.
	axisX := ebiten.StandardGamepadAxisValue(pad, axes[0])
	axisY := ebiten.StandardGamepadAxisValue(pad, axes[1])
	for id, btn := range m.Gamepad {
		switch {
		case btn == ebiten.StandardGamepadButtonLeftLeft && axisX < -frontend.AnalogThreshold,
			btn == ebiten.StandardGamepadButtonLeftRight && axisX > frontend.AnalogThreshold,
			btn == ebiten.StandardGamepadButtonLeftTop && axisY < -frontend.AnalogThreshold,
			btn == ebiten.StandardGamepadButtonLeftBottom && axisY > frontend.AnalogThreshold:
			st.Buttons |= 1 << id
		}
	}
	return st
}

// pollInput writes both ports: port 0 is the keyboard, mouse and first
// gamepad, port 1 the second gamepad.
func pollInput(in *session.InputState, m InputMapping, vp gfx.Rect) {
	pads := ebiten.AppendGamepadIDs(nil)
	for port := 0; port < session.MaxPorts; port++ {
		var pad ebiten.GamepadID
		hasPad := port < len(pads)
		if hasPad {
			pad = pads[port]
		}
		in.Set(port, pollPort(m, pad, hasPad, port == 0, vp))
	}
}

// pollHotkeys returns the hotkeys pressed this tick.
func pollHotkeys() []frontend.Hotkey {
	var out []frontend.Hotkey
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, name := range hotkeyKeys {
		if inpututil.IsKeyJustPressed(keyNameMap[name]) {
			if h := frontend.HotkeyFor(name, shift); h != frontend.HotkeyNone {
				out = append(out, h)
			}
		}
	}
	return out
}
