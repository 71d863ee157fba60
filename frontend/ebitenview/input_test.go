package ebitenview

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/retrohost/frontend"
	"github.com/user-none/retrohost/retro"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		want ebiten.Key
		ok   bool
	}{
		{"Z", ebiten.KeyZ, true},
		{"Enter", ebiten.KeyEnter, true},
		{"ArrowUp", ebiten.KeyArrowUp, true},
		{"F12", ebiten.KeyF12, true},
		{"enter", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		k, ok := ParseKey(tt.name)
		if ok != tt.ok || (ok && k != tt.want) {
			t.Errorf("ParseKey(%q) = %v, %v; want %v, %v", tt.name, k, ok, tt.want, tt.ok)
		}
	}
}

func TestParsePad(t *testing.T) {
	tests := []struct {
		name string
		want ebiten.StandardGamepadButton
	}{
		{"A", ebiten.StandardGamepadButtonRightBottom},
		{"B", ebiten.StandardGamepadButtonRightRight},
		{"Start", ebiten.StandardGamepadButtonCenterRight},
		{"DpadLeft", ebiten.StandardGamepadButtonLeftLeft},
	}
	for _, tt := range tests {
		b, ok := ParsePad(tt.name)
		if !ok || b != tt.want {
			t.Errorf("ParsePad(%q) = %v, %v; want %v", tt.name, b, ok, tt.want)
		}
	}
	if _, ok := ParsePad("start"); ok {
		t.Error("pad names are case sensitive")
	}
}

func TestBuildMappingDefaults(t *testing.T) {
	m := BuildMapping(frontend.DefaultBindings)

	if m.Keys[retro.JoypadB] != ebiten.KeyZ {
		t.Errorf("B key = %v, want Z", m.Keys[retro.JoypadB])
	}
	if m.Keys[retro.JoypadStart] != ebiten.KeyEnter {
		t.Errorf("Start key = %v, want Enter", m.Keys[retro.JoypadStart])
	}
	if _, ok := m.Keys[retro.JoypadL3]; ok {
		t.Error("L3 has no keyboard binding")
	}
	if m.Gamepad[retro.JoypadB] != ebiten.StandardGamepadButtonRightBottom {
		t.Errorf("B pad = %v", m.Gamepad[retro.JoypadB])
	}
	if len(m.Gamepad) != 16 {
		t.Errorf("%d pad bindings, want 16", len(m.Gamepad))
	}
}

func TestBuildMappingSkipsReserved(t *testing.T) {
	m := BuildMapping([]frontend.Binding{
		{Name: "A", ID: retro.JoypadA, Key: "R"},
		{Name: "B", ID: retro.JoypadB, Key: "Nope", Pad: "Nope"},
		{Name: "Y", ID: retro.JoypadY, Key: "A"},
	})
	if _, ok := m.Keys[retro.JoypadA]; ok {
		t.Error("reserved rewind key must not be bound")
	}
	if _, ok := m.Keys[retro.JoypadB]; ok {
		t.Error("unknown key must be skipped")
	}
	if len(m.Gamepad) != 0 {
		t.Errorf("gamepad = %v, want empty", m.Gamepad)
	}
	if m.Keys[retro.JoypadY] != ebiten.KeyA {
		t.Error("valid key missing")
	}
}

func TestHotkeyKeysResolve(t *testing.T) {
	for _, name := range hotkeyKeys {
		if _, ok := ParseKey(name); !ok {
			t.Errorf("hotkey %s has no ebiten key", name)
		}
		if frontend.HotkeyFor(name, false) == frontend.HotkeyNone {
			t.Errorf("%s is not a hotkey", name)
		}
	}
}

func TestGPURefusesFramebuffers(t *testing.T) {
	g := NewGPU()
	if g.SupportsFramebuffers() {
		t.Fatal("ebiten GPU must not offer framebuffers")
	}
	if _, err := g.NewFramebuffer(1, 1, 1, false, false); err == nil {
		t.Error("NewFramebuffer should fail")
	}
	if _, err := g.ReadPixels(1, 1, 1); err == nil {
		t.Error("ReadPixels should fail")
	}
}

func TestGPUCompileProgram(t *testing.T) {
	g := NewGPU()
	p, err := g.CompileProgram("normal", []string{"COLORSPACE_XRGB8888"})
	if err != nil || p == 0 {
		t.Fatalf("CompileProgram = %d, %v", p, err)
	}
	if _, err := g.CompileProgram("missing", nil); err == nil {
		t.Error("unknown program should fail")
	}
}
