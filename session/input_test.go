package session

import (
	"sync"
	"testing"

	"github.com/user-none/retrohost/retro"
)

func TestInputQuery(t *testing.T) {
	in := &InputState{}
	in.Set(0, PortState{
		Buttons:      1<<retro.JoypadA | 1<<retro.JoypadStart,
		Analogs:      [4]int16{100, -200, 300, -400},
		Pointer:      [2]int16{-1000, 2000},
		MouseButtons: MouseButtonLeft,
	})
	in.Set(1, PortState{MouseButtons: MouseButtonRight})

	tests := []struct {
		name   string
		port   uint
		device retro.Device
		index  uint
		id     uint
		want   int16
	}{
		{"button pressed", 0, retro.DeviceJoypad, 0, retro.JoypadA, 1},
		{"button released", 0, retro.DeviceJoypad, 0, retro.JoypadB, 0},
		{"bitmask", 0, retro.DeviceJoypad, 0, retro.JoypadMask, 1<<retro.JoypadA | 1<<retro.JoypadStart},
		{"left x", 0, retro.DeviceAnalog, retro.AnalogLeft, retro.AnalogX, 100},
		{"left y", 0, retro.DeviceAnalog, retro.AnalogLeft, retro.AnalogY, -200},
		{"right x", 0, retro.DeviceAnalog, retro.AnalogRight, retro.AnalogX, 300},
		{"right y", 0, retro.DeviceAnalog, retro.AnalogRight, retro.AnalogY, -400},
		{"analog bad index", 0, retro.DeviceAnalog, 2, 0, 0},
		{"pointer x", 0, retro.DevicePointer, 0, retro.PointerX, -1000},
		{"pointer y", 0, retro.DevicePointer, 0, retro.PointerY, 2000},
		{"pointer pressed", 0, retro.DevicePointer, 0, retro.PointerPressed, 1},
		{"second pointer", 0, retro.DevicePointer, 1, retro.PointerX, 0},
		{"mouse left", 0, retro.DeviceMouse, 0, retro.MouseLeft, 1},
		{"mouse right", 1, retro.DeviceMouse, 0, retro.MouseRight, 1},
		{"mouse right up", 0, retro.DeviceMouse, 0, retro.MouseRight, 0},
		{"keyboard", 0, retro.DeviceKeyboard, 0, 0, 0},
		{"port out of range", 5, retro.DeviceJoypad, 0, retro.JoypadA, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := in.Query(tc.port, tc.device, tc.index, tc.id); got != tc.want {
				t.Errorf("Query = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestInputUpdate(t *testing.T) {
	in := &InputState{}
	in.Update(1, func(p *PortState) { p.Buttons |= 1 << retro.JoypadUp })
	if !in.Get(1).Pressed(retro.JoypadUp) {
		t.Error("update lost")
	}
	in.Update(MaxPorts, func(p *PortState) { t.Error("out of range port edited") })
	if in.Get(-1) != (PortState{}) {
		t.Error("out of range Get should be empty")
	}
}

func TestInputConcurrent(t *testing.T) {
	in := &InputState{}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			in.Set(0, PortState{Buttons: uint16(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			in.Query(0, retro.DeviceJoypad, 0, retro.JoypadMask)
		}
	}()
	wg.Wait()
}

func TestSessionInputState(t *testing.T) {
	h := newHarness(t, newFakeCore(), nil)
	h.s.Input().Set(0, PortState{Buttons: 1 << retro.JoypadB})
	if h.s.InputState(0, retro.DeviceJoypad, 0, retro.JoypadB) != 1 {
		t.Error("session does not answer from InputState")
	}
}
