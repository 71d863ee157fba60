package frontend

import (
	"errors"
	"testing"

	"github.com/user-none/retrohost/control"
	"github.com/user-none/retrohost/gfx"
)

type fakeTarget struct {
	paused bool
	calls  []string
	err    error
	slot   int
}

func (f *fakeTarget) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeTarget) Paused() bool          { return f.paused }
func (f *fakeTarget) SetPaused(paused bool) { f.paused = paused }
func (f *fakeTarget) Reset() error          { return f.record("reset") }
func (f *fakeTarget) SaveState(string) error {
	return f.record("save_state")
}
func (f *fakeTarget) LoadState(string) error {
	return f.record("load_state")
}
func (f *fakeTarget) SaveSlot() error { return f.record("save_slot") }
func (f *fakeTarget) LoadSlot() error { return f.record("load_slot") }
func (f *fakeTarget) SaveBoth(string, string) error {
	return f.record("save_both")
}
func (f *fakeTarget) Screenshot(string) error { return f.record("screenshot") }
func (f *fakeTarget) SetOption(string, string) error {
	return f.record("set_option")
}

func (f *fakeTarget) NextSlot() int {
	f.slot++
	return f.slot
}

func (f *fakeTarget) PreviousSlot() int {
	f.slot--
	return f.slot
}

func TestHotkeyFor(t *testing.T) {
	tests := []struct {
		key   string
		shift bool
		want  Hotkey
	}{
		{"F12", false, HotkeyScreenshot},
		{"F12", true, HotkeyClipboard},
		{"F2", false, HotkeySaveSlot},
		{"F4", false, HotkeyLoadSlot},
		{"F6", false, HotkeyPrevSlot},
		{"F7", false, HotkeyNextSlot},
		{"P", false, HotkeyPause},
		{"Z", false, HotkeyNone},
		{"F1", false, HotkeyNone},
	}
	for _, tc := range tests {
		if got := HotkeyFor(tc.key, tc.shift); got != tc.want {
			t.Errorf("HotkeyFor(%q, %v) = %v, want %v", tc.key, tc.shift, got, tc.want)
		}
	}
}

func TestActionsTrigger(t *testing.T) {
	tests := []struct {
		hotkey Hotkey
		want   string
	}{
		{HotkeyScreenshot, "screenshot"},
		{HotkeySaveSlot, "save_slot"},
		{HotkeyLoadSlot, "load_slot"},
	}
	for _, tc := range tests {
		t.Run(tc.hotkey.String(), func(t *testing.T) {
			target := &fakeTarget{}
			a := &Actions{Dispatcher: &control.Dispatcher{Target: target, ScreenshotDir: t.TempDir()}}
			if err := a.Trigger(tc.hotkey); err != nil {
				t.Fatalf("Trigger: %v", err)
			}
			if len(target.calls) != 1 || target.calls[0] != tc.want {
				t.Errorf("calls = %v, want [%s]", target.calls, tc.want)
			}
		})
	}
}

func TestActionsPauseToggles(t *testing.T) {
	target := &fakeTarget{}
	a := &Actions{Dispatcher: &control.Dispatcher{Target: target}}

	a.Trigger(HotkeyPause)
	if !target.paused {
		t.Fatal("first press should pause")
	}
	a.Trigger(HotkeyPause)
	if target.paused {
		t.Fatal("second press should resume")
	}
}

func TestActionsSlots(t *testing.T) {
	target := &fakeTarget{slot: 3}
	a := &Actions{Dispatcher: &control.Dispatcher{Target: target}}
	a.Trigger(HotkeyNextSlot)
	a.Trigger(HotkeyNextSlot)
	a.Trigger(HotkeyPrevSlot)
	if target.slot != 4 {
		t.Errorf("slot = %d, want 4", target.slot)
	}
}

func TestActionsErrors(t *testing.T) {
	target := &fakeTarget{err: errors.New("disk full")}
	a := &Actions{Dispatcher: &control.Dispatcher{Target: target}}
	if err := a.Trigger(HotkeySaveSlot); err == nil {
		t.Error("expected save failure to surface")
	}
	if err := a.Trigger(HotkeyClipboard); err == nil {
		t.Error("expected error without a clipboard func")
	}

	copied := 0
	a.Clipboard = func() error {
		copied++
		return nil
	}
	if err := a.Trigger(HotkeyClipboard); err != nil || copied != 1 {
		t.Errorf("clipboard: err=%v copied=%d", err, copied)
	}
}

func TestRewindHold(t *testing.T) {
	var r RewindHold
	if r.Update(false) != 0 || r.Active() {
		t.Fatal("released key must not rewind")
	}
	if got := r.Update(true); got != 1 {
		t.Errorf("first held tick = %d, want 1", got)
	}
	total := 0
	for i := 0; i < 70; i++ {
		total += r.Update(true)
	}
	if total == 0 || !r.Active() {
		t.Errorf("holding produced %d steps", total)
	}
	if got := r.Update(true); got != 2 {
		t.Errorf("long hold = %d steps, want 2", got)
	}
	r.Update(false)
	if r.Active() {
		t.Error("release should reset")
	}
	if got := r.Update(true); got != 1 {
		t.Errorf("press after release = %d, want 1", got)
	}
}

func TestPointerPosition(t *testing.T) {
	vp := gfx.Rect{X: 100, Y: 0, W: 400, H: 300}
	tests := []struct {
		name   string
		x, y   int
		px, py int16
		ok     bool
	}{
		{"center", 300, 150, 0, 0, true},
		{"top left", 100, 0, -0x7fff, -0x7fff, true},
		{"left of frame", 99, 150, 0, 0, false},
		{"below frame", 300, 300, 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			px, py, ok := PointerPosition(tc.x, tc.y, vp)
			if ok != tc.ok || px != tc.px || py != tc.py {
				t.Errorf("PointerPosition(%d, %d) = %d, %d, %v; want %d, %d, %v",
					tc.x, tc.y, px, py, ok, tc.px, tc.py, tc.ok)
			}
		})
	}
	if _, _, ok := PointerPosition(0, 0, gfx.Rect{}); ok {
		t.Error("empty viewport must not hit")
	}
}

func TestAxisValue(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1, 0x7fff},
		{-1.5, -0x7fff},
		{0.5, 0x3fff},
	}
	for _, tc := range tests {
		if got := AxisValue(tc.in); got != tc.want {
			t.Errorf("AxisValue(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestDefaultBindings(t *testing.T) {
	keys := make(map[string]string)
	ids := make(map[uint]bool)
	for _, b := range DefaultBindings {
		if ids[b.ID] {
			t.Errorf("button %s bound twice", b.Name)
		}
		ids[b.ID] = true
		if b.Key == "" {
			continue
		}
		if ReservedKeys[b.Key] {
			t.Errorf("%s uses reserved key %s", b.Name, b.Key)
		}
		if other, ok := keys[b.Key]; ok {
			t.Errorf("key %s bound to %s and %s", b.Key, other, b.Name)
		}
		keys[b.Key] = b.Name
	}
	if len(ids) != 16 {
		t.Errorf("%d buttons bound, want 16", len(ids))
	}
}
