package session

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/user-none/retrohost/audio"
	"github.com/user-none/retrohost/gfx/gfxtest"
	"github.com/user-none/retrohost/retro"
)

// fakeCore is a core made of closures. The hooks run inside the core
// binding, so they may issue environment calls through retro.Dispatch*.
type fakeCore struct {
	calls []string

	info retro.SystemInfo
	av   retro.AVInfo

	state        []byte
	stateSize    int
	rejectState  bool
	rejectGame   bool
	unserialized [][]byte
	game         retro.GameInfo
	sram         []byte

	onInit     func()
	onRun      func()
	onLoadGame func()
	runs       int

	plugin *fakePlugin
}

func newFakeCore() *fakeCore {
	return &fakeCore{
		info: retro.SystemInfo{
			LibraryName:     "fake",
			LibraryVersion:  "1.0",
			ValidExtensions: "bin|rom",
		},
		av: retro.AVInfo{
			Geometry: retro.Geometry{BaseWidth: 256, BaseHeight: 224, MaxWidth: 512, MaxHeight: 448, AspectRatio: 4.0 / 3.0},
			Timing:   retro.Timing{FPS: 60, SampleRate: 44100},
		},
		state:     []byte{1, 2, 3, 4, 5, 6, 7, 8},
		stateSize: 8,
	}
}

func (f *fakeCore) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeCore) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeCore) table() *retro.Core {
	return &retro.Core{
		RegisterCallbacks: func() { f.record("register") },
		Init: func() {
			f.record("init")
			if f.onInit != nil {
				f.onInit()
			}
		},
		Deinit:          func() { f.record("deinit") },
		APIVersion:      func() uint { return retro.APIVersion },
		GetSystemInfo:   func() retro.SystemInfo { return f.info },
		GetSystemAVInfo: func() retro.AVInfo { return f.av },
		SetControllerPortDevice: func(port uint, device retro.Device) {
			f.record("set_controller")
		},
		Reset: func() { f.record("reset") },
		Run: func() {
			if !retro.Bound() {
				panic("run called outside of a binding")
			}
			f.record("run")
			f.runs++
			if f.onRun != nil {
				f.onRun()
			}
		},
		SerializeSize: func() int { return f.stateSize },
		Serialize: func(buf []byte) bool {
			f.record("serialize")
			if f.rejectState {
				return false
			}
			copy(buf, f.state)
			return true
		},
		Unserialize: func(buf []byte) bool {
			f.record("unserialize")
			if f.rejectState {
				return false
			}
			f.unserialized = append(f.unserialized, append([]byte(nil), buf...))
			return true
		},
		LoadGame: func(game retro.GameInfo) bool {
			f.record("load_game")
			f.game = game
			if f.onLoadGame != nil {
				f.onLoadGame()
			}
			return !f.rejectGame
		},
		UnloadGame:    func() { f.record("unload_game") },
		GetMemoryData: func(id uint) []byte { return f.sram },
		GetMemorySize: func(id uint) int { return len(f.sram) },
	}
}

type fakePlugin struct {
	path   string
	core   *retro.Core
	closes int
}

func (p *fakePlugin) Path() string               { return p.path }
func (p *fakePlugin) Bind() (*retro.Core, error) { return p.core, nil }

func (p *fakePlugin) Close() error {
	p.closes++
	return nil
}

// opener returns an Opener serving fc for any path except "missing.so".
func (f *fakeCore) opener() retro.Opener {
	return retro.OpenerFunc(func(path string) (retro.Plugin, error) {
		if path == "missing.so" {
			return nil, os.ErrNotExist
		}
		f.plugin = &fakePlugin{path: path, core: f.table()}
		return f.plugin, nil
	})
}

type fakeAudio struct {
	opens      int
	configured []int
	written    int
}

func (a *fakeAudio) open() (audio.Device, error) {
	a.opens++
	return a, nil
}

func (a *fakeAudio) Configure(rate int) (int, error) {
	a.configured = append(a.configured, rate)
	return 1024, nil
}

func (a *fakeAudio) Write(samples []int16) (int, error) {
	a.written += len(samples) / 2
	return len(samples) / 2, nil
}

func (a *fakeAudio) Recover(error) error { return nil }
func (a *fakeAudio) Close() error        { return nil }

type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	onNext time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.onNext)
	return t
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
}

type memoryStore struct {
	values map[string]map[string]string
	saves  int
}

func (m *memoryStore) LoadCoreOptions(core string) (map[string]string, error) {
	if v, ok := m.values[core]; ok {
		return v, nil
	}
	return nil, errors.New("not found")
}

func (m *memoryStore) SaveCoreOptions(core string, values map[string]string) error {
	if m.values == nil {
		m.values = map[string]map[string]string{}
	}
	m.values[core] = values
	m.saves++
	return nil
}

type harness struct {
	s       *Session
	core    *fakeCore
	gpu     *gfxtest.GPU
	surface *gfxtest.Surface
	audio   *fakeAudio
	clock   *fakeClock
	events  []Event
}

func newHarness(t *testing.T, fc *fakeCore, edit func(*Config)) *harness {
	t.Helper()
	h := &harness{
		core:    fc,
		gpu:     gfxtest.New(),
		surface: &gfxtest.Surface{W: 640, H: 480},
		audio:   &fakeAudio{},
		clock:   &fakeClock{now: time.Unix(1000, 0)},
	}
	cfg := Config{
		Opener:  fc.opener(),
		GPU:     h.gpu,
		Surface: h.surface,
		Audio:   h.audio.open,
		Dirs:    Dirs{System: "/sys", Save: t.TempDir(), Assets: "/assets"},
		Clock:   h.clock,
	}
	if edit != nil {
		edit(&cfg)
	}
	h.s = New(cfg)
	h.s.Subscribe(func(ev Event) { h.events = append(h.events, ev) })
	t.Cleanup(func() { h.s.Close() })
	return h
}

func (h *harness) loadCore(t *testing.T) {
	t.Helper()
	if err := h.s.LoadCore("/cores/fake_libretro.so"); err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
}

// loadGame loads the core and a small game file.
func (h *harness) loadGame(t *testing.T) string {
	t.Helper()
	h.loadCore(t)
	path := writeFile(t, "game.bin", []byte("ROMDATA"))
	if err := h.s.LoadGame(path); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	return path
}

func (h *harness) eventsOf(kind string) []Event {
	var out []Event
	for _, ev := range h.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := t.TempDir() + "/" + name
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
