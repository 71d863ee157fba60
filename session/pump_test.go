package session

import (
	"slices"
	"testing"
	"time"

	"github.com/user-none/retrohost/render"
	"github.com/user-none/retrohost/retro"
)

func TestStepWithoutGame(t *testing.T) {
	h := newHarness(t, newFakeCore(), nil)
	h.loadCore(t)
	h.s.Step()
	if h.surface.Swaps != 0 || len(h.gpu.Draws) != 0 {
		t.Errorf("swaps = %d, draws = %d; want none", h.surface.Swaps, len(h.gpu.Draws))
	}
}

func TestStepFrameSkip(t *testing.T) {
	tests := []struct {
		skip int
		runs int
	}{
		{0, 1},
		{1, 2},
		{3, 4},
	}
	for _, tc := range tests {
		fc := newFakeCore()
		h := newHarness(t, fc, func(c *Config) { c.FrameSkip = tc.skip })
		h.loadGame(t)
		h.s.Step()
		if fc.runs != tc.runs {
			t.Errorf("skip %d: runs = %d, want %d", tc.skip, fc.runs, tc.runs)
		}
		if h.surface.Swaps != 1 || len(h.gpu.Draws) != 1 {
			t.Errorf("skip %d: swaps = %d, draws = %d; want 1 each", tc.skip, h.surface.Swaps, len(h.gpu.Draws))
		}
	}
}

func TestStepPacing(t *testing.T) {
	tests := []struct {
		name    string
		vsync   bool
		skip    int
		elapsed time.Duration
		want    []time.Duration
	}{
		{"idle frame", false, 0, 0, []time.Duration{16666 * time.Microsecond}},
		{"partial frame", false, 0, 6 * time.Millisecond, []time.Duration{16666*time.Microsecond - 6*time.Millisecond}},
		{"frameskip", false, 1, 0, []time.Duration{2 * 16666 * time.Microsecond}},
		{"slow frame", false, 0, 20 * time.Millisecond, nil},
		{"vsync", true, 0, 0, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, newFakeCore(), func(c *Config) {
				c.VSync = tc.vsync
				c.FrameSkip = tc.skip
			})
			h.loadGame(t)
			h.clock.onNext = tc.elapsed
			h.s.Step()
			if !slices.Equal(h.clock.slept, tc.want) {
				t.Errorf("slept %v, want %v", h.clock.slept, tc.want)
			}
		})
	}
}

func TestStepServicesContextReset(t *testing.T) {
	fc := newFakeCore()
	fc.onInit = func() {
		retro.DispatchEnvironment(&retro.HWRenderRequest{
			ContextType: retro.HWContextOpenGL,
			ContextReset: func() {
				if !retro.Bound() {
					t.Error("context_reset called outside a binding")
				}
				fc.record("context_reset")
			},
		})
	}
	fc.onRun = func() {
		retro.DispatchVideoRefresh(retro.Frame{HW: true, Width: 320, Height: 240})
	}
	h := newHarness(t, fc, nil)
	h.loadGame(t)
	if h.s.Machine().State() != render.NeedsReset {
		t.Fatalf("machine = %v, want NeedsReset", h.s.Machine().State())
	}

	h.s.Step()
	h.s.Step()

	if h.s.Machine().State() != render.Ready {
		t.Errorf("machine = %v, want Ready", h.s.Machine().State())
	}
	if fc.count("context_reset") != 1 {
		t.Errorf("context_reset called %d times, want 1", fc.count("context_reset"))
	}
	if i, j := slices.Index(fc.calls, "context_reset"), slices.Index(fc.calls, "run"); i > j {
		t.Errorf("calls = %v, want context_reset before run", fc.calls)
	}
	if h.s.CurrentFramebuffer() == 0 {
		t.Error("framebuffer id should be set once Ready")
	}
	last := h.gpu.Draws[len(h.gpu.Draws)-1]
	if last.Texture != h.s.Machine().Texture() {
		t.Errorf("drew texture %d, want framebuffer texture %d", last.Texture, h.s.Machine().Texture())
	}
}

func TestStepPaused(t *testing.T) {
	fc := newFakeCore()
	h := newHarness(t, fc, nil)
	h.loadGame(t)
	h.s.StepPaused()
	if fc.runs != 0 {
		t.Errorf("runs = %d, want 0", fc.runs)
	}
	if h.surface.Swaps != 1 {
		t.Errorf("swaps = %d, want 1", h.surface.Swaps)
	}
	if len(h.clock.slept) != 1 {
		t.Errorf("paused step should still pace, slept %v", h.clock.slept)
	}
}

func TestFPS(t *testing.T) {
	h := newHarness(t, newFakeCore(), func(c *Config) { c.VSync = true })
	h.loadGame(t)
	h.clock.onNext = 100 * time.Millisecond
	for range 60 {
		h.s.Step()
	}
	if fps := h.s.FPS(); fps < 9 || fps > 11 {
		t.Errorf("FPS = %.2f, want about 10", fps)
	}
}

func TestPausedFlag(t *testing.T) {
	h := newHarness(t, newFakeCore(), nil)
	h.s.SetPaused(true)
	h.s.SetPaused(true)
	h.s.SetPaused(false)
	evs := h.eventsOf(EventPausedChanged)
	if len(evs) != 2 || !evs[0].Paused || evs[1].Paused {
		t.Errorf("paused events = %+v", evs)
	}
}
