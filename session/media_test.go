package session

import (
	"testing"

	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/retro"
)

func TestVideoRefresh(t *testing.T) {
	h := newHarness(t, newFakeCore(), nil)

	pix := make([]byte, 4*3*4)
	h.s.VideoRefresh(retro.Frame{Data: pix, Width: 4, Height: 3, Pitch: 16})
	surf := h.s.Surface()
	if surf.Format != gfx.ColorXRGB8888 || surf.Width != 4 || surf.Height != 3 || !surf.Aliased {
		t.Errorf("surface = %+v", surf)
	}
	if w, hh := h.s.Pipeline().FrameSize(); w != 4 || hh != 3 {
		t.Errorf("frame size = %dx%d", w, hh)
	}

	// A dupe leaves everything as it was.
	h.s.VideoRefresh(retro.Frame{Width: 4, Height: 3})
	if got := h.s.Surface(); got.Width != 4 || len(got.Pixels) != len(pix) {
		t.Errorf("dupe replaced the surface: %+v", got)
	}

	h.s.VideoRefresh(retro.Frame{HW: true, Width: 320, Height: 240})
	surf = h.s.Surface()
	if surf.Format != gfx.ColorGPU || surf.Pixels != nil || surf.Width != 320 {
		t.Errorf("hardware surface = %+v", surf)
	}
}

func TestFrameSurfaceSnapshot(t *testing.T) {
	pix := []byte{1, 2, 3, 4}
	f := FrameSurface{Width: 1, Height: 1, Pitch: 4, Pixels: pix, Aliased: true}
	snap := f.Snapshot()
	pix[0] = 9
	if snap.Aliased || snap.Pixels[0] != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if again := snap.Snapshot(); &again.Pixels[0] != &snap.Pixels[0] {
		t.Error("snapshot of an owned surface should not copy")
	}
}

func TestAudioForwarded(t *testing.T) {
	h := newHarness(t, newFakeCore(), nil)
	if n := h.s.AudioSampleBatch(make([]int16, 8)); n != 0 {
		t.Errorf("batch before init = %d, want 0", n)
	}
	h.loadGame(t)
	if n := h.s.AudioSampleBatch(make([]int16, 8)); n != 4 {
		t.Errorf("batch = %d, want 4", n)
	}
	h.s.AudioSample(1, -1)
	if h.audio.written != 5 {
		t.Errorf("written = %d, want 5", h.audio.written)
	}
}

func TestAudioWithoutSink(t *testing.T) {
	h := newHarness(t, newFakeCore(), func(c *Config) { c.Audio = nil })
	if n := h.s.AudioSampleBatch(make([]int16, 8)); n != 4 {
		t.Errorf("batch = %d, want all frames consumed", n)
	}
	h.s.AudioSample(0, 0)
}
