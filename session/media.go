package session

import (
	"log"

	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/retro"
)

// FrameSurface describes the last frame the core presented. Pixels is nil
// for hardware frames, which stay on the GPU.
type FrameSurface struct {
	Format gfx.Colorspace
	Width  int
	Height int
	Pitch  int
	Pixels []byte

	// Aliased is set while Pixels points into core memory.
	Aliased bool
}

// Valid reports whether the surface holds a frame.
func (f FrameSurface) Valid() bool {
	return f.Width > 0 && f.Height > 0
}

// Snapshot returns a copy of f that owns its pixels.
func (f FrameSurface) Snapshot() FrameSurface {
	if !f.Aliased {
		return f
	}
	f.Pixels = append([]byte(nil), f.Pixels...)
	f.Aliased = false
	return f
}

// Surface returns the last presented frame.
func (s *Session) Surface() FrameSurface {
	return s.surface
}

// VideoRefresh receives a frame from the core.
func (s *Session) VideoRefresh(frame retro.Frame) {
	switch {
	case frame.HW:
		s.pipeline.MarkHWFrame(frame.Width, frame.Height)
		s.surface = FrameSurface{Format: gfx.ColorGPU, Width: frame.Width, Height: frame.Height}
	case frame.Dupe():
		// Keep showing the previous frame.
	default:
		if err := s.pipeline.Upload(frame.Width, frame.Height, frame.Pitch, frame.Data); err != nil {
			log.Printf("Warning: %v", err)
			return
		}
		s.surface = FrameSurface{
			Format:  s.pipeline.Colorspace(),
			Width:   frame.Width,
			Height:  frame.Height,
			Pitch:   frame.Pitch,
			Pixels:  frame.Data,
			Aliased: true,
		}
	}
}

// AudioSample receives one stereo frame.
func (s *Session) AudioSample(left, right int16) {
	if s.sink != nil {
		s.sink.WriteSample(left, right)
	}
}

// AudioSampleBatch receives interleaved stereo samples and returns the
// number of frames consumed.
func (s *Session) AudioSampleBatch(samples []int16) int {
	if s.sink == nil {
		return len(samples) / 2
	}
	return s.sink.WriteBatch(samples)
}

// InputPoll is a no-op: the frontend keeps InputState current.
func (s *Session) InputPoll() {}

// InputState answers an input query from the core.
func (s *Session) InputState(port uint, device retro.Device, index, id uint) int16 {
	return s.input.Query(port, device, index, id)
}
