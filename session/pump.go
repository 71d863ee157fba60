package session

import (
	"log"
	"time"

	"github.com/user-none/retrohost/render"
)

// fpsWindow is how often the measured frame rate is updated.
const fpsWindow = 5 * time.Second

func (s *Session) makeCurrent() {
	if s.cfg.GPU == nil {
		return
	}
	if err := s.cfg.GPU.MakeCurrent(); err != nil {
		log.Printf("Warning: failed to make GPU context current: %v", err)
	}
}

// Step runs the core for one displayed frame: FrameSkip+1 emulated frames,
// one render and, unless vsync paces the loop, a sleep to the frame
// interval. It does nothing when no game is loaded.
func (s *Session) Step() {
	if s.lifecycle != GameLoaded {
		return
	}
	start := s.clock.Now()
	s.makeCurrent()

	runs := max(s.cfg.FrameSkip, 0) + 1
	for range runs {
		s.runFrame()
		s.captureRewind()
		if s.lifecycle != GameLoaded {
			// The core unloaded itself during run.
			return
		}
	}

	s.render()
	s.countFrame(start)
	s.pace(start, runs)
}

// runFrame runs one emulated frame. A pending context reset is serviced
// first so the core never renders before context_reset. The GPU context
// must be current.
func (s *Session) runFrame() {
	s.call(func() {
		if s.machine.State() == render.NeedsReset {
			if err := s.machine.Reset(); err != nil {
				log.Printf("Warning: %v", err)
			}
		}
		s.core.Run()
	})
	s.ranOnce = true
}

// StepPaused redraws the last frame without running the core.
func (s *Session) StepPaused() {
	start := s.clock.Now()
	s.makeCurrent()
	s.render()
	s.pace(start, 1)
}

// render draws the last frame to the surface and swaps.
func (s *Session) render() {
	if s.cfg.Surface == nil {
		return
	}
	w, h := s.cfg.Surface.Size()
	if err := s.pipeline.Draw(w, h); err != nil {
		log.Printf("Warning: %v", err)
	}
	s.cfg.Surface.SwapBuffers()
}

func (s *Session) pace(start time.Time, runs int) {
	if s.cfg.VSync || s.interval <= 0 {
		return
	}
	elapsed := s.clock.Now().Sub(start)
	if wait := s.interval*time.Duration(runs) - elapsed; wait > 0 {
		s.clock.Sleep(wait)
	}
}

func (s *Session) countFrame(now time.Time) {
	if s.fpsSince.IsZero() {
		s.fpsSince = now
		return
	}
	s.fpsFrames++
	if d := now.Sub(s.fpsSince); d >= fpsWindow {
		s.fps = float64(s.fpsFrames) / d.Seconds()
		s.fpsFrames = 0
		s.fpsSince = now
		s.debugf("[pump] %.1f fps", s.fps)
	}
}

// FPS is the displayed frame rate measured over the last window.
func (s *Session) FPS() float64 {
	return s.fps
}
