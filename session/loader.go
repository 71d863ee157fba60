package session

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/render"
	"github.com/user-none/retrohost/retro"
	"github.com/user-none/retrohost/romloader"
)

// LoadCore opens the core library at path, resolves its function table,
// registers the host callbacks and initializes it. Any previously loaded
// core is unloaded first. On failure the session is left Unloaded.
func (s *Session) LoadCore(path string) error {
	s.UnloadCore()

	plugin, err := s.cfg.Opener.Open(path)
	if err != nil {
		return s.fail(&LoadError{Path: path, Err: ErrFileUnreadable, Cause: err})
	}
	core, err := plugin.Bind()
	if err != nil {
		plugin.Close()
		return s.fail(&LoadError{Path: path, Err: ErrMissingSymbol, Cause: err})
	}

	required, optional := core.Missing()
	if len(required) > 0 {
		plugin.Close()
		return s.fail(&LoadError{Path: path, Err: ErrMissingSymbol, Missing: required})
	}
	for _, sym := range optional {
		log.Printf("Warning: core %s does not export %s", filepath.Base(path), sym)
	}

	s.plugin = plugin
	s.core = core
	s.corePath = path
	s.coreName = baseName(path)
	s.lifecycle = Loaded

	if core.APIVersion != nil {
		var v uint
		s.call(func() { v = core.APIVersion() })
		if v != retro.APIVersion {
			log.Printf("Warning: core reports API version %d, host implements %d", v, retro.APIVersion)
		}
	}

	s.call(func() {
		if core.RegisterCallbacks != nil {
			core.RegisterCallbacks()
		}
		if core.Init != nil {
			core.Init()
		}
	})
	s.lifecycle = Initialized

	s.call(func() { s.sysInfo = core.GetSystemInfo() })
	log.Printf("[core] loaded %s %s", s.sysInfo.LibraryName, s.sysInfo.LibraryVersion)
	return nil
}

// UnloadCore tears down the loaded core and closes the library. It is a
// no-op when nothing is loaded.
func (s *Session) UnloadCore() {
	if s.lifecycle == Unloaded && s.plugin == nil {
		return
	}
	if s.lifecycle == GameLoaded {
		s.UnloadGame()
	}
	if s.machine.State() != render.Disabled {
		s.makeCurrent()
		s.call(s.machine.Teardown)
	}
	if s.lifecycle >= Initialized && s.core.Deinit != nil {
		s.call(s.core.Deinit)
	}
	if s.plugin != nil {
		if err := s.plugin.Close(); err != nil {
			log.Printf("Warning: failed to close core library: %v", err)
		}
	}

	s.pipeline.Release()
	if _, err := s.pipeline.SetColorspace(gfx.ColorXRGB8888); err != nil {
		log.Printf("Warning: %v", err)
	}

	s.plugin = nil
	s.core = nil
	s.corePath = ""
	s.coreName = ""
	s.sysInfo = retro.SystemInfo{}
	s.avInfo = retro.AVInfo{}
	s.options = nil
	s.quirks = 0
	s.initHW = nil
	s.stateBuf = nil
	s.shutdownRequested = false
	s.lifecycle = Unloaded
}

// Close unloads the core and releases the audio device.
func (s *Session) Close() error {
	s.UnloadCore()
	if s.sink != nil {
		return s.sink.Close()
	}
	return nil
}

// LoadGame loads the game at path into the initialized core.
func (s *Session) LoadGame(path string) error {
	if s.lifecycle < Initialized {
		return s.fail(&GameLoadError{Path: path, Err: ErrNoCore})
	}
	if s.lifecycle == GameLoaded {
		s.UnloadGame()
	}

	info := retro.GameInfo{Path: path}
	if !s.sysInfo.NeedFullpath {
		img, err := romloader.Load(path, romloader.Options{Extensions: s.sysInfo.Extensions()})
		if err != nil {
			return s.fail(&GameLoadError{Path: path, Err: ErrFileUnreadable, Cause: err})
		}
		info.Data = img.Data
		if img.Archive != "" {
			// Cores look at the extension to pick a mode.
			info.Path = filepath.Join(filepath.Dir(path), img.Name)
		}
	} else if _, err := os.Stat(path); err != nil {
		return s.fail(&GameLoadError{Path: path, Err: ErrFileUnreadable, Cause: err})
	}

	var ok bool
	s.call(func() { ok = s.core.LoadGame(info) })
	if !ok {
		return s.fail(&GameLoadError{Path: path, Err: ErrRejectedByCore})
	}

	s.gamePath = path
	s.gameName = baseName(path)
	s.ranOnce = false
	s.lifecycle = GameLoaded

	var av retro.AVInfo
	s.call(func() { av = s.core.GetSystemAVInfo() })
	s.applyAVInfo(av)

	if s.cfg.Dirs.Save != "" {
		s.slots = NewSlots(filepath.Join(s.cfg.Dirs.Save, s.gameName))
	}
	if err := s.LoadSRAM(); err != nil {
		log.Printf("Warning: %v", err)
	}
	s.setupRewind()

	s.emit(Event{Kind: EventSavingSupported, Supported: s.SavingSupported()})
	log.Printf("[core] loaded game %s", filepath.Base(path))
	return nil
}

// UnloadGame saves SRAM and unloads the game, keeping the core loaded.
func (s *Session) UnloadGame() {
	if s.lifecycle != GameLoaded {
		return
	}
	if err := s.SaveSRAM(); err != nil {
		log.Printf("Warning: %v", err)
	}
	if s.core.UnloadGame != nil {
		s.call(s.core.UnloadGame)
	}
	s.surface = FrameSurface{}
	s.makeCurrent()
	if s.machine.State() != render.Disabled {
		// The next game negotiates its own context. A request made
		// during init is carried over and reset on the next frame.
		s.call(s.machine.Teardown)
		if s.initHW != nil {
			s.machine.Setup(*s.initHW)
		}
	}
	s.pipeline.Release()
	s.slots = nil
	s.rewinder = nil
	s.gamePath = ""
	s.gameName = ""
	s.lifecycle = Initialized
}

// Reset restarts the loaded game.
func (s *Session) Reset() error {
	if s.lifecycle != GameLoaded {
		return ErrNoGame
	}
	if s.core.Reset != nil {
		s.call(s.core.Reset)
	}
	if s.rewinder != nil {
		s.rewinder.Reset()
	}
	return nil
}

// SetControllerPortDevice tells the core which device is plugged into port.
func (s *Session) SetControllerPortDevice(port uint, device retro.Device) error {
	if s.lifecycle < Initialized {
		return ErrNoCore
	}
	if s.core.SetControllerPortDevice == nil {
		return errors.New("core does not support changing controller devices")
	}
	s.call(func() { s.core.SetControllerPortDevice(port, device) })
	return nil
}

// APIVersion returns the core's reported libretro API version, or 0.
func (s *Session) APIVersion() uint {
	if s.core == nil || s.core.APIVersion == nil {
		return 0
	}
	var v uint
	s.call(func() { v = s.core.APIVersion() })
	return v
}

// applyAVInfo installs new timing and geometry from the core.
func (s *Session) applyAVInfo(av retro.AVInfo) {
	s.avInfo = av
	s.applyGeometry()
	if av.Timing.FPS > 0 {
		s.interval = time.Duration(1e6/av.Timing.FPS) * time.Microsecond
	}
	if s.sink != nil && av.Timing.SampleRate > 0 {
		// Failures are logged by the sink; audio is optional.
		s.sink.Init(int(av.Timing.SampleRate + 0.5))
	}
}

// applyGeometry pushes the current geometry to the renderer.
func (s *Session) applyGeometry() {
	g := s.avInfo.Geometry
	w, h := g.MaxWidth, g.MaxHeight
	if w <= 0 || h <= 0 {
		w, h = g.BaseWidth, g.BaseHeight
	}
	if s.machine.State() != render.Disabled {
		s.makeCurrent()
	}
	if err := s.machine.Resize(w, h); err != nil {
		log.Printf("Warning: %v", err)
	}
	s.pipeline.SetAspect(g.Aspect())
	s.emit(Event{Kind: EventRenderSizeChanged, Width: g.BaseWidth, Height: g.BaseHeight})
}

// FrameInterval is the target time per displayed core frame.
func (s *Session) FrameInterval() time.Duration {
	return s.interval
}
