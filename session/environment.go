package session

import (
	"log"
	"strings"

	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/render"
	"github.com/user-none/retrohost/retro"
)

// Username is reported to cores that ask for the player name.
const Username = "RetroHost"

// acceptedQuirks are the serialization quirks this host can honor.
const acceptedQuirks = retro.QuirkMustInitialize | retro.QuirkSingleSession

// Device classes answered by InputState.
const inputCapabilities = 1<<retro.DeviceJoypad | 1<<retro.DeviceAnalog | 1<<retro.DevicePointer | 1<<retro.DeviceMouse

type handler func(req retro.Request) bool

// handle adapts a handler for one concrete request type.
func handle[T retro.Request](fn func(T) bool) handler {
	return func(req retro.Request) bool {
		r, ok := req.(T)
		if !ok {
			log.Printf("Warning: environment %s: unexpected payload %T", req.Command(), req)
			return false
		}
		return fn(r)
	}
}

func (s *Session) handlers() map[retro.Command]handler {
	dir := handle(s.directory)
	return map[retro.Command]handler{
		retro.EnvGetLogInterface:            handle(func(*retro.LogInterfaceRequest) bool { return true }),
		retro.EnvGetCanDupe:                 handle(s.canDupe),
		retro.EnvSetPixelFormat:             handle(s.setPixelFormat),
		retro.EnvSetGeometry:                handle(s.setGeometry),
		retro.EnvSetSystemAVInfo:            handle(s.setSystemAVInfo),
		retro.EnvSetSerializationQuirks:     handle(s.setQuirks),
		retro.EnvGetUsername:                handle(s.username),
		retro.EnvGetLanguage:                handle(s.language),
		retro.EnvGetSystemDirectory:         dir,
		retro.EnvGetSaveDirectory:           dir,
		retro.EnvGetCoreAssetsDirectory:     dir,
		retro.EnvGetLibretroPath:            dir,
		retro.EnvSetHWRender:                handle(s.setHWRender),
		retro.EnvSetVariables:               handle(s.setVariables),
		retro.EnvGetVariable:                handle(s.getVariable),
		retro.EnvGetVariableUpdate:          handle(s.variableUpdate),
		retro.EnvSetMessage:                 handle(s.message),
		retro.EnvGetInputDeviceCapabilities: handle(s.inputCapabilities),
		retro.EnvGetInputBitmasks:           handle(func(*retro.InputBitmasksRequest) bool { return true }),
		retro.EnvSetPerformanceLevel:        handle(s.performanceLevel),
		retro.EnvShutdown:                   handle(s.shutdown),
	}
}

// Environment answers an environment call from the bound core.
func (s *Session) Environment(req retro.Request) bool {
	cmd := req.Command()
	h, ok := s.env[cmd]
	if !ok {
		if !s.warnedCommands[cmd] {
			s.warnedCommands[cmd] = true
			log.Printf("Warning: unsupported environment command %s", cmd)
		}
		return false
	}
	return h(req)
}

func (s *Session) canDupe(r *retro.CanDupeRequest) bool {
	r.CanDupe = true
	return true
}

func (s *Session) setPixelFormat(r *retro.PixelFormatRequest) bool {
	cs, ok := gfx.ColorspaceFor(r.Format)
	if !ok {
		log.Printf("Warning: core requested unsupported pixel format %s", r.Format)
		return false
	}
	changed, err := s.pipeline.SetColorspace(cs)
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	if changed {
		s.debugf("[env] pixel format %s", r.Format)
	}
	return true
}

func (s *Session) setGeometry(r *retro.GeometryRequest) bool {
	g := r.Geometry
	// SET_GEOMETRY may not change the maximum size.
	g.MaxWidth = s.avInfo.Geometry.MaxWidth
	g.MaxHeight = s.avInfo.Geometry.MaxHeight
	s.avInfo.Geometry = g
	s.applyGeometry()
	return true
}

func (s *Session) setSystemAVInfo(r *retro.SystemAVInfoRequest) bool {
	s.applyAVInfo(r.AVInfo)
	return true
}

func (s *Session) setQuirks(r *retro.QuirksRequest) bool {
	r.Quirks &= acceptedQuirks
	s.quirks = r.Quirks
	return true
}

func (s *Session) username(r *retro.UsernameRequest) bool {
	r.Name = Username
	return true
}

func (s *Session) language(r *retro.LanguageRequest) bool {
	r.Language = retro.LanguageEnglish
	return true
}

func (s *Session) directory(r *retro.DirectoryRequest) bool {
	switch r.Cmd {
	case retro.EnvGetSystemDirectory:
		r.Path = s.cfg.Dirs.System
	case retro.EnvGetSaveDirectory:
		r.Path = s.cfg.Dirs.Save
	case retro.EnvGetCoreAssetsDirectory:
		r.Path = s.cfg.Dirs.Assets
	case retro.EnvGetLibretroPath:
		r.Path = s.corePath
	}
	return r.Path != ""
}

// supportedHWContext reports whether the GPU backends can serve t at the
// requested version.
func supportedHWContext(r *retro.HWRenderRequest) bool {
	switch r.ContextType {
	case retro.HWContextOpenGL, retro.HWContextOpenGLES2:
		return true
	case retro.HWContextOpenGLCore:
		return r.VersionMajor < 3 || (r.VersionMajor == 3 && r.VersionMinor <= 3)
	default:
		return false
	}
}

func (s *Session) setHWRender(r *retro.HWRenderRequest) bool {
	if !supportedHWContext(r) {
		log.Printf("Warning: core requested unsupported context %s %d.%d", r.ContextType, r.VersionMajor, r.VersionMinor)
		return false
	}
	if s.cfg.GPU == nil || !s.cfg.GPU.SupportsFramebuffers() {
		log.Printf("Warning: hardware rendering is not available with this frontend")
		return false
	}
	desc := render.Descriptor{
		Depth:            r.Depth,
		Stencil:          r.Stencil,
		BottomLeftOrigin: r.BottomLeftOrigin,
		ContextReset:     r.ContextReset,
		ContextDestroy:   r.ContextDestroy,
	}
	if s.lifecycle == Loaded {
		// Asked from init, so it outlives individual games.
		s.initHW = &desc
	}
	if !s.machine.Setup(desc) {
		s.debugf("[env] hardware rendering already set up")
	}
	return true
}

func (s *Session) message(r *retro.MessageRequest) bool {
	log.Printf("[core] message: %s", r.Text)
	s.emit(Event{Kind: EventMessage, Message: r.Text})
	return true
}

func (s *Session) inputCapabilities(r *retro.InputCapabilitiesRequest) bool {
	r.Mask = inputCapabilities
	return true
}

func (s *Session) performanceLevel(r *retro.PerformanceLevelRequest) bool {
	s.debugf("[env] performance level %d", r.Level)
	return true
}

func (s *Session) shutdown(*retro.ShutdownRequest) bool {
	log.Printf("[core] requested shutdown")
	s.shutdownRequested = true
	return true
}

// CoreLog forwards a core log line to the process logger. Debug lines are
// dropped unless verbose logging is on.
func (s *Session) CoreLog(level retro.LogLevel, msg string) {
	if level == retro.LogDebug && !s.cfg.Verbose {
		return
	}
	log.Printf("[core] %s: %s", level, strings.TrimRight(msg, "\r\n"))
}

// CurrentFramebuffer answers get_current_framebuffer.
func (s *Session) CurrentFramebuffer() uintptr {
	return s.machine.Framebuffer()
}

// ProcAddress answers get_proc_address.
func (s *Session) ProcAddress(sym string) uintptr {
	if s.cfg.GPU == nil {
		return 0
	}
	return s.cfg.GPU.ProcAddress(sym)
}
