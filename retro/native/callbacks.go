//go:build linux || darwin || freebsd

package native

/*
#include <stdlib.h>
#include "bridge.h"
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/user-none/retrohost/retro"
)

// Strings handed back to the core must stay valid after the environment
// call returns. They are interned here and freed when the core is closed.
var (
	stringsMu sync.Mutex
	cstrings  = map[string]*C.char{}
)

// pixelFormat is the last format the host accepted, used to size frames.
var pixelFormat atomic.Uint32

func cstring(s string) *C.char {
	stringsMu.Lock()
	defer stringsMu.Unlock()
	if p, ok := cstrings[s]; ok {
		return p
	}
	p := C.CString(s)
	cstrings[s] = p
	return p
}

func releaseStrings() {
	stringsMu.Lock()
	defer stringsMu.Unlock()
	for k, p := range cstrings {
		C.free(unsafe.Pointer(p))
		delete(cstrings, k)
	}
}

//export coreEnvironment
func coreEnvironment(cmd C.unsigned, data unsafe.Pointer) C.bool {
	return C.bool(environment(retro.Command(cmd), data))
}

func environment(cmd retro.Command, data unsafe.Pointer) bool {
	switch cmd {
	case retro.EnvGetLogInterface:
		if data == nil || !retro.DispatchEnvironment(&retro.LogInterfaceRequest{}) {
			return false
		}
		C.host_fill_log_callback((*C.struct_retro_log_callback)(data))
		return true

	case retro.EnvGetCanDupe:
		req := &retro.CanDupeRequest{}
		if data == nil || !retro.DispatchEnvironment(req) {
			return false
		}
		*(*C.bool)(data) = C.bool(req.CanDupe)
		return true

	case retro.EnvSetMessage:
		if data == nil {
			return false
		}
		m := (*C.struct_retro_message)(data)
		return retro.DispatchEnvironment(&retro.MessageRequest{
			Text:   goString(m.msg),
			Frames: uint(m.frames),
		})

	case retro.EnvShutdown:
		return retro.DispatchEnvironment(&retro.ShutdownRequest{})

	case retro.EnvSetPerformanceLevel:
		if data == nil {
			return false
		}
		return retro.DispatchEnvironment(&retro.PerformanceLevelRequest{Level: uint(*(*C.unsigned)(data))})

	case retro.EnvGetSystemDirectory, retro.EnvGetSaveDirectory,
		retro.EnvGetCoreAssetsDirectory, retro.EnvGetLibretroPath:
		req := &retro.DirectoryRequest{Cmd: cmd}
		if data == nil || !retro.DispatchEnvironment(req) {
			return false
		}
		*(**C.char)(data) = cstring(req.Path)
		return true

	case retro.EnvSetPixelFormat:
		if data == nil {
			return false
		}
		format := retro.PixelFormat(*(*C.int)(data))
		if !retro.DispatchEnvironment(&retro.PixelFormatRequest{Format: format}) {
			return false
		}
		pixelFormat.Store(uint32(format))
		return true

	case retro.EnvSetHWRender:
		if data == nil {
			return false
		}
		return hwRender((*C.struct_retro_hw_render_callback)(data))

	case retro.EnvSetVariables:
		if data == nil {
			return false
		}
		return retro.DispatchEnvironment(&retro.SetVariablesRequest{Variables: variables(data)})

	case retro.EnvGetVariable:
		if data == nil {
			return false
		}
		v := (*C.struct_retro_variable)(data)
		req := &retro.GetVariableRequest{Key: goString(v.key)}
		if !retro.DispatchEnvironment(req) || !req.Found {
			v.value = nil
			return false
		}
		v.value = cstring(req.Value)
		return true

	case retro.EnvGetVariableUpdate:
		req := &retro.VariableUpdateRequest{}
		if data == nil || !retro.DispatchEnvironment(req) {
			return false
		}
		*(*C.bool)(data) = C.bool(req.Updated)
		return true

	case retro.EnvGetInputDeviceCapabilities:
		req := &retro.InputCapabilitiesRequest{}
		if data == nil || !retro.DispatchEnvironment(req) {
			return false
		}
		*(*C.uint64_t)(data) = C.uint64_t(req.Mask)
		return true

	case retro.EnvGetInputBitmasks:
		return retro.DispatchEnvironment(&retro.InputBitmasksRequest{})

	case retro.EnvSetGeometry:
		if data == nil {
			return false
		}
		return retro.DispatchEnvironment(&retro.GeometryRequest{
			Geometry: convertGeometry((*C.struct_retro_game_geometry)(data)),
		})

	case retro.EnvSetSystemAVInfo:
		if data == nil {
			return false
		}
		return retro.DispatchEnvironment(&retro.SystemAVInfoRequest{
			AVInfo: convertAVInfo((*C.struct_retro_system_av_info)(data)),
		})

	case retro.EnvSetSerializationQuirks:
		if data == nil {
			return false
		}
		q := (*C.uint64_t)(data)
		req := &retro.QuirksRequest{Quirks: uint64(*q)}
		ok := retro.DispatchEnvironment(req)
		*q = C.uint64_t(req.Quirks)
		return ok

	case retro.EnvGetUsername:
		req := &retro.UsernameRequest{}
		if data == nil || !retro.DispatchEnvironment(req) {
			return false
		}
		*(**C.char)(data) = cstring(req.Name)
		return true

	case retro.EnvGetLanguage:
		req := &retro.LanguageRequest{}
		if data == nil || !retro.DispatchEnvironment(req) {
			return false
		}
		*(*C.unsigned)(data) = C.unsigned(req.Language)
		return true
	}

	return retro.DispatchEnvironment(&retro.UnknownRequest{Cmd: cmd})
}

func hwRender(cb *C.struct_retro_hw_render_callback) bool {
	req := &retro.HWRenderRequest{
		ContextType:      retro.HWContextType(cb.context_type),
		VersionMajor:     uint(cb.version_major),
		VersionMinor:     uint(cb.version_minor),
		Depth:            bool(cb.depth),
		Stencil:          bool(cb.stencil),
		BottomLeftOrigin: bool(cb.bottom_left_origin),
		CacheContext:     bool(cb.cache_context),
		Debug:            bool(cb.debug_context),
	}
	if reset := uintptr(unsafe.Pointer(cb.context_reset)); reset != 0 {
		req.ContextReset = func() { C.bridge_call_void(C.uintptr_t(reset)) }
	}
	if destroy := uintptr(unsafe.Pointer(cb.context_destroy)); destroy != 0 {
		req.ContextDestroy = func() { C.bridge_call_void(C.uintptr_t(destroy)) }
	}
	if !retro.DispatchEnvironment(req) {
		return false
	}
	C.host_fill_hw_render(cb)
	return true
}

func variables(data unsafe.Pointer) []retro.Variable {
	var vars []retro.Variable
	for v := (*C.struct_retro_variable)(data); v.key != nil; {
		vars = append(vars, retro.Variable{Key: goString(v.key), Value: goString(v.value)})
		v = (*C.struct_retro_variable)(unsafe.Add(unsafe.Pointer(v), unsafe.Sizeof(*v)))
	}
	return vars
}

//export coreVideoRefresh
func coreVideoRefresh(data unsafe.Pointer, width, height C.unsigned, pitch C.size_t, hw C.int) {
	f := retro.Frame{
		Width:  int(width),
		Height: int(height),
		Pitch:  int(pitch),
		HW:     hw != 0,
	}
	if data != nil && !f.HW {
		n := retro.FrameLen(f.Width, f.Height, f.Pitch, retro.PixelFormat(pixelFormat.Load()))
		f.Data = unsafe.Slice((*byte)(data), n)
	}
	retro.DispatchVideoRefresh(f)
}

//export coreAudioSample
func coreAudioSample(left, right C.int16_t) {
	retro.DispatchAudioSample(int16(left), int16(right))
}

//export coreAudioSampleBatch
func coreAudioSampleBatch(data *C.int16_t, frames C.size_t) C.size_t {
	if data == nil || frames == 0 {
		return 0
	}
	samples := unsafe.Slice((*int16)(unsafe.Pointer(data)), int(frames)*2)
	return C.size_t(retro.DispatchAudioSampleBatch(samples))
}

//export coreInputPoll
func coreInputPoll() {
	retro.DispatchInputPoll()
}

//export coreInputState
func coreInputState(port, device, index, id C.unsigned) C.int16_t {
	return C.int16_t(retro.DispatchInputState(uint(port), retro.Device(device), uint(index), uint(id)))
}

//export coreLog
func coreLog(level C.int, msg *C.char) {
	retro.DispatchLog(retro.LogLevel(level), goString(msg))
}

//export coreGetCurrentFramebuffer
func coreGetCurrentFramebuffer() C.uintptr_t {
	return C.uintptr_t(retro.DispatchCurrentFramebuffer())
}

//export coreGetProcAddress
func coreGetProcAddress(sym *C.char) C.uintptr_t {
	return C.uintptr_t(retro.DispatchProcAddress(goString(sym)))
}
