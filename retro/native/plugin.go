//go:build linux || darwin || freebsd

// Package native loads libretro cores from shared objects and routes their
// C callbacks into package retro.
package native

/*
#include <stdlib.h>
#include "bridge.h"
*/
import "C"

import (
	"fmt"
	"log"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/user-none/retrohost/retro"
)

// Opener opens cores with dlopen.
type Opener struct{}

// Open loads the shared object at path.
func (Opener) Open(path string) (retro.Plugin, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("failed to open core %s: %w", path, err)
	}
	return &plugin{path: path, handle: handle}, nil
}

type plugin struct {
	path   string
	handle uintptr

	mu sync.Mutex
	// game keeps the buffers handed to retro_load_game alive until unload.
	game []unsafe.Pointer
}

func (p *plugin) Path() string {
	return p.path
}

func (p *plugin) sym(name string) uintptr {
	addr, err := purego.Dlsym(p.handle, name)
	if err != nil {
		return 0
	}
	return addr
}

// Bind resolves every symbol the host knows about. Missing symbols leave
// the corresponding Core member nil.
func (p *plugin) Bind() (*retro.Core, error) {
	if p.handle == 0 {
		return nil, fmt.Errorf("core %s is closed", p.path)
	}

	setters := map[string]uintptr{
		"retro_set_environment":        uintptr(C.host_environment_cb()),
		"retro_set_video_refresh":      uintptr(C.host_video_refresh_cb()),
		"retro_set_audio_sample":       uintptr(C.host_audio_sample_cb()),
		"retro_set_audio_sample_batch": uintptr(C.host_audio_sample_batch_cb()),
		"retro_set_input_poll":         uintptr(C.host_input_poll_cb()),
		"retro_set_input_state":        uintptr(C.host_input_state_cb()),
	}

	c := &retro.Core{}
	c.RegisterCallbacks = func() {
		// Environment goes first so cores can negotiate from inside the
		// other setters.
		order := []string{
			"retro_set_environment",
			"retro_set_video_refresh",
			"retro_set_audio_sample",
			"retro_set_audio_sample_batch",
			"retro_set_input_poll",
			"retro_set_input_state",
		}
		for _, name := range order {
			f := p.sym(name)
			if f == 0 {
				log.Printf("Warning: core does not export %s", name)
				continue
			}
			C.bridge_set_callback(C.uintptr_t(f), C.uintptr_t(setters[name]))
		}
	}

	if f := p.sym(retro.SymInit); f != 0 {
		c.Init = func() { C.bridge_call_void(C.uintptr_t(f)) }
	}
	if f := p.sym(retro.SymDeinit); f != 0 {
		c.Deinit = func() { C.bridge_call_void(C.uintptr_t(f)) }
	}
	if f := p.sym(retro.SymAPIVersion); f != 0 {
		c.APIVersion = func() uint { return uint(C.bridge_api_version(C.uintptr_t(f))) }
	}
	if f := p.sym(retro.SymGetSystemInfo); f != 0 {
		c.GetSystemInfo = func() retro.SystemInfo {
			var info C.struct_retro_system_info
			C.bridge_get_system_info(C.uintptr_t(f), &info)
			return retro.SystemInfo{
				LibraryName:     goString(info.library_name),
				LibraryVersion:  goString(info.library_version),
				ValidExtensions: goString(info.valid_extensions),
				NeedFullpath:    bool(info.need_fullpath),
				BlockExtract:    bool(info.block_extract),
			}
		}
	}
	if f := p.sym(retro.SymGetSystemAVInfo); f != 0 {
		c.GetSystemAVInfo = func() retro.AVInfo {
			var info C.struct_retro_system_av_info
			C.bridge_get_system_av_info(C.uintptr_t(f), &info)
			return convertAVInfo(&info)
		}
	}
	if f := p.sym(retro.SymSetControllerPortDevice); f != 0 {
		c.SetControllerPortDevice = func(port uint, device retro.Device) {
			C.bridge_set_controller_port_device(C.uintptr_t(f), C.unsigned(port), C.unsigned(device))
		}
	}
	if f := p.sym(retro.SymReset); f != 0 {
		c.Reset = func() { C.bridge_call_void(C.uintptr_t(f)) }
	}
	if f := p.sym(retro.SymRun); f != 0 {
		c.Run = func() { C.bridge_call_void(C.uintptr_t(f)) }
	}
	if f := p.sym(retro.SymSerializeSize); f != 0 {
		c.SerializeSize = func() int { return int(C.bridge_serialize_size(C.uintptr_t(f))) }
	}
	if f := p.sym(retro.SymSerialize); f != 0 {
		c.Serialize = func(buf []byte) bool {
			if len(buf) == 0 {
				return false
			}
			return bool(C.bridge_serialize(C.uintptr_t(f), unsafe.Pointer(&buf[0]), C.size_t(len(buf))))
		}
	}
	if f := p.sym(retro.SymUnserialize); f != 0 {
		c.Unserialize = func(buf []byte) bool {
			if len(buf) == 0 {
				return bool(C.bridge_unserialize(C.uintptr_t(f), nil, 0))
			}
			return bool(C.bridge_unserialize(C.uintptr_t(f), unsafe.Pointer(&buf[0]), C.size_t(len(buf))))
		}
	}
	if f := p.sym(retro.SymLoadGame); f != 0 {
		c.LoadGame = func(game retro.GameInfo) bool {
			return p.loadGame(f, game)
		}
	}
	if f := p.sym(retro.SymUnloadGame); f != 0 {
		c.UnloadGame = func() {
			C.bridge_call_void(C.uintptr_t(f))
			p.freeGame()
		}
	}
	if f := p.sym(retro.SymGetMemoryData); f != 0 {
		size := p.sym(retro.SymGetMemorySize)
		c.GetMemoryData = func(id uint) []byte {
			if size == 0 {
				return nil
			}
			n := int(C.bridge_get_memory_size(C.uintptr_t(size), C.unsigned(id)))
			ptr := C.bridge_get_memory_data(C.uintptr_t(f), C.unsigned(id))
			if ptr == nil || n <= 0 {
				return nil
			}
			return unsafe.Slice((*byte)(ptr), n)
		}
	}
	if f := p.sym(retro.SymGetMemorySize); f != 0 {
		c.GetMemorySize = func(id uint) int {
			return int(C.bridge_get_memory_size(C.uintptr_t(f), C.unsigned(id)))
		}
	}

	return c, nil
}

func (p *plugin) loadGame(f uintptr, game retro.GameInfo) bool {
	p.freeGame()

	var info C.struct_retro_game_info
	p.mu.Lock()
	if game.Path != "" {
		path := C.CString(game.Path)
		p.game = append(p.game, unsafe.Pointer(path))
		info.path = path
	}
	if game.Meta != "" {
		meta := C.CString(game.Meta)
		p.game = append(p.game, unsafe.Pointer(meta))
		info.meta = meta
	}
	if game.Data != nil {
		data := C.CBytes(game.Data)
		p.game = append(p.game, data)
		info.data = data
		info.size = C.size_t(len(game.Data))
	}
	p.mu.Unlock()

	return bool(C.bridge_load_game(C.uintptr_t(f), &info))
}

func (p *plugin) freeGame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ptr := range p.game {
		C.free(ptr)
	}
	p.game = nil
}

// Close unloads the shared object.
func (p *plugin) Close() error {
	if p.handle == 0 {
		return nil
	}
	p.freeGame()
	releaseStrings()
	pixelFormat.Store(uint32(retro.Pixel0RGB1555))
	err := purego.Dlclose(p.handle)
	p.handle = 0
	if err != nil {
		return fmt.Errorf("failed to close core %s: %w", p.path, err)
	}
	return nil
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

func convertAVInfo(info *C.struct_retro_system_av_info) retro.AVInfo {
	return retro.AVInfo{
		Geometry: convertGeometry(&info.geometry),
		Timing: retro.Timing{
			FPS:        float64(info.timing.fps),
			SampleRate: float64(info.timing.sample_rate),
		},
	}
}

func convertGeometry(g *C.struct_retro_game_geometry) retro.Geometry {
	return retro.Geometry{
		BaseWidth:   int(g.base_width),
		BaseHeight:  int(g.base_height),
		MaxWidth:    int(g.max_width),
		MaxHeight:   int(g.max_height),
		AspectRatio: float64(g.aspect_ratio),
	}
}
