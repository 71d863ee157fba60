// Package gfxtest provides an in-memory gfx.GPU for tests.
package gfxtest

import (
	"fmt"
	"sync"

	"github.com/user-none/retrohost/gfx"
)

// TextureInfo records the storage of a fake texture.
type TextureInfo struct {
	W, H       int
	Colorspace gfx.Colorspace
	Uploads    int
}

// FramebufferInfo records a fake framebuffer.
type FramebufferInfo struct {
	Texture        gfx.Texture
	W, H           int
	Depth, Stencil bool
}

// ProgramInfo records a compiled program.
type ProgramInfo struct {
	Name    string
	Defines []string
}

// GPU is a fake gfx.GPU. The exported fields may be set before use to
// inject failures.
type GPU struct {
	mu sync.Mutex

	NoFramebuffers bool
	// Incomplete makes every NewFramebuffer report ErrFramebufferIncomplete.
	Incomplete bool
	// CompileErr is returned by CompileProgram when set.
	CompileErr error

	next         uint32
	Textures     map[gfx.Texture]*TextureInfo
	Framebuffers map[gfx.Framebuffer]*FramebufferInfo
	Programs     map[gfx.Program]*ProgramInfo
	Compiles     int
	Draws        []gfx.DrawCall
	Current      int
}

// New returns an empty fake GPU.
func New() *GPU {
	return &GPU{
		Textures:     make(map[gfx.Texture]*TextureInfo),
		Framebuffers: make(map[gfx.Framebuffer]*FramebufferInfo),
		Programs:     make(map[gfx.Program]*ProgramInfo),
	}
}

func (g *GPU) id() uint32 {
	g.next++
	return g.next
}

func (g *GPU) MakeCurrent() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Current++
	return nil
}

func (g *GPU) SupportsFramebuffers() bool {
	return !g.NoFramebuffers
}

func (g *GPU) NewTexture(w, h int) (gfx.Texture, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", w, h)
	}
	t := gfx.Texture(g.id())
	g.Textures[t] = &TextureInfo{W: w, H: h}
	return t, nil
}

func (g *GPU) UploadTexture(t gfx.Texture, cs gfx.Colorspace, w, h, pitch int, pix []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	info, ok := g.Textures[t]
	if !ok {
		return fmt.Errorf("unknown texture %d", t)
	}
	if w > info.W || h > info.H {
		return fmt.Errorf("upload %dx%d exceeds texture %dx%d", w, h, info.W, info.H)
	}
	info.Colorspace = cs
	info.Uploads++
	return nil
}

func (g *GPU) DeleteTexture(t gfx.Texture) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Textures, t)
}

func (g *GPU) NewFramebuffer(t gfx.Texture, w, h int, depth, stencil bool) (gfx.Framebuffer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.NoFramebuffers {
		return 0, gfx.ErrNoFramebuffers
	}
	fb := gfx.Framebuffer(g.id())
	g.Framebuffers[fb] = &FramebufferInfo{Texture: t, W: w, H: h, Depth: depth, Stencil: stencil}
	if g.Incomplete {
		return fb, gfx.ErrFramebufferIncomplete
	}
	return fb, nil
}

func (g *GPU) DeleteFramebuffer(fb gfx.Framebuffer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Framebuffers, fb)
}

func (g *GPU) FramebufferID(fb gfx.Framebuffer) uintptr {
	return uintptr(fb)
}

func (g *GPU) CompileProgram(name string, defines []string) (gfx.Program, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Compiles++
	if g.CompileErr != nil {
		return 0, g.CompileErr
	}
	p := gfx.Program(g.id())
	g.Programs[p] = &ProgramInfo{Name: name, Defines: append([]string(nil), defines...)}
	return p, nil
}

func (g *GPU) DeleteProgram(p gfx.Program) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Programs, p)
}

func (g *GPU) Draw(dc gfx.DrawCall) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Draws = append(g.Draws, dc)
}

func (g *GPU) ReadPixels(fb gfx.Framebuffer, w, h int) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.Framebuffers[fb]; !ok {
		return nil, fmt.Errorf("unknown framebuffer %d", fb)
	}
	return make([]byte, w*h*4), nil
}

func (g *GPU) ProcAddress(sym string) uintptr {
	return uintptr(len(sym))
}

// Texture returns the recorded info for t, or nil.
func (g *GPU) Texture(t gfx.Texture) *TextureInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Textures[t]
}

// Framebuffer returns the recorded info for fb, or nil.
func (g *GPU) Framebuffer(fb gfx.Framebuffer) *FramebufferInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Framebuffers[fb]
}

// Program returns the recorded info for p, or nil.
func (g *GPU) Program(p gfx.Program) *ProgramInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Programs[p]
}

// Surface is a fake gfx.Surface.
type Surface struct {
	W, H  int
	Swaps int
}

func (s *Surface) Size() (int, int) {
	return s.W, s.H
}

func (s *Surface) SwapBuffers() {
	s.Swaps++
}
