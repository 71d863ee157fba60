package ebitenview

import (
	"fmt"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/retrohost/gfx"
)

type texture struct {
	img  *ebiten.Image
	w, h int
}

// GPU implements gfx.GPU on ebiten images. Frames are converted to RGBA on
// the CPU and drawn with nearest filtering. It has no framebuffers, so
// hardware rendered cores are refused.
//
// Draw only records the call; Present replays it onto the screen image
// from the game's Draw method.
type GPU struct {
	next     uint32
	textures map[gfx.Texture]*texture
	programs map[gfx.Program]string

	rgba    []byte
	pending gfx.DrawCall
	drawn   bool
	opts    ebiten.DrawImageOptions
}

// NewGPU returns an empty GPU.
func NewGPU() *GPU {
	return &GPU{
		textures: make(map[gfx.Texture]*texture),
		programs: make(map[gfx.Program]string),
	}
}

func (g *GPU) id() uint32 {
	g.next++
	return g.next
}

func (g *GPU) MakeCurrent() error { return nil }
func (g *GPU) SupportsFramebuffers() bool { return false }

func (g *GPU) NewTexture(w, h int) (gfx.Texture, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", w, h)
	}
	t := gfx.Texture(g.id())
	g.textures[t] = &texture{img: ebiten.NewImage(w, h), w: w, h: h}
	return t, nil
}

func (g *GPU) UploadTexture(t gfx.Texture, cs gfx.Colorspace, w, h, pitch int, pix []byte) error {
	tex, ok := g.textures[t]
	if !ok {
		return fmt.Errorf("unknown texture %d", t)
	}
	if w > tex.w || h > tex.h {
		return fmt.Errorf("upload %dx%d exceeds texture %dx%d", w, h, tex.w, tex.h)
	}
	rgba := gfx.ToRGBA(g.rgba, cs, w, h, pitch, pix)
	if rgba == nil {
		return fmt.Errorf("frame of %d bytes is short for %dx%d pitch %d", len(pix), w, h, pitch)
	}
	g.rgba = rgba
	if w == tex.w && h == tex.h {
		tex.img.WritePixels(rgba)
		return nil
	}
	tex.img.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image).WritePixels(rgba)
	return nil
}

func (g *GPU) DeleteTexture(t gfx.Texture) {
	if tex, ok := g.textures[t]; ok {
		tex.img.Deallocate()
		delete(g.textures, t)
	}
	if g.pending.Texture == t {
		g.pending.Texture = 0
	}
}

func (g *GPU) NewFramebuffer(gfx.Texture, int, int, bool, bool) (gfx.Framebuffer, error) {
	return 0, gfx.ErrNoFramebuffers
}

func (g *GPU) DeleteFramebuffer(gfx.Framebuffer)     {}
func (g *GPU) FramebufferID(gfx.Framebuffer) uintptr { return 0 }
func (g *GPU) ProcAddress(string) uintptr            { return 0 }
func (g *GPU) DeleteProgram(p gfx.Program)           { delete(g.programs, p) }

func (g *GPU) ReadPixels(gfx.Framebuffer, int, int) ([]byte, error) {
	return nil, gfx.ErrNoFramebuffers
}

// CompileProgram only checks that the program sources exist; drawing is
// done with ebiten's own pipeline.
func (g *GPU) CompileProgram(name string, defines []string) (gfx.Program, error) {
	if _, _, err := gfx.ProgramSources(name, defines); err != nil {
		return 0, err
	}
	p := gfx.Program(g.id())
	g.programs[p] = name
	log.Printf("[ebiten] program %q ready", name)
	return p, nil
}

func (g *GPU) Draw(dc gfx.DrawCall) {
	g.pending = dc
	g.drawn = true
}

// Viewport is where the last frame was placed.
func (g *GPU) Viewport() gfx.Rect {
	return g.pending.Viewport
}

// Present draws the last recorded frame onto screen.
func (g *GPU) Present(screen *ebiten.Image) {
	dc := g.pending
	screen.Fill(dc.Background)
	if !g.drawn || dc.Texture == 0 || dc.Viewport.W <= 0 || dc.Viewport.H <= 0 {
		return
	}
	tex, ok := g.textures[dc.Texture]
	if !ok {
		return
	}
	srcW := int(dc.U*float32(tex.w) + 0.5)
	srcH := int(dc.V*float32(tex.h) + 0.5)
	if srcW <= 0 || srcH <= 0 {
		return
	}
	src := tex.img.SubImage(image.Rect(0, 0, srcW, srcH)).(*ebiten.Image)

	g.opts = ebiten.DrawImageOptions{}
	sx := float64(dc.Viewport.W) / float64(srcW)
	sy := float64(dc.Viewport.H) / float64(srcH)
	// Images are top-down; a pipeline flip means rows are already in
	// display order here, and no flip means mirror.
	if dc.FlipY {
		g.opts.GeoM.Scale(sx, sy)
	} else {
		g.opts.GeoM.Scale(sx, -sy)
		g.opts.GeoM.Translate(0, float64(dc.Viewport.H))
	}
	g.opts.GeoM.Translate(float64(dc.Viewport.X), float64(dc.Viewport.Y))
	g.opts.Filter = ebiten.FilterNearest
	screen.DrawImage(src, &g.opts)
}
