package render

import (
	"fmt"
	"image/color"
	"log"

	"github.com/user-none/retrohost/gfx"
)

// ProgramName is the shader program every frame is drawn with.
const ProgramName = "normal"

// DefaultBackground is the clear color around the letterboxed frame.
var DefaultBackground = color.RGBA{A: 0xFF}

// Pipeline uploads software frames and draws the current frame, software
// or hardware rendered, as a single textured quad.
type Pipeline struct {
	gpu     gfx.GPU
	machine *Machine

	colorspace gfx.Colorspace
	program    gfx.Program
	programCS  gfx.Colorspace
	programHW  bool

	tex        gfx.Texture
	texW, texH int

	frameW, frameH int
	hwFrame        bool
	aspect         float64

	Background color.RGBA
}

// NewPipeline returns a pipeline that has not compiled anything yet.
func NewPipeline(gpu gfx.GPU, machine *Machine) *Pipeline {
	return &Pipeline{
		gpu:        gpu,
		machine:    machine,
		colorspace: gfx.ColorXRGB8888,
		Background: DefaultBackground,
	}
}

// Ready reports whether the program has been compiled.
func (p *Pipeline) Ready() bool {
	return p.program != 0
}

// Colorspace returns the active software colorspace.
func (p *Pipeline) Colorspace() gfx.Colorspace {
	return p.colorspace
}

// SetColorspace switches the software colorspace. It reports whether the
// value changed; when it did and the program exists, it is recompiled.
func (p *Pipeline) SetColorspace(cs gfx.Colorspace) (bool, error) {
	if cs == p.colorspace {
		return false, nil
	}
	p.colorspace = cs
	if p.program == 0 {
		return true, nil
	}
	return true, p.compile()
}

// SetAspect sets the display aspect ratio. Zero uses the frame size.
func (p *Pipeline) SetAspect(aspect float64) {
	p.aspect = aspect
}

// Init compiles the program. Call with the context current.
func (p *Pipeline) Init() error {
	if p.program != 0 {
		return nil
	}
	return p.compile()
}

func (p *Pipeline) wantHW() bool {
	return p.machine != nil && p.machine.State() != Disabled
}

func (p *Pipeline) compile() error {
	defines := []string{p.colorspace.Define()}
	hw := p.wantHW()
	if hw {
		defines = append(defines, gfx.HWRenderDefine)
	}
	prog, err := p.gpu.CompileProgram(ProgramName, defines)
	if err != nil {
		return fmt.Errorf("failed to compile shaders: %w", err)
	}
	if p.program != 0 {
		p.gpu.DeleteProgram(p.program)
	}
	p.program = prog
	p.programCS = p.colorspace
	p.programHW = hw
	log.Printf("[render] compiled %q with %v", ProgramName, defines)
	return nil
}

// Upload copies a software frame into the frame texture. The texture grows
// to fit and is never shrunk.
func (p *Pipeline) Upload(w, h, pitch int, pix []byte) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if p.tex == 0 || w > p.texW || h > p.texH {
		if p.tex != 0 {
			p.gpu.DeleteTexture(p.tex)
			p.tex = 0
		}
		tw, th := max(w, p.texW), max(h, p.texH)
		tex, err := p.gpu.NewTexture(tw, th)
		if err != nil {
			return fmt.Errorf("failed to create frame texture: %w", err)
		}
		p.tex, p.texW, p.texH = tex, tw, th
	}
	if err := p.gpu.UploadTexture(p.tex, p.colorspace, w, h, pitch, pix); err != nil {
		return fmt.Errorf("failed to upload frame: %w", err)
	}
	p.frameW, p.frameH = w, h
	p.hwFrame = false
	return nil
}

// MarkHWFrame records that the core rendered a w×h frame into the
// framebuffer. Nothing is read back; Draw picks it up.
func (p *Pipeline) MarkHWFrame(w, h int) {
	p.frameW, p.frameH = w, h
	p.hwFrame = true
}

// FrameSize returns the size of the last frame.
func (p *Pipeline) FrameSize() (w, h int) {
	return p.frameW, p.frameH
}

// Draw renders the last frame into a winW×winH drawable.
func (p *Pipeline) Draw(winW, winH int) error {
	if p.program == 0 || p.programCS != p.colorspace || p.programHW != p.wantHW() {
		if err := p.compile(); err != nil {
			return err
		}
	}

	dc := gfx.DrawCall{
		Program:    p.program,
		Background: p.Background,
	}
	var texW, texH int
	switch {
	case p.hwFrame && p.machine != nil && p.machine.State() == Ready:
		dc.Texture = p.machine.Texture()
		texW, texH = p.machine.Size()
		dc.FlipY = !p.machine.Descriptor().BottomLeftOrigin
	case p.tex != 0:
		dc.Texture = p.tex
		texW, texH = p.texW, p.texH
		dc.FlipY = true
	}
	if dc.Texture != 0 && texW > 0 && texH > 0 && p.frameW > 0 && p.frameH > 0 {
		dc.U = float32(p.frameW) / float32(texW)
		dc.V = float32(p.frameH) / float32(texH)
		aspect := p.aspect
		if aspect <= 0 {
			aspect = float64(p.frameW) / float64(p.frameH)
		}
		dc.Viewport = Fit(winW, winH, aspect)
	} else {
		// Nothing to show yet; clear only.
		dc.Texture = 0
		dc.Viewport = gfx.Rect{W: winW, H: winH}
	}
	p.gpu.Draw(dc)
	return nil
}

// ReadHWFrame reads the last hardware frame back as top-down RGBA.
func (p *Pipeline) ReadHWFrame() ([]byte, int, int, error) {
	if p.machine == nil || p.machine.State() != Ready || p.machine.FramebufferObject() == 0 {
		return nil, 0, 0, fmt.Errorf("no hardware frame available")
	}
	w, h := p.frameW, p.frameH
	pix, err := p.gpu.ReadPixels(p.machine.FramebufferObject(), w, h)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read framebuffer: %w", err)
	}
	if p.machine.Descriptor().BottomLeftOrigin {
		gfx.FlipRows(pix, w, h)
	}
	return pix, w, h, nil
}

// Release frees the program and frame texture.
func (p *Pipeline) Release() {
	if p.program != 0 {
		p.gpu.DeleteProgram(p.program)
		p.program = 0
	}
	if p.tex != 0 {
		p.gpu.DeleteTexture(p.tex)
		p.tex = 0
		p.texW, p.texH = 0, 0
	}
	p.frameW, p.frameH = 0, 0
	p.hwFrame = false
}
