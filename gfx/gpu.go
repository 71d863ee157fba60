// Package gfx defines the single textured-quad pipeline the host draws
// frames with, plus the pixel conversions and shader preprocessing shared
// by every backend.
package gfx

import (
	"errors"
	"image/color"

	"github.com/user-none/retrohost/retro"
)

// ErrFramebufferIncomplete is returned by NewFramebuffer when the driver
// reports the attachment set as incomplete. The framebuffer is still
// returned and usable for cleanup.
var ErrFramebufferIncomplete = errors.New("framebuffer incomplete")

// ErrNoFramebuffers is returned by backends that cannot render offscreen.
var ErrNoFramebuffers = errors.New("backend does not support framebuffers")

// Handles are opaque backend ids. Zero is never a valid handle.
type (
	Texture     uint32
	Framebuffer uint32
	Program     uint32
)

// Colorspace tags the layout of pixels held by a texture or frame.
type Colorspace int

const (
	ColorXRGB8888 Colorspace = iota
	ColorRGB565
	// ColorGPU means the pixels live in a framebuffer the core rendered to.
	ColorGPU
)

// ColorspaceFor maps a core pixel format to a colorspace. 0RGB1555 and
// unknown codes are not supported.
func ColorspaceFor(f retro.PixelFormat) (Colorspace, bool) {
	switch f {
	case retro.PixelXRGB8888:
		return ColorXRGB8888, true
	case retro.PixelRGB565:
		return ColorRGB565, true
	default:
		return 0, false
	}
}

// Define returns the shader preprocessor symbol for the colorspace.
func (c Colorspace) Define() string {
	switch c {
	case ColorRGB565:
		return "COLORSPACE_RGB565"
	case ColorGPU:
		return "COLORSPACE_GPU"
	default:
		return "COLORSPACE_XRGB8888"
	}
}

// BytesPerPixel is the size of one pixel in a software frame.
func (c Colorspace) BytesPerPixel() int {
	if c == ColorRGB565 {
		return 2
	}
	return 4
}

func (c Colorspace) String() string {
	switch c {
	case ColorRGB565:
		return "RGB565"
	case ColorGPU:
		return "GPU"
	default:
		return "XRGB8888"
	}
}

// HWRenderDefine is added to the shader defines when frames come from a
// core-rendered framebuffer.
const HWRenderDefine = "HW_RENDERING"

// Rect is a viewport in window pixels, origin top-left.
type Rect struct {
	X, Y, W, H int
}

// DrawCall describes one frame draw of the textured quad.
type DrawCall struct {
	Program  Program
	Texture  Texture
	Viewport Rect
	// U and V are the fraction of the texture holding the frame.
	U, V       float32
	FlipY      bool
	Background color.RGBA
}

// GPU is the rendering service. All methods must be called on the thread
// that owns the context, after MakeCurrent.
type GPU interface {
	MakeCurrent() error
	SupportsFramebuffers() bool

	NewTexture(w, h int) (Texture, error)
	UploadTexture(t Texture, cs Colorspace, w, h, pitch int, pix []byte) error
	DeleteTexture(t Texture)

	// NewFramebuffer attaches t (and optional depth/stencil storage) to a
	// new framebuffer object.
	NewFramebuffer(t Texture, w, h int, depth, stencil bool) (Framebuffer, error)
	DeleteFramebuffer(fb Framebuffer)
	// FramebufferID is the driver name handed to cores.
	FramebufferID(fb Framebuffer) uintptr

	CompileProgram(name string, defines []string) (Program, error)
	DeleteProgram(p Program)

	Draw(dc DrawCall)
	// ReadPixels returns tightly packed RGBA rows in framebuffer order,
	// bottom row first.
	ReadPixels(fb Framebuffer, w, h int) ([]byte, error)
	ProcAddress(sym string) uintptr
}

// Surface is the window the GPU presents to.
type Surface interface {
	Size() (w, h int)
	SwapBuffers()
}
