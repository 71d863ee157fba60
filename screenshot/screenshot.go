// Package screenshot encodes frames to PNG files, thumbnails and the
// system clipboard.
package screenshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"golang.design/x/clipboard"
	xdraw "golang.org/x/image/draw"

	"github.com/user-none/retrohost/gfx"
)

// ErrEmptyFrame is returned when there is nothing to encode.
var ErrEmptyFrame = errors.New("no frame to capture")

// Encoder converts core frames to images. It keeps a conversion buffer
// between calls and is not safe for concurrent use.
type Encoder struct {
	buf []byte
}

// Image converts a frame to an RGBA image. ColorGPU frames must already be
// top-down RGBA. The returned image is a copy.
func (e *Encoder) Image(cs gfx.Colorspace, w, h, pitch int, pix []byte) (*image.RGBA, error) {
	if w <= 0 || h <= 0 || len(pix) == 0 {
		return nil, ErrEmptyFrame
	}
	var rgba []byte
	if cs == gfx.ColorGPU {
		if len(pix) < w*h*4 {
			return nil, fmt.Errorf("frame is %d bytes, want %d", len(pix), w*h*4)
		}
		rgba = pix[:w*h*4]
	} else {
		e.buf = gfx.ToRGBA(e.buf, cs, w, h, pitch, pix)
		if e.buf == nil {
			return nil, fmt.Errorf("frame is %d bytes, too short for %dx%d pitch %d", len(pix), w, h, pitch)
		}
		rgba = e.buf
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, rgba)
	return img, nil
}

// Encode writes the frame as a PNG at path, creating parent directories.
func (e *Encoder) Encode(path string, cs gfx.Colorspace, w, h, pitch int, pix []byte) error {
	img, err := e.Image(cs, w, h, pitch, pix)
	if err != nil {
		return err
	}
	return WritePNG(path, img)
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create screenshot file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return f.Close()
}

// Thumbnail scales img to fit within maxW×maxH, keeping its aspect ratio.
func Thumbnail(img image.Image, maxW, maxH int) *image.RGBA {
	bounds := img.Bounds()
	scale := min(float64(maxW)/float64(bounds.Dx()), float64(maxH)/float64(bounds.Dy()))
	w := max(int(float64(bounds.Dx())*scale), 1)
	h := max(int(float64(bounds.Dy())*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// TimestampPath returns <dir>/<unix seconds>.png.
func TimestampPath(dir string, now time.Time) string {
	return filepath.Join(dir, strconv.FormatInt(now.Unix(), 10)+".png")
}

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// CopyToClipboard places img on the system clipboard as PNG.
func CopyToClipboard(img image.Image) error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	if clipboardErr != nil {
		return fmt.Errorf("clipboard not available: %w", clipboardErr)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode screenshot: %w", err)
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}
