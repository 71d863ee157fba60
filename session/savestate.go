package session

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/retro"
	"github.com/user-none/retrohost/screenshot"
)

// SavingSupported reports whether the loaded core can save states that
// outlive the session.
func (s *Session) SavingSupported() bool {
	if s.lifecycle < Initialized || s.quirks&retro.QuirkSingleSession != 0 {
		return false
	}
	if !s.core.CanSerialize() {
		return false
	}
	var size int
	s.call(func() { size = s.core.SerializeSize() })
	return size > 0
}

// serialize returns the core state in a buffer reused between calls.
func (s *Session) serialize() ([]byte, error) {
	if s.core.SerializeSize == nil || s.core.Serialize == nil {
		return nil, ErrSavingUnsupported
	}
	var size int
	s.call(func() { size = s.core.SerializeSize() })
	if size <= 0 {
		return nil, ErrSavingUnsupported
	}
	if cap(s.stateBuf) < size {
		s.stateBuf = make([]byte, size)
	}
	buf := s.stateBuf[:size]
	var ok bool
	s.call(func() { ok = s.core.Serialize(buf) })
	if !ok {
		return nil, ErrCoreRejected
	}
	return buf, nil
}

// unserialize restores state. The current frame is copied first since
// it may point into memory the core is about to overwrite.
func (s *Session) unserialize(data []byte) error {
	if s.core.Unserialize == nil {
		return ErrSavingUnsupported
	}
	s.surface = s.surface.Snapshot()
	if s.quirks&retro.QuirkMustInitialize != 0 && !s.ranOnce {
		s.makeCurrent()
		s.runFrame()
	}
	var ok bool
	s.call(func() { ok = s.core.Unserialize(data) })
	if !ok {
		return ErrCoreRejected
	}
	return nil
}

// SaveState writes the core state to path.
func (s *Session) SaveState(path string) error {
	if s.lifecycle != GameLoaded {
		return s.fail(&StateError{Op: "save", Path: path, Err: ErrNoGame})
	}
	data, err := s.serialize()
	if err != nil {
		return s.fail(&StateError{Op: "save", Path: path, Err: err})
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return s.fail(&StateError{Op: "save", Path: path, Err: ErrStateIO, Cause: err})
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return s.fail(&StateError{Op: "save", Path: path, Err: ErrStateIO, Cause: err})
	}
	log.Printf("State saved to %s", path)
	s.emit(Event{Kind: EventStateSaved, Path: path})
	return nil
}

// LoadState restores the core state from path. A file whose size differs
// from what the core reports is still offered to the core.
func (s *Session) LoadState(path string) error {
	if s.lifecycle != GameLoaded {
		return s.fail(&StateError{Op: "load", Path: path, Err: ErrNoGame})
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s.fail(&StateError{Op: "load", Path: path, Err: ErrStateIO, Cause: err})
	}
	if s.core.SerializeSize != nil {
		var size int
		s.call(func() { size = s.core.SerializeSize() })
		if size != len(data) {
			log.Printf("Warning: state %s is %d bytes, core expects %d", filepath.Base(path), len(data), size)
		}
	}
	if err := s.unserialize(data); err != nil {
		return s.fail(&StateError{Op: "load", Path: path, Err: err})
	}
	if s.rewinder != nil {
		s.rewinder.Reset()
	}
	log.Printf("State loaded from %s", path)
	return nil
}

// SaveBoth saves the state to statePath and a screenshot of the current
// frame to shotPath. A failed screenshot is only logged.
func (s *Session) SaveBoth(statePath, shotPath string) error {
	if err := s.SaveState(statePath); err != nil {
		return err
	}
	if err := s.Screenshot(shotPath); err != nil {
		log.Printf("Warning: %v", err)
	}
	return nil
}

// CaptureImage returns the current frame as an image.
func (s *Session) CaptureImage() (*image.RGBA, error) {
	f := s.surface
	if !f.Valid() {
		return nil, screenshot.ErrEmptyFrame
	}
	if f.Format == gfx.ColorGPU {
		s.makeCurrent()
		pix, w, h, err := s.pipeline.ReadHWFrame()
		if err != nil {
			return nil, err
		}
		return s.encoder.Image(gfx.ColorGPU, w, h, w*4, pix)
	}
	return s.encoder.Image(f.Format, f.Width, f.Height, f.Pitch, f.Pixels)
}

// Screenshot writes the current frame to path as PNG.
func (s *Session) Screenshot(path string) error {
	img, err := s.CaptureImage()
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := screenshot.WritePNG(path, img); err != nil {
		return err
	}
	log.Printf("Screenshot saved to %s", path)
	return nil
}

// ScreenshotToClipboard copies the current frame to the clipboard.
func (s *Session) ScreenshotToClipboard() error {
	img, err := s.CaptureImage()
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return screenshot.CopyToClipboard(img)
}
