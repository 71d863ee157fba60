package retro

import "strings"

// SystemInfo mirrors retro_system_info. Strings are copied out of core
// memory when the info is read.
type SystemInfo struct {
	LibraryName     string
	LibraryVersion  string
	ValidExtensions string // pipe separated, no dots
	NeedFullpath    bool
	BlockExtract    bool
}

// Extensions returns ValidExtensions as a list of lower-case ".ext" entries.
func (i SystemInfo) Extensions() []string {
	if i.ValidExtensions == "" {
		return nil
	}
	parts := strings.Split(i.ValidExtensions, "|")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		exts = append(exts, "."+strings.ToLower(strings.TrimPrefix(p, ".")))
	}
	return exts
}

// Geometry mirrors retro_game_geometry.
type Geometry struct {
	BaseWidth   int
	BaseHeight  int
	MaxWidth    int
	MaxHeight   int
	AspectRatio float64 // <= 0 means width/height
}

// Aspect returns the display aspect ratio, falling back to the base size.
func (g Geometry) Aspect() float64 {
	if g.AspectRatio > 0 {
		return g.AspectRatio
	}
	if g.BaseHeight == 0 {
		return 0
	}
	return float64(g.BaseWidth) / float64(g.BaseHeight)
}

// Timing mirrors retro_system_timing.
type Timing struct {
	FPS        float64
	SampleRate float64
}

// AVInfo mirrors retro_system_av_info.
type AVInfo struct {
	Geometry Geometry
	Timing   Timing
}

// GameInfo is passed to load_game. Data is nil when Path is passed through.
type GameInfo struct {
	Path string
	Data []byte
	Meta string
}

// Frame is a single video refresh from the core. Data aliases core memory
// and is only guaranteed valid until the callback returns.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Pitch  int

	// HW is set when the core passed the "frame buffer valid" sentinel.
	HW bool
}

// FrameLen is the number of bytes a software frame spans. The last row
// only covers its pixels, not a full pitch.
func FrameLen(width, height, pitch int, format PixelFormat) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return pitch*(height-1) + width*format.BytesPerPixel()
}

// Dupe reports whether the core asked the host to repeat the previous frame.
func (f Frame) Dupe() bool {
	return !f.HW && f.Data == nil
}
