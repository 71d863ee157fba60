package storage

import "runtime"

// Config represents the host configuration stored in config.json
type Config struct {
	Version  int           `json:"version"`
	Frontend string        `json:"frontend"` // "glx" or "ebiten"
	Video    VideoConfig   `json:"video"`
	Audio    AudioConfig   `json:"audio"`
	Control  ControlConfig `json:"control"`
	Rewind   RewindConfig  `json:"rewind"`
	Log      LogConfig     `json:"log"`
}

// VideoConfig contains video-related settings
type VideoConfig struct {
	FrameSkip int  `json:"frameSkip"` // frames run per displayed frame, minus one
	VSync     bool `json:"vsync"`     // pace on the display instead of sleeping
	Scale     int  `json:"scale"`     // initial window size as a multiple of the base geometry
}

// AudioConfig contains audio-related settings
type AudioConfig struct {
	Backend string  `json:"backend"` // "oto", "alsa" or "none"
	Volume  float64 `json:"volume"`
	Muted   bool    `json:"muted"`
}

// ControlConfig configures the websocket control server.
type ControlConfig struct {
	Listen string `json:"listen,omitempty"` // empty disables the server
}

// RewindConfig contains rewind feature settings
type RewindConfig struct {
	Enabled      bool `json:"enabled"`      // Default: false (off due to RAM usage)
	BufferSizeMB int  `json:"bufferSizeMB"` // Default: 40
	FrameStep    int  `json:"frameStep"`    // Default: 1 (capture every frame)
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Verbose bool `json:"verbose"` // include core debug messages
}

// Frontend names.
const (
	FrontendGLX    = "glx"
	FrontendEbiten = "ebiten"
)

// DefaultConfig returns the configuration used when config.json is absent.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Frontend: defaultFrontend(),
		Video: VideoConfig{
			FrameSkip: 0,
			VSync:     true,
			Scale:     3,
		},
		Audio: AudioConfig{
			Backend: "oto",
			Volume:  1.0,
		},
		Rewind: RewindConfig{
			Enabled:      false,
			BufferSizeMB: 40,
			FrameStep:    1,
		},
	}
}

// The GLX frontend is the only one that can host hardware-rendered cores,
// and it only exists on X11 platforms.
func defaultFrontend() string {
	switch runtime.GOOS {
	case "linux", "freebsd":
		return FrontendGLX
	default:
		return FrontendEbiten
	}
}
