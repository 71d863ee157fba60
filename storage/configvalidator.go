package storage

import (
	"encoding/json"
	"fmt"
	"slices"
)

var (
	validFrontends     = []string{FrontendGLX, FrontendEbiten}
	validAudioBackends = []string{"oto", "alsa", "none"}
)

// detectPresentKeys returns the dotted-path config keys (e.g.
// "audio.volume") that are explicitly present in jsonBytes. Only fields
// with a non-zero default are checked.
func detectPresentKeys(jsonBytes []byte) map[string]bool {
	present := make(map[string]bool)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return present
	}

	for _, k := range []string{"version", "frontend"} {
		if _, ok := raw[k]; ok {
			present[k] = true
		}
	}

	nested := map[string][]string{
		"video":  {"vsync", "scale"},
		"audio":  {"backend", "volume"},
		"rewind": {"bufferSizeMB", "frameStep"},
	}
	for section, keys := range nested {
		sectionRaw, ok := raw[section]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if json.Unmarshal(sectionRaw, &fields) != nil {
			continue
		}
		for _, k := range keys {
			if _, ok := fields[k]; ok {
				present[section+"."+k] = true
			}
		}
	}

	return present
}

// ApplyMissingDefaults sets default values for config fields that are
// absent from the JSON file, preserving intentional zero values such as
// volume=0 or vsync=false.
func ApplyMissingDefaults(config *Config, presentKeys map[string]bool) {
	defaults := DefaultConfig()

	if !presentKeys["version"] {
		config.Version = defaults.Version
	}
	if !presentKeys["frontend"] {
		config.Frontend = defaults.Frontend
	}
	if !presentKeys["video.vsync"] {
		config.Video.VSync = defaults.Video.VSync
	}
	if !presentKeys["video.scale"] {
		config.Video.Scale = defaults.Video.Scale
	}
	if !presentKeys["audio.backend"] {
		config.Audio.Backend = defaults.Audio.Backend
	}
	if !presentKeys["audio.volume"] {
		config.Audio.Volume = defaults.Audio.Volume
	}
	if !presentKeys["rewind.bufferSizeMB"] {
		config.Rewind.BufferSizeMB = defaults.Rewind.BufferSizeMB
	}
	if !presentKeys["rewind.frameStep"] {
		config.Rewind.FrameStep = defaults.Rewind.FrameStep
	}
}

// ValidateConfig checks all config fields against valid ranges and returns
// human-readable error descriptions. An empty slice means the config is valid.
func ValidateConfig(config *Config) []string {
	var errs []string

	if config.Version != 1 {
		errs = append(errs, fmt.Sprintf("version: %d (valid: 1)", config.Version))
	}
	if !slices.Contains(validFrontends, config.Frontend) {
		errs = append(errs, fmt.Sprintf("frontend: %q (valid: %v)", config.Frontend, validFrontends))
	}
	if config.Video.FrameSkip < 0 || config.Video.FrameSkip > 9 {
		errs = append(errs, fmt.Sprintf("video.frameSkip: %d (valid: 0-9)", config.Video.FrameSkip))
	}
	if config.Video.Scale < 1 || config.Video.Scale > 8 {
		errs = append(errs, fmt.Sprintf("video.scale: %d (valid: 1-8)", config.Video.Scale))
	}
	if !slices.Contains(validAudioBackends, config.Audio.Backend) {
		errs = append(errs, fmt.Sprintf("audio.backend: %q (valid: %v)", config.Audio.Backend, validAudioBackends))
	}
	if config.Audio.Volume < 0 || config.Audio.Volume > 2.0 {
		errs = append(errs, fmt.Sprintf("audio.volume: %.2f (valid: 0.0-2.0)", config.Audio.Volume))
	}
	if config.Rewind.BufferSizeMB < 10 || config.Rewind.BufferSizeMB > 200 {
		errs = append(errs, fmt.Sprintf("rewind.bufferSizeMB: %d (valid: 10-200)", config.Rewind.BufferSizeMB))
	}
	if config.Rewind.FrameStep < 1 || config.Rewind.FrameStep > 10 {
		errs = append(errs, fmt.Sprintf("rewind.frameStep: %d (valid: 1-10)", config.Rewind.FrameStep))
	}

	return errs
}

// CorrectConfig resets any invalid fields to their defaults. Valid fields
// are preserved.
func CorrectConfig(config *Config) *Config {
	defaults := DefaultConfig()

	if config.Version != 1 {
		config.Version = defaults.Version
	}
	if !slices.Contains(validFrontends, config.Frontend) {
		config.Frontend = defaults.Frontend
	}
	if config.Video.FrameSkip < 0 || config.Video.FrameSkip > 9 {
		config.Video.FrameSkip = defaults.Video.FrameSkip
	}
	if config.Video.Scale < 1 || config.Video.Scale > 8 {
		config.Video.Scale = defaults.Video.Scale
	}
	if !slices.Contains(validAudioBackends, config.Audio.Backend) {
		config.Audio.Backend = defaults.Audio.Backend
	}
	if config.Audio.Volume < 0 || config.Audio.Volume > 2.0 {
		config.Audio.Volume = defaults.Audio.Volume
	}
	if config.Rewind.BufferSizeMB < 10 || config.Rewind.BufferSizeMB > 200 {
		config.Rewind.BufferSizeMB = defaults.Rewind.BufferSizeMB
	}
	if config.Rewind.FrameStep < 1 || config.Rewind.FrameStep > 10 {
		config.Rewind.FrameStep = defaults.Rewind.FrameStep
	}

	return config
}
