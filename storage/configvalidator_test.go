package storage

import "testing"

func TestDetectPresentKeys(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{"empty", `{}`, nil},
		{"invalid", `not json`, nil},
		{"top level", `{"version": 1, "frontend": "glx"}`, []string{"version", "frontend"}},
		{"nested", `{"audio": {"volume": 0.5}, "video": {"scale": 2}}`, []string{"audio.volume", "video.scale"}},
		{"section not an object", `{"audio": 3}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := detectPresentKeys([]byte(tc.json))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for _, k := range tc.want {
				if !got[k] {
					t.Errorf("missing key %q in %v", k, got)
				}
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errors int
	}{
		{"valid", func(*Config) {}, 0},
		{"bad version", func(c *Config) { c.Version = 2 }, 1},
		{"bad frontend", func(c *Config) { c.Frontend = "vulkan" }, 1},
		{"frameskip too high", func(c *Config) { c.Video.FrameSkip = 10 }, 1},
		{"negative frameskip", func(c *Config) { c.Video.FrameSkip = -1 }, 1},
		{"scale zero", func(c *Config) { c.Video.Scale = 0 }, 1},
		{"bad audio backend", func(c *Config) { c.Audio.Backend = "pulse" }, 1},
		{"volume too high", func(c *Config) { c.Audio.Volume = 2.5 }, 1},
		{"rewind buffer", func(c *Config) { c.Rewind.BufferSizeMB = 5 }, 1},
		{"rewind step", func(c *Config) { c.Rewind.FrameStep = 0 }, 1},
		{"several", func(c *Config) {
			c.Version = 0
			c.Audio.Volume = -1
		}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(c)
			if errs := ValidateConfig(c); len(errs) != tc.errors {
				t.Errorf("got %d errors %v, want %d", len(errs), errs, tc.errors)
			}
		})
	}
}

func TestCorrectConfig(t *testing.T) {
	c := DefaultConfig()
	c.Frontend = "bogus"
	c.Audio.Volume = 9
	c.Video.FrameSkip = 3
	c.Control.Listen = ":9000"

	CorrectConfig(c)

	if errs := ValidateConfig(c); len(errs) != 0 {
		t.Fatalf("corrected config still invalid: %v", errs)
	}
	if c.Video.FrameSkip != 3 {
		t.Errorf("valid frameSkip changed to %d", c.Video.FrameSkip)
	}
	if c.Control.Listen != ":9000" {
		t.Errorf("listen address changed to %q", c.Control.Listen)
	}
	if c.Audio.Volume != 1.0 {
		t.Errorf("volume = %v, want default", c.Audio.Volume)
	}
}
