package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// useTempDataDir points the data directory at a fresh temp dir.
func useTempDataDir(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("data dir override uses XDG_DATA_HOME")
	}
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	Init("retrohost-test")
	t.Cleanup(func() { Init("retrohost") })
	return filepath.Join(dir, "retrohost-test")
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Version != 1 {
		t.Errorf("expected version 1, got %d", config.Version)
	}
	if config.Audio.Volume != 1.0 {
		t.Errorf("expected volume 1.0, got %f", config.Audio.Volume)
	}
	if config.Audio.Backend != "oto" {
		t.Errorf("expected oto backend, got %q", config.Audio.Backend)
	}
	if !config.Video.VSync {
		t.Error("expected vsync on by default")
	}
	if errs := ValidateConfig(config); len(errs) != 0 {
		t.Errorf("default config is invalid: %v", errs)
	}
}

func TestAtomicWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.json")

	data := struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}{Name: "test", Value: 42}

	if err := AtomicWriteJSON(path, data); err != nil {
		t.Fatalf("AtomicWriteJSON failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	var result struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	if err := ReadJSON(path, &result); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if result != data {
		t.Errorf("data mismatch: expected %+v, got %+v", data, result)
	}
}

func TestReadJSONCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{not json"), 0644)
	var v map[string]any
	if err := ReadJSON(path, &v); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := useTempDataDir(t)
	if err := EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{savesDir, screenshotDir, systemDir, assetsDir, optionsDir} {
		info, err := os.Stat(filepath.Join(base, d))
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s not created: %v", d, err)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	base := useTempDataDir(t)

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"config", GetConfigPath, filepath.Join(base, "config.json")},
		{"game saves", func() (string, error) { return GetGameSaveDir("sonic") }, filepath.Join(base, "saves", "sonic")},
		{"system", GetSystemDir, filepath.Join(base, "system")},
		{"core assets", func() (string, error) { return GetCoreAssetsDir("snes9x") }, filepath.Join(base, "assets", "snes9x")},
		{"core options", func() (string, error) { return GetCoreOptionsPath("snes9x") }, filepath.Join(base, "options", "snes9x.json")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn()
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	useTempDataDir(t)
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Rewind.BufferSizeMB != 40 {
		t.Errorf("expected defaults, got %+v", config)
	}
}

func TestLoadConfigPreservesZeroValues(t *testing.T) {
	base := useTempDataDir(t)
	os.MkdirAll(base, 0755)
	raw := `{"version": 1, "audio": {"volume": 0}, "video": {"vsync": false}}`
	if err := os.WriteFile(filepath.Join(base, "config.json"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Audio.Volume != 0 {
		t.Errorf("explicit volume 0 was replaced with %v", config.Audio.Volume)
	}
	if config.Video.VSync {
		t.Error("explicit vsync=false was replaced")
	}
	if config.Audio.Backend != "oto" {
		t.Errorf("missing backend should default, got %q", config.Audio.Backend)
	}
	if config.Video.Scale != 3 {
		t.Errorf("missing scale should default, got %d", config.Video.Scale)
	}
}

func TestSaveAndCreateConfig(t *testing.T) {
	useTempDataDir(t)
	if err := CreateConfigIfMissing(); err != nil {
		t.Fatalf("CreateConfigIfMissing: %v", err)
	}

	config, _ := LoadConfig()
	config.Video.FrameSkip = 2
	config.Control.Listen = "127.0.0.1:8765"
	if err := SaveConfig(config); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if err := CreateConfigIfMissing(); err != nil {
		t.Fatalf("CreateConfigIfMissing: %v", err)
	}

	reloaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if reloaded.Video.FrameSkip != 2 || reloaded.Control.Listen != "127.0.0.1:8765" {
		t.Errorf("existing config was overwritten: %+v", reloaded)
	}
}

func TestCoreOptionsRoundTrip(t *testing.T) {
	useTempDataDir(t)

	values, err := LoadCoreOptions("picodrive")
	if err != nil {
		t.Fatalf("LoadCoreOptions: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no stored options, got %v", values)
	}

	values["picodrive_input1"] = "6 button pad"
	if err := SaveCoreOptions("picodrive", values); err != nil {
		t.Fatalf("SaveCoreOptions: %v", err)
	}
	got, err := LoadCoreOptions("picodrive")
	if err != nil {
		t.Fatalf("LoadCoreOptions: %v", err)
	}
	if got["picodrive_input1"] != "6 button pad" {
		t.Errorf("got %v", got)
	}
}

func TestLoadStartupConfig(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		warnings int
		check    func(t *testing.T, c *Config)
	}{
		{
			name: "first run",
			check: func(t *testing.T, c *Config) {
				if c.Rewind.BufferSizeMB != 40 || c.Video.Scale != 3 {
					t.Errorf("expected defaults, got %+v", c)
				}
			},
		},
		{
			name:     "invalid values corrected",
			raw:      `{"version": 1, "video": {"scale": 20, "frameSkip": 2}, "audio": {"backend": "pulse"}}`,
			warnings: 2,
			check: func(t *testing.T, c *Config) {
				if c.Video.Scale != 3 || c.Audio.Backend != "oto" {
					t.Errorf("invalid values kept: %+v", c)
				}
				if c.Video.FrameSkip != 2 {
					t.Errorf("valid frameSkip replaced with %d", c.Video.FrameSkip)
				}
			},
		},
		{
			name:     "corrupt file",
			raw:      `{"video": `,
			warnings: 1,
			check: func(t *testing.T, c *Config) {
				if c.Audio.Volume != 1.0 {
					t.Errorf("expected defaults, got %+v", c)
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base := useTempDataDir(t)
			if tc.raw != "" {
				if err := os.MkdirAll(base, 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(base, "config.json"), []byte(tc.raw), 0644); err != nil {
					t.Fatal(err)
				}
			}

			config, warnings := LoadStartupConfig()
			if len(warnings) != tc.warnings {
				t.Errorf("warnings = %q, want %d", warnings, tc.warnings)
			}
			tc.check(t, config)
			if _, err := os.Stat(filepath.Join(base, "config.json")); err != nil {
				t.Errorf("config.json missing after startup: %v", err)
			}
		})
	}
}
