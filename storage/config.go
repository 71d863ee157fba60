package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// LoadConfig reads config.json. A missing file yields DefaultConfig and
// keys absent from the file keep their defaults, so an explicit
// "volume": 0 or "vsync": false survives. A file that is not valid JSON
// is an error.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	jsonBytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := &Config{}
	if err := json.Unmarshal(jsonBytes, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	ApplyMissingDefaults(config, detectPresentKeys(jsonBytes))
	return config, nil
}

// LoadStartupConfig returns the config the host runs with. It never
// fails: an unreadable file falls back to the defaults and invalid values
// are corrected. Each problem found is returned as a warning. A default
// config.json is written on first run so there is a file to edit.
func LoadStartupConfig() (*Config, []string) {
	var warnings []string
	if err := EnsureDirectories(); err != nil {
		warnings = append(warnings, err.Error())
	} else if err := CreateConfigIfMissing(); err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to write default config: %v", err))
	}

	config, err := LoadConfig()
	if err != nil {
		return DefaultConfig(), append(warnings, fmt.Sprintf("using default config: %v", err))
	}
	if problems := ValidateConfig(config); len(problems) > 0 {
		for _, p := range problems {
			warnings = append(warnings, "config "+p)
		}
		config = CorrectConfig(config)
	}
	return config, warnings
}

// SaveConfig writes config.json atomically.
func SaveConfig(config *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return AtomicWriteJSON(path, config)
}

// CreateConfigIfMissing writes the defaults unless config.json exists.
func CreateConfigIfMissing() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return SaveConfig(DefaultConfig())
}
