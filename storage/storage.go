// Package storage locates the host's data directories and persists its
// JSON configuration and per-core option values.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var appName = "retrohost"

// Init sets the application data directory name. Must be called before
// any storage operations when the default is not wanted.
func Init(dataDirName string) {
	appName = dataDirName
}

const (
	configFile    = "config.json"
	savesDir      = "saves"
	screenshotDir = "screenshots"
	systemDir     = "system"
	assetsDir     = "assets"
	optionsDir    = "options"
)

// GetBaseDir returns the base directory for application data.
// - macOS: ~/Library/Application Support/<appName>
// - Linux: $XDG_DATA_HOME/<appName> or ~/.local/share/<appName>
// - Windows: %APPDATA%/<appName>
func GetBaseDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		baseDir = filepath.Join(appData, appName)
	default:
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			baseDir = filepath.Join(dataHome, appName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = filepath.Join(home, ".local", "share", appName)
		}
	}

	return baseDir, nil
}

// EnsureDirectories creates the data directory tree.
func EnsureDirectories() error {
	baseDir, err := GetBaseDir()
	if err != nil {
		return err
	}

	dirs := []string{
		baseDir,
		filepath.Join(baseDir, savesDir),
		filepath.Join(baseDir, screenshotDir),
		filepath.Join(baseDir, systemDir),
		filepath.Join(baseDir, assetsDir),
		filepath.Join(baseDir, optionsDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func subdir(name string) (string, error) {
	baseDir, err := GetBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, name), nil
}

// GetConfigPath returns the full path to config.json
func GetConfigPath() (string, error) {
	return subdir(configFile)
}

// GetSavesDir returns the directory holding per-game save directories.
func GetSavesDir() (string, error) {
	return subdir(savesDir)
}

// GetGameSaveDir returns the save directory for one game, keyed by the
// game file's base name without extension.
func GetGameSaveDir(game string) (string, error) {
	dir, err := GetSavesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, game), nil
}

// GetScreenshotDir returns the screenshots directory.
func GetScreenshotDir() (string, error) {
	return subdir(screenshotDir)
}

// GetSystemDir is handed to cores asking for BIOS and firmware files.
func GetSystemDir() (string, error) {
	return subdir(systemDir)
}

// GetCoreAssetsDir returns where a core may keep its own assets.
func GetCoreAssetsDir(core string) (string, error) {
	dir, err := subdir(assetsDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, core), nil
}

// GetOptionsDir returns the directory of per-core option files.
func GetOptionsDir() (string, error) {
	return subdir(optionsDir)
}

// GetCoreOptionsPath returns options/<core>.json.
func GetCoreOptionsPath(core string) (string, error) {
	dir, err := GetOptionsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, core+".json"), nil
}

// AtomicWriteJSON writes data to a JSON file through a temporary file and
// a rename, so readers never see a partial file.
func AtomicWriteJSON(path string, data interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// ReadJSON reads and unmarshals a JSON file
func ReadJSON(path string, data interface{}) error {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(jsonData, data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}
