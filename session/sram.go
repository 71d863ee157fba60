package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user-none/retrohost/retro"
)

// SRAMPath is where the battery save of the loaded game is kept, or "" when
// there is no save directory.
func (s *Session) SRAMPath() string {
	if s.cfg.Dirs.Save == "" || s.gameName == "" {
		return ""
	}
	return filepath.Join(s.cfg.Dirs.Save, s.gameName, s.gameName+".srm")
}

// sram returns the core's save RAM region, or nil when it has none.
func (s *Session) sram() []byte {
	if s.core == nil || s.core.GetMemoryData == nil {
		return nil
	}
	var mem []byte
	s.call(func() { mem = s.core.GetMemoryData(retro.MemorySaveRAM) })
	return mem
}

// SaveSRAM writes the battery save of the loaded game.
func (s *Session) SaveSRAM() error {
	path := s.SRAMPath()
	mem := s.sram()
	if path == "" || len(mem) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	if err := os.WriteFile(path, mem, 0644); err != nil {
		return fmt.Errorf("failed to write SRAM: %w", err)
	}
	return nil
}

// LoadSRAM copies a stored battery save into the core. A missing file is
// not an error.
func (s *Session) LoadSRAM() error {
	path := s.SRAMPath()
	mem := s.sram()
	if path == "" || len(mem) == 0 {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read SRAM: %w", err)
	}
	if len(data) != len(mem) {
		s.debugf("[sram] %s is %d bytes, core has %d", filepath.Base(path), len(data), len(mem))
	}
	copy(mem, data)
	return nil
}
