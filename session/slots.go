package session

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/user-none/retrohost/screenshot"
)

// NumSlots is the number of save state slots per game.
const NumSlots = 10

// Thumbnail bounds for slot previews.
const (
	thumbWidth  = 320
	thumbHeight = 240
)

// Slots tracks the selected save slot of a game.
type Slots struct {
	dir     string
	current int
}

// NewSlots returns slots stored in dir, with slot 0 selected.
func NewSlots(dir string) *Slots {
	return &Slots{dir: dir}
}

// Dir is the directory the slot files live in.
func (m *Slots) Dir() string {
	return m.dir
}

// Current returns the selected slot.
func (m *Slots) Current() int {
	return m.current
}

// Select changes the selected slot, wrapping out of range values.
func (m *Slots) Select(slot int) {
	m.current = ((slot % NumSlots) + NumSlots) % NumSlots
}

// NextSlot cycles to the next slot.
func (m *Slots) NextSlot() int {
	m.Select(m.current + 1)
	return m.current
}

// PreviousSlot cycles to the previous slot.
func (m *Slots) PreviousSlot() int {
	m.Select(m.current - 1)
	return m.current
}

// Path returns the state file of slot.
func (m *Slots) Path(slot int) string {
	return filepath.Join(m.dir, fmt.Sprintf("state-%d.state", slot))
}

// ThumbnailPath returns the preview image of slot.
func (m *Slots) ThumbnailPath(slot int) string {
	return filepath.Join(m.dir, fmt.Sprintf("state-%d.png", slot))
}

// Exists reports whether slot has a saved state.
func (m *Slots) Exists(slot int) bool {
	_, err := os.Stat(m.Path(slot))
	return err == nil
}

// SaveSlot saves the state to the selected slot with a thumbnail.
func (s *Session) SaveSlot() error {
	if s.slots == nil {
		return s.fail(&StateError{Op: "save", Err: ErrNoGame})
	}
	slot := s.slots.Current()
	if err := s.SaveState(s.slots.Path(slot)); err != nil {
		return err
	}
	img, err := s.CaptureImage()
	if err != nil {
		s.debugf("[slots] no thumbnail for slot %d: %v", slot, err)
		return nil
	}
	if err := screenshot.WritePNG(s.slots.ThumbnailPath(slot), screenshot.Thumbnail(img, thumbWidth, thumbHeight)); err != nil {
		log.Printf("Warning: %v", err)
	}
	return nil
}

// LoadSlot loads the state in the selected slot.
func (s *Session) LoadSlot() error {
	if s.slots == nil {
		return s.fail(&StateError{Op: "load", Err: ErrNoGame})
	}
	slot := s.slots.Current()
	if !s.slots.Exists(slot) {
		return s.fail(&StateError{Op: "load", Path: s.slots.Path(slot), Err: ErrStateIO, Cause: fmt.Errorf("no save in slot %d", slot)})
	}
	return s.LoadState(s.slots.Path(slot))
}

// NextSlot selects the next save slot and returns it.
func (s *Session) NextSlot() int {
	if s.slots == nil {
		return 0
	}
	slot := s.slots.NextSlot()
	s.emit(Event{Kind: EventMessage, Message: fmt.Sprintf("Slot %d", slot)})
	return slot
}

// PreviousSlot selects the previous save slot and returns it.
func (s *Session) PreviousSlot() int {
	if s.slots == nil {
		return 0
	}
	slot := s.slots.PreviousSlot()
	s.emit(Event{Kind: EventMessage, Message: fmt.Sprintf("Slot %d", slot)})
	return slot
}
