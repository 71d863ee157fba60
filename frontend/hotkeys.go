package frontend

import (
	"errors"
	"fmt"

	"github.com/user-none/retrohost/control"
	"github.com/user-none/retrohost/session"
)

// Hotkey is a frontend action bound to a key.
type Hotkey int

const (
	HotkeyNone Hotkey = iota
	HotkeyScreenshot
	HotkeyClipboard
	HotkeySaveSlot
	HotkeyLoadSlot
	HotkeyPrevSlot
	HotkeyNextSlot
	HotkeyPause
)

func (h Hotkey) String() string {
	switch h {
	case HotkeyScreenshot:
		return "screenshot"
	case HotkeyClipboard:
		return "clipboard"
	case HotkeySaveSlot:
		return "save slot"
	case HotkeyLoadSlot:
		return "load slot"
	case HotkeyPrevSlot:
		return "previous slot"
	case HotkeyNextSlot:
		return "next slot"
	case HotkeyPause:
		return "pause"
	default:
		return "none"
	}
}

// HotkeyFor returns the hotkey bound to a key name pressed with or
// without shift.
func HotkeyFor(key string, shift bool) Hotkey {
	switch key {
	case "F12":
		if shift {
			return HotkeyClipboard
		}
		return HotkeyScreenshot
	case "F2":
		return HotkeySaveSlot
	case "F4":
		return HotkeyLoadSlot
	case "F6":
		return HotkeyPrevSlot
	case "F7":
		return HotkeyNextSlot
	case "P":
		return HotkeyPause
	}
	return HotkeyNone
}

// Actions runs hotkeys through the same dispatcher control clients use.
type Actions struct {
	Dispatcher *control.Dispatcher
	// Clipboard copies the current frame. Nil disables the hotkey.
	Clipboard func() error
}

// Trigger runs the action bound to h.
func (a *Actions) Trigger(h Hotkey) error {
	var cmd control.Command
	switch h {
	case HotkeyClipboard:
		if a.Clipboard == nil {
			return errors.New("clipboard not available")
		}
		return a.Clipboard()
	case HotkeyScreenshot:
		cmd.Type = control.CmdScreenshot
	case HotkeySaveSlot:
		cmd.Type = control.CmdSaveState
	case HotkeyLoadSlot:
		cmd.Type = control.CmdLoadState
	case HotkeyPrevSlot:
		cmd.Type = control.CmdPrevSlot
	case HotkeyNextSlot:
		cmd.Type = control.CmdNextSlot
	case HotkeyPause:
		cmd.Type = control.CmdPause
		if a.Dispatcher.Target.Paused() {
			cmd.Type = control.CmdResume
		}
	default:
		return fmt.Errorf("unknown hotkey %d", h)
	}
	if res := a.Dispatcher.Execute(cmd); !res.OK {
		return fmt.Errorf("%s: %s", h, res.Error)
	}
	return nil
}

// RewindHold counts the ticks the rewind key has been held.
type RewindHold struct {
	held int
}

// Update advances one tick and returns how many states to step back.
func (r *RewindHold) Update(pressed bool) int {
	if !pressed {
		r.held = 0
		return 0
	}
	r.held++
	return session.RewindStepsForHold(r.held)
}

// Active reports whether the key is held.
func (r *RewindHold) Active() bool {
	return r.held > 0
}
