package frontend

import (
	"log"

	"github.com/user-none/retrohost/control"
	"github.com/user-none/retrohost/session"
)

// Driver advances a session once per window tick. Control commands,
// hotkeys and frames all run on the caller's goroutine, which must own
// the GPU context.
type Driver struct {
	Session *session.Session
	// Control is optional.
	Control *control.Server
	Actions *Actions

	rewind RewindHold
}

// Hotkey runs h and logs a failure.
func (d *Driver) Hotkey(h Hotkey) {
	if h == HotkeyNone {
		return
	}
	if err := d.Actions.Trigger(h); err != nil {
		log.Printf("Warning: %v", err)
	}
}

// Tick drains queued control commands, then either steps back through
// the rewind history while the rewind key is held or runs one frame.
func (d *Driver) Tick(rewindHeld bool) {
	if d.Control != nil {
		d.Control.Drain(d.Actions.Dispatcher)
	}

	if d.Session.Rewinder() != nil {
		steps := d.rewind.Update(rewindHeld)
		if d.rewind.Active() {
			if steps == 0 || !d.Session.Rewind(steps) {
				d.Session.StepPaused()
			}
			return
		}
	}

	if d.Session.Paused() {
		d.Session.StepPaused()
		return
	}
	d.Session.Step()
}
