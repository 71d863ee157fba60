package control

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/user-none/retrohost/screenshot"
)

// Command types accepted from clients.
const (
	CmdPause      = "pause"
	CmdResume     = "resume"
	CmdReset      = "reset"
	CmdSaveState  = "save_state"
	CmdLoadState  = "load_state"
	CmdSaveBoth   = "save_both"
	CmdScreenshot = "screenshot"
	CmdSetOption  = "set_option"
	CmdNextSlot   = "next_slot"
	CmdPrevSlot   = "prev_slot"
)

var knownCommands = map[string]bool{
	CmdPause:      true,
	CmdResume:     true,
	CmdReset:      true,
	CmdSaveState:  true,
	CmdLoadState:  true,
	CmdSaveBoth:   true,
	CmdScreenshot: true,
	CmdSetOption:  true,
	CmdNextSlot:   true,
	CmdPrevSlot:   true,
}

// Command is a request from a client. Path is optional for the state and
// screenshot commands; without it the current slot or the screenshot
// directory is used.
type Command struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Path  string `json:"path,omitempty"`
	Shot  string `json:"shot,omitempty"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`

	// Client is the id of the sender, filled in by the server.
	Client string `json:"-"`
}

// Validate checks the type and required fields.
func (c Command) Validate() error {
	if !knownCommands[c.Type] {
		return fmt.Errorf("unknown command %q", c.Type)
	}
	if c.Type == CmdSetOption && c.Key == "" {
		return fmt.Errorf("set_option requires a key")
	}
	if c.Type == CmdSaveBoth && c.Path == "" {
		return fmt.Errorf("save_both requires a path")
	}
	return nil
}

// Hello is sent to a client when it connects.
type Hello struct {
	Event  string `json:"event"`
	Client string `json:"client"`
}

// Result answers one command.
type Result struct {
	Event string `json:"event"`
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Slot  *int   `json:"slot,omitempty"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// Target is what commands act on. *session.Session implements it.
type Target interface {
	Paused() bool
	SetPaused(paused bool)
	Reset() error
	SaveState(path string) error
	LoadState(path string) error
	SaveSlot() error
	LoadSlot() error
	SaveBoth(statePath, shotPath string) error
	Screenshot(path string) error
	SetOption(key, value string) error
	NextSlot() int
	PreviousSlot() int
}

// Dispatcher runs commands against a Target on the frontend goroutine.
type Dispatcher struct {
	Target        Target
	ScreenshotDir string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Execute runs cmd and returns its result.
func (d *Dispatcher) Execute(cmd Command) Result {
	res := Result{Event: "result", ID: cmd.ID}
	var err error
	switch cmd.Type {
	case CmdPause:
		d.Target.SetPaused(true)
	case CmdResume:
		d.Target.SetPaused(false)
	case CmdReset:
		err = d.Target.Reset()
	case CmdSaveState:
		if cmd.Path == "" {
			err = d.Target.SaveSlot()
		} else {
			err = d.Target.SaveState(cmd.Path)
			res.Path = cmd.Path
		}
	case CmdLoadState:
		if cmd.Path == "" {
			err = d.Target.LoadSlot()
		} else {
			err = d.Target.LoadState(cmd.Path)
			res.Path = cmd.Path
		}
	case CmdSaveBoth:
		shot := cmd.Shot
		if shot == "" {
			shot = strings.TrimSuffix(cmd.Path, filepath.Ext(cmd.Path)) + ".png"
		}
		err = d.Target.SaveBoth(cmd.Path, shot)
		res.Path = cmd.Path
	case CmdScreenshot:
		path := cmd.Path
		if path == "" {
			if d.ScreenshotDir == "" {
				err = fmt.Errorf("no screenshot directory configured")
				break
			}
			path = screenshot.TimestampPath(d.ScreenshotDir, d.now())
		}
		if err == nil {
			err = d.Target.Screenshot(path)
			res.Path = path
		}
	case CmdSetOption:
		err = d.Target.SetOption(cmd.Key, cmd.Value)
	case CmdNextSlot:
		slot := d.Target.NextSlot()
		res.Slot = &slot
	case CmdPrevSlot:
		slot := d.Target.PreviousSlot()
		res.Slot = &slot
	default:
		err = fmt.Errorf("unknown command %q", cmd.Type)
	}
	if err != nil {
		res.Error = err.Error()
		res.Path = ""
	} else {
		res.OK = true
	}
	return res
}

// Drain runs every queued command without blocking and sends each result
// back to its client. It returns the number of commands run.
func (s *Server) Drain(d *Dispatcher) int {
	n := 0
	for {
		select {
		case cmd := <-s.commands:
			s.Send(cmd.Client, d.Execute(cmd))
			n++
		default:
			return n
		}
	}
}
