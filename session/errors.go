package session

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSymbol     = errors.New("core is missing a required symbol")
	ErrFileUnreadable    = errors.New("file could not be read")
	ErrRejectedByCore    = errors.New("core rejected the game")
	ErrCoreRejected      = errors.New("core rejected the state")
	ErrStateIO           = errors.New("state file I/O failed")
	ErrSavingUnsupported = errors.New("core does not support save states")
	ErrNoCore            = errors.New("no core loaded")
	ErrNoGame            = errors.New("no game loaded")
)

// LoadError reports a failed LoadCore. Err is one of the sentinels above;
// Cause, when set, is the underlying error.
type LoadError struct {
	Path    string
	Err     error
	Cause   error
	Missing []string
}

func (e *LoadError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("failed to load core %s: %v: %v", e.Path, e.Err, e.Missing)
	case e.Cause != nil:
		return fmt.Sprintf("failed to load core %s: %v", e.Path, e.Cause)
	default:
		return fmt.Sprintf("failed to load core %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() []error { return unwrap(e.Err, e.Cause) }

// GameLoadError reports a failed LoadGame.
type GameLoadError struct {
	Path  string
	Err   error
	Cause error
}

func (e *GameLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load game %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to load game %s: %v", e.Path, e.Err)
}

func (e *GameLoadError) Unwrap() []error { return unwrap(e.Err, e.Cause) }

// StateError reports a failed save or load of a state file. Op is "save"
// or "load".
type StateError struct {
	Op    string
	Path  string
	Err   error
	Cause error
}

func (e *StateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to %s state %s: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to %s state %s: %v", e.Op, e.Path, e.Err)
}

func (e *StateError) Unwrap() []error { return unwrap(e.Err, e.Cause) }

func unwrap(errs ...error) []error {
	out := errs[:0:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
