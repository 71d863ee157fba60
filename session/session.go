// Package session hosts one libretro core at a time: it loads the library,
// answers its environment requests, routes its audio and video, drives
// frames and persists its state.
package session

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/user-none/retrohost/audio"
	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/render"
	"github.com/user-none/retrohost/retro"
	"github.com/user-none/retrohost/screenshot"
	"github.com/user-none/retrohost/storage"
)

// Lifecycle is the state of the hosted core.
type Lifecycle int

const (
	Unloaded Lifecycle = iota
	Loaded
	Initialized
	GameLoaded
)

func (l Lifecycle) String() string {
	switch l {
	case Loaded:
		return "Loaded"
	case Initialized:
		return "Initialized"
	case GameLoaded:
		return "GameLoaded"
	default:
		return "Unloaded"
	}
}

// Dirs are the paths handed to cores. Empty entries are reported as
// unavailable.
type Dirs struct {
	System string
	Save   string
	Assets string
}

// OptionStore persists core option values per core.
type OptionStore interface {
	LoadCoreOptions(core string) (map[string]string, error)
	SaveCoreOptions(core string, values map[string]string) error
}

// Clock abstracts time for the frame pump.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Config holds the collaborators and settings of a Session.
type Config struct {
	Opener  retro.Opener
	GPU     gfx.GPU
	Surface gfx.Surface
	Audio   audio.OpenFunc
	Options OptionStore
	Dirs    Dirs

	FrameSkip int
	VSync     bool
	Verbose   bool
	Rewind    storage.RewindConfig

	// Clock defaults to the wall clock.
	Clock Clock
}

// Session owns the loaded core and every resource it touches. All methods
// must be called from the goroutine that owns the GPU context.
type Session struct {
	cfg   Config
	clock Clock
	env   map[retro.Command]handler

	plugin    retro.Plugin
	core      *retro.Core
	corePath  string
	coreName  string
	lifecycle Lifecycle
	sysInfo   retro.SystemInfo
	avInfo    retro.AVInfo

	gamePath string
	gameName string

	machine  *render.Machine
	initHW   *render.Descriptor
	pipeline *render.Pipeline
	sink     *audio.Sink
	input    *InputState
	options  *Options
	encoder  screenshot.Encoder

	surface  FrameSurface
	quirks   uint64
	interval time.Duration
	stateBuf []byte
	slots    *Slots
	rewinder *Rewinder

	ranOnce           bool
	paused            bool
	shutdownRequested bool
	warnedCommands    map[retro.Command]bool
	lastErr           string

	fpsFrames int
	fpsSince  time.Time
	fps       float64

	observers []func(Event)
}

// New creates an empty session.
func New(cfg Config) *Session {
	s := &Session{
		cfg:            cfg,
		clock:          cfg.Clock,
		input:          &InputState{},
		warnedCommands: make(map[retro.Command]bool),
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if cfg.Audio != nil {
		s.sink = audio.NewSink(cfg.Audio)
	}
	s.machine = render.NewMachine(cfg.GPU)
	s.pipeline = render.NewPipeline(cfg.GPU, s.machine)
	s.env = s.handlers()
	return s
}

// Lifecycle returns the current core state.
func (s *Session) Lifecycle() Lifecycle {
	return s.lifecycle
}

// SystemInfo returns the cached info of the loaded core.
func (s *Session) SystemInfo() retro.SystemInfo {
	return s.sysInfo
}

// AVInfo returns the current audio/video timing and geometry.
func (s *Session) AVInfo() retro.AVInfo {
	return s.avInfo
}

// Input returns the input snapshot the frontend writes to.
func (s *Session) Input() *InputState {
	return s.input
}

// Machine returns the hardware render state machine.
func (s *Session) Machine() *render.Machine {
	return s.machine
}

// Pipeline returns the frame pipeline.
func (s *Session) Pipeline() *render.Pipeline {
	return s.pipeline
}

// Options returns the core options, or nil before a core declares any.
func (s *Session) Options() *Options {
	return s.options
}

// Slots returns the save slots of the loaded game, or nil.
func (s *Session) Slots() *Slots {
	return s.slots
}

// GameName is the base name of the loaded game without extension.
func (s *Session) GameName() string {
	return s.gameName
}

// LastError is the message of the most recent surfaced error.
func (s *Session) LastError() string {
	return s.lastErr
}

// ShutdownRequested reports whether the core asked the frontend to quit.
func (s *Session) ShutdownRequested() bool {
	return s.shutdownRequested
}

// Paused reports whether Step is suspended by the frontend.
func (s *Session) Paused() bool {
	return s.paused
}

// SetPaused changes the pause flag and notifies observers on change.
func (s *Session) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	s.emit(Event{Kind: EventPausedChanged, Paused: paused})
}

// call enters the core with s bound as the callback target.
func (s *Session) call(fn func()) {
	retro.Bind(s, fn)
}

// fail records err as the last error and logs it.
func (s *Session) fail(err error) error {
	s.lastErr = err.Error()
	log.Printf("Error: %v", err)
	s.emit(Event{Kind: EventError, Message: s.lastErr})
	return err
}

func (s *Session) debugf(format string, args ...any) {
	if s.cfg.Verbose {
		log.Printf(format, args...)
	}
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
