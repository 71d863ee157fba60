// Package render owns the GPU side of a session: the hardware render
// handshake and the textured-quad pipeline that puts frames on screen.
package render

import (
	"errors"
	"fmt"
	"log"

	"github.com/user-none/retrohost/gfx"
)

// State is the hardware render handshake state.
type State int

const (
	// Disabled means the core renders in software.
	Disabled State = iota
	// NeedsReset means the core asked for a context and is waiting for
	// storage to be (re)created and context_reset to be called.
	NeedsReset
	// Ready means the core may render into the framebuffer.
	Ready
)

func (s State) String() string {
	switch s {
	case Disabled:
		return "Disabled"
	case NeedsReset:
		return "NeedsReset"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}

// ErrNoGeometry is recorded when storage is requested before the render
// size is known.
var ErrNoGeometry = errors.New("render geometry not set")

// Descriptor is what the core negotiated for its context.
type Descriptor struct {
	Depth            bool
	Stencil          bool
	BottomLeftOrigin bool
	ContextReset     func()
	ContextDestroy   func()
}

// Machine tracks the hardware render handshake for one session.
type Machine struct {
	gpu   gfx.GPU
	state State
	desc  Descriptor

	width, height int
	tex           gfx.Texture
	fbo           gfx.Framebuffer
	err           error
}

// NewMachine returns a machine in the Disabled state.
func NewMachine(gpu gfx.GPU) *Machine {
	return &Machine{gpu: gpu}
}

// State returns the current handshake state.
func (m *Machine) State() State {
	return m.state
}

// Err returns the last non-fatal setup error, if any.
func (m *Machine) Err() error {
	return m.err
}

// Descriptor returns the negotiated context descriptor.
func (m *Machine) Descriptor() Descriptor {
	return m.desc
}

// Setup records the core's context request and moves Disabled to
// NeedsReset. It returns false and changes nothing if hardware rendering
// is already set up.
func (m *Machine) Setup(desc Descriptor) bool {
	if m.state != Disabled {
		return false
	}
	log.Printf("[render] setting up hardware rendering")
	m.desc = desc
	m.state = NeedsReset
	return true
}

// RequestReset asks for storage to be recreated and the core notified,
// for example after the GL context was lost.
func (m *Machine) RequestReset() {
	if m.state == Ready {
		m.state = NeedsReset
	}
}

// Reset allocates framebuffer storage at the current geometry, moves to
// Ready and calls the core's context_reset. An incomplete framebuffer is
// recorded and returned but does not stop the transition.
func (m *Machine) Reset() error {
	if m.state == Disabled {
		return nil
	}
	m.err = m.allocate()
	if m.err != nil {
		log.Printf("Warning: hardware render setup: %v", m.err)
	}
	m.state = Ready
	if m.desc.ContextReset != nil {
		m.desc.ContextReset()
	}
	return m.err
}

// Resize records the render geometry. While Ready the storage is
// recreated at the new size in place; the state does not change.
func (m *Machine) Resize(w, h int) error {
	if w == m.width && h == m.height {
		return nil
	}
	m.width, m.height = w, h
	if m.state != Ready {
		return nil
	}
	m.err = m.allocate()
	if m.err != nil {
		log.Printf("Warning: hardware render resize: %v", m.err)
	}
	return m.err
}

// Size returns the current render geometry.
func (m *Machine) Size() (w, h int) {
	return m.width, m.height
}

// Texture returns the texture backing the framebuffer.
func (m *Machine) Texture() gfx.Texture {
	return m.tex
}

// FramebufferObject returns the framebuffer handle.
func (m *Machine) FramebufferObject() gfx.Framebuffer {
	return m.fbo
}

// Framebuffer returns the driver id cores render into. Zero until Ready.
func (m *Machine) Framebuffer() uintptr {
	if m.state != Ready || m.fbo == 0 {
		return 0
	}
	return m.gpu.FramebufferID(m.fbo)
}

// Teardown notifies the core its context is going away, releases storage
// and returns to Disabled.
func (m *Machine) Teardown() {
	if m.state == Ready && m.desc.ContextDestroy != nil {
		m.desc.ContextDestroy()
	}
	m.release()
	m.state = Disabled
	m.desc = Descriptor{}
	m.err = nil
}

func (m *Machine) allocate() error {
	m.release()
	if m.width <= 0 || m.height <= 0 {
		return ErrNoGeometry
	}
	tex, err := m.gpu.NewTexture(m.width, m.height)
	if err != nil {
		return fmt.Errorf("failed to create framebuffer texture: %w", err)
	}
	m.tex = tex
	fbo, err := m.gpu.NewFramebuffer(tex, m.width, m.height, m.desc.Depth, m.desc.Stencil)
	if fbo != 0 {
		m.fbo = fbo
	}
	if err != nil {
		return fmt.Errorf("failed to create framebuffer %dx%d: %w", m.width, m.height, err)
	}
	return nil
}

func (m *Machine) release() {
	if m.fbo != 0 {
		m.gpu.DeleteFramebuffer(m.fbo)
		m.fbo = 0
	}
	if m.tex != 0 {
		m.gpu.DeleteTexture(m.tex)
		m.tex = 0
	}
}
