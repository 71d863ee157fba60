package session

import (
	"log"

	"github.com/pierrec/lz4/v4"
)

// rewindEntry is one captured state. Data is lz4 block compressed unless
// raw is set, which happens when the state does not compress.
type rewindEntry struct {
	data []byte
	size int
	raw  bool
}

// Rewinder keeps a bounded history of compressed states. States are
// captured every frameStep frames and popped newest first.
type Rewinder struct {
	entries   []rewindEntry
	bytes     int
	budget    int
	frameStep int
	frameTick int

	comp    lz4.Compressor
	scratch []byte
	out     []byte
}

// NewRewinder returns a rewinder holding at most budgetMB of compressed
// states, or nil if either argument is not positive.
func NewRewinder(budgetMB, frameStep int) *Rewinder {
	if budgetMB <= 0 || frameStep <= 0 {
		return nil
	}
	return &Rewinder{
		budget:    budgetMB * 1024 * 1024,
		frameStep: frameStep,
	}
}

// Tick advances the frame counter and reports whether a capture is due.
func (r *Rewinder) Tick() bool {
	r.frameTick++
	if r.frameTick < r.frameStep {
		return false
	}
	r.frameTick = 0
	return true
}

// Push compresses state and appends it, evicting the oldest entries to
// stay within the budget.
func (r *Rewinder) Push(state []byte) error {
	bound := lz4.CompressBlockBound(len(state))
	if cap(r.scratch) < bound {
		r.scratch = make([]byte, bound)
	}
	n, err := r.comp.CompressBlock(state, r.scratch[:bound])
	if err != nil {
		return err
	}
	e := rewindEntry{size: len(state)}
	if n == 0 || n >= len(state) {
		e.data = append([]byte(nil), state...)
		e.raw = true
	} else {
		e.data = append([]byte(nil), r.scratch[:n]...)
	}

	r.entries = append(r.entries, e)
	r.bytes += len(e.data)
	for r.bytes > r.budget && len(r.entries) > 1 {
		r.bytes -= len(r.entries[0].data)
		r.entries[0] = rewindEntry{}
		r.entries = r.entries[1:]
	}
	return nil
}

// Pop discards up to count of the newest states, always keeping the
// oldest, and returns the newest remaining state. The returned slice is
// reused by the next call.
func (r *Rewinder) Pop(count int) ([]byte, bool) {
	if len(r.entries) == 0 {
		return nil, false
	}
	count = min(count, len(r.entries)-1)
	for range count {
		last := len(r.entries) - 1
		r.bytes -= len(r.entries[last].data)
		r.entries[last] = rewindEntry{}
		r.entries = r.entries[:last]
	}

	e := r.entries[len(r.entries)-1]
	if e.raw {
		return e.data, true
	}
	if cap(r.out) < e.size {
		r.out = make([]byte, e.size)
	}
	n, err := lz4.UncompressBlock(e.data, r.out[:e.size])
	if err != nil || n != e.size {
		log.Printf("Warning: corrupt rewind state: %v", err)
		return nil, false
	}
	return r.out[:n], true
}

// Reset drops all states.
func (r *Rewinder) Reset() {
	clear(r.entries)
	r.entries = r.entries[:0]
	r.bytes = 0
	r.frameTick = 0
}

// Count is the number of stored states.
func (r *Rewinder) Count() int {
	return len(r.entries)
}

// Bytes is the compressed size of the stored states.
func (r *Rewinder) Bytes() int {
	return r.bytes
}

// RewindStepsForHold maps how many frames the rewind key has been held to
// the number of states to step back this frame. Stepping speeds up the
// longer the key is held.
//
//	held (frames) | steps  | rate
//	1             | 1      | single step
//	2-15          | 0 or 1 | ~15/sec
//	16-30         | 0 or 1 | ~30/sec
//	31-60         | 1      | 60/sec
//	61+           | 2      | 120/sec
func RewindStepsForHold(held int) int {
	switch {
	case held <= 0:
		return 0
	case held == 1:
		return 1
	case held <= 15:
		if held%4 == 0 {
			return 1
		}
		return 0
	case held <= 30:
		if held%2 == 0 {
			return 1
		}
		return 0
	case held <= 60:
		return 1
	default:
		return 2
	}
}

func (s *Session) setupRewind() {
	s.rewinder = nil
	if !s.cfg.Rewind.Enabled || s.core.SerializeSize == nil || s.core.Serialize == nil || s.core.Unserialize == nil {
		return
	}
	s.rewinder = NewRewinder(s.cfg.Rewind.BufferSizeMB, s.cfg.Rewind.FrameStep)
}

// captureRewind stores the state after a frame when a capture is due.
func (s *Session) captureRewind() {
	if s.rewinder == nil || !s.rewinder.Tick() {
		return
	}
	data, err := s.serialize()
	if err != nil {
		s.debugf("[rewind] capture failed: %v", err)
		return
	}
	if err := s.rewinder.Push(data); err != nil {
		log.Printf("Warning: rewind capture: %v", err)
	}
}

// Rewinder returns the rewind history, or nil when rewind is off.
func (s *Session) Rewinder() *Rewinder {
	return s.rewinder
}

// Rewind steps back count captured states and runs one frame so the
// restored state is on screen. It reports whether a state was restored.
func (s *Session) Rewind(count int) bool {
	if s.lifecycle != GameLoaded || s.rewinder == nil || count <= 0 {
		return false
	}
	state, ok := s.rewinder.Pop(count)
	if !ok {
		return false
	}
	s.makeCurrent()
	if err := s.unserialize(state); err != nil {
		log.Printf("Warning: rewind: %v", err)
		return false
	}
	s.runFrame()
	s.render()
	return true
}
