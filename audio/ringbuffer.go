package audio

import (
	"io"
	"sync"
)

// RingBuffer is a fixed-capacity byte FIFO between the core thread, which
// writes PCM, and the device, which pulls it. A full buffer drops the
// oldest bytes; an empty buffer blocks readers until data arrives or the
// buffer is closed.
type RingBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	rpos   int
	wpos   int
	count  int
	closed bool

	// starved is set when a reader found the buffer empty.
	starved bool
}

// NewRingBuffer returns an empty buffer holding up to capacity bytes.
func NewRingBuffer(capacity int) *RingBuffer {
	rb := &RingBuffer{buf: make([]byte, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Write appends p, overwriting the oldest data if it does not fit. Writes
// after Close are ignored.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed {
		return 0, nil
	}
	n := len(p)
	capacity := len(rb.buf)
	if capacity == 0 {
		return n, nil
	}
	if len(p) > capacity {
		p = p[len(p)-capacity:]
	}
	if over := rb.count + len(p) - capacity; over > 0 {
		rb.rpos = (rb.rpos + over) % capacity
		rb.count -= over
	}
	for len(p) > 0 {
		c := copy(rb.buf[rb.wpos:], p)
		rb.wpos = (rb.wpos + c) % capacity
		rb.count += c
		p = p[c:]
	}
	rb.cond.Broadcast()
	return n, nil
}

// Read fills p with buffered bytes, blocking while the buffer is empty.
// It returns io.EOF once the buffer is closed and drained.
func (rb *RingBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	rb.mu.Lock()
	defer rb.mu.Unlock()
	for rb.count == 0 {
		if rb.closed {
			return 0, io.EOF
		}
		rb.starved = true
		rb.cond.Wait()
	}
	n := 0
	for n < len(p) && rb.count > 0 {
		end := rb.rpos + rb.count
		if end > len(rb.buf) {
			end = len(rb.buf)
		}
		c := copy(p[n:], rb.buf[rb.rpos:end])
		rb.rpos = (rb.rpos + c) % len(rb.buf)
		rb.count -= c
		n += c
	}
	return n, nil
}

// Buffered returns the number of unread bytes.
func (rb *RingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Starved reports whether a reader ran dry since the last call, and
// clears the flag.
func (rb *RingBuffer) Starved() bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	s := rb.starved
	rb.starved = false
	return s
}

// Clear drops all buffered data.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.rpos, rb.wpos, rb.count = 0, 0, 0
}

// Close wakes blocked readers. Remaining data can still be read.
func (rb *RingBuffer) Close() error {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
	return nil
}
