package audio

import (
	"errors"
	"fmt"
	"log"
)

// Sink forwards core audio to a Device, opening it on first use and
// renegotiating the rate in place afterwards.
type Sink struct {
	open OpenFunc
	dev  Device

	rate         int
	bufferFrames int
	configured   bool

	pair [2]int16
}

// NewSink returns a sink that opens its device through open.
func NewSink(open OpenFunc) *Sink {
	return &Sink{open: open}
}

// Init negotiates rate with the device. A repeat call with the current
// rate does nothing once configured. The device is opened by the first
// call only; later calls reconfigure the same device.
func (s *Sink) Init(rate int) error {
	if s.configured && rate == s.rate {
		return nil
	}
	if s.dev == nil {
		dev, err := s.open()
		if err != nil {
			log.Printf("Warning: failed to open audio device: %v", err)
			return fmt.Errorf("failed to open audio device: %w", err)
		}
		s.dev = dev
	}

	s.rate = rate
	frames, err := s.dev.Configure(rate)
	if err != nil {
		s.configured = false
		log.Printf("Warning: failed to configure audio device at %d Hz: %v", rate, err)
		return fmt.Errorf("failed to configure audio device: %w", err)
	}
	s.bufferFrames = frames
	s.configured = true
	return nil
}

// Rate is the negotiated sample rate, or 0 before Init.
func (s *Sink) Rate() int {
	return s.rate
}

// BufferFrames is the device buffer size reported by the last Init.
func (s *Sink) BufferFrames() int {
	return s.bufferFrames
}

// Device returns the opened device, or nil.
func (s *Sink) Device() Device {
	return s.dev
}

// WriteBatch queues interleaved stereo samples and returns frames written.
// Errors are logged, not returned; an underrun triggers device recovery
// and reports 0 frames.
func (s *Sink) WriteBatch(samples []int16) int {
	if !s.configured || len(samples) < 2 {
		return 0
	}
	n, err := s.dev.Write(samples)
	if err != nil {
		if errors.Is(err, ErrUnderrun) {
			log.Printf("Warning: audio underrun")
		} else {
			log.Printf("Warning: audio write failed: %v", err)
		}
		if rerr := s.dev.Recover(err); rerr != nil {
			log.Printf("Warning: audio recovery failed: %v", rerr)
		}
		return 0
	}
	return n
}

// WriteSample queues a single stereo frame.
func (s *Sink) WriteSample(left, right int16) {
	s.pair[0], s.pair[1] = left, right
	s.WriteBatch(s.pair[:])
}

// Close releases the device. The sink can be reused; the next Init opens
// a new device.
func (s *Sink) Close() error {
	if s.dev == nil {
		return nil
	}
	err := s.dev.Close()
	s.dev = nil
	s.rate = 0
	s.bufferFrames = 0
	s.configured = false
	return err
}
