// Package audio streams interleaved stereo int16 PCM from a core to an
// output device.
package audio

import (
	"errors"
	"fmt"
)

// ErrUnderrun is returned by Device.Write when the device ran out of
// samples before the write.
var ErrUnderrun = errors.New("audio underrun")

// Device is a raw PCM output.
type Device interface {
	// Configure sets the input sample rate and returns the device buffer
	// size in frames. It may be called again to renegotiate.
	Configure(rate int) (bufferFrames int, err error)
	// Write queues interleaved stereo samples and returns frames accepted.
	Write(samples []int16) (int, error)
	// Recover prepares the device for writing after err.
	Recover(err error) error
	Close() error
}

// OpenFunc opens a device. It is called at most once per Sink.
type OpenFunc func() (Device, error)

// Backend names accepted by Opener.
const (
	BackendOto  = "oto"
	BackendALSA = "alsa"
	BackendNone = "none"
)

// Opener returns the OpenFunc for a backend name. An empty name selects oto.
func Opener(backend string, volume float64) (OpenFunc, error) {
	switch backend {
	case "", BackendOto:
		return func() (Device, error) { return NewOtoDevice(volume) }, nil
	case BackendALSA:
		return openALSA, nil
	case BackendNone:
		return func() (Device, error) { return &NullDevice{}, nil }, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}
