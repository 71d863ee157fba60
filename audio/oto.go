package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OutputRate is the fixed rate of the oto context.
const OutputRate = 48000

// ringCapacity is ~170ms at 48kHz stereo 16-bit.
const ringCapacity = 32768

// oto allows one context per process.
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

func ensureOtoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   OutputRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-ready
	})
	return otoCtx, otoInitErr
}

// OtoDevice plays through an oto player fed from a RingBuffer. Input at
// any rate is resampled to OutputRate.
type OtoDevice struct {
	player *oto.Player
	ring   *RingBuffer
	rs     *Resampler
	bytes  []byte
	rate   int

	// fed is set after the first write; starvation before it is expected.
	fed bool
}

// NewOtoDevice starts a paused-until-fed player at the given volume.
func NewOtoDevice(volume float64) (*OtoDevice, error) {
	ctx, err := ensureOtoContext()
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}
	ring := NewRingBuffer(ringCapacity)
	player := ctx.NewPlayer(ring)
	// ~50ms instead of the 0.5s default.
	player.SetBufferSize(19200)
	player.SetVolume(clampVolume(volume))
	player.Play()

	return &OtoDevice{
		player: player,
		ring:   ring,
		rs:     NewResampler(OutputRate, OutputRate),
		bytes:  make([]byte, 0, 4096),
	}, nil
}

func (d *OtoDevice) Configure(rate int) (int, error) {
	if rate <= 0 {
		return 0, fmt.Errorf("invalid sample rate %d", rate)
	}
	d.rate = rate
	d.rs.SetRates(rate, OutputRate)
	d.ring.Clear()
	d.ring.Starved()
	d.fed = false
	return ringCapacity / 4, nil
}

func (d *OtoDevice) Write(samples []int16) (int, error) {
	starved := d.ring.Starved()
	if d.fed && starved && d.ring.Buffered() == 0 {
		return 0, ErrUnderrun
	}
	d.fed = true
	frames := len(samples) / 2
	out := d.rs.Process(samples)

	need := len(out) * 2
	if cap(d.bytes) < need {
		d.bytes = make([]byte, 0, need)
	}
	d.bytes = d.bytes[:0]
	for _, s := range out {
		d.bytes = append(d.bytes, byte(s), byte(s>>8))
	}
	d.ring.Write(d.bytes)
	return frames, nil
}

// Recover primes the ring with a few milliseconds of silence so the
// player has something to pull while the core catches up.
func (d *OtoDevice) Recover(error) error {
	silence := make([]byte, OutputRate/100*4)
	d.ring.Write(silence)
	return nil
}

// Buffered is the number of bytes queued ahead of the speaker.
func (d *OtoDevice) Buffered() int {
	return d.ring.Buffered() + d.player.BufferedSize()
}

// SetVolume clamps vol to [0, 2].
func (d *OtoDevice) SetVolume(vol float64) {
	d.player.SetVolume(clampVolume(vol))
}

func (d *OtoDevice) Close() error {
	d.ring.Close()
	return d.player.Close()
}

func clampVolume(vol float64) float64 {
	if vol < 0 {
		return 0
	}
	if vol > 2 {
		return 2
	}
	return vol
}
