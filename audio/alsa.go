//go:build alsa && linux

package audio

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* alsa_open(const char* name, int* err) {
	snd_pcm_t* pcm = NULL;
	*err = snd_pcm_open(&pcm, name, SND_PCM_STREAM_PLAYBACK, 0);
	return pcm;
}

// alsa_configure sets interleaved S16 stereo at rate with 64ms latency and
// returns the buffer size in frames, or a negative error.
static long alsa_configure(snd_pcm_t* pcm, unsigned int rate) {
	int err = snd_pcm_set_params(pcm, SND_PCM_FORMAT_S16_LE,
		SND_PCM_ACCESS_RW_INTERLEAVED, 2, rate, 1, 64 * 1000);
	if (err < 0) return err;
	snd_pcm_uframes_t buffer = 0, period = 0;
	err = snd_pcm_get_params(pcm, &buffer, &period);
	if (err < 0) return err;
	return (long)buffer;
}

static long alsa_write(snd_pcm_t* pcm, const int16_t* data, unsigned long frames) {
	return snd_pcm_writei(pcm, data, frames);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// ALSADevice writes directly to an ALSA PCM, letting ALSA resample.
type ALSADevice struct {
	mu  sync.Mutex
	pcm *C.snd_pcm_t
}

func openALSA() (Device, error) {
	name := C.CString("default")
	defer C.free(unsafe.Pointer(name))

	var cerr C.int
	pcm := C.alsa_open(name, &cerr)
	if cerr < 0 {
		return nil, fmt.Errorf("failed to open PCM device: %s", alsaError(cerr))
	}
	return &ALSADevice{pcm: pcm}, nil
}

func (d *ALSADevice) Configure(rate int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := C.alsa_configure(d.pcm, C.uint(rate))
	if r < 0 {
		return 0, fmt.Errorf("failed to set PCM params: %s", alsaError(C.int(r)))
	}
	return int(r), nil
}

func (d *ALSADevice) Write(samples []int16) (int, error) {
	frames := len(samples) / 2
	if frames == 0 {
		return 0, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	r := C.alsa_write(d.pcm, (*C.int16_t)(unsafe.Pointer(&samples[0])), C.ulong(frames))
	if r < 0 {
		if r == -C.EPIPE {
			return 0, ErrUnderrun
		}
		return 0, &alsaErr{code: C.int(r)}
	}
	return int(r), nil
}

func (d *ALSADevice) Recover(err error) error {
	code := C.int(-C.EPIPE)
	var ae *alsaErr
	if errors.As(err, &ae) {
		code = ae.code
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := C.snd_pcm_recover(d.pcm, code, 0); r < 0 {
		return fmt.Errorf("snd_pcm_recover: %s", alsaError(r))
	}
	return nil
}

func (d *ALSADevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pcm != nil {
		C.snd_pcm_drain(d.pcm)
		C.snd_pcm_close(d.pcm)
		d.pcm = nil
	}
	return nil
}

type alsaErr struct{ code C.int }

func (e *alsaErr) Error() string {
	return fmt.Sprintf("ALSA error #%d: %s", -int(e.code), alsaError(e.code))
}

func alsaError(code C.int) string {
	return C.GoString(C.snd_strerror(code))
}
