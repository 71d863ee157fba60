package retro

import (
	"log"
	"strings"
	"sync/atomic"
)

// Host receives the callbacks a core issues while it is executing.
type Host interface {
	Environment(req Request) bool
	VideoRefresh(frame Frame)
	AudioSample(left, right int16)
	AudioSampleBatch(samples []int16) int
	InputPoll()
	InputState(port uint, device Device, index, id uint) int16
	CoreLog(level LogLevel, msg string)

	// CurrentFramebuffer and ProcAddress back the hardware render hooks.
	CurrentFramebuffer() uintptr
	ProcAddress(sym string) uintptr
}

// The libretro callbacks carry no user data, so the host that receives
// them is whatever was bound here when the core was entered.
var active atomic.Pointer[binding]

type binding struct {
	host Host
}

// Bind installs h as the callback target for the duration of fn. Every
// call into a core must happen inside Bind. Nested or concurrent binds
// panic: only one core call may be in flight per process.
func Bind(h Host, fn func()) {
	b := &binding{host: h}
	if !active.CompareAndSwap(nil, b) {
		panic("retro: core entered while another call is in flight")
	}
	defer active.Store(nil)
	fn()
}

// Bound reports whether a core call is currently in flight.
func Bound() bool {
	return active.Load() != nil
}

func current() Host {
	if b := active.Load(); b != nil {
		return b.host
	}
	return nil
}

// The Dispatch functions are the Go side of the core callbacks. The native
// layer calls them from its exported trampolines; tests call them from
// fake cores.

// DispatchEnvironment forwards an environment request to the bound host.
func DispatchEnvironment(req Request) bool {
	h := current()
	if h == nil {
		log.Printf("Warning: environment %s called outside of a core call", req.Command())
		return false
	}
	return h.Environment(req)
}

// DispatchVideoRefresh forwards a frame to the bound host.
func DispatchVideoRefresh(frame Frame) {
	if h := current(); h != nil {
		h.VideoRefresh(frame)
	}
}

// DispatchAudioSample forwards a single stereo frame.
func DispatchAudioSample(left, right int16) {
	if h := current(); h != nil {
		h.AudioSample(left, right)
	}
}

// DispatchAudioSampleBatch forwards interleaved stereo samples and returns
// the number of frames consumed.
func DispatchAudioSampleBatch(samples []int16) int {
	if h := current(); h != nil {
		return h.AudioSampleBatch(samples)
	}
	return len(samples) / 2
}

// DispatchInputPoll forwards an input poll.
func DispatchInputPoll() {
	if h := current(); h != nil {
		h.InputPoll()
	}
}

// DispatchInputState forwards an input query.
func DispatchInputState(port uint, device Device, index, id uint) int16 {
	if h := current(); h != nil {
		return h.InputState(port, device, index, id)
	}
	return 0
}

// DispatchLog forwards a core log line. Cores may log from their own
// threads, so an unbound call goes to the process logger instead.
func DispatchLog(level LogLevel, msg string) {
	if h := current(); h != nil {
		h.CoreLog(level, msg)
		return
	}
	log.Printf("[core] %s: %s", level, strings.TrimRight(msg, "\n"))
}

// DispatchCurrentFramebuffer answers get_current_framebuffer.
func DispatchCurrentFramebuffer() uintptr {
	if h := current(); h != nil {
		return h.CurrentFramebuffer()
	}
	return 0
}

// DispatchProcAddress answers get_proc_address.
func DispatchProcAddress(sym string) uintptr {
	if h := current(); h != nil {
		return h.ProcAddress(sym)
	}
	return 0
}
