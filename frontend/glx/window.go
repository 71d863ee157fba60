//go:build linux || freebsd

// Package glx runs a session in an X11 window with a GLX context. It is
// the only frontend that can host hardware rendered cores.
package glx

/*
#cgo LDFLAGS: -lX11 -lGL
#include <X11/Xlib.h>
#include <X11/Xutil.h>
#include <X11/XKBlib.h>
#include <GL/glx.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
	Display* dpy;
	Window win;
	GLXContext ctx;
	Atom wm_delete;
} glx_window;

#define EV_NONE 0
#define EV_RESIZE 1
#define EV_EXPOSE 2
#define EV_KEY_DOWN 3
#define EV_KEY_UP 4
#define EV_BUTTON_DOWN 5
#define EV_BUTTON_UP 6
#define EV_MOTION 7
#define EV_CLOSE 8

typedef struct {
	int type;
	int width, height;
	int x, y;
	unsigned long keysym;
	unsigned int button;
} glx_event;

static int glx_open(glx_window* w, int width, int height, const char* title) {
	static int att[] = { GLX_RGBA, GLX_DEPTH_SIZE, 24, GLX_STENCIL_SIZE, 8, GLX_DOUBLEBUFFER, None };
	XSetWindowAttributes wa;
	Window root;
	XVisualInfo* vi;

	w->dpy = XOpenDisplay(NULL);
	if (w->dpy == NULL)
		return 1;
	root = DefaultRootWindow(w->dpy);
	vi = glXChooseVisual(w->dpy, DefaultScreen(w->dpy), att);
	if (vi == NULL)
		return 2;

	memset(&wa, 0, sizeof(wa));
	wa.colormap = XCreateColormap(w->dpy, root, vi->visual, AllocNone);
	wa.event_mask = ExposureMask | StructureNotifyMask | KeyPressMask | KeyReleaseMask |
		ButtonPressMask | ButtonReleaseMask | PointerMotionMask;
	w->win = XCreateWindow(w->dpy, root, 0, 0, width, height, 0, vi->depth,
		InputOutput, vi->visual, CWColormap | CWEventMask, &wa);
	XStoreName(w->dpy, w->win, title);
	w->wm_delete = XInternAtom(w->dpy, "WM_DELETE_WINDOW", False);
	XSetWMProtocols(w->dpy, w->win, &w->wm_delete, 1);
	XkbSetDetectableAutoRepeat(w->dpy, True, NULL);
	XMapWindow(w->dpy, w->win);

	w->ctx = glXCreateContext(w->dpy, vi, NULL, GL_TRUE);
	XFree(vi);
	if (w->ctx == NULL)
		return 3;
	return 0;
}

static int glx_make_current(glx_window* w) {
	return glXMakeCurrent(w->dpy, w->win, w->ctx) ? 0 : 1;
}

static void glx_swap(glx_window* w) {
	glXSwapBuffers(w->dpy, w->win);
}

typedef void (*swap_ext_fn)(Display*, GLXDrawable, int);
typedef int (*swap_mesa_fn)(unsigned int);

static int glx_swap_interval(glx_window* w, int interval) {
	swap_ext_fn ext = (swap_ext_fn)glXGetProcAddressARB((const GLubyte*)"glXSwapIntervalEXT");
	if (ext != NULL) {
		ext(w->dpy, w->win, interval);
		return 0;
	}
	swap_mesa_fn mesa = (swap_mesa_fn)glXGetProcAddressARB((const GLubyte*)"glXSwapIntervalMESA");
	if (mesa != NULL)
		return mesa(interval);
	return 1;
}

static uintptr_t glx_proc_address(const char* sym) {
	return (uintptr_t)glXGetProcAddressARB((const GLubyte*)sym);
}

static void glx_size(glx_window* w, int* width, int* height) {
	XWindowAttributes wa;
	XGetWindowAttributes(w->dpy, w->win, &wa);
	*width = wa.width;
	*height = wa.height;
}

static int glx_poll(glx_window* w, glx_event* ev) {
	XEvent xev;
	while (XPending(w->dpy)) {
		XNextEvent(w->dpy, &xev);
		memset(ev, 0, sizeof(*ev));
		switch (xev.type) {
		case ConfigureNotify:
			ev->type = EV_RESIZE;
			ev->width = xev.xconfigure.width;
			ev->height = xev.xconfigure.height;
			return 1;
		case Expose:
			ev->type = EV_EXPOSE;
			return 1;
		case KeyPress:
		case KeyRelease:
			ev->type = xev.type == KeyPress ? EV_KEY_DOWN : EV_KEY_UP;
			ev->keysym = XLookupKeysym(&xev.xkey, 0);
			return 1;
		case ButtonPress:
		case ButtonRelease:
			ev->type = xev.type == ButtonPress ? EV_BUTTON_DOWN : EV_BUTTON_UP;
			ev->button = xev.xbutton.button;
			ev->x = xev.xbutton.x;
			ev->y = xev.xbutton.y;
			return 1;
		case MotionNotify:
			ev->type = EV_MOTION;
			ev->x = xev.xmotion.x;
			ev->y = xev.xmotion.y;
			return 1;
		case ClientMessage:
			if ((Atom)xev.xclient.data.l[0] == w->wm_delete) {
				ev->type = EV_CLOSE;
				return 1;
			}
			break;
		}
	}
	return 0;
}

static void glx_close(glx_window* w) {
	if (w->dpy == NULL)
		return;
	if (w->ctx != NULL) {
		glXMakeCurrent(w->dpy, None, NULL);
		glXDestroyContext(w->dpy, w->ctx);
	}
	if (w->win != 0)
		XDestroyWindow(w->dpy, w->win);
	XCloseDisplay(w->dpy);
	memset(w, 0, sizeof(*w));
}
*/
import "C"

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"unsafe"

	"github.com/user-none/retrohost/frontend"
	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/session"
)

// Options configure the window.
type Options struct {
	Title         string
	Width, Height int
	VSync         bool
}

// Window is an X11 window with a GLX context. It implements gfx.GPU and
// gfx.Surface. Every method must be called from the goroutine that
// called Open, which stays locked to its OS thread.
type Window struct {
	win C.glx_window

	width, height int
	closed        bool

	keys    map[uint64]bool
	mapping map[uint]uint64
	pointer [2]int
	mouse   uint8

	gl glState
}

// Open creates and maps the window and makes its context current.
func Open(opts Options) (*Window, error) {
	runtime.LockOSThread()

	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 640, 480
	}
	title := C.CString(opts.Title)
	defer C.free(unsafe.Pointer(title))

	w := &Window{
		width:   opts.Width,
		height:  opts.Height,
		keys:    make(map[uint64]bool),
		mapping: BuildMapping(frontend.DefaultBindings),
	}
	w.gl.init()
	switch C.glx_open(&w.win, C.int(opts.Width), C.int(opts.Height), title) {
	case 0:
	case 1:
		return nil, errors.New("failed to open X display")
	case 2:
		C.glx_close(&w.win)
		return nil, errors.New("no GLX visual with RGBA, depth and double buffering")
	default:
		C.glx_close(&w.win)
		return nil, errors.New("failed to create GLX context")
	}
	if err := w.MakeCurrent(); err != nil {
		w.Close()
		return nil, err
	}
	interval := 0
	if opts.VSync {
		interval = 1
	}
	if C.glx_swap_interval(&w.win, C.int(interval)) != 0 {
		log.Printf("Warning: swap interval not supported, vsync setting ignored")
	}
	return w, nil
}

// Close destroys the context and window.
func (w *Window) Close() error {
	w.gl.release()
	C.glx_close(&w.win)
	w.closed = true
	return nil
}

func (w *Window) MakeCurrent() error {
	if C.glx_make_current(&w.win) != 0 {
		return errors.New("failed to make GLX context current")
	}
	return nil
}

// Size is the drawable size in pixels.
func (w *Window) Size() (int, int) {
	return w.width, w.height
}

func (w *Window) SwapBuffers() {
	C.glx_swap(&w.win)
}

func (w *Window) ProcAddress(sym string) uintptr {
	cs := C.CString(sym)
	defer C.free(unsafe.Pointer(cs))
	return uintptr(C.glx_proc_address(cs))
}

// Run drives d until the window is closed, the core requests shutdown or
// the game is unloaded.
func (w *Window) Run(d *frontend.Driver) error {
	if w.closed {
		return fmt.Errorf("window is closed")
	}
	var cw, ch C.int
	C.glx_size(&w.win, &cw, &ch)
	w.width, w.height = int(cw), int(ch)

	for !w.closed {
		s := d.Session
		if s.ShutdownRequested() || s.Lifecycle() != session.GameLoaded {
			break
		}
		w.pump(d)
		if w.closed {
			break
		}
		s.Input().Set(0, w.portState())
		d.Tick(w.keys[keysyms[frontend.RewindKey]])
	}
	return nil
}

// pump handles pending X events.
func (w *Window) pump(d *frontend.Driver) {
	var ev C.glx_event
	for C.glx_poll(&w.win, &ev) != 0 {
		switch ev._type {
		case C.EV_RESIZE:
			w.width, w.height = int(ev.width), int(ev.height)
		case C.EV_EXPOSE:
			if d.Session.Paused() {
				d.Session.StepPaused()
			}
		case C.EV_KEY_DOWN:
			sym := uint64(ev.keysym)
			if w.keys[sym] {
				continue
			}
			w.keys[sym] = true
			if name, ok := keyNames[sym]; ok {
				d.Hotkey(frontend.HotkeyFor(name, w.shift()))
			}
		case C.EV_KEY_UP:
			delete(w.keys, uint64(ev.keysym))
		case C.EV_BUTTON_DOWN, C.EV_BUTTON_UP:
			bit := mouseBit(uint(ev.button))
			if ev._type == C.EV_BUTTON_DOWN {
				w.mouse |= bit
			} else {
				w.mouse &^= bit
			}
			w.pointer = [2]int{int(ev.x), int(ev.y)}
		case C.EV_MOTION:
			w.pointer = [2]int{int(ev.x), int(ev.y)}
		case C.EV_CLOSE:
			w.closed = true
		}
	}
}

func (w *Window) shift() bool {
	return w.keys[keysymShiftL] || w.keys[keysymShiftR]
}

func (w *Window) portState() session.PortState {
	st := session.PortState{
		Buttons:      Buttons(w.mapping, w.keys),
		MouseButtons: w.mouse,
	}
	if px, py, ok := frontend.PointerPosition(w.pointer[0], w.pointer[1], w.gl.viewport); ok {
		st.Pointer = [2]int16{px, py}
	}
	return st
}

// X button 1 is left, 3 is right.
func mouseBit(button uint) uint8 {
	switch button {
	case 1:
		return session.MouseButtonLeft
	case 3:
		return session.MouseButtonRight
	}
	return 0
}

var _ gfx.GPU = (*Window)(nil)
var _ gfx.Surface = (*Window)(nil)
