//go:build linux || freebsd

package glx

/*
#cgo LDFLAGS: -lGL
#define GL_GLEXT_PROTOTYPES
#include <GL/gl.h>
#include <GL/glext.h>
#include <stdlib.h>

static GLuint gl_new_texture(int w, int h) {
	GLuint tex = 0;
	glGenTextures(1, &tex);
	glBindTexture(GL_TEXTURE_2D, tex);
	glTexImage2D(GL_TEXTURE_2D, 0, GL_RGBA8, w, h, 0, GL_RGBA, GL_UNSIGNED_BYTE, NULL);
	glTexParameteri(GL_TEXTURE_2D, GL_TEXTURE_MAG_FILTER, GL_NEAREST);
	glTexParameteri(GL_TEXTURE_2D, GL_TEXTURE_MIN_FILTER, GL_NEAREST);
	glTexParameteri(GL_TEXTURE_2D, GL_TEXTURE_WRAP_S, GL_CLAMP_TO_EDGE);
	glTexParameteri(GL_TEXTURE_2D, GL_TEXTURE_WRAP_T, GL_CLAMP_TO_EDGE);
	glBindTexture(GL_TEXTURE_2D, 0);
	return tex;
}

static void gl_upload(GLuint tex, int rgb565, int w, int h, int row_length, const void* pix) {
	glBindTexture(GL_TEXTURE_2D, tex);
	glPixelStorei(GL_UNPACK_ROW_LENGTH, row_length);
	glPixelStorei(GL_UNPACK_ALIGNMENT, rgb565 ? 2 : 4);
	if (rgb565)
		glTexSubImage2D(GL_TEXTURE_2D, 0, 0, 0, w, h, GL_RGB, GL_UNSIGNED_SHORT_5_6_5, pix);
	else
		glTexSubImage2D(GL_TEXTURE_2D, 0, 0, 0, w, h, GL_BGRA, GL_UNSIGNED_INT_8_8_8_8_REV, pix);
	glPixelStorei(GL_UNPACK_ROW_LENGTH, 0);
	glPixelStorei(GL_UNPACK_ALIGNMENT, 4);
	glBindTexture(GL_TEXTURE_2D, 0);
}

static void gl_delete_texture(GLuint tex) {
	glDeleteTextures(1, &tex);
}

// gl_new_framebuffer returns the framebuffer and writes the depth/stencil
// renderbuffer (or 0) to rb. complete is set to 1 when the driver accepts
// the attachments.
static GLuint gl_new_framebuffer(GLuint tex, int w, int h, int depth, int stencil, GLuint* rb, int* complete) {
	GLuint fb = 0;
	*rb = 0;
	glGenFramebuffers(1, &fb);
	glBindFramebuffer(GL_FRAMEBUFFER, fb);
	glFramebufferTexture2D(GL_FRAMEBUFFER, GL_COLOR_ATTACHMENT0, GL_TEXTURE_2D, tex, 0);
	if (depth || stencil) {
		glGenRenderbuffers(1, rb);
		glBindRenderbuffer(GL_RENDERBUFFER, *rb);
		if (stencil) {
			glRenderbufferStorage(GL_RENDERBUFFER, GL_DEPTH24_STENCIL8, w, h);
			glFramebufferRenderbuffer(GL_FRAMEBUFFER, GL_DEPTH_STENCIL_ATTACHMENT, GL_RENDERBUFFER, *rb);
		} else {
			glRenderbufferStorage(GL_RENDERBUFFER, GL_DEPTH_COMPONENT24, w, h);
			glFramebufferRenderbuffer(GL_FRAMEBUFFER, GL_DEPTH_ATTACHMENT, GL_RENDERBUFFER, *rb);
		}
		glBindRenderbuffer(GL_RENDERBUFFER, 0);
	}
	*complete = glCheckFramebufferStatus(GL_FRAMEBUFFER) == GL_FRAMEBUFFER_COMPLETE;
	glClearColor(0, 0, 0, 1);
	glClear(GL_COLOR_BUFFER_BIT);
	glBindFramebuffer(GL_FRAMEBUFFER, 0);
	return fb;
}

static void gl_delete_framebuffer(GLuint fb, GLuint rb) {
	glDeleteFramebuffers(1, &fb);
	if (rb != 0)
		glDeleteRenderbuffers(1, &rb);
}

static GLuint gl_compile(GLenum type, const char* src, char* log, int logsize) {
	GLint ok = 0;
	GLuint s = glCreateShader(type);
	glShaderSource(s, 1, &src, NULL);
	glCompileShader(s);
	glGetShaderiv(s, GL_COMPILE_STATUS, &ok);
	if (!ok) {
		glGetShaderInfoLog(s, logsize, NULL, log);
		glDeleteShader(s);
		return 0;
	}
	return s;
}

static GLuint gl_link(const char* vsrc, const char* fsrc, char* log, int logsize) {
	GLint ok = 0;
	GLuint vs, fs, p;
	vs = gl_compile(GL_VERTEX_SHADER, vsrc, log, logsize);
	if (vs == 0)
		return 0;
	fs = gl_compile(GL_FRAGMENT_SHADER, fsrc, log, logsize);
	if (fs == 0) {
		glDeleteShader(vs);
		return 0;
	}
	p = glCreateProgram();
	glAttachShader(p, vs);
	glAttachShader(p, fs);
	glBindAttribLocation(p, 0, "position");
	glLinkProgram(p);
	glDeleteShader(vs);
	glDeleteShader(fs);
	glGetProgramiv(p, GL_LINK_STATUS, &ok);
	if (!ok) {
		glGetProgramInfoLog(p, logsize, NULL, log);
		glDeleteProgram(p);
		return 0;
	}
	return p;
}

static void gl_delete_program(GLuint p) {
	glDeleteProgram(p);
}

static GLuint gl_quad(GLuint* vbo) {
	static const GLfloat verts[] = { -1, -1, 1, -1, -1, 1, 1, 1 };
	GLuint vao = 0;
	glGenVertexArrays(1, &vao);
	glBindVertexArray(vao);
	glGenBuffers(1, vbo);
	glBindBuffer(GL_ARRAY_BUFFER, *vbo);
	glBufferData(GL_ARRAY_BUFFER, sizeof(verts), verts, GL_STATIC_DRAW);
	glEnableVertexAttribArray(0);
	glVertexAttribPointer(0, 2, GL_FLOAT, GL_FALSE, 0, 0);
	glBindVertexArray(0);
	glBindBuffer(GL_ARRAY_BUFFER, 0);
	return vao;
}

static void gl_delete_quad(GLuint vao, GLuint vbo) {
	glDeleteVertexArrays(1, &vao);
	glDeleteBuffers(1, &vbo);
}

static void gl_draw(GLuint prog, GLuint vao, GLuint tex, int win_h,
		int x, int y, int w, int h, float u, float v, float flip,
		float r, float g, float b) {
	glBindFramebuffer(GL_FRAMEBUFFER, 0);
	glDisable(GL_DEPTH_TEST);
	glDisable(GL_STENCIL_TEST);
	glDisable(GL_BLEND);
	glDisable(GL_SCISSOR_TEST);
	glClearColor(r, g, b, 1);
	glClear(GL_COLOR_BUFFER_BIT);
	if (prog == 0 || tex == 0)
		return;

	glViewport(x, win_h - y - h, w, h);
	glUseProgram(prog);
	glActiveTexture(GL_TEXTURE0);
	glBindTexture(GL_TEXTURE_2D, tex);
	glUniform1i(glGetUniformLocation(prog, "frame"), 0);
	glUniform2f(glGetUniformLocation(prog, "uv_scale"), u, v);
	glUniform1f(glGetUniformLocation(prog, "flip_y"), flip);
	glBindVertexArray(vao);
	glDrawArrays(GL_TRIANGLE_STRIP, 0, 4);
	glBindVertexArray(0);
	glBindTexture(GL_TEXTURE_2D, 0);
	glUseProgram(0);
}

static void gl_set_viewport(int w, int h) {
	glViewport(0, 0, w, h);
}

static void gl_read_pixels(GLuint fb, int w, int h, void* out) {
	glBindFramebuffer(GL_FRAMEBUFFER, fb);
	glPixelStorei(GL_PACK_ALIGNMENT, 1);
	glReadPixels(0, 0, w, h, GL_RGBA, GL_UNSIGNED_BYTE, out);
	glBindFramebuffer(GL_FRAMEBUFFER, 0);
}
*/
import "C"

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/user-none/retrohost/gfx"
)

const shaderLogSize = 4096

// glState is the GL side of a Window.
type glState struct {
	renderbuffers map[gfx.Framebuffer]C.GLuint
	vao, vbo      C.GLuint
	viewport      gfx.Rect
}

func (s *glState) init() {
	s.renderbuffers = make(map[gfx.Framebuffer]C.GLuint)
}

func (s *glState) release() {
	if s.vao != 0 {
		C.gl_delete_quad(s.vao, s.vbo)
		s.vao, s.vbo = 0, 0
	}
}

func (w *Window) SupportsFramebuffers() bool { return true }

func (w *Window) NewTexture(width, height int) (gfx.Texture, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	tex := C.gl_new_texture(C.int(width), C.int(height))
	if tex == 0 {
		return 0, fmt.Errorf("failed to create %dx%d texture", width, height)
	}
	return gfx.Texture(tex), nil
}

func (w *Window) UploadTexture(t gfx.Texture, cs gfx.Colorspace, width, height, pitch int, pix []byte) error {
	bpp := cs.BytesPerPixel()
	if width <= 0 || height <= 0 {
		return nil
	}
	if pitch%bpp != 0 || pitch < width*bpp || len(pix) < pitch*(height-1)+width*bpp {
		return fmt.Errorf("frame of %d bytes does not hold %dx%d at pitch %d", len(pix), width, height, pitch)
	}
	rgb565 := 0
	if cs == gfx.ColorRGB565 {
		rgb565 = 1
	}
	C.gl_upload(C.GLuint(t), C.int(rgb565), C.int(width), C.int(height), C.int(pitch/bpp), unsafe.Pointer(&pix[0]))
	return nil
}

func (w *Window) DeleteTexture(t gfx.Texture) {
	C.gl_delete_texture(C.GLuint(t))
}

func (w *Window) NewFramebuffer(t gfx.Texture, width, height int, depth, stencil bool) (gfx.Framebuffer, error) {
	var rb C.GLuint
	var complete C.int
	fb := gfx.Framebuffer(C.gl_new_framebuffer(C.GLuint(t), C.int(width), C.int(height),
		cbool(depth), cbool(stencil), &rb, &complete))
	if fb == 0 {
		return 0, fmt.Errorf("failed to create framebuffer")
	}
	if rb != 0 {
		w.gl.renderbuffers[fb] = rb
	}
	if complete == 0 {
		return fb, gfx.ErrFramebufferIncomplete
	}
	return fb, nil
}

func (w *Window) DeleteFramebuffer(fb gfx.Framebuffer) {
	C.gl_delete_framebuffer(C.GLuint(fb), w.gl.renderbuffers[fb])
	delete(w.gl.renderbuffers, fb)
}

func (w *Window) FramebufferID(fb gfx.Framebuffer) uintptr {
	return uintptr(fb)
}

func (w *Window) CompileProgram(name string, defines []string) (gfx.Program, error) {
	vs, fs, err := gfx.ProgramSources(name, defines)
	if err != nil {
		return 0, err
	}
	cvs, cfs := C.CString(vs), C.CString(fs)
	defer C.free(unsafe.Pointer(cvs))
	defer C.free(unsafe.Pointer(cfs))

	buf := (*C.char)(C.calloc(shaderLogSize, 1))
	defer C.free(unsafe.Pointer(buf))

	p := C.gl_link(cvs, cfs, buf, shaderLogSize)
	if p == 0 {
		return 0, fmt.Errorf("failed to build program %q: %s", name, C.GoString(buf))
	}
	log.Printf("[glx] compiled program %q", name)
	return gfx.Program(p), nil
}

func (w *Window) DeleteProgram(p gfx.Program) {
	C.gl_delete_program(C.GLuint(p))
}

func (w *Window) Draw(dc gfx.DrawCall) {
	if w.gl.vao == 0 {
		w.gl.vao = C.gl_quad(&w.gl.vbo)
	}
	w.gl.viewport = dc.Viewport
	flip := C.float(0)
	if dc.FlipY {
		flip = 1
	}
	vp := dc.Viewport
	C.gl_draw(C.GLuint(dc.Program), w.gl.vao, C.GLuint(dc.Texture), C.int(w.height),
		C.int(vp.X), C.int(vp.Y), C.int(vp.W), C.int(vp.H),
		C.float(dc.U), C.float(dc.V), flip,
		C.float(float32(dc.Background.R)/255), C.float(float32(dc.Background.G)/255), C.float(float32(dc.Background.B)/255))
	C.gl_set_viewport(C.int(w.width), C.int(w.height))
}

// ReadPixels returns RGBA rows bottom row first.
func (w *Window) ReadPixels(fb gfx.Framebuffer, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid read size %dx%d", width, height)
	}
	out := make([]byte, width*height*4)
	C.gl_read_pixels(C.GLuint(fb), C.int(width), C.int(height), unsafe.Pointer(&out[0]))
	return out, nil
}

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
