//go:build linux || darwin || freebsd

package native

/*
#include <stdarg.h>
#include <stdio.h>
#include "bridge.h"

bool coreEnvironment(unsigned cmd, void *data);
void coreVideoRefresh(void *data, unsigned width, unsigned height, size_t pitch, int hw);
void coreAudioSample(int16_t left, int16_t right);
size_t coreAudioSampleBatch(int16_t *data, size_t frames);
void coreInputPoll(void);
int16_t coreInputState(unsigned port, unsigned device, unsigned index, unsigned id);
void coreLog(int level, char *msg);
uintptr_t coreGetCurrentFramebuffer(void);
uintptr_t coreGetProcAddress(char *sym);

static bool core_environment_cgo(unsigned cmd, void *data) {
	return coreEnvironment(cmd, data);
}

static void core_video_refresh_cgo(const void *data, unsigned width, unsigned height, size_t pitch) {
	if (data == RETRO_HW_FRAME_BUFFER_VALID) {
		coreVideoRefresh(NULL, width, height, pitch, 1);
		return;
	}
	coreVideoRefresh((void *)data, width, height, pitch, 0);
}

static void core_audio_sample_cgo(int16_t left, int16_t right) {
	coreAudioSample(left, right);
}

static size_t core_audio_sample_batch_cgo(const int16_t *data, size_t frames) {
	return coreAudioSampleBatch((int16_t *)data, frames);
}

static void core_input_poll_cgo(void) {
	coreInputPoll();
}

static int16_t core_input_state_cgo(unsigned port, unsigned device, unsigned index, unsigned id) {
	return coreInputState(port, device, index, id);
}

static void core_log_cgo(enum retro_log_level level, const char *fmt, ...) {
	char msg[4096] = {0};
	va_list va;
	va_start(va, fmt);
	vsnprintf(msg, sizeof(msg), fmt, va);
	va_end(va);
	coreLog((int)level, msg);
}

static uintptr_t core_get_current_framebuffer_cgo(void) {
	return coreGetCurrentFramebuffer();
}

static retro_proc_address_t core_get_proc_address_cgo(const char *sym) {
	return (retro_proc_address_t)coreGetProcAddress((char *)sym);
}

uintptr_t host_environment_cb(void) { return (uintptr_t)&core_environment_cgo; }
uintptr_t host_video_refresh_cb(void) { return (uintptr_t)&core_video_refresh_cgo; }
uintptr_t host_audio_sample_cb(void) { return (uintptr_t)&core_audio_sample_cgo; }
uintptr_t host_audio_sample_batch_cb(void) { return (uintptr_t)&core_audio_sample_batch_cgo; }
uintptr_t host_input_poll_cb(void) { return (uintptr_t)&core_input_poll_cgo; }
uintptr_t host_input_state_cb(void) { return (uintptr_t)&core_input_state_cgo; }

void host_fill_log_callback(struct retro_log_callback *cb) {
	cb->log = core_log_cgo;
}

void host_fill_hw_render(struct retro_hw_render_callback *cb) {
	cb->get_current_framebuffer = core_get_current_framebuffer_cgo;
	cb->get_proc_address = core_get_proc_address_cgo;
}

void bridge_set_callback(uintptr_t f, uintptr_t cb) {
	((void (*)(void *))f)((void *)cb);
}

void bridge_call_void(uintptr_t f) {
	((void (*)(void))f)();
}

unsigned bridge_api_version(uintptr_t f) {
	return ((unsigned (*)(void))f)();
}

void bridge_get_system_info(uintptr_t f, struct retro_system_info *info) {
	((void (*)(struct retro_system_info *))f)(info);
}

void bridge_get_system_av_info(uintptr_t f, struct retro_system_av_info *info) {
	((void (*)(struct retro_system_av_info *))f)(info);
}

void bridge_set_controller_port_device(uintptr_t f, unsigned port, unsigned device) {
	((void (*)(unsigned, unsigned))f)(port, device);
}

size_t bridge_serialize_size(uintptr_t f) {
	return ((size_t (*)(void))f)();
}

bool bridge_serialize(uintptr_t f, void *data, size_t size) {
	return ((bool (*)(void *, size_t))f)(data, size);
}

bool bridge_unserialize(uintptr_t f, const void *data, size_t size) {
	return ((bool (*)(const void *, size_t))f)(data, size);
}

bool bridge_load_game(uintptr_t f, const struct retro_game_info *game) {
	return ((bool (*)(const struct retro_game_info *))f)(game);
}

void *bridge_get_memory_data(uintptr_t f, unsigned id) {
	return ((void *(*)(unsigned))f)(id);
}

size_t bridge_get_memory_size(uintptr_t f, unsigned id) {
	return ((size_t (*)(unsigned))f)(id);
}
*/
import "C"
