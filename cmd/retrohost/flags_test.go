package main

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/user-none/retrohost/audio"
	"github.com/user-none/retrohost/storage"
)

func TestParseFlagsDefaultsFromConfig(t *testing.T) {
	cfg := storage.DefaultConfig()
	cfg.Frontend = storage.FrontendEbiten
	cfg.Video.FrameSkip = 2
	cfg.Control.Listen = "127.0.0.1:9000"

	opts, err := parseFlags(nil, cfg, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.frontend != storage.FrontendEbiten || opts.frameSkip != 2 || opts.listen != "127.0.0.1:9000" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.vsync != cfg.Video.VSync || opts.audio != cfg.Audio.Backend {
		t.Errorf("opts = %+v", opts)
	}
}

func TestParseFlagsOverride(t *testing.T) {
	cfg := storage.DefaultConfig()
	args := []string{
		"-core", "/cores/snes.so",
		"-game", "/roms/game.sfc",
		"-frontend", "ebiten",
		"-audio", "none",
		"-frameskip", "1",
		"-vsync=false",
		"-state", "/tmp/a.state",
		"-listen", ":8080",
		"-v",
	}
	opts, err := parseFlags(args, cfg, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	want := options{
		core:      "/cores/snes.so",
		game:      "/roms/game.sfc",
		frontend:  "ebiten",
		audio:     "none",
		frameSkip: 1,
		vsync:     false,
		state:     "/tmp/a.state",
		listen:    ":8080",
		verbose:   true,
	}
	if *opts != want {
		t.Errorf("opts = %+v, want %+v", *opts, want)
	}
}

func TestParseFlagsPositionalGame(t *testing.T) {
	opts, err := parseFlags([]string{"-core", "c.so", "game.zip"}, storage.DefaultConfig(), io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.game != "game.zip" {
		t.Errorf("game = %q, want game.zip", opts.game)
	}
}

func TestParseFlagsMutedConfig(t *testing.T) {
	cfg := storage.DefaultConfig()
	cfg.Audio.Muted = true
	opts, err := parseFlags(nil, cfg, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.audio != audio.BackendNone {
		t.Errorf("audio = %q, want none", opts.audio)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"frontend", []string{"-frontend", "sdl"}},
		{"frameskip", []string{"-frameskip", "12"}},
		{"unknown flag", []string{"-bogus"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseFlags(tc.args, storage.DefaultConfig(), io.Discard); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	_, err := parseFlags([]string{"-h"}, storage.DefaultConfig(), io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("err = %v, want flag.ErrHelp", err)
	}
}
