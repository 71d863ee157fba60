//go:build (linux || freebsd) && cgo

package main

import (
	"github.com/user-none/retrohost/frontend/glx"
	"github.com/user-none/retrohost/storage"
)

func openGLX(opts *options, cfg *storage.Config, title string) (*window, error) {
	w, err := glx.Open(glx.Options{
		Title:  title,
		Width:  320 * cfg.Video.Scale,
		Height: 240 * cfg.Video.Scale,
		VSync:  opts.vsync,
	})
	if err != nil {
		return nil, err
	}
	return &window{
		gpu:     w,
		surface: w,
		run:     w.Run,
		close:   func() { w.Close() },
	}, nil
}
