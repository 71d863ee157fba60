//go:build !(linux || freebsd) || !cgo

package main

import (
	"fmt"

	"github.com/user-none/retrohost/storage"
)

func openGLX(*options, *storage.Config, string) (*window, error) {
	return nil, fmt.Errorf("the %s frontend is not available on this platform, use -frontend %s",
		storage.FrontendGLX, storage.FrontendEbiten)
}
