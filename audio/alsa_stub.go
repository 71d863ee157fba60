//go:build !alsa || !linux

package audio

import "errors"

func openALSA() (Device, error) {
	return nil, errors.New("ALSA support not built in (build with -tags alsa)")
}
