package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/user-none/retrohost/audio"
	"github.com/user-none/retrohost/storage"
)

// options are the effective settings after flags are applied to config.
type options struct {
	core      string
	game      string
	frontend  string
	audio     string
	frameSkip int
	vsync     bool
	state     string
	listen    string
	verbose   bool
}

// parseFlags reads args on top of cfg. Only flags given on the command
// line override the config file.
func parseFlags(args []string, cfg *storage.Config, usage io.Writer) (*options, error) {
	opts := &options{
		frontend:  cfg.Frontend,
		audio:     cfg.Audio.Backend,
		frameSkip: cfg.Video.FrameSkip,
		vsync:     cfg.Video.VSync,
		listen:    cfg.Control.Listen,
		verbose:   cfg.Log.Verbose,
	}
	if cfg.Audio.Muted {
		opts.audio = audio.BackendNone
	}

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.core, "core", "", "Path to the libretro core library")
	flagSet.StringVar(&opts.game, "game", "", "Path to the game file or archive")
	flagSet.StringVar(&opts.frontend, "frontend", opts.frontend, "Window backend: glx or ebiten")
	flagSet.StringVar(&opts.audio, "audio", opts.audio, "Audio backend: oto, alsa or none")
	flagSet.IntVar(&opts.frameSkip, "frameskip", opts.frameSkip, "Frames to run per displayed frame, minus one")
	flagSet.BoolVar(&opts.vsync, "vsync", opts.vsync, "Pace on the display instead of sleeping")
	flagSet.StringVar(&opts.state, "state", "", "Save state to load after the game starts")
	flagSet.StringVar(&opts.listen, "listen", opts.listen, "Address of the websocket control server")
	flagSet.BoolVar(&opts.verbose, "v", opts.verbose, "Log core debug messages")

	flagSet.Usage = func() {
		flagSet.SetOutput(usage)
		fmt.Fprintf(usage, "Usage: %s [-core lib] [-game file] [flags]\n", os.Args[0])
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if opts.game == "" && flagSet.NArg() > 0 {
		opts.game = flagSet.Arg(0)
	}

	switch opts.frontend {
	case storage.FrontendGLX, storage.FrontendEbiten:
	default:
		return nil, fmt.Errorf("unknown frontend %q", opts.frontend)
	}
	if opts.frameSkip < 0 || opts.frameSkip > 9 {
		return nil, fmt.Errorf("frameskip %d out of range 0-9", opts.frameSkip)
	}
	return opts, nil
}
