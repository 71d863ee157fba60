// Command retrohost runs a libretro core and game in a window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sqweek/dialog"
	"github.com/user-none/retrohost/audio"
	"github.com/user-none/retrohost/control"
	"github.com/user-none/retrohost/frontend"
	"github.com/user-none/retrohost/frontend/ebitenview"
	"github.com/user-none/retrohost/gfx"
	"github.com/user-none/retrohost/retro/native"
	"github.com/user-none/retrohost/session"
	"github.com/user-none/retrohost/storage"
)

// GL contexts and ebiten both need the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// window is an open frontend.
type window struct {
	gpu     gfx.GPU
	surface gfx.Surface
	// paced is true when the window paces frames itself.
	paced bool
	run   func(d *frontend.Driver) error
	close func()
}

func run(args []string) error {
	cfg, warnings := storage.LoadStartupConfig()
	for _, w := range warnings {
		log.Printf("Warning: %s", w)
	}

	opts, err := parseFlags(args, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if opts.core == "" {
		if opts.core, err = pickFile("Select libretro core", "Libretro core", "so", "dylib", "dll"); err != nil {
			return err
		}
	}
	if opts.game == "" {
		if opts.game, err = pickFile("Select game", ""); err != nil {
			return err
		}
	}

	dirs, err := sessionDirs(opts.core)
	if err != nil {
		return err
	}
	openAudio, err := audio.Opener(opts.audio, cfg.Audio.Volume)
	if err != nil {
		return err
	}

	title := "retrohost - " + strings.TrimSuffix(filepath.Base(opts.game), filepath.Ext(opts.game))
	win, err := openWindow(opts, cfg, title)
	if err != nil {
		return err
	}
	defer win.close()

	sess := session.New(session.Config{
		Opener:    native.Opener{},
		GPU:       win.gpu,
		Surface:   win.surface,
		Audio:     openAudio,
		Options:   storage.OptionFiles{},
		Dirs:      dirs,
		FrameSkip: opts.frameSkip,
		VSync:     opts.vsync || win.paced,
		Verbose:   opts.verbose,
		Rewind:    cfg.Rewind,
	})
	defer sess.Close()

	if err := sess.LoadCore(opts.core); err != nil {
		return err
	}
	if err := sess.LoadGame(opts.game); err != nil {
		return err
	}
	if opts.state != "" {
		if err := sess.LoadState(opts.state); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	var srv *control.Server
	if opts.listen != "" {
		srv = control.NewServer()
		if err := srv.ListenAndServe(opts.listen); err != nil {
			return err
		}
		defer srv.Close()
		log.Printf("Control server listening on %s", srv.Addr())
		sess.Subscribe(func(ev session.Event) {
			srv.Broadcast(ev)
		})
	}

	shots, err := storage.GetScreenshotDir()
	if err != nil {
		log.Printf("Warning: screenshots disabled: %v", err)
	}
	driver := &frontend.Driver{
		Session: sess,
		Control: srv,
		Actions: &frontend.Actions{
			Dispatcher: &control.Dispatcher{Target: sess, ScreenshotDir: shots},
			Clipboard:  sess.ScreenshotToClipboard,
		},
	}
	return win.run(driver)
}

func sessionDirs(corePath string) (session.Dirs, error) {
	system, err := storage.GetSystemDir()
	if err != nil {
		return session.Dirs{}, err
	}
	saves, err := storage.GetSavesDir()
	if err != nil {
		return session.Dirs{}, err
	}
	name := strings.TrimSuffix(filepath.Base(corePath), filepath.Ext(corePath))
	assets, err := storage.GetCoreAssetsDir(name)
	if err != nil {
		return session.Dirs{}, err
	}
	return session.Dirs{System: system, Save: saves, Assets: assets}, nil
}

func pickFile(title, filterDesc string, exts ...string) (string, error) {
	b := dialog.File().Title(title)
	if filterDesc != "" {
		b = b.Filter(filterDesc, exts...)
	}
	path, err := b.Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", fmt.Errorf("%s: cancelled", strings.ToLower(title))
	}
	if err != nil {
		return "", fmt.Errorf("failed to open file picker: %w", err)
	}
	return path, nil
}

func openWindow(opts *options, cfg *storage.Config, title string) (*window, error) {
	if opts.frontend == storage.FrontendGLX {
		return openGLX(opts, cfg, title)
	}
	game := ebitenview.New(ebitenview.Options{
		Title: title,
		Scale: cfg.Video.Scale,
		VSync: opts.vsync,
	})
	return &window{
		gpu:     game.GPU(),
		surface: game,
		paced:   true,
		run:     game.Run,
		close:   func() {},
	}, nil
}
