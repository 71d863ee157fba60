// Package ebitenview runs a session in an ebiten window. It only serves
// software rendered cores.
package ebitenview

import (
	"fmt"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/retrohost/frontend"
	"github.com/user-none/retrohost/session"
)

// Options configure the window.
type Options struct {
	Title string
	// Scale is the initial window size as a multiple of the base geometry.
	Scale int
	VSync bool
}

// Game is the ebiten.Game driving one session. The session must have been
// created with this game's GPU and as its Surface, and with VSync set so
// that pacing comes from ebiten's tick rate.
type Game struct {
	gpu     *GPU
	driver  *frontend.Driver
	mapping InputMapping
	opts    Options

	width, height int
	tps           int
}

// New returns a game with its own GPU. Attach a driver before running.
func New(opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = 3
	}
	return &Game{
		gpu:     NewGPU(),
		mapping: BuildMapping(frontend.DefaultBindings),
		opts:    opts,
		width:   320 * opts.Scale,
		height:  240 * opts.Scale,
	}
}

// GPU returns the rendering backend to hand to the session.
func (g *Game) GPU() *GPU {
	return g.gpu
}

// Size is the drawable size in device independent pixels.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}

// SwapBuffers is a no-op; ebiten presents after Draw.
func (g *Game) SwapBuffers() {}

// Run opens the window and blocks until it closes or the core asks to
// shut down.
func (g *Game) Run(d *frontend.Driver) error {
	g.driver = d
	geo := d.Session.AVInfo().Geometry
	if geo.BaseWidth > 0 && geo.BaseHeight > 0 {
		g.width = geo.BaseWidth * g.opts.Scale
		g.height = geo.BaseHeight * g.opts.Scale
	}
	g.syncTPS()

	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(g.opts.VSync)

	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return fmt.Errorf("failed to run ebiten window: %w", err)
	}
	return nil
}

// syncTPS runs one update per core frame.
func (g *Game) syncTPS() {
	fps := g.driver.Session.AVInfo().Timing.FPS
	tps := ebiten.DefaultTPS
	if fps > 0 {
		tps = int(math.Round(fps))
	}
	if tps != g.tps {
		g.tps = tps
		ebiten.SetTPS(tps)
	}
}

func (g *Game) Update() error {
	s := g.driver.Session
	if s.ShutdownRequested() {
		return ebiten.Termination
	}
	if s.Lifecycle() != session.GameLoaded {
		log.Printf("Warning: no game loaded, closing window")
		return ebiten.Termination
	}

	pollInput(s.Input(), g.mapping, g.gpu.Viewport())
	for _, h := range pollHotkeys() {
		g.driver.Hotkey(h)
	}
	g.driver.Tick(ebiten.IsKeyPressed(keyNameMap[frontend.RewindKey]))
	g.syncTPS()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.gpu.Present(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
