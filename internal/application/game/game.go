// Package game hosts a scene registry inside an ebiten window.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/scenekit/internal/application/scene"
	"github.com/younwookim/scenekit/internal/application/surface"
)

// Option configures a Game
type Option func(*Game)

// WithTitle sets the window title
func WithTitle(title string) Option {
	return func(g *Game) { g.title = title }
}

// WithScale sets the window size as a multiple of the logical screen size
func WithScale(scale int) Option {
	return func(g *Game) {
		if scale > 0 {
			g.scale = scale
		}
	}
}

// WithInput replaces the ebiten input poller, e.g. with a replay source
func WithInput(in scene.Input) Option {
	return func(g *Game) {
		if in != nil {
			g.input = in
		}
	}
}

// Game implements ebiten.Game and scene.Host. Scenes draw onto a persistent
// offscreen canvas during the frame; Draw presents that canvas.
type Game struct {
	canvas  *Canvas
	input   scene.Input
	screenW int
	screenH int
	scale   int
	title   string

	frame func() error
	run   func(ebiten.Game) error
}

// New creates a host with the given logical screen size
func New(screenW, screenH int, opts ...Option) *Game {
	g := &Game{
		canvas:  NewCanvas(screenW, screenH),
		input:   NewPoller(),
		screenW: screenW,
		screenH: screenH,
		scale:   1,
		run:     ebiten.RunGame,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Surface returns the canvas scenes should draw onto
func (g *Game) Surface() surface.Surface {
	return g.canvas
}

// KeyState returns the keys held this frame
func (g *Game) KeyState() scene.KeyState {
	return g.input.KeyState()
}

// Events returns the input events since the previous frame
func (g *Game) Events() []scene.Event {
	return g.input.Events()
}

// SetKeyRepeat forwards to the input source when it supports repeating.
func (g *Game) SetKeyRepeat(delay, interval time.Duration) {
	if kr, ok := g.input.(scene.KeyRepeater); ok {
		kr.SetKeyRepeat(delay, interval)
	}
}

// Loop configures the window and blocks in ebiten's main loop, calling frame
// once per tick.
func (g *Game) Loop(fps int, frame func() error) error {
	if fps <= 0 {
		return fmt.Errorf("frame rate %d: %w", fps, scene.ErrInvalidFrameRate)
	}
	g.frame = frame

	ebiten.SetTPS(fps)
	ebiten.SetWindowSize(g.screenW*g.scale, g.screenH*g.scale)
	if g.title != "" {
		ebiten.SetWindowTitle(g.title)
	}
	ebiten.SetWindowClosingHandled(true)

	return g.run(g)
}

// Close is a no-op: ebiten tears the window down when RunGame returns.
func (g *Game) Close() error {
	return nil
}

// Update runs one frame.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	if g.frame == nil {
		return nil
	}
	err := g.frame()
	if errors.Is(err, scene.ErrQuit) {
		return ebiten.Termination
	}
	return err
}

// Draw presents the canvas the current scene drew during Update.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.canvas.Image(), nil)
}

// Layout returns the game's logical screen dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}
