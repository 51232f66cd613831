// Package dialog provides modal dialogs implemented as ordinary scenes.
//
// A scene opens a dialog with Show, which registers the dialog and makes it
// current. When the user answers, the dialog sends its Result to the opener
// (if a message ID was given), removes itself and goes back to the opener,
// passing the Result to the opener's Enter.
package dialog

import (
	"github.com/younwookim/scenekit/internal/application/scene"
	"github.com/younwookim/scenekit/internal/application/surface"
	"github.com/younwookim/scenekit/internal/application/widget"
)

// Open is the Enter payload a dialog expects
type Open struct {
	ReturnTo  scene.Key
	MessageID string
}

// Result is what a dialog reports back to its opener
type Result struct {
	Confirmed bool
	// Text is the answer of an Answer dialog; empty when canceled
	Text string
}

// Opener is the part of a scene needed to open a dialog. Every scene that
// embeds scene.Base satisfies it.
type Opener interface {
	Key() scene.Key
	AddScene(key scene.Key, s scene.Scene) error
	GoToScene(target scene.Key, data any) error
}

// Show registers d under key and makes it current. The dialog returns to
// from when answered; a non-empty messageID also delivers the Result to
// from's Receive.
func Show(from Opener, key scene.Key, d scene.Scene, messageID string) error {
	if err := from.AddScene(key, d); err != nil {
		return err
	}
	return from.GoToScene(key, Open{ReturnTo: from.Key(), MessageID: messageID})
}

// base holds the plumbing shared by all dialogs
type base struct {
	scene.Base
	surf  surface.Surface
	open  Open
	panel surface.Rect
}

func (b *base) Enter(data any) {
	if open, ok := data.(Open); ok {
		b.open = open
	}
}

// Receive ignores broadcasts addressed to the whole application
func (b *base) Receive(string, any) error { return nil }

func (b *base) finish(res Result) error {
	if b.open.MessageID != "" {
		if err := b.Send(b.open.ReturnTo, b.open.MessageID, res); err != nil {
			return err
		}
	}
	if err := b.RemoveScene(b.Key()); err != nil {
		return err
	}
	return b.GoToScene(b.open.ReturnTo, res)
}

// layout centers a panel of w by h units on the surface
func (b *base) layout(w, h int) {
	sw, sh := b.surf.Size()
	b.panel = surface.Rect{X: (sw - w) / 2, Y: (sh - h) / 2, W: w, H: h}
}

// drawPanel draws the dialog box over whatever the opener drew last
func (b *base) drawPanel() {
	b.surf.FillRect(b.panel.X, b.panel.Y, b.panel.W, b.panel.H, widget.ColorPanel)
}

// unit returns the height of one text line on the surface
func unit(s surface.Surface) int {
	_, h := s.TextSize("M")
	return max(h, 1)
}
