// Package widget implements the small set of controls used by dialogs and
// menus. Widgets consume scene events and draw onto a surface.Surface.
package widget

import (
	"image/color"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/scenekit/internal/application/scene"
	"github.com/younwookim/scenekit/internal/application/surface"
)

// Palette colors shared by the widgets
var (
	ColorText       = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	ColorButton     = color.RGBA{R: 70, G: 90, B: 140, A: 255}
	ColorButtonDown = color.RGBA{R: 40, G: 55, B: 95, A: 255}
	ColorField      = color.RGBA{R: 30, G: 30, B: 40, A: 255}
	ColorPanel      = color.RGBA{R: 50, G: 50, B: 60, A: 255}
)

// Label draws a line of text, optionally centered in a box
type Label struct {
	X, Y  int
	Text  string
	Color color.Color

	// CenterIn centers the text in this box when its width is non-zero
	CenterIn surface.Rect
}

// Draw renders the label
func (l *Label) Draw(s surface.Surface) {
	c := l.Color
	if c == nil {
		c = ColorText
	}
	x, y := l.X, l.Y
	if l.CenterIn.W > 0 {
		x, y = surface.CenterText(s, l.CenterIn, l.Text)
	}
	s.DrawText(x, y, l.Text, c)
}

// Button is a clickable rectangle. A click is a left press and release
// inside the button; Enter activates it too when EnterActivates is set.
type Button struct {
	Rect           surface.Rect
	Text           string
	EnterActivates bool
	armed          bool
}

// NewButton creates a button occupying r
func NewButton(r surface.Rect, text string) *Button {
	return &Button{Rect: r, Text: text}
}

// HandleEvent feeds one event to the button and reports whether it was
// activated by it.
func (b *Button) HandleEvent(ev scene.Event) bool {
	switch ev.Kind {
	case scene.EventMouseDown:
		if ev.Button == ebiten.MouseButtonLeft && b.Rect.Contains(ev.X, ev.Y) {
			b.armed = true
		}
	case scene.EventMouseUp:
		if ev.Button != ebiten.MouseButtonLeft {
			return false
		}
		clicked := b.armed && b.Rect.Contains(ev.X, ev.Y)
		b.armed = false
		return clicked
	case scene.EventKeyDown:
		return b.EnterActivates && isEnter(ev.Key)
	}
	return false
}

// Armed reports whether the button is being pressed
func (b *Button) Armed() bool { return b.armed }

// Draw renders the button
func (b *Button) Draw(s surface.Surface) {
	bg := ColorButton
	if b.armed {
		bg = ColorButtonDown
	}
	s.FillRect(b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, bg)
	x, y := surface.CenterText(s, b.Rect, b.Text)
	s.DrawText(x, y, b.Text, ColorText)
}

// TextField is a single-line text input
type TextField struct {
	Rect   surface.Rect
	Text   string
	MaxLen int
}

// NewTextField creates an empty field; maxLen <= 0 means unlimited
func NewTextField(r surface.Rect, maxLen int) *TextField {
	return &TextField{Rect: r, MaxLen: maxLen}
}

// HandleEvent edits the text and reports whether Enter submitted it
func (f *TextField) HandleEvent(ev scene.Event) bool {
	switch ev.Kind {
	case scene.EventChar:
		if !unicode.IsPrint(ev.Rune) {
			return false
		}
		if f.MaxLen > 0 && utf8.RuneCountInString(f.Text) >= f.MaxLen {
			return false
		}
		f.Text += string(ev.Rune)
	case scene.EventKeyDown:
		switch {
		case ev.Key == ebiten.KeyBackspace:
			if _, size := utf8.DecodeLastRuneInString(f.Text); size > 0 {
				f.Text = f.Text[:len(f.Text)-size]
			}
		case isEnter(ev.Key):
			return true
		}
	}
	return false
}

// Draw renders the field with a trailing cursor
func (f *TextField) Draw(s surface.Surface) {
	s.FillRect(f.Rect.X, f.Rect.Y, f.Rect.W, f.Rect.H, ColorField)
	line := f.Text + "_"
	_, th := s.TextSize(line)
	s.DrawText(f.Rect.X+1, f.Rect.Y+(f.Rect.H-th)/2, line, ColorText)
}

func isEnter(k ebiten.Key) bool {
	return k == ebiten.KeyEnter || k == ebiten.KeyNumpadEnter
}
