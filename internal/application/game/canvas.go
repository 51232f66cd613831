package game

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Debug font metrics used by ebitenutil.DebugPrintAt
const (
	glyphWidth  = 6
	glyphHeight = 16
)

// Canvas is a surface.Surface backed by an offscreen ebiten image. Text is
// rendered with the debug font, which ignores the requested color.
type Canvas struct {
	img  *ebiten.Image
	w, h int
}

// NewCanvas allocates a canvas of the given size
func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: ebiten.NewImage(w, h), w: w, h: h}
}

// Image returns the backing image
func (c *Canvas) Image() *ebiten.Image { return c.img }

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) Fill(col color.Color) {
	c.img.Fill(col)
}

func (c *Canvas) FillRect(x, y, w, h int, col color.Color) {
	ebitenutil.DrawRect(c.img, float64(x), float64(y), float64(w), float64(h), col)
}

func (c *Canvas) DrawText(x, y int, s string, _ color.Color) {
	ebitenutil.DebugPrintAt(c.img, s, x, y)
}

func (c *Canvas) TextSize(s string) (int, int) {
	if s == "" {
		return 0, 0
	}
	lines := strings.Split(s, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, utf8.RuneCountInString(l))
	}
	return widest * glyphWidth, len(lines) * glyphHeight
}
