package terminal

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Surface draws onto a tcell screen with one cell per unit. Fill colors
// paint cell backgrounds; text colors set the foreground and keep whatever
// background is already in the cell.
type Surface struct {
	screen tcell.Screen
}

// NewSurface wraps screen
func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{screen: screen}
}

func (s *Surface) Size() (int, int) {
	return s.screen.Size()
}

func (s *Surface) Fill(c color.Color) {
	style := tcell.StyleDefault.Background(tcell.FromImageColor(c))
	s.screen.Fill(' ', style)
}

func (s *Surface) FillRect(x, y, w, h int, c color.Color) {
	style := tcell.StyleDefault.Background(tcell.FromImageColor(c))
	sw, sh := s.screen.Size()
	for row := max(y, 0); row < min(y+h, sh); row++ {
		for col := max(x, 0); col < min(x+w, sw); col++ {
			s.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (s *Surface) DrawText(x, y int, text string, c color.Color) {
	fg := tcell.FromImageColor(c)
	sw, sh := s.screen.Size()
	if y < 0 || y >= sh {
		return
	}
	col := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= 0 && col+w <= sw {
			_, _, style, _ := s.screen.GetContent(col, y)
			s.screen.SetContent(col, y, r, nil, style.Foreground(fg))
		}
		col += w
	}
}

func (s *Surface) TextSize(text string) (int, int) {
	if text == "" {
		return 0, 0
	}
	return runewidth.StringWidth(text), 1
}
