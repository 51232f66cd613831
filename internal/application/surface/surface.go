// Package surface abstracts the drawing target scenes render onto, so the
// same scene code can draw into an ebiten canvas or a terminal grid.
package surface

import "image/color"

// Surface is a drawing target. Coordinates are in the host's units: pixels
// for ebiten, cells for a terminal.
type Surface interface {
	Size() (w, h int)
	Fill(c color.Color)
	FillRect(x, y, w, h int, c color.Color)
	DrawText(x, y int, s string, c color.Color)
	// TextSize returns the extent DrawText would cover for s
	TextSize(s string) (w, h int)
}

// Rect is an axis-aligned rectangle
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point x, y lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the rectangle's center point
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// CenterText returns the position that centers s inside r on surface s
func CenterText(surf Surface, r Rect, s string) (int, int) {
	w, h := surf.TextSize(s)
	cx, cy := r.Center()
	return cx - w/2, cy - h/2
}
