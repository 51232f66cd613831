package main

import (
	"math/rand/v2"

	"github.com/younwookim/scenekit/internal/application/surface"
)

const (
	spawnEvery     = 8 // frames between new baddies
	pointsPerDodge = 1
)

type baddie struct {
	surface.Rect
	speed int
}

// field is the dodging game: baddies fall from the top, each one that
// leaves the bottom scores a point, touching one ends the game.
type field struct {
	w, h    int
	unit    int
	player  surface.Rect
	baddies []baddie
	frames  int
	rng     *rand.Rand
}

func newField(w, h int, rng *rand.Rand) *field {
	unit := max(1, h/60)
	f := &field{w: w, h: h, unit: unit, rng: rng}
	f.reset()
	return f
}

func (f *field) reset() {
	size := 2 * f.unit
	f.player = surface.Rect{X: (f.w - size) / 2, Y: f.h - size - f.unit, W: size, H: size}
	f.baddies = f.baddies[:0]
	f.frames = 0
}

// movePlayer shifts the player, keeping it inside the field
func (f *field) movePlayer(dx, dy int) {
	f.player.X = min(max(f.player.X+dx*f.unit, 0), f.w-f.player.W)
	f.player.Y = min(max(f.player.Y+dy*f.unit, 0), f.h-f.player.H)
}

// step advances the baddies one frame and returns the points scored
func (f *field) step() int {
	f.frames++
	if f.frames%spawnEvery == 0 {
		f.spawn()
	}

	points := 0
	kept := f.baddies[:0]
	for _, b := range f.baddies {
		b.Y += b.speed
		if b.Y >= f.h {
			points += pointsPerDodge
			continue
		}
		kept = append(kept, b)
	}
	f.baddies = kept
	return points
}

func (f *field) spawn() {
	size := f.unit * (1 + f.rng.IntN(3))
	f.baddies = append(f.baddies, baddie{
		Rect:  surface.Rect{X: f.rng.IntN(max(1, f.w-size)), Y: -size, W: size, H: size},
		speed: 1 + f.rng.IntN(f.unit+1),
	})
}

// hit reports whether any baddie overlaps the player
func (f *field) hit() bool {
	for _, b := range f.baddies {
		if overlaps(b.Rect, f.player) {
			return true
		}
	}
	return false
}

func overlaps(a, b surface.Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}
