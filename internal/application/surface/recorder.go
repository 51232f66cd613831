package surface

import (
	"image/color"
	"unicode/utf8"
)

// Op is one drawing call captured by a Recorder
type Op struct {
	Kind  string
	X, Y  int
	W, H  int
	Text  string
	Color color.Color
}

// Recorder is an in-memory Surface that keeps every drawing call. It backs
// headless runs and tests. Text is measured as one unit per rune.
type Recorder struct {
	w, h    int
	discard bool
	Ops     []Op
}

// NewRecorder creates a recorder of the given size
func NewRecorder(w, h int) *Recorder {
	return &Recorder{w: w, h: h}
}

// NewDiscard creates a surface that measures like a Recorder but keeps
// nothing, for runs without a display.
func NewDiscard(w, h int) *Recorder {
	return &Recorder{w: w, h: h, discard: true}
}

func (r *Recorder) Size() (int, int) { return r.w, r.h }

func (r *Recorder) Fill(c color.Color) {
	r.add(Op{Kind: "fill", W: r.w, H: r.h, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h int, c color.Color) {
	r.add(Op{Kind: "rect", X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) DrawText(x, y int, s string, c color.Color) {
	r.add(Op{Kind: "text", X: x, Y: y, Text: s, Color: c})
}

func (r *Recorder) add(op Op) {
	if !r.discard {
		r.Ops = append(r.Ops, op)
	}
}

func (r *Recorder) TextSize(s string) (int, int) {
	return utf8.RuneCountInString(s), 1
}

// Texts returns the strings drawn since the last Reset, in order
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// Reset forgets recorded operations
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
