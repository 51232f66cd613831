package dialog

import (
	"github.com/younwookim/scenekit/internal/application/scene"
	"github.com/younwookim/scenekit/internal/application/surface"
	"github.com/younwookim/scenekit/internal/application/widget"
)

// Answer asks for a line of text. Enter in the field or the OK button
// confirms; Cancel reports an unconfirmed empty Result.
type Answer struct {
	base
	prompt widget.Label
	field  *widget.TextField
	ok     *widget.Button
	cancel *widget.Button
}

// NewAnswer builds a text prompt accepting up to maxLen runes
func NewAnswer(s surface.Surface, prompt string, maxLen int, okText, cancelText string) *Answer {
	d := &Answer{base: base{surf: s}}

	lh := unit(s)
	cw, _ := s.TextSize("M")
	pw, _ := s.TextSize(prompt)
	okW, _ := s.TextSize(" " + okText + " ")
	cancelW, _ := s.TextSize(" " + cancelText + " ")
	bw := max(okW, cancelW)
	fieldW := max(maxLen+2, 12) * cw
	d.layout(max(pw, fieldW, 2*bw+lh)+4*lh, 10*lh)

	p := d.panel
	d.prompt = widget.Label{Text: prompt, CenterIn: surface.Rect{X: p.X, Y: p.Y + lh, W: p.W, H: 2 * lh}}
	d.field = widget.NewTextField(surface.Rect{X: p.X + (p.W-fieldW)/2, Y: p.Y + 4*lh, W: fieldW, H: lh}, maxLen)
	left := p.X + (p.W-2*bw-lh)/2
	d.ok = widget.NewButton(surface.Rect{X: left, Y: p.Y + 7*lh, W: bw, H: 2 * lh}, okText)
	d.cancel = widget.NewButton(surface.Rect{X: left + bw + lh, Y: p.Y + 7*lh, W: bw, H: 2 * lh}, cancelText)
	return d
}

// Field returns the text input
func (d *Answer) Field() *widget.TextField { return d.field }

// OK returns the confirm button
func (d *Answer) OK() *widget.Button { return d.ok }

// Cancel returns the cancel button
func (d *Answer) Cancel() *widget.Button { return d.cancel }

// Enter clears any text left over from a previous use
func (d *Answer) Enter(data any) {
	d.base.Enter(data)
	d.field.Text = ""
}

func (d *Answer) HandleInputs(events []scene.Event, _ scene.KeyState) error {
	for _, ev := range events {
		if d.field.HandleEvent(ev) || d.ok.HandleEvent(ev) {
			return d.finish(Result{Confirmed: true, Text: d.field.Text})
		}
		if d.cancel.HandleEvent(ev) {
			return d.finish(Result{})
		}
	}
	return nil
}

func (d *Answer) Draw() {
	d.drawPanel()
	d.prompt.Draw(d.surf)
	d.field.Draw(d.surf)
	d.ok.Draw(d.surf)
	d.cancel.Draw(d.surf)
}
