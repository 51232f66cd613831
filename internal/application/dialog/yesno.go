package dialog

import (
	"github.com/younwookim/scenekit/internal/application/scene"
	"github.com/younwookim/scenekit/internal/application/surface"
	"github.com/younwookim/scenekit/internal/application/widget"
)

// YesNo asks a question with a confirm and an optional deny button. With an
// empty noText it is a plain alert with a single button.
type YesNo struct {
	base
	prompt widget.Label
	yes    *widget.Button
	no     *widget.Button
}

// NewYesNo builds a dialog that draws onto s
func NewYesNo(s surface.Surface, prompt, yesText, noText string) *YesNo {
	d := &YesNo{base: base{surf: s}}

	lh := unit(s)
	pw, _ := s.TextSize(prompt)
	bw, _ := s.TextSize(" " + yesText + " ")
	if noText != "" {
		nw, _ := s.TextSize(" " + noText + " ")
		bw = max(bw, nw)
	}
	d.layout(max(pw, 2*bw+lh)+4*lh, 7*lh)

	p := d.panel
	d.prompt = widget.Label{Text: prompt, CenterIn: surface.Rect{X: p.X, Y: p.Y + lh, W: p.W, H: 2 * lh}}
	btnY := p.Y + 4*lh
	if noText == "" {
		d.yes = widget.NewButton(surface.Rect{X: p.X + (p.W-bw)/2, Y: btnY, W: bw, H: 2 * lh}, yesText)
	} else {
		gap := lh
		left := p.X + (p.W-2*bw-gap)/2
		d.yes = widget.NewButton(surface.Rect{X: left, Y: btnY, W: bw, H: 2 * lh}, yesText)
		d.no = widget.NewButton(surface.Rect{X: left + bw + gap, Y: btnY, W: bw, H: 2 * lh}, noText)
	}
	d.yes.EnterActivates = true
	return d
}

// Yes returns the confirm button
func (d *YesNo) Yes() *widget.Button { return d.yes }

// No returns the deny button, nil for an alert
func (d *YesNo) No() *widget.Button { return d.no }

func (d *YesNo) HandleInputs(events []scene.Event, _ scene.KeyState) error {
	for _, ev := range events {
		if d.yes.HandleEvent(ev) {
			return d.finish(Result{Confirmed: true})
		}
		if d.no != nil && d.no.HandleEvent(ev) {
			return d.finish(Result{})
		}
	}
	return nil
}

func (d *YesNo) Draw() {
	d.drawPanel()
	d.prompt.Draw(d.surf)
	d.yes.Draw(d.surf)
	if d.no != nil {
		d.no.Draw(d.surf)
	}
}
