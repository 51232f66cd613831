package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/scenekit/internal/application/scene"
)

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// Poller translates ebiten's polled input state into scene events
type Poller struct {
	pressed  []ebiten.Key
	changed  []ebiten.Key
	chars    []rune
	mouseX   int
	mouseY   int
	delay    int
	interval int
}

// NewPoller creates a poller with key repeat disabled
func NewPoller() *Poller {
	return &Poller{}
}

// SetKeyRepeat makes held keys generate repeated key-down events after
// delay, then every interval. A zero delay disables repeating.
func (p *Poller) SetKeyRepeat(delay, interval time.Duration) {
	p.delay = toTicks(delay, ebiten.TPS())
	p.interval = toTicks(interval, ebiten.TPS())
}

// KeyState returns the keys currently held
func (p *Poller) KeyState() scene.KeyState {
	p.pressed = inpututil.AppendPressedKeys(p.pressed[:0])
	return scene.NewKeyState(p.pressed...)
}

// Events returns the input that happened since the previous tick
func (p *Poller) Events() []scene.Event {
	var events []scene.Event
	if ebiten.IsWindowBeingClosed() {
		events = append(events, scene.Event{Kind: scene.EventQuit})
	}

	p.changed = inpututil.AppendJustPressedKeys(p.changed[:0])
	for _, k := range p.changed {
		events = append(events, scene.KeyDown(k))
	}
	if p.delay > 0 {
		p.pressed = inpututil.AppendPressedKeys(p.pressed[:0])
		for _, k := range p.pressed {
			if repeatDue(inpututil.KeyPressDuration(k), p.delay, p.interval) {
				events = append(events, scene.KeyDown(k))
			}
		}
	}
	p.changed = inpututil.AppendJustReleasedKeys(p.changed[:0])
	for _, k := range p.changed {
		events = append(events, scene.KeyUp(k))
	}

	p.chars = ebiten.AppendInputChars(p.chars[:0])
	for _, r := range p.chars {
		events = append(events, scene.Char(r))
	}

	x, y := ebiten.CursorPosition()
	if x != p.mouseX || y != p.mouseY {
		p.mouseX, p.mouseY = x, y
		events = append(events, scene.Event{Kind: scene.EventMouseMove, X: x, Y: y})
	}
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			events = append(events, scene.MouseDown(b, x, y))
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			events = append(events, scene.MouseUp(b, x, y))
		}
	}
	return events
}

// repeatDue reports whether a key held for held ticks should repeat now.
// The initial press (held == 1) is reported separately as a just-pressed key.
func repeatDue(held, delay, interval int) bool {
	if delay <= 0 || held <= delay {
		return false
	}
	if interval <= 0 {
		interval = 1
	}
	return (held-delay)%interval == 0
}

func toTicks(d time.Duration, tps int) int {
	if d <= 0 || tps <= 0 {
		return 0
	}
	return max(1, int(d.Seconds()*float64(tps)+0.5))
}
