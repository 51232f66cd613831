// Package terminal hosts a scene registry on a character terminal via tcell.
package terminal

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/scenekit/internal/application/scene"
	"github.com/younwookim/scenekit/internal/application/surface"
)

const eventBuffer = 256

var mouseButtons = []struct {
	mask   tcell.ButtonMask
	button ebiten.MouseButton
}{
	{tcell.Button1, ebiten.MouseButtonLeft},
	{tcell.Button2, ebiten.MouseButtonRight},
	{tcell.Button3, ebiten.MouseButtonMiddle},
}

// Option configures a Host
type Option func(*Host)

// WithLogger sets the logger used for terminal events
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// Host implements scene.Host on a tcell screen. Terminal input has no key
// release, so a key counts as held only during the frame that reported it.
type Host struct {
	screen  tcell.Screen
	surface *Surface
	logger  *zap.Logger

	events  chan tcell.Event
	done    chan struct{}
	once    sync.Once
	pending []scene.Event
	buttons tcell.ButtonMask
	mouseX  int
	mouseY  int
}

// New opens the process terminal
func New(opts ...Option) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewWithScreen(screen, opts...)
}

// NewWithScreen initializes screen and starts reading its events
func NewWithScreen(screen tcell.Screen, opts ...Option) (*Host, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()
	screen.EnableMouse()
	screen.Clear()

	h := &Host{
		screen:  screen,
		surface: NewSurface(screen),
		logger:  zap.NewNop(),
		events:  make(chan tcell.Event, eventBuffer),
		done:    make(chan struct{}),
		mouseX:  -1,
		mouseY:  -1,
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.readEvents()
	return h, nil
}

func (h *Host) readEvents() {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case h.events <- ev:
		case <-h.done:
			return
		}
	}
}

// Surface returns the terminal drawing surface
func (h *Host) Surface() surface.Surface {
	return h.surface
}

// KeyState drains pending terminal input and reports the keys pressed in it
func (h *Host) KeyState() scene.KeyState {
	h.drain()
	var keys []ebiten.Key
	for _, ev := range h.pending {
		if ev.Kind == scene.EventKeyDown {
			keys = append(keys, ev.Key)
		}
	}
	return scene.NewKeyState(keys...)
}

// Events returns the input received since the previous frame
func (h *Host) Events() []scene.Event {
	h.drain()
	out := h.pending
	h.pending = nil
	return out
}

func (h *Host) drain() {
	for {
		select {
		case ev := <-h.events:
			h.pending = h.translate(h.pending, ev)
		default:
			return
		}
	}
}

func (h *Host) translate(out []scene.Event, ev tcell.Event) []scene.Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return append(out, scene.Event{Kind: scene.EventQuit})
		}
		if k, ok := translateKey(ev); ok {
			out = append(out, scene.KeyDown(k))
		}
		if ev.Key() == tcell.KeyRune {
			out = append(out, scene.Char(ev.Rune()))
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		if x != h.mouseX || y != h.mouseY {
			h.mouseX, h.mouseY = x, y
			out = append(out, scene.Event{Kind: scene.EventMouseMove, X: x, Y: y})
		}
		buttons := ev.Buttons()
		for _, b := range mouseButtons {
			was, is := h.buttons&b.mask != 0, buttons&b.mask != 0
			switch {
			case is && !was:
				out = append(out, scene.MouseDown(b.button, x, y))
			case was && !is:
				out = append(out, scene.MouseUp(b.button, x, y))
			}
		}
		h.buttons = buttons
	case *tcell.EventResize:
		w, hh := ev.Size()
		h.logger.Debug("terminal resized", zap.Int("width", w), zap.Int("height", hh))
		h.screen.Sync()
	}
	return out
}

// Loop calls frame at fps and presents the screen after each frame. It
// returns frame's error, or nil once the host is closed.
func (h *Host) Loop(fps int, frame func() error) error {
	if fps <= 0 {
		return fmt.Errorf("frame rate %d: %w", fps, scene.ErrInvalidFrameRate)
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		if err := frame(); err != nil {
			return err
		}
		h.screen.Show()

		select {
		case <-ticker.C:
		case <-h.done:
			return nil
		}
	}
}

// Close restores the terminal. It is safe to call more than once.
func (h *Host) Close() error {
	h.once.Do(func() {
		close(h.done)
		h.screen.Fini()
	})
	return nil
}
