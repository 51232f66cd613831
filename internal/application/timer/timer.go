// Package timer provides frame-polled timers for scenes: a one-shot Timer,
// a CountUp stopwatch and a CountDown.
package timer

import (
	"fmt"
	"math"
	"time"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type options struct {
	clock      Clock
	nickname   string
	callback   func(nickname string)
	stopAtZero bool
}

// Option configures a timer
type Option func(*options)

// WithClock replaces the wall clock, mainly for tests
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithNickname names a timer; the name is passed to its callback
func WithNickname(name string) Option {
	return func(o *options) { o.nickname = name }
}

// WithCallback sets the function called when a Timer fires or a CountDown
// reaches zero
func WithCallback(fn func(nickname string)) Option {
	return func(o *options) { o.callback = fn }
}

// WithoutStopAtZero lets a CountDown continue into negative values
func WithoutStopAtZero() Option {
	return func(o *options) { o.stopAtZero = false }
}

func newOptions(opts []Option) options {
	o := options{clock: SystemClock{}, stopAtZero: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Timer fires once after a duration. Call Update every frame; it reports
// true on the frame the timer fires.
type Timer struct {
	opts     options
	duration time.Duration
	started  time.Time
	running  bool
}

// New creates a stopped timer
func New(d time.Duration, opts ...Option) *Timer {
	return &Timer{opts: newOptions(opts), duration: d}
}

// Start (re)starts the timer with its current duration
func (t *Timer) Start() {
	t.started = t.opts.clock.Now()
	t.running = true
}

// StartWith restarts the timer with a new duration
func (t *Timer) StartWith(d time.Duration) {
	t.duration = d
	t.Start()
}

// Update checks the timer. It returns true and calls the callback once the
// duration has elapsed; the timer then stops.
func (t *Timer) Update() bool {
	if !t.running {
		return false
	}
	if t.opts.clock.Now().Sub(t.started) < t.duration {
		return false
	}
	t.running = false
	if t.opts.callback != nil {
		t.opts.callback(t.opts.nickname)
	}
	return true
}

// Elapsed returns the time since Start, or zero when stopped
func (t *Timer) Elapsed() time.Duration {
	if !t.running {
		return 0
	}
	return t.opts.clock.Now().Sub(t.started)
}

// Running reports whether the timer is waiting to fire
func (t *Timer) Running() bool { return t.running }

// Stop cancels the timer without firing
func (t *Timer) Stop() { t.running = false }

// CountUp measures elapsed time since Start until Stop
type CountUp struct {
	opts    options
	started time.Time
	saved   time.Duration
	running bool
}

// NewCountUp creates a stopped stopwatch
func NewCountUp(opts ...Option) *CountUp {
	return &CountUp{opts: newOptions(opts)}
}

// Start resets the stopwatch to zero and starts it
func (c *CountUp) Start() {
	c.started = c.opts.clock.Now()
	c.saved = 0
	c.running = true
}

// Stop freezes the elapsed time
func (c *CountUp) Stop() {
	if c.running {
		c.saved = c.opts.clock.Now().Sub(c.started)
		c.running = false
	}
}

// Elapsed returns the running or frozen elapsed time
func (c *CountUp) Elapsed() time.Duration {
	if c.running {
		return c.opts.clock.Now().Sub(c.started)
	}
	return c.saved
}

// Seconds returns the whole elapsed seconds
func (c *CountUp) Seconds() int {
	return int(c.Elapsed() / time.Second)
}

// HHMMSS formats the elapsed time with msDigits fractional digits
func (c *CountUp) HHMMSS(msDigits int) string {
	return FormatHHMMSS(c.Elapsed().Seconds(), msDigits)
}

// CountDown measures the time left from a starting duration
type CountDown struct {
	opts     options
	duration time.Duration
	started  time.Time
	saved    time.Duration
	running  bool
	fired    bool
}

// NewCountDown creates a stopped countdown from d
func NewCountDown(d time.Duration, opts ...Option) *CountDown {
	return &CountDown{opts: newOptions(opts), duration: d, saved: d}
}

// Start restarts the countdown from its duration
func (c *CountDown) Start() {
	c.started = c.opts.clock.Now()
	c.saved = c.duration
	c.running = true
	c.fired = false
}

// StartWith restarts the countdown from d
func (c *CountDown) StartWith(d time.Duration) {
	c.duration = d
	c.Start()
}

// Stop freezes the remaining time
func (c *CountDown) Stop() {
	if c.running {
		c.saved = c.remaining()
		c.running = false
	}
}

func (c *CountDown) remaining() time.Duration {
	left := c.duration - c.opts.clock.Now().Sub(c.started)
	if c.opts.stopAtZero && left < 0 {
		return 0
	}
	return left
}

// Remaining returns the time left. The callback fires the first time zero is
// reached. With the default stop-at-zero behavior the countdown also stops
// itself there.
func (c *CountDown) Remaining() time.Duration {
	if !c.running {
		return c.saved
	}
	left := c.remaining()
	if left > 0 {
		return left
	}
	if !c.fired {
		c.fired = true
		if c.opts.callback != nil {
			c.opts.callback(c.opts.nickname)
		}
	}
	if c.opts.stopAtZero {
		c.saved = 0
		c.running = false
	}
	return left
}

// Ended reports whether the countdown has reached zero
func (c *CountDown) Ended() bool {
	return c.Remaining() <= 0
}

// Seconds returns the whole seconds left, rounded toward zero
func (c *CountDown) Seconds() int {
	return int(c.Remaining() / time.Second)
}

// HHMMSS formats the remaining time with msDigits fractional digits
func (c *CountDown) HHMMSS(msDigits int) string {
	return FormatHHMMSS(c.Remaining().Seconds(), msDigits)
}

// FormatHHMMSS renders seconds as H:MM:SS, M:SS or S, omitting leading zero
// units, with msDigits digits after the decimal point. Negative values get a
// leading minus sign.
func FormatHHMMSS(seconds float64, msDigits int) string {
	msDigits = max(msDigits, 0)
	width := 2
	if msDigits > 0 {
		width = msDigits + 3
	}

	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	// round first so that 59.96 carries into the minute
	scale := math.Pow10(msDigits)
	seconds = math.Round(seconds*scale) / scale
	if seconds == 0 {
		sign = ""
	}

	mins := math.Floor(seconds / 60)
	secs := seconds - mins*60
	hours := int(mins) / 60
	m := int(mins) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%s%d:%02d:%0*.*f", sign, hours, m, width, msDigits, secs)
	case m > 0:
		return fmt.Sprintf("%s%d:%0*.*f", sign, m, width, msDigits, secs)
	default:
		return fmt.Sprintf("%s%.*f", sign, msDigits, secs)
	}
}
