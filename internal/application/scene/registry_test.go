package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/younwookim/scenekit/internal/application/state"
)

// newAB builds the registry used by most tests: {"A": a, "B": b} starting at A
func newAB(t *testing.T, opts ...Option) (*Registry, *mockScene, *mockScene, *[]string) {
	t.Helper()
	calls := &[]string{}
	a := newMock("A", calls)
	b := newMock("B", calls)
	r, err := New(FromMap(map[Key]Scene{"A": a, "B": b}, "A"), 30, opts...)
	require.NoError(t, err)
	return r, a, b, calls
}

func TestNew_FromMap(t *testing.T) {
	r, a, b, _ := newAB(t)

	assert.Equal(t, "A", r.CurrentKey())
	assert.Same(t, a, r.Current())
	assert.Equal(t, 30, r.FrameRate())
	assert.Equal(t, []Key{"A", "B"}, r.Keys())

	// Every scene is bound to the registry under its key
	assert.Equal(t, "A", a.Key())
	assert.Equal(t, "B", b.Key())
	assert.Same(t, r, a.registry)
	assert.Same(t, r, b.registry)

	// Construction does not call any hook
	assert.Equal(t, 0, a.enterCalled)
	assert.Equal(t, 0, a.leaveCalled)
}

func TestNew_FromList(t *testing.T) {
	splash := &keyedScene{key: "splash"}
	play := &keyedScene{key: "play"}

	r, err := New(FromList(splash, play), 60)
	require.NoError(t, err)

	assert.Equal(t, "splash", r.CurrentKey(), "first scene in the list is the starting scene")
	assert.Equal(t, []Key{"splash", "play"}, r.Keys())
	assert.Equal(t, "play", play.Key())
}

func TestNew_Errors(t *testing.T) {
	a := newMock("A", nil)

	tests := []struct {
		name string
		src  Source
		fps  int
		want error
	}{
		{"nil source", nil, 30, ErrNoScenes},
		{"empty map", FromMap(map[Key]Scene{}, "A"), 30, ErrNoScenes},
		{"empty list", FromList(), 30, ErrNoScenes},
		{"zero fps", FromMap(map[Key]Scene{"A": a}, "A"), 0, ErrInvalidFrameRate},
		{"negative fps", FromMap(map[Key]Scene{"A": a}, "A"), -5, ErrInvalidFrameRate},
		{"unknown start", FromMap(map[Key]Scene{"A": a}, "Z"), 30, ErrUnknownScene},
		{"empty key", FromMap(map[Key]Scene{"": a}, ""), 30, ErrInvalidKey},
		{"duplicate list key", FromList(&keyedScene{key: "x"}, &keyedScene{key: "x"}), 30, ErrDuplicateScene},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.src, tt.fps)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNew_ErrorNamesOffendingKey(t *testing.T) {
	_, err := New(FromMap(map[Key]Scene{"A": newMock("A", nil)}, "missing"), 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestTransition_LeaveThenEnterWithPayload(t *testing.T) {
	r, a, b, calls := newAB(t)

	err := a.GoToScene("B", 42)
	require.NoError(t, err)

	assert.Equal(t, 1, a.enterCalled, "starting scene entered before it leaves")
	assert.Equal(t, 1, a.leaveCalled, "outgoing Leave called once")
	assert.Equal(t, 1, b.enterCalled, "incoming Enter called once")
	assert.Equal(t, []any{42}, b.enterData)
	assert.Equal(t, []string{"A.enter", "A.leave", "B.enter"}, *calls, "Leave strictly before Enter")
	assert.Equal(t, "B", r.CurrentKey())

	// The next frame lands on B, not A
	*calls = nil
	require.NoError(t, r.Frame(&fakeInput{}))
	assert.Equal(t, 0, a.inputsCalled)
	assert.Equal(t, 0, a.updateCalled)
	assert.Equal(t, 0, a.drawCalled)
	assert.Equal(t, 1, b.enterCalled, "no second Enter on the first frame")
	assert.Equal(t, 1, b.inputsCalled)
	assert.Equal(t, 1, b.updateCalled)
	assert.Equal(t, 1, b.drawCalled)
}

func TestTransition_SelfTransitionIsLeaveThenEnter(t *testing.T) {
	r, a, _, calls := newAB(t)

	require.NoError(t, a.GoToScene("A", "again"))

	assert.Equal(t, []string{"A.enter", "A.leave", "A.enter"}, *calls)
	assert.Equal(t, []any{nil, "again"}, a.enterData)
	assert.Equal(t, "A", r.CurrentKey())
}

func TestTransition_UnknownKeyLeavesCurrentUntouched(t *testing.T) {
	r, a, _, calls := newAB(t)

	err := a.GoToScene("nowhere", nil)

	assert.ErrorIs(t, err, ErrUnknownScene)
	assert.Contains(t, err.Error(), `"nowhere"`)
	assert.Equal(t, "A", r.CurrentKey())
	assert.Same(t, a, r.Current())
	assert.Empty(t, *calls, "no hook runs for an unknown target")
}

func TestTransition_SingleCurrentSceneInvariant(t *testing.T) {
	r, a, b, _ := newAB(t)
	c := newMock("C", nil)
	require.NoError(t, a.AddScene("C", c))

	activeCount := func() int {
		n := 0
		for _, k := range r.Keys() {
			if r.State(k) == state.Active {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 1, activeCount())
	for _, target := range []Key{"B", "C", "C", "A", "B"} {
		require.NoError(t, r.Transition(target, nil))
		assert.Equal(t, 1, activeCount())
		assert.Equal(t, target, r.CurrentKey())
		assert.True(t, r.Has(r.CurrentKey()))
	}
	assert.Equal(t, 2, b.enterCalled)
}

func TestQuit_LeavesWithoutEnter(t *testing.T) {
	r, a, b, calls := newAB(t)

	require.NoError(t, a.Quit())

	assert.True(t, r.Quitting())
	assert.Equal(t, 1, a.leaveCalled)
	assert.Equal(t, []string{"A.enter", "A.leave"}, *calls, "quit never enters another scene")
	assert.Equal(t, 0, b.enterCalled)

	// The loop stops on the next frame
	assert.ErrorIs(t, r.Frame(&fakeInput{}), ErrQuit)
	assert.Equal(t, 0, a.inputsCalled)

	// Further navigation is refused
	err := r.Transition("B", nil)
	assert.ErrorIs(t, err, ErrQuit)
	assert.Equal(t, 0, b.enterCalled)
	assert.Equal(t, 1, a.leaveCalled)
}

func TestQuit_FromHandleInputsStopsFrame(t *testing.T) {
	r, a, _, _ := newAB(t)
	a.onInputs = func([]Event) error { return a.Quit() }

	err := r.Frame(&fakeInput{})

	assert.ErrorIs(t, err, ErrQuit)
	assert.Equal(t, 1, a.inputsCalled)
	assert.Equal(t, 0, a.updateCalled, "update skipped after quit")
	assert.Equal(t, 0, a.drawCalled, "draw skipped after quit")
	assert.Equal(t, 1, a.leaveCalled)
}

func TestRequest_RoundTrip(t *testing.T) {
	_, a, b, _ := newAB(t)
	b.responses = map[string]any{"score": 1200, "name": "bob"}

	info, err := a.Request("B", "score")
	require.NoError(t, err)
	assert.Equal(t, 1200, info)

	info, err = a.Request("B", "name")
	require.NoError(t, err)
	assert.Equal(t, "bob", info)
}

func TestRequest_Errors(t *testing.T) {
	_, a, b, _ := newAB(t)

	_, err := a.Request("Z", "score")
	assert.ErrorIs(t, err, ErrUnknownScene)

	// B never overrode Respond
	_, err = a.Request("B", "score")
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.NotErrorIs(t, err, ErrUnknownScene)
	assert.Empty(t, b.received)
}

func TestSend_DeliversToTarget(t *testing.T) {
	_, a, b, _ := newAB(t)

	require.NoError(t, a.Send("B", "bonus", 50))

	require.Len(t, b.received, 1)
	assert.Equal(t, message{id: "bonus", info: 50}, b.received[0])
	assert.Empty(t, a.received)

	assert.ErrorIs(t, a.Send("Z", "bonus", 50), ErrUnknownScene)
}

func TestSend_DefaultReceiveNotImplemented(t *testing.T) {
	a := newMock("A", nil)
	plain := &minimalScene{}
	_, err := New(FromMap(map[Key]Scene{"A": a, "plain": plain}, "A"), 30)
	require.NoError(t, err)

	err = a.Send("plain", "hello", nil)
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestBroadcast_ExcludesSender(t *testing.T) {
	calls := &[]string{}
	scenes := map[Key]Scene{}
	mocks := map[Key]*mockScene{}
	for _, k := range []Key{"A", "B", "C", "D"} {
		m := newMock(k, calls)
		scenes[k] = m
		mocks[k] = m
	}
	_, err := New(FromMap(scenes, "A"), 30)
	require.NoError(t, err)

	require.NoError(t, mocks["C"].SendAll("reset", true))

	assert.Empty(t, mocks["C"].received, "sender never receives its own broadcast")
	for _, k := range []Key{"A", "B", "D"} {
		require.Len(t, mocks[k].received, 1, k)
		assert.Equal(t, message{id: "reset", info: true}, mocks[k].received[0])
	}
	assert.Equal(t, []string{"A.receive", "B.receive", "D.receive"}, *calls)
}

func TestBroadcast_StopsOnFirstError(t *testing.T) {
	a := newMock("A", nil)
	plain := &minimalScene{}
	c := newMock("C", nil)
	_, err := New(FromMap(map[Key]Scene{"A": a, "B": plain, "C": c}, "A"), 30)
	require.NoError(t, err)

	err = a.SendAll("hello", nil)
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Contains(t, err.Error(), `"B"`)
	assert.Empty(t, c.received)
}

func TestAddScene(t *testing.T) {
	r, a, _, _ := newAB(t)
	c := newMock("C", nil)

	require.NoError(t, a.AddScene("C", c))
	assert.Equal(t, "A", r.CurrentKey(), "added scene does not become current")
	assert.Equal(t, state.Inactive, r.State("C"))
	assert.Equal(t, "C", c.Key())

	require.NoError(t, a.GoToScene("C", nil))
	assert.Same(t, c, r.Current())
	assert.Equal(t, 1, c.enterCalled)

	// Same key again fails loudly
	err := a.AddScene("C", newMock("C2", nil))
	assert.ErrorIs(t, err, ErrDuplicateScene)
	assert.Contains(t, err.Error(), `"C"`)
	assert.Same(t, c, r.Current())

	assert.ErrorIs(t, a.AddScene(NoScene, newMock("X", nil)), ErrInvalidKey)
	assert.Error(t, a.AddScene("nil", nil))
}

func TestScheduleRemoval_IsDeferredToFrameBoundary(t *testing.T) {
	r, a, b, _ := newAB(t)
	b.responses = map[string]any{"ping": "pong"}

	require.NoError(t, a.RemoveScene("B"))
	assert.Equal(t, state.PendingRemoval, r.State("B"))
	assert.True(t, r.Has("B"))

	// Still addressable in the same frame
	require.NoError(t, a.Send("B", "late", 1))
	info, err := a.Request("B", "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", info)

	require.NoError(t, r.Frame(&fakeInput{}))

	assert.False(t, r.Has("B"))
	assert.Equal(t, state.Unknown, r.State("B"))
	assert.Equal(t, []Key{"A"}, r.Keys())
	assert.ErrorIs(t, a.Send("B", "gone", nil), ErrUnknownScene)
	assert.ErrorIs(t, a.GoToScene("B", nil), ErrUnknownScene)
}

func TestScheduleRemoval_SelfThenTransitionAway(t *testing.T) {
	r, a, b, _ := newAB(t)
	c := newMock("C", nil)
	require.NoError(t, a.AddScene("C", c))
	require.NoError(t, a.GoToScene("C", nil))

	c.onInputs = func([]Event) error {
		if err := c.RemoveScene(c.Key()); err != nil {
			return err
		}
		return c.GoToScene("A", "from C")
	}

	require.NoError(t, r.Frame(&fakeInput{}))
	assert.Equal(t, "A", r.CurrentKey())
	assert.True(t, r.Has("C"), "removal waits for the next frame")
	assert.Equal(t, 1, a.updateCalled, "hooks after a transition address the new scene")

	require.NoError(t, r.Frame(&fakeInput{}))
	assert.False(t, r.Has("C"))
	assert.Equal(t, []Key{"A", "B"}, r.Keys())
	assert.Equal(t, 0, b.enterCalled)
}

func TestScheduleRemoval_UnknownKey(t *testing.T) {
	r, a, _, _ := newAB(t)

	err := a.RemoveScene("Z")
	assert.ErrorIs(t, err, ErrUnknownScene)
	assert.Equal(t, "A", r.CurrentKey())
}

func TestScheduleRemoval_CurrentSceneKeepsRunningButIsUnaddressable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r, a, _, _ := newAB(t, WithLogger(zap.New(core)))

	require.NoError(t, a.RemoveScene("A"))
	require.NoError(t, r.Frame(&fakeInput{}))

	// The object stays current; lookups by its key fail
	assert.Same(t, a, r.Current())
	assert.Equal(t, 1, a.drawCalled)
	assert.False(t, r.Has("A"))
	assert.ErrorIs(t, r.Transition("A", nil), ErrUnknownScene)
	assert.Equal(t, 1, logs.FilterMessage("removed the current scene; it is no longer addressable").Len())
}

func TestScheduleRemoval_Twice(t *testing.T) {
	r, a, _, _ := newAB(t)

	require.NoError(t, a.RemoveScene("B"))
	require.NoError(t, a.RemoveScene("B"))
	require.NoError(t, r.Frame(&fakeInput{}))
	assert.Equal(t, []Key{"A"}, r.Keys())
}

func TestFrame_HookOrder(t *testing.T) {
	r, _, _, calls := newAB(t)

	require.NoError(t, r.Frame(&fakeInput{}))
	require.NoError(t, r.Frame(&fakeInput{}))

	assert.Equal(t, []string{
		"A.enter", // starting scene entered on the first frame
		"A.inputs", "A.update", "A.draw",
		"A.inputs", "A.update", "A.draw",
	}, *calls)
}

func TestFrame_QuitFromStartingEnter(t *testing.T) {
	tests := []struct {
		name  string
		batch []Event
	}{
		{"no events", nil},
		{"cancel key in the same batch", []Event{KeyDown(ebiten.KeyEscape)}},
		{"window close in the same batch", []Event{{Kind: EventQuit}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, a, _, calls := newAB(t)
			a.onEnter = func(any) { require.NoError(t, a.Quit()) }

			err := r.Frame(&fakeInput{frames: [][]Event{tt.batch}})

			assert.ErrorIs(t, err, ErrQuit)
			assert.Equal(t, 1, a.leaveCalled)
			assert.Equal(t, 0, a.inputsCalled)
			assert.Equal(t, 0, a.updateCalled)
			assert.Equal(t, 0, a.drawCalled)
			assert.Equal(t, []string{"A.enter", "A.leave"}, *calls)
		})
	}
}

func TestTransition_BeforeFirstFrameEntersStartingScene(t *testing.T) {
	r, a, b, calls := newAB(t, WithStartData("boot"))

	require.NoError(t, r.Transition("B", nil))
	require.NoError(t, r.Frame(&fakeInput{}))

	assert.Equal(t, []any{"boot"}, a.enterData)
	assert.Equal(t, 1, a.leaveCalled)
	assert.Equal(t, 1, b.enterCalled, "first frame does not enter again")
	assert.Equal(t, []string{"A.enter", "A.leave", "B.enter", "B.inputs", "B.update", "B.draw"}, *calls)
}

func TestTransition_UnknownKeyBeforeFirstFrameCallsNoHook(t *testing.T) {
	r, a, _, calls := newAB(t)

	assert.ErrorIs(t, r.Transition("nowhere", nil), ErrUnknownScene)
	assert.Empty(t, *calls)

	require.NoError(t, r.Frame(&fakeInput{}))
	assert.Equal(t, 1, a.enterCalled, "still entered lazily on the first frame")
}

func TestFrame_StartData(t *testing.T) {
	r, a, _, _ := newAB(t, WithStartData("boot"))

	require.NoError(t, r.Frame(&fakeInput{}))
	require.NoError(t, r.Frame(&fakeInput{}))

	assert.Equal(t, []any{"boot"}, a.enterData, "starting scene entered exactly once")
}

func TestFrame_ForwardsEventsAndKeyState(t *testing.T) {
	r, a, _, _ := newAB(t)
	held := NewKeyState(ebiten.KeyLeft, ebiten.KeySpace)
	in := &fakeInput{
		held: held,
		frames: [][]Event{
			{KeyDown(ebiten.KeyA), Char('a'), KeyUp(ebiten.KeyA)},
		},
	}

	require.NoError(t, r.Frame(in))

	require.Len(t, a.events, 1)
	assert.Equal(t, []Event{KeyDown(ebiten.KeyA), Char('a'), KeyUp(ebiten.KeyA)}, a.events[0])
	require.Len(t, a.keys, 1)
	assert.True(t, a.keys[0].Pressed(ebiten.KeyLeft))
	assert.True(t, a.keys[0].Pressed(ebiten.KeySpace))
	assert.False(t, a.keys[0].Pressed(ebiten.KeyRight))
}

func TestFrame_CancelEventsQuitImmediately(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{"window close", Event{Kind: EventQuit}},
		{"escape", KeyDown(ebiten.KeyEscape)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, a, _, _ := newAB(t)
			in := &fakeInput{frames: [][]Event{{KeyDown(ebiten.KeyA), tt.event}}}

			err := r.Frame(in)

			assert.ErrorIs(t, err, ErrQuit)
			assert.Equal(t, 1, a.leaveCalled)
			assert.Equal(t, 0, a.inputsCalled, "nothing is forwarded on a hard exit")
			assert.Equal(t, 0, a.updateCalled)
			assert.True(t, r.Quitting())
		})
	}
}

func TestFrame_CustomCancelKeys(t *testing.T) {
	r, a, _, _ := newAB(t, WithCancelKeys(ebiten.KeyQ))

	require.NoError(t, r.Frame(&fakeInput{frames: [][]Event{{KeyDown(ebiten.KeyEscape)}}}))
	assert.Equal(t, 1, a.inputsCalled, "escape is an ordinary key once replaced")

	err := r.Frame(&fakeInput{frames: [][]Event{{KeyDown(ebiten.KeyQ)}}})
	assert.ErrorIs(t, err, ErrQuit)
}

func TestFrame_NoCancelKeys(t *testing.T) {
	r, a, _, _ := newAB(t, WithCancelKeys())

	require.NoError(t, r.Frame(&fakeInput{frames: [][]Event{{KeyDown(ebiten.KeyEscape)}}}))
	assert.Equal(t, 0, a.leaveCalled)

	// Window close still quits
	err := r.Frame(&fakeInput{frames: [][]Event{{{Kind: EventQuit}}}})
	assert.ErrorIs(t, err, ErrQuit)
}

func TestFrame_HookErrorsNameTheScene(t *testing.T) {
	boom := errors.New("boom")

	r, a, _, _ := newAB(t)
	a.onUpdate = func() error { return boom }
	err := r.Frame(&fakeInput{})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `scene "A" update`)
	assert.Equal(t, 0, a.drawCalled)

	r, a, _, _ = newAB(t)
	a.onInputs = func([]Event) error { return a.GoToScene("missing", nil) }
	err = r.Frame(&fakeInput{})
	assert.ErrorIs(t, err, ErrUnknownScene)
	assert.Contains(t, err.Error(), `scene "A" handle inputs`)
}

func TestFrame_TransitionClearsKeyRepeat(t *testing.T) {
	r, a, _, _ := newAB(t)
	in := &repeatInput{}
	a.onInputs = func([]Event) error { return a.GoToScene("B", nil) }

	require.NoError(t, r.Frame(in))

	assert.Equal(t, []time.Duration{0}, in.delays)
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	r, a, b, _ := newAB(t, WithObserver(obs))
	b.responses = map[string]any{"x": 1}

	require.NoError(t, r.Frame(&fakeInput{}))
	require.NoError(t, a.GoToScene("B", nil))
	_, err := a.Request("B", "x")
	require.NoError(t, err)
	require.NoError(t, a.Send("B", "m", nil))
	require.NoError(t, a.SendAll("all", nil))
	require.NoError(t, r.Frame(&fakeInput{}))

	assert.Equal(t, []Key{"A", "B"}, obs.frames)
	assert.Equal(t, [][2]Key{{"A", "B"}}, obs.transitions)
	assert.Equal(t, []MessageKind{MessageRequest, MessageSend, MessageBroadcast}, obs.deliveries)
}

func TestRun_QuitClosesHostAndReturnsNil(t *testing.T) {
	r, a, _, _ := newAB(t)
	host := &fakeHost{maxFrames: 100}
	a.onUpdate = func() error {
		if a.updateCalled == 3 {
			return a.Quit()
		}
		return nil
	}

	err := r.Run(host)

	require.NoError(t, err)
	assert.Equal(t, 30, host.fps)
	assert.Equal(t, 3, host.frames)
	assert.Equal(t, 1, host.closed)
	assert.Equal(t, 1, a.leaveCalled)
}

func TestRun_HookErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r, a, _, _ := newAB(t)
	a.onUpdate = func() error { return boom }
	host := &fakeHost{maxFrames: 10}

	err := r.Run(host)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, host.closed, "host closed on failure too")
}

func TestRun_CloseError(t *testing.T) {
	r, _, _, _ := newAB(t)
	host := &fakeHost{maxFrames: 2, closeErr: errors.New("fini failed")}

	err := r.Run(host)

	assert.ErrorContains(t, err, "fini failed")
}

func TestRun_HostStopsOnItsOwn(t *testing.T) {
	r, a, _, _ := newAB(t)
	host := &fakeHost{maxFrames: 5}

	require.NoError(t, r.Run(host))
	assert.Equal(t, 5, a.drawCalled)
}
