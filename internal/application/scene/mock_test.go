package scene

import "time"

type message struct {
	id   string
	info any
}

// mockScene is a test double that counts hook calls and records them into
// a shared call log so ordering across scenes can be asserted.
type mockScene struct {
	Base
	name  string
	calls *[]string

	enterCalled  int
	leaveCalled  int
	inputsCalled int
	updateCalled int
	drawCalled   int

	enterData []any
	events    [][]Event
	keys      []KeyState
	received  []message

	responses map[string]any
	onEnter   func(data any)
	onInputs  func(events []Event) error
	onUpdate  func() error
}

func newMock(name string, calls *[]string) *mockScene {
	return &mockScene{name: name, calls: calls}
}

func (m *mockScene) record(hook string) {
	if m.calls != nil {
		*m.calls = append(*m.calls, m.name+"."+hook)
	}
}

func (m *mockScene) HandleInputs(events []Event, keys KeyState) error {
	m.inputsCalled++
	m.events = append(m.events, events)
	m.keys = append(m.keys, keys)
	m.record("inputs")
	if m.onInputs != nil {
		return m.onInputs(events)
	}
	return nil
}

func (m *mockScene) Update() error {
	m.updateCalled++
	m.record("update")
	if m.onUpdate != nil {
		return m.onUpdate()
	}
	return nil
}

func (m *mockScene) Draw() {
	m.drawCalled++
	m.record("draw")
}

func (m *mockScene) Enter(data any) {
	m.enterCalled++
	m.enterData = append(m.enterData, data)
	m.record("enter")
	if m.onEnter != nil {
		m.onEnter(data)
	}
}

func (m *mockScene) Leave() {
	m.leaveCalled++
	m.record("leave")
}

func (m *mockScene) Respond(requestID string) (any, error) {
	if m.responses == nil {
		return m.Base.Respond(requestID)
	}
	return m.responses[requestID], nil
}

func (m *mockScene) Receive(messageID string, info any) error {
	m.received = append(m.received, message{id: messageID, info: info})
	m.record("receive")
	return nil
}

// minimalScene only implements the mandatory hooks and relies on Base for
// everything else.
type minimalScene struct {
	Base
	drawn int
}

func (s *minimalScene) HandleInputs([]Event, KeyState) error { return nil }
func (s *minimalScene) Draw()                                { s.drawn++ }

// keyedScene names its own key for the list construction form
type keyedScene struct {
	mockScene
	key Key
}

func (k *keyedScene) SceneKey() Key { return k.key }

// fakeInput replays a fixed list of event batches, one per frame
type fakeInput struct {
	held   KeyState
	frames [][]Event
	polled int
}

func (f *fakeInput) KeyState() KeyState { return f.held }

func (f *fakeInput) Events() []Event {
	if f.polled >= len(f.frames) {
		f.polled++
		return nil
	}
	ev := f.frames[f.polled]
	f.polled++
	return ev
}

// repeatInput records key repeat changes
type repeatInput struct {
	fakeInput
	delays []time.Duration
}

func (r *repeatInput) SetKeyRepeat(delay, _ time.Duration) {
	r.delays = append(r.delays, delay)
}

// fakeHost runs frames until the frame function fails or maxFrames is hit
type fakeHost struct {
	fakeInput
	maxFrames int
	fps       int
	frames    int
	closed    int
	closeErr  error
}

func (h *fakeHost) Loop(fps int, frame func() error) error {
	h.fps = fps
	for h.frames < h.maxFrames {
		h.frames++
		if err := frame(); err != nil {
			return err
		}
	}
	return nil
}

func (h *fakeHost) Close() error {
	h.closed++
	return h.closeErr
}

type recordingObserver struct {
	frames      []Key
	transitions [][2]Key
	deliveries  []MessageKind
}

func (o *recordingObserver) FrameDone(current Key, _ time.Duration) {
	o.frames = append(o.frames, current)
}

func (o *recordingObserver) Transitioned(from, to Key) {
	o.transitions = append(o.transitions, [2]Key{from, to})
}

func (o *recordingObserver) Delivered(kind MessageKind, _ Key) {
	o.deliveries = append(o.deliveries, kind)
}
