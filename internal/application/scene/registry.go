package scene

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/scenekit/internal/application/state"
)

// MessageKind classifies a cross-scene delivery for observers
type MessageKind string

const (
	MessageRequest   MessageKind = "request"
	MessageSend      MessageKind = "send"
	MessageBroadcast MessageKind = "broadcast"
)

// Observer is notified about registry activity. Implementations must not
// call back into the registry.
type Observer interface {
	FrameDone(current Key, elapsed time.Duration)
	Transitioned(from, to Key)
	Delivered(kind MessageKind, target Key)
}

type nopObserver struct{}

func (nopObserver) FrameDone(Key, time.Duration) {}
func (nopObserver) Transitioned(Key, Key)        {}
func (nopObserver) Delivered(MessageKind, Key)   {}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the logger used for lifecycle events
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithObserver sets the observer notified about frames and deliveries
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithCancelKeys replaces the keys whose press quits the application
// immediately (Escape by default). Passing no keys disables the behavior.
func WithCancelKeys(keys ...ebiten.Key) Option {
	return func(r *Registry) {
		r.cancelKeys = slices.Clone(keys)
	}
}

// WithStartData sets the payload passed to the starting scene's Enter on
// the first frame.
func WithStartData(data any) Option {
	return func(r *Registry) {
		r.startData = data
	}
}

// Registry owns the set of scenes and the single current scene. It drives
// the per-frame input, update and draw cycle and brokers every operation
// that crosses scene boundaries.
//
// A Registry is not safe for concurrent use; all calls must come from the
// goroutine running the frame loop.
type Registry struct {
	scenes     map[Key]Scene
	order      []Key
	current    Scene
	currentKey Key
	fps        int
	pending    []Key

	started   bool
	startData any
	quitting  bool

	cancelKeys []ebiten.Key
	repeater   KeyRepeater
	logger     *zap.Logger
	observer   Observer
}

// New creates a registry from src running at fps frames per second, and
// binds itself to every scene in the set.
func New(src Source, fps int, opts ...Option) (*Registry, error) {
	if src == nil {
		return nil, ErrNoScenes
	}
	if fps <= 0 {
		return nil, fmt.Errorf("frame rate %d: %w", fps, ErrInvalidFrameRate)
	}

	entries, start, err := src.entries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoScenes
	}

	r := &Registry{
		scenes:     make(map[Key]Scene, len(entries)),
		order:      make([]Key, 0, len(entries)),
		fps:        fps,
		cancelKeys: []ebiten.Key{ebiten.KeyEscape},
		logger:     zap.NewNop(),
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, e := range entries {
		if err := r.insert(e.key, e.scene); err != nil {
			return nil, err
		}
	}

	cur, ok := r.scenes[start]
	if !ok {
		return nil, fmt.Errorf("starting scene %q: %w", start, ErrUnknownScene)
	}
	r.current = cur
	r.currentKey = start

	for _, k := range r.order {
		r.scenes[k].sceneBase().bind(r, k, r.scenes[k])
	}

	return r, nil
}

func (r *Registry) insert(key Key, s Scene) error {
	if key == NoScene {
		return fmt.Errorf("scene key must not be empty: %w", ErrInvalidKey)
	}
	if s == nil {
		return fmt.Errorf("scene %q is nil", key)
	}
	if _, exists := r.scenes[key]; exists {
		return fmt.Errorf("scene %q: %w", key, ErrDuplicateScene)
	}
	r.scenes[key] = s
	r.order = append(r.order, key)
	return nil
}

func (r *Registry) lookup(key Key) (Scene, error) {
	s, ok := r.scenes[key]
	if !ok {
		return nil, fmt.Errorf("scene %q: %w", key, ErrUnknownScene)
	}
	return s, nil
}

// Current returns the current scene
func (r *Registry) Current() Scene {
	return r.current
}

// CurrentKey returns the key of the current scene
func (r *Registry) CurrentKey() Key {
	return r.currentKey
}

// Has reports whether key is registered (including scenes pending removal)
func (r *Registry) Has(key Key) bool {
	_, ok := r.scenes[key]
	return ok
}

// Keys returns the registered keys in registration order
func (r *Registry) Keys() []Key {
	return slices.Clone(r.order)
}

// FrameRate returns the target frames per second
func (r *Registry) FrameRate() int {
	return r.fps
}

// Quitting reports whether a quit has been requested
func (r *Registry) Quitting() bool {
	return r.quitting
}

// State reports the lifecycle state of the scene registered under key
func (r *Registry) State(key Key) state.SceneState {
	if !r.Has(key) {
		return state.Unknown
	}
	if slices.Contains(r.pending, key) {
		return state.PendingRemoval
	}
	if key == r.currentKey {
		return state.Active
	}
	return state.Inactive
}

// Transition leaves the current scene and enters target, passing data to
// its Enter. Going to NoScene leaves the current scene and requests a quit
// instead. An unknown target fails before any hook is called.
func (r *Registry) Transition(target Key, data any) error {
	if r.quitting {
		return fmt.Errorf("transition to %q after quit: %w", target, ErrQuit)
	}

	if target == NoScene {
		r.enterStart()
		if r.quitting {
			return nil
		}
		r.logger.Info("quit requested", zap.String("scene", r.currentKey))
		r.current.Leave()
		r.quitting = true
		return nil
	}

	next, err := r.lookup(target)
	if err != nil {
		return fmt.Errorf("transition from %q: %w", r.currentKey, err)
	}
	r.enterStart()
	if r.quitting {
		return fmt.Errorf("transition to %q after quit: %w", target, ErrQuit)
	}

	from := r.currentKey
	r.current.Leave()
	if r.repeater != nil {
		r.repeater.SetKeyRepeat(0, 0)
	}
	r.current = next
	r.currentKey = target
	next.Enter(data)

	r.observer.Transitioned(from, target)
	r.logger.Debug("scene transition", zap.String("from", from), zap.String("to", target))
	return nil
}

// Request calls the target scene's Respond and returns its result unmodified.
func (r *Registry) Request(target Key, requestID string) (any, error) {
	s, err := r.lookup(target)
	if err != nil {
		return nil, fmt.Errorf("request %q: %w", requestID, err)
	}
	r.observer.Delivered(MessageRequest, target)
	return s.Respond(requestID)
}

// Send calls the target scene's Receive.
func (r *Registry) Send(target Key, messageID string, info any) error {
	s, err := r.lookup(target)
	if err != nil {
		return fmt.Errorf("send %q: %w", messageID, err)
	}
	r.observer.Delivered(MessageSend, target)
	return s.Receive(messageID, info)
}

// Broadcast calls Receive on every registered scene except sender, in
// registration order. The first error stops the broadcast.
func (r *Registry) Broadcast(sender Scene, messageID string, info any) error {
	var senderBase *Base
	if sender != nil {
		senderBase = sender.sceneBase()
	}
	for _, k := range slices.Clone(r.order) {
		s, ok := r.scenes[k]
		if !ok || s.sceneBase() == senderBase {
			continue
		}
		r.observer.Delivered(MessageBroadcast, k)
		if err := s.Receive(messageID, info); err != nil {
			return fmt.Errorf("broadcast %q to %q: %w", messageID, k, err)
		}
	}
	return nil
}

// AddScene registers s under key and binds it to this registry. The scene
// does not become current.
func (r *Registry) AddScene(key Key, s Scene) error {
	if err := r.insert(key, s); err != nil {
		return err
	}
	s.sceneBase().bind(r, key, s)
	r.logger.Debug("scene added", zap.String("scene", key))
	return nil
}

// ScheduleRemoval marks key for removal at the start of the next frame.
// Until then the scene stays addressable. Removing the current scene without
// leaving it first is the caller's responsibility.
func (r *Registry) ScheduleRemoval(key Key) error {
	if _, err := r.lookup(key); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	r.pending = append(r.pending, key)
	return nil
}

func (r *Registry) purge() {
	if len(r.pending) == 0 {
		return
	}
	for _, k := range r.pending {
		if _, ok := r.scenes[k]; !ok {
			continue
		}
		if k == r.currentKey {
			r.logger.Warn("removed the current scene; it is no longer addressable", zap.String("scene", k))
		}
		delete(r.scenes, k)
		r.order = slices.DeleteFunc(r.order, func(o Key) bool { return o == k })
		r.logger.Debug("scene removed", zap.String("scene", k))
	}
	r.pending = r.pending[:0]
}

// enterStart enters the starting scene the first time it is needed, so that
// every Leave is preceded by an Enter.
func (r *Registry) enterStart() {
	if r.started {
		return
	}
	r.started = true
	r.current.Enter(r.startData)
}

func (r *Registry) isCancel(ev Event) bool {
	switch ev.Kind {
	case EventQuit:
		return true
	case EventKeyDown:
		return slices.Contains(r.cancelKeys, ev.Key)
	}
	return false
}

func hookErr(key Key, hook string, err error) error {
	return fmt.Errorf("scene %q %s: %w", key, hook, err)
}

// Frame runs one iteration of the run loop against in: apply pending
// removals, snapshot held keys, drain events, then HandleInputs, Update and
// Draw on the current scene. A window-close event or a cancel key leaves
// the current scene and returns ErrQuit before any event is forwarded. A quit
// requested from inside a hook returns ErrQuit once that hook returns.
func (r *Registry) Frame(in Input) error {
	if r.quitting {
		return ErrQuit
	}
	start := time.Now()
	if kr, ok := in.(KeyRepeater); ok {
		r.repeater = kr
	}

	r.purge()

	r.enterStart()
	if r.quitting {
		return ErrQuit
	}

	keys := in.KeyState()
	events := in.Events()
	for _, ev := range events {
		if r.isCancel(ev) {
			r.logger.Info("quit event received", zap.String("scene", r.currentKey), zap.Stringer("event", ev.Kind))
			r.current.Leave()
			r.quitting = true
			return ErrQuit
		}
	}

	key := r.currentKey
	if err := r.current.HandleInputs(events, keys); err != nil {
		return hookErr(key, "handle inputs", err)
	}
	if r.quitting {
		return ErrQuit
	}

	key = r.currentKey
	if err := r.current.Update(); err != nil {
		return hookErr(key, "update", err)
	}
	if r.quitting {
		return ErrQuit
	}

	r.current.Draw()
	if r.quitting {
		return ErrQuit
	}

	r.observer.FrameDone(r.currentKey, time.Since(start))
	return nil
}

// Run hands control to host until the application quits or a hook fails.
// The host is closed in either case. A quit returns nil.
func (r *Registry) Run(host Host) error {
	r.logger.Info("scene registry running",
		zap.String("start", r.currentKey),
		zap.Int("fps", r.fps),
		zap.Int("scenes", len(r.scenes)))

	err := host.Loop(r.fps, func() error { return r.Frame(host) })
	closeErr := host.Close()

	if err != nil && !errors.Is(err, ErrQuit) {
		r.logger.Error("run loop stopped", zap.Error(err))
		return err
	}
	if closeErr != nil {
		return fmt.Errorf("close host: %w", closeErr)
	}
	r.logger.Info("scene registry stopped", zap.String("scene", r.currentKey))
	return nil
}
