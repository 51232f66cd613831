// Package scene defines the Scene contract and the Registry that owns the
// active scene.
//
// Each application screen (splash, menu, playing, settings, dialogs, etc.)
// implements Scene by embedding Base and adding HandleInputs and Draw.
// Scenes never talk to each other directly: navigation, requests and
// messages all go through the Registry the scene was registered with.
package scene

import "fmt"

// Key identifies a registered scene
type Key = string

// NoScene is the "no target" key. Going to it quits the application.
const NoScene Key = ""

// Scene represents one independently coded screen of the application.
//
// The run loop delegates HandleInputs, Update and Draw to the current scene
// once per frame, in that order. Enter and Leave bracket every period in
// which the scene is current.
type Scene interface {
	// HandleInputs consumes this frame's discrete events and the held keys.
	// Returns an error to terminate the run loop.
	HandleInputs(events []Event, keys KeyState) error

	// Draw renders the scene onto whatever surface it was constructed with.
	Draw()

	// Enter is called when this scene becomes current. data is whatever the
	// transitioning scene passed to GoToScene (possibly nil).
	Enter(data any)

	// Update is called once per frame after HandleInputs and before Draw.
	// Returns an error to terminate the run loop.
	Update() error

	// Leave is called right before this scene stops being current,
	// including right before the application quits.
	Leave()

	// Respond answers a Request from another scene.
	Respond(requestID string) (any, error)

	// Receive handles a Send or SendAll from another scene.
	Receive(messageID string, info any) error

	sceneBase() *Base
}

// Base provides the optional hooks and the forwarding methods of a Scene.
// Embed it in every concrete scene:
//
//	type Splash struct {
//		scene.Base
//		// ...
//	}
//
// The zero value is ready to use; the registry binds it on registration.
type Base struct {
	registry *Registry
	self     Scene
	key      Key
}

func (b *Base) sceneBase() *Base { return b }

func (b *Base) bind(r *Registry, key Key, self Scene) {
	b.registry = r
	b.key = key
	b.self = self
}

// Key returns the key this scene was registered under
func (b *Base) Key() Key {
	return b.key
}

// Enter does nothing by default
func (b *Base) Enter(any) {}

// Update does nothing by default
func (b *Base) Update() error { return nil }

// Leave does nothing by default
func (b *Base) Leave() {}

// Respond reports ErrNotImplemented unless overridden
func (b *Base) Respond(requestID string) (any, error) {
	return nil, fmt.Errorf("scene %q cannot respond to %q: %w", b.key, requestID, ErrNotImplemented)
}

// Receive reports ErrNotImplemented unless overridden
func (b *Base) Receive(messageID string, _ any) error {
	return fmt.Errorf("scene %q cannot receive %q: %w", b.key, messageID, ErrNotImplemented)
}

func (b *Base) owner() (*Registry, error) {
	if b.registry == nil {
		return nil, ErrNotRegistered
	}
	return b.registry, nil
}

// GoToScene makes target the current scene, passing data to its Enter.
func (b *Base) GoToScene(target Key, data any) error {
	r, err := b.owner()
	if err != nil {
		return err
	}
	return r.Transition(target, data)
}

// Quit leaves this scene and stops the run loop.
func (b *Base) Quit() error {
	return b.GoToScene(NoScene, nil)
}

// Request asks the target scene for information and returns its answer
// unmodified.
func (b *Base) Request(target Key, requestID string) (any, error) {
	r, err := b.owner()
	if err != nil {
		return nil, err
	}
	return r.Request(target, requestID)
}

// Send delivers info to the target scene's Receive.
func (b *Base) Send(target Key, messageID string, info any) error {
	r, err := b.owner()
	if err != nil {
		return err
	}
	return r.Send(target, messageID, info)
}

// SendAll delivers info to every other registered scene.
func (b *Base) SendAll(messageID string, info any) error {
	r, err := b.owner()
	if err != nil {
		return err
	}
	return r.Broadcast(b.self, messageID, info)
}

// AddScene registers another scene while the application is running.
// The new scene does not become current.
func (b *Base) AddScene(key Key, s Scene) error {
	r, err := b.owner()
	if err != nil {
		return err
	}
	return r.AddScene(key, s)
}

// RemoveScene schedules a scene for removal at the next frame boundary.
// A scene may remove itself and then go to another scene in the same hook.
func (b *Base) RemoveScene(key Key) error {
	r, err := b.owner()
	if err != nil {
		return err
	}
	return r.ScheduleRemoval(key)
}
