package scene

import "errors"

var (
	// ErrUnknownScene is returned when a key does not name a registered scene
	ErrUnknownScene = errors.New("unknown scene")
	// ErrDuplicateScene is returned when adding a key that is already registered
	ErrDuplicateScene = errors.New("duplicate scene")
	// ErrInvalidKey is returned for the empty key outside of a quit request
	ErrInvalidKey = errors.New("invalid scene key")
	// ErrNotImplemented is returned by the default Respond and Receive hooks
	ErrNotImplemented = errors.New("scene does not support this operation")
	// ErrNotRegistered is returned by forwarding methods of an unbound scene
	ErrNotRegistered = errors.New("scene is not registered")
	// ErrNoScenes is returned when building a registry from an empty source
	ErrNoScenes = errors.New("no scenes")
	// ErrInvalidFrameRate is returned for non-positive frame rates
	ErrInvalidFrameRate = errors.New("invalid frame rate")
	// ErrQuit ends the run loop. Frame returns it after a quit request or a
	// window-close/cancel event.
	ErrQuit = errors.New("quit")
)
