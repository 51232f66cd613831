// Package state describes where a registered scene sits in its lifecycle.
package state

// SceneState represents the lifecycle state of a registered scene
type SceneState int

const (
	// Unknown is reported for keys that are not registered
	Unknown SceneState = iota
	// Inactive scenes are registered but not receiving frames
	Inactive
	// Active is the single scene receiving input, update and draw calls
	Active
	// PendingRemoval scenes are still addressable until the next frame boundary
	PendingRemoval
)

// String returns the string representation of the scene state
func (s SceneState) String() string {
	switch s {
	case Unknown:
		return "Unknown"
	case Inactive:
		return "Inactive"
	case Active:
		return "Active"
	case PendingRemoval:
		return "PendingRemoval"
	default:
		return "Invalid"
	}
}

// Addressable reports whether a scene in this state can still be the target
// of a transition, request or message.
func (s SceneState) Addressable() bool {
	return s == Inactive || s == Active || s == PendingRemoval
}
