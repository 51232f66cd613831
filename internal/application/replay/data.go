// Package replay records the input a scene registry consumes and plays it
// back deterministically.
package replay

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/scenekit/internal/application/scene"
)

// FormatVersion is written into every recording
const FormatVersion = "2.0"

// FrameInput records the input consumed by a single frame
type FrameInput struct {
	F      int           `json:"f"`                // Frame number
	Keys   []ebiten.Key  `json:"keys,omitempty"`   // Held keys
	Events []scene.Event `json:"events,omitempty"` // Discrete events
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version   string       `json:"version"`
	Session   string       `json:"session"`
	Seed      int64        `json:"seed"`
	FrameRate int          `json:"frameRate"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}
