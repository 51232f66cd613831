package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/younwookim/scenekit/internal/application/scene"
)

// ErrNoFrames is returned when saving an empty recording
var ErrNoFrames = errors.New("no frames to save")

// Recorder wraps a host and records every frame's input while passing it
// through unchanged.
type Recorder struct {
	host      scene.Host
	data      ReplayData
	held      scene.KeyState
	recording bool
}

// NewRecorder starts recording the input of host. seed is stored so that
// randomness seeded from it can be reproduced on playback.
func NewRecorder(host scene.Host, fps int, seed int64) *Recorder {
	return &Recorder{
		host: host,
		data: ReplayData{
			Version:   FormatVersion,
			Session:   uuid.NewString(),
			Seed:      seed,
			FrameRate: fps,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 3600), // ~1 minute at 60fps
		},
		recording: true,
	}
}

// KeyState returns the host's held keys and remembers them for this frame
func (r *Recorder) KeyState() scene.KeyState {
	r.held = r.host.KeyState()
	return r.held
}

// Events returns the host's events and closes the frame record
func (r *Recorder) Events() []scene.Event {
	events := r.host.Events()
	if r.recording {
		r.data.Frames = append(r.data.Frames, FrameInput{
			F:      len(r.data.Frames),
			Keys:   r.held.Keys(),
			Events: events,
		})
	}
	r.held = scene.KeyState{}
	return events
}

// SetKeyRepeat forwards to the host when it supports repeating
func (r *Recorder) SetKeyRepeat(delay, interval time.Duration) {
	if kr, ok := r.host.(scene.KeyRepeater); ok {
		kr.SetKeyRepeat(delay, interval)
	}
}

// Loop runs the host's loop
func (r *Recorder) Loop(fps int, frame func() error) error {
	return r.host.Loop(fps, frame)
}

// Close closes the host
func (r *Recorder) Close() error {
	return r.host.Close()
}

// Data returns the recording so far
func (r *Recorder) Data() ReplayData {
	return r.data
}

// Session returns the recording's unique ID
func (r *Recorder) Session() string {
	return r.data.Session
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return ErrNoFrames
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// Stop stops recording; input keeps passing through
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// GenerateFilename creates a filename based on the current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
