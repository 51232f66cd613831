package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/scenekit/internal/application/scene"
)

// Replayer plays recorded input back. It can stand in for a host's input
// (see game.WithInput) or act as a headless host on its own. Once the
// recording is exhausted it reports a quit event.
type Replayer struct {
	data  ReplayData
	frame int
	paced bool
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	return &data, nil
}

// SetPaced makes Loop wait one frame interval between frames instead of
// replaying as fast as possible.
func (r *Replayer) SetPaced(paced bool) {
	r.paced = paced
}

// KeyState returns the keys held in the current frame
func (r *Replayer) KeyState() scene.KeyState {
	if r.Done() {
		return scene.KeyState{}
	}
	return scene.NewKeyState(r.data.Frames[r.frame].Keys...)
}

// Events returns the current frame's events and advances
func (r *Replayer) Events() []scene.Event {
	if r.Done() {
		return []scene.Event{{Kind: scene.EventQuit}}
	}
	ev := r.data.Frames[r.frame].Events
	r.frame++
	return ev
}

// Loop calls frame until it fails; a finished recording ends with a quit.
func (r *Replayer) Loop(fps int, frame func() error) error {
	if fps <= 0 {
		return fmt.Errorf("frame rate %d: %w", fps, scene.ErrInvalidFrameRate)
	}
	var tick <-chan time.Time
	if r.paced {
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		if err := frame(); err != nil {
			return err
		}
		if tick != nil {
			<-tick
		}
	}
}

// Close does nothing
func (r *Replayer) Close() error { return nil }

// Done reports whether every recorded frame has been played
func (r *Replayer) Done() bool {
	return r.frame >= len(r.data.Frames)
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Seed returns the seed used for the replay
func (r *Replayer) Seed() int64 {
	return r.data.Seed
}

// FrameRate returns the recorded frame rate
func (r *Replayer) FrameRate() int {
	return r.data.FrameRate
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data where key is held for the given
// number of frames with no events.
func CreateTestReplayData(frames int, key ebiten.Key) ReplayData {
	data := ReplayData{
		Version:   FormatVersion,
		Session:   "test",
		Seed:      12345,
		FrameRate: 60,
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameInput, frames),
	}

	for i := 0; i < frames; i++ {
		data.Frames[i] = FrameInput{
			F:    i,
			Keys: []ebiten.Key{key},
		}
	}

	return data
}
