package main

import (
	"math/rand/v2"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/younwookim/scenekit/internal/application/scene"
	"github.com/younwookim/scenekit/internal/application/surface"
	"github.com/younwookim/scenekit/internal/application/widget"
)

// script hands out one batch of events per frame
type script struct {
	held    scene.KeyState
	batches [][]scene.Event
}

func (s *script) KeyState() scene.KeyState { return s.held }

func (s *script) Events() []scene.Event {
	if len(s.batches) == 0 {
		return nil
	}
	ev := s.batches[0]
	s.batches = s.batches[1:]
	return ev
}

func (s *script) push(events ...scene.Event) {
	s.batches = append(s.batches, events)
}

func click(b *widget.Button) []scene.Event {
	x, y := b.Rect.Center()
	return []scene.Event{
		scene.MouseDown(ebiten.MouseButtonLeft, x, y),
		scene.MouseUp(ebiten.MouseButtonLeft, x, y),
	}
}

func typed(s string) []scene.Event {
	var out []scene.Event
	for _, r := range s {
		out = append(out, scene.Char(r))
	}
	return out
}

func newDemo(t *testing.T, start scene.Key) (*scene.Registry, map[scene.Key]scene.Scene, *script) {
	t.Helper()
	scenes := newScenes(surface.NewRecorder(320, 240), rand.New(rand.NewPCG(1, 2)), zap.NewNop())
	r, err := scene.New(scene.FromMap(scenes, start), 60)
	require.NoError(t, err)
	return r, scenes, &script{}
}

func TestDemo_SplashStartsGame(t *testing.T) {
	r, scenes, in := newDemo(t, sceneSplash)

	require.NoError(t, r.Frame(in))
	in.push(scene.KeyDown(ebiten.KeyEnter))
	require.NoError(t, r.Frame(in))

	assert.Equal(t, scenePlay, r.CurrentKey())
	p := scenes[scenePlay].(*play)
	assert.True(t, p.playing)
	assert.Equal(t, scoreRange{Highest: 40}, p.high, "asked the scores scene on enter")
}

func TestDemo_SplashQuit(t *testing.T) {
	r, scenes, in := newDemo(t, sceneSplash)

	require.NoError(t, r.Frame(in))
	in.push(click(scenes[sceneSplash].(*splash).quit)...)
	assert.ErrorIs(t, r.Frame(in), scene.ErrQuit)
}

func TestDemo_SplashHintBlinks(t *testing.T) {
	r, scenes, in := newDemo(t, sceneSplash)
	sp := scenes[sceneSplash].(*splash)

	require.NoError(t, r.Frame(in))
	assert.True(t, sp.showHint)
}

func TestDemo_PlayerMovesWithHeldKeys(t *testing.T) {
	r, scenes, in := newDemo(t, scenePlay)
	p := scenes[scenePlay].(*play)

	require.NoError(t, r.Frame(in))
	x := p.field.player.X

	in.held = scene.NewKeyState(ebiten.KeyArrowLeft)
	require.NoError(t, r.Frame(in))
	assert.Equal(t, x-p.field.unit, p.field.player.X)
}

func TestDemo_HighScoreFlow(t *testing.T) {
	r, scenes, in := newDemo(t, scenePlay)
	p := scenes[scenePlay].(*play)
	sc := scenes[sceneScores].(*scores)

	require.NoError(t, r.Frame(in))
	require.True(t, p.playing)

	p.score = 50
	p.field.baddies = []baddie{{Rect: p.field.player}}
	require.NoError(t, r.Frame(in))
	assert.False(t, p.playing)
	assert.Equal(t, sceneNewHighScore, r.CurrentKey(), "new high score dialog opened")

	in.push(scene.KeyDown(ebiten.KeyEnter))
	require.NoError(t, r.Frame(in))
	assert.Equal(t, sceneScores, r.CurrentKey(), "play forwarded the score")
	assert.Equal(t, 50, sc.pending)

	require.NoError(t, r.Frame(in))
	assert.Equal(t, sceneEnterName, r.CurrentKey())
	assert.False(t, r.Has(sceneNewHighScore), "answered dialog was removed")

	in.push(append(typed("Zed"), scene.KeyDown(ebiten.KeyEnter))...)
	require.NoError(t, r.Frame(in))
	assert.Equal(t, sceneScores, r.CurrentKey())
	assert.Equal(t, entry{Name: "Zed", Score: 50}, sc.entries[0])
	assert.Zero(t, sc.pending)

	require.NoError(t, r.Frame(in))
	assert.Equal(t, sceneScores, r.CurrentKey(), "no second name prompt")
}

func TestDemo_LowScoreSkipsDialog(t *testing.T) {
	r, scenes, in := newDemo(t, scenePlay)
	p := scenes[scenePlay].(*play)
	sc := scenes[sceneScores].(*scores)
	for i := 0; i < maxEntries; i++ {
		sc.insert(entry{Name: "x", Score: 100})
	}

	require.NoError(t, r.Frame(in))
	p.score = 5
	p.field.baddies = []baddie{{Rect: p.field.player}}
	require.NoError(t, r.Frame(in))

	assert.Equal(t, scenePlay, r.CurrentKey())
	assert.False(t, p.playing)
}

func TestDemo_GameOverButtons(t *testing.T) {
	r, scenes, in := newDemo(t, scenePlay)
	p := scenes[scenePlay].(*play)

	require.NoError(t, r.Frame(in))
	p.field.baddies = []baddie{{Rect: p.field.player}}
	require.NoError(t, r.Frame(in))
	require.Equal(t, scenePlay, r.CurrentKey(), "zero scores never qualify")

	in.push(click(p.scores)...)
	require.NoError(t, r.Frame(in))
	assert.Equal(t, sceneScores, r.CurrentKey())
}

func TestDemo_ClearScoresBroadcasts(t *testing.T) {
	r, scenes, in := newDemo(t, sceneScores)
	sc := scenes[sceneScores].(*scores)
	sp := scenes[sceneSplash].(*splash)
	p := scenes[scenePlay].(*play)
	p.high = scoreRange{Highest: 40}

	require.NoError(t, r.Frame(in))
	in.push(click(sc.clear)...)
	require.NoError(t, r.Frame(in))
	assert.Equal(t, sceneConfirmClear, r.CurrentKey())

	in.push(scene.KeyDown(ebiten.KeyEnter))
	require.NoError(t, r.Frame(in))

	assert.Equal(t, sceneScores, r.CurrentKey())
	assert.Empty(t, sc.entries)
	assert.Equal(t, "High scores were cleared", sp.note.Text)
	assert.Equal(t, scoreRange{}, p.high)
}

func TestScores_Table(t *testing.T) {
	sc := newScores(surface.NewRecorder(80, 24), nil)
	assert.Equal(t, scoreRange{}, sc.scoreRange())

	for i := 1; i <= maxEntries+2; i++ {
		sc.insert(entry{Name: "p", Score: i * 10})
	}
	assert.Len(t, sc.entries, maxEntries)
	assert.Equal(t, scoreRange{Highest: 120, Lowest: 30}, sc.scoreRange())

	_, err := sc.Respond("unknown")
	assert.ErrorIs(t, err, scene.ErrNotImplemented)
}
