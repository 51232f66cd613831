package main

import (
	"cmp"
	"fmt"
	"image/color"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/scenekit/internal/application/dialog"
	"github.com/younwookim/scenekit/internal/application/scene"
	"github.com/younwookim/scenekit/internal/application/surface"
	"github.com/younwookim/scenekit/internal/application/timer"
	"github.com/younwookim/scenekit/internal/application/widget"
)

// Scene keys
const (
	sceneSplash       = "splash"
	scenePlay         = "play"
	sceneScores       = "scores"
	sceneNewHighScore = "newHighScore"
	sceneEnterName    = "enterName"
	sceneConfirmClear = "confirmClear"
)

// Request and message IDs
const (
	reqScoreRange    = "scoreRange"
	msgGoToScores    = "goToScores"
	msgName          = "name"
	msgClear         = "clear"
	msgScoresCleared = "scoresCleared"
)

const maxEntries = 10

// Colors for rendering
var (
	colorBG     = color.RGBA{26, 26, 46, 255}
	colorBar    = color.RGBA{60, 60, 80, 255}
	colorPlayer = color.RGBA{100, 200, 100, 255}
	colorBaddie = color.RGBA{200, 80, 80, 255}
	colorTitle  = color.RGBA{255, 215, 0, 255}
)

// buttonRow lays out buttons side by side, centered horizontally at y
func buttonRow(s surface.Surface, y int, texts ...string) []*widget.Button {
	cw, lh := s.TextSize("M")
	widths := make([]int, len(texts))
	total := 0
	for i, t := range texts {
		widths[i], _ = s.TextSize(" " + t + " ")
		total += widths[i]
	}
	gap := 2 * cw
	total += gap * (len(texts) - 1)

	sw, _ := s.Size()
	x := (sw - total) / 2
	buttons := make([]*widget.Button, len(texts))
	for i, t := range texts {
		buttons[i] = widget.NewButton(surface.Rect{X: x, Y: y, W: widths[i], H: lh}, t)
		x += widths[i] + gap
	}
	return buttons
}

// splash is the title screen
type splash struct {
	scene.Base
	surf     surface.Surface
	title    widget.Label
	hint     widget.Label
	note     widget.Label
	start    *widget.Button
	quit     *widget.Button
	blink    *timer.Timer
	showHint bool
}

func newSplash(s surface.Surface) *splash {
	sw, sh := s.Size()
	_, lh := s.TextSize("M")
	buttons := buttonRow(s, sh/2+2*lh, "Start", "Quit")
	sp := &splash{
		surf:  s,
		title: widget.Label{Text: "D O D G E R", Color: colorTitle, CenterIn: surface.Rect{W: sw, H: sh / 3}},
		hint:  widget.Label{Text: "Press Enter to start", CenterIn: surface.Rect{Y: sh / 3, W: sw, H: 2 * lh}},
		note:  widget.Label{CenterIn: surface.Rect{Y: sh - 2*lh, W: sw, H: lh}},
		start: buttons[0],
		quit:  buttons[1],
		blink: timer.New(500 * time.Millisecond),
	}
	sp.start.EnterActivates = true
	return sp
}

func (s *splash) Enter(any) {
	s.showHint = true
	s.blink.Start()
}

func (s *splash) HandleInputs(events []scene.Event, _ scene.KeyState) error {
	for _, ev := range events {
		if s.start.HandleEvent(ev) {
			return s.GoToScene(scenePlay, nil)
		}
		if s.quit.HandleEvent(ev) {
			return s.Quit()
		}
	}
	return nil
}

func (s *splash) Update() error {
	if s.blink.Update() {
		s.showHint = !s.showHint
		s.blink.Start()
	}
	return nil
}

func (s *splash) Draw() {
	s.surf.Fill(colorBG)
	s.title.Draw(s.surf)
	if s.showHint {
		s.hint.Draw(s.surf)
	}
	s.note.Draw(s.surf)
	s.start.Draw(s.surf)
	s.quit.Draw(s.surf)
}

func (s *splash) Receive(messageID string, _ any) error {
	if messageID == msgScoresCleared {
		s.note.Text = "High scores were cleared"
	}
	return nil
}

// scoreRange answers reqScoreRange
type scoreRange struct {
	Highest int
	Lowest  int
}

// play runs the dodging game
type play struct {
	scene.Base
	surf   surface.Surface
	logger *zap.Logger
	field  *field
	clock  *timer.CountUp
	held   scene.KeyState
	err    error

	score      int
	high       scoreRange
	playing    bool
	showScores bool

	barY   int
	start  *widget.Button
	scores *widget.Button
	quit   *widget.Button
}

func newPlay(s surface.Surface, rng *rand.Rand, logger *zap.Logger) *play {
	sw, sh := s.Size()
	_, lh := s.TextSize("M")
	barY := sh - 3*lh
	buttons := buttonRow(s, barY+lh+lh/2, "Start", "Scores", "Quit")
	p := &play{
		surf:   s,
		logger: logger,
		field:  newField(sw, barY, rng),
		clock:  timer.NewCountUp(),
		barY:   barY,
		start:  buttons[0],
		scores: buttons[1],
		quit:   buttons[2],
	}
	p.start.EnterActivates = true
	return p
}

// Enter starts a new game unless a dialog opened by this scene is returning
func (p *play) Enter(data any) {
	if _, ok := data.(dialog.Result); ok {
		return
	}
	p.err = p.reset()
}

func (p *play) reset() error {
	ans, err := p.Request(sceneScores, reqScoreRange)
	if err != nil {
		return err
	}
	high, ok := ans.(scoreRange)
	if !ok {
		return fmt.Errorf("unexpected %s answer %T", reqScoreRange, ans)
	}
	p.high = high
	p.score = 0
	p.showScores = false
	p.field.reset()
	p.clock.Start()
	p.playing = true
	p.logger.Debug("new game", zap.Int("highest", high.Highest), zap.Int("lowest", high.Lowest))
	return nil
}

func (p *play) HandleInputs(events []scene.Event, keys scene.KeyState) error {
	if p.err != nil {
		return p.err
	}
	p.held = keys
	if p.playing {
		return nil
	}
	for _, ev := range events {
		switch {
		case p.start.HandleEvent(ev):
			return p.reset()
		case p.scores.HandleEvent(ev):
			return p.GoToScene(sceneScores, nil)
		case p.quit.HandleEvent(ev):
			return p.Quit()
		}
	}
	return nil
}

func (p *play) Update() error {
	if p.showScores {
		p.showScores = false
		return p.GoToScene(sceneScores, p.score)
	}
	if !p.playing {
		return nil
	}

	dx, dy := 0, 0
	if p.held.Pressed(ebiten.KeyArrowLeft) {
		dx--
	}
	if p.held.Pressed(ebiten.KeyArrowRight) {
		dx++
	}
	if p.held.Pressed(ebiten.KeyArrowUp) {
		dy--
	}
	if p.held.Pressed(ebiten.KeyArrowDown) {
		dy++
	}
	p.field.movePlayer(dx, dy)
	p.score += p.field.step()

	if p.field.hit() {
		return p.gameOver()
	}
	return nil
}

func (p *play) gameOver() error {
	p.playing = false
	p.clock.Stop()
	p.logger.Info("game over", zap.Int("score", p.score), zap.String("time", p.clock.HHMMSS(1)))

	if p.score <= p.high.Lowest {
		return nil
	}
	text := fmt.Sprintf("%d gets you on the high scores list.", p.score)
	if p.score > p.high.Highest {
		text = fmt.Sprintf("Congratulations: %d is a new high score!", p.score)
	}
	d := dialog.NewYesNo(p.surf, text, "Go to high scores", "No thanks")
	return dialog.Show(p, sceneNewHighScore, d, msgGoToScores)
}

func (p *play) Receive(messageID string, info any) error {
	switch messageID {
	case msgGoToScores:
		res, _ := info.(dialog.Result)
		p.showScores = res.Confirmed
	case msgScoresCleared:
		p.high = scoreRange{}
	}
	return nil
}

func (p *play) Draw() {
	p.surf.Fill(colorBG)
	for _, b := range p.field.baddies {
		p.surf.FillRect(b.X, b.Y, b.W, b.H, colorBaddie)
	}
	pl := p.field.player
	p.surf.FillRect(pl.X, pl.Y, pl.W, pl.H, colorPlayer)

	sw, sh := p.surf.Size()
	p.surf.FillRect(0, p.barY, sw, sh-p.barY, colorBar)
	status := fmt.Sprintf("Score: %d  High: %d  Time: %s",
		p.score, max(p.score, p.high.Highest), p.clock.HHMMSS(0))
	p.surf.DrawText(1, p.barY, status, widget.ColorText)

	if !p.playing {
		over := widget.Label{Text: "GAME OVER", Color: colorTitle, CenterIn: surface.Rect{W: sw, H: p.barY}}
		over.Draw(p.surf)
		p.start.Draw(p.surf)
		p.scores.Draw(p.surf)
		p.quit.Draw(p.surf)
	}
}

type entry struct {
	Name  string
	Score int
}

// scores keeps the high score table
type scores struct {
	scene.Base
	surf    surface.Surface
	entries []entry
	pending int
	back    *widget.Button
	clear   *widget.Button
}

func newScores(s surface.Surface, initial []entry) *scores {
	_, sh := s.Size()
	_, lh := s.TextSize("M")
	buttons := buttonRow(s, sh-2*lh, "Back", "Clear")
	sc := &scores{surf: s, back: buttons[0], clear: buttons[1]}
	for _, e := range initial {
		sc.insert(e)
	}
	return sc
}

func (s *scores) insert(e entry) {
	s.entries = append(s.entries, e)
	slices.SortStableFunc(s.entries, func(a, b entry) int { return cmp.Compare(b.Score, a.Score) })
	if len(s.entries) > maxEntries {
		s.entries = s.entries[:maxEntries]
	}
}

func (s *scores) scoreRange() scoreRange {
	if len(s.entries) == 0 {
		return scoreRange{}
	}
	r := scoreRange{Highest: s.entries[0].Score}
	if len(s.entries) == maxEntries {
		r.Lowest = s.entries[len(s.entries)-1].Score
	}
	return r
}

func (s *scores) Respond(requestID string) (any, error) {
	if requestID == reqScoreRange {
		return s.scoreRange(), nil
	}
	return s.Base.Respond(requestID)
}

// Enter receives a new score to record from the play scene
func (s *scores) Enter(data any) {
	if score, ok := data.(int); ok && score > 0 {
		s.pending = score
	}
}

func (s *scores) Update() error {
	if s.pending == 0 {
		return nil
	}
	d := dialog.NewAnswer(s.surf, fmt.Sprintf("Name for your score of %d:", s.pending), 12, "OK", "Cancel")
	return dialog.Show(s, sceneEnterName, d, msgName)
}

func (s *scores) Receive(messageID string, info any) error {
	res, _ := info.(dialog.Result)
	switch messageID {
	case msgName:
		if res.Confirmed {
			name := res.Text
			if name == "" {
				name = "Anonymous"
			}
			s.insert(entry{Name: name, Score: s.pending})
		}
		s.pending = 0
	case msgClear:
		if res.Confirmed {
			s.entries = nil
			return s.SendAll(msgScoresCleared, nil)
		}
	}
	return nil
}

func (s *scores) HandleInputs(events []scene.Event, _ scene.KeyState) error {
	for _, ev := range events {
		if s.back.HandleEvent(ev) {
			return s.GoToScene(sceneSplash, nil)
		}
		if s.clear.HandleEvent(ev) {
			d := dialog.NewYesNo(s.surf, "Clear all high scores?", "Clear", "Keep")
			return dialog.Show(s, sceneConfirmClear, d, msgClear)
		}
	}
	return nil
}

func (s *scores) Draw() {
	s.surf.Fill(colorBG)
	sw, _ := s.surf.Size()
	_, lh := s.surf.TextSize("M")
	title := widget.Label{Text: "High Scores", Color: colorTitle, CenterIn: surface.Rect{W: sw, H: 2 * lh}}
	title.Draw(s.surf)

	if len(s.entries) == 0 {
		empty := widget.Label{Text: "(no scores yet)", CenterIn: surface.Rect{Y: 3 * lh, W: sw, H: lh}}
		empty.Draw(s.surf)
	}
	for i, e := range s.entries {
		line := widget.Label{
			Text:     fmt.Sprintf("%2d. %-12s %5d", i+1, e.Name, e.Score),
			CenterIn: surface.Rect{Y: (i + 2) * lh, W: sw, H: lh},
		}
		line.Draw(s.surf)
	}
	s.back.Draw(s.surf)
	s.clear.Draw(s.surf)
}

// newScenes builds the demo's scene set
func newScenes(s surface.Surface, rng *rand.Rand, logger *zap.Logger) map[scene.Key]scene.Scene {
	return map[scene.Key]scene.Scene{
		sceneSplash: newSplash(s),
		scenePlay:   newPlay(s, rng, logger),
		sceneScores: newScores(s, []entry{{"ace", 40}, {"bolt", 25}, {"cora", 10}}),
	}
}
