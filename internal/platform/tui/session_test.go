package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/logging"
	"github.com/vovakirdan/tui-gridloop/internal/loop"
	"github.com/vovakirdan/tui-gridloop/internal/registry"
	"github.com/vovakirdan/tui-gridloop/internal/storage"
)

// scriptedGame finishes and restarts on command.
type scriptedGame struct {
	rate     int
	finished bool
	outcome  registry.Outcome
	updates  int
}

func (g *scriptedGame) ID() string    { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }

func (g *scriptedGame) Initialize(h loop.Host) error {
	if g.rate > 0 {
		h.SetTargetRate(g.rate)
	}
	return nil
}

func (g *scriptedGame) Update(time.Duration) error {
	g.updates++
	return nil
}

func (g *scriptedGame) Draw(*core.Screen) error { return nil }

func (g *scriptedGame) Outcome() (registry.Outcome, bool) {
	return g.outcome, g.finished
}

type recordingSaver struct {
	results []storage.Result
	err     error
}

func (s *recordingSaver) SaveResult(_ context.Context, r storage.Result) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.results = append(s.results, r)
	return int64(len(s.results)), nil
}

func TestSessionRateOverride(t *testing.T) {
	tests := []struct {
		name     string
		gameRate int
		override int
		expected int
	}{
		{"game picks", 12, 0, 12},
		{"override wins", 12, 40, 40},
		{"override only", 0, 25, 25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newSession(&scriptedGame{rate: tc.gameRate}, nil, tc.override, logging.Discard())
			l := loop.New(s, nil, loop.WithTargetRate(30))
			if err := s.Initialize(l); err != nil {
				t.Fatal(err)
			}
			if l.TargetRate() != tc.expected {
				t.Errorf("TargetRate() = %d, expected %d", l.TargetRate(), tc.expected)
			}
		})
	}
}

func TestSessionSavesOncePerGame(t *testing.T) {
	g := &scriptedGame{}
	saver := &recordingSaver{}
	s := newSession(g, saver, 0, logging.Discard())

	for i := 0; i < 3; i++ {
		s.Update(100 * time.Millisecond)
	}
	g.finished = true
	g.outcome = registry.Outcome{Score: 9}
	s.Update(100 * time.Millisecond)
	s.Update(100 * time.Millisecond)

	if len(saver.results) != 1 {
		t.Fatalf("saved %d results, expected 1", len(saver.results))
	}
	r := saver.results[0]
	if r.GameID != "scripted" || r.Score != 9 || r.Frames != 4 || r.Duration != 400*time.Millisecond {
		t.Errorf("result = %+v, expected scripted/9 after 4 frames and 400ms", r)
	}

	// Restart and finish again.
	g.finished = false
	s.Update(50 * time.Millisecond)
	g.finished = true
	g.outcome = registry.Outcome{Score: 3, Winner: "Red"}
	s.Update(50 * time.Millisecond)

	if len(saver.results) != 2 {
		t.Fatalf("saved %d results, expected 2 after a restart", len(saver.results))
	}
	if r := saver.results[1]; r.Frames != 1 || r.Winner != "Red" {
		t.Errorf("second result = %+v, expected 1 frame won by Red", r)
	}
}

func TestSessionSkipsEmptyOutcome(t *testing.T) {
	g := &scriptedGame{finished: true}
	saver := &recordingSaver{}
	s := newSession(g, saver, 0, logging.Discard())

	s.Update(time.Millisecond)
	if len(saver.results) != 0 {
		t.Errorf("saved %+v, expected nothing for a zero score", saver.results)
	}
}

func TestSessionSaveErrorIsNotFatal(t *testing.T) {
	g := &scriptedGame{finished: true, outcome: registry.Outcome{Score: 1}}
	s := newSession(g, &recordingSaver{err: errors.New("disk full")}, 0, logging.Discard())

	if err := s.Update(time.Millisecond); err != nil {
		t.Errorf("Update() = %v, expected a failed save not to stop the game", err)
	}
}

func TestSessionWithStore(t *testing.T) {
	store, err := storage.Open(t.TempDir() + "/results.db")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	g := &scriptedGame{finished: true, outcome: registry.Outcome{Score: 42}}
	s := newSession(g, store, 0, logging.Discard())
	s.Update(time.Second)

	high, err := store.HighScore(context.Background(), "scripted")
	if err != nil {
		t.Fatal(err)
	}
	if high != 42 {
		t.Errorf("HighScore() = %d, expected 42", high)
	}
}
