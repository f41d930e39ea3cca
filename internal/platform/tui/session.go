package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-gridloop/internal/loop"
	"github.com/vovakirdan/tui-gridloop/internal/registry"
	"github.com/vovakirdan/tui-gridloop/internal/storage"
)

// ResultSaver stores finished games. *storage.Store implements it.
type ResultSaver interface {
	SaveResult(ctx context.Context, r storage.Result) (int64, error)
}

// session wraps a game for one host session. It applies the configured
// rate override and saves each finished game once. All of its methods run
// on the loop goroutine.
type session struct {
	registry.Game

	saver    ResultSaver
	logger   *log.Logger
	override int

	frames int64
	played time.Duration
	saved  bool
}

func newSession(g registry.Game, saver ResultSaver, override int, logger *log.Logger) *session {
	return &session{Game: g, saver: saver, override: override, logger: logger}
}

// Initialize lets the game register its inputs, then replaces whatever rate
// it picked when an override is configured.
func (s *session) Initialize(h loop.Host) error {
	if err := s.Game.Initialize(h); err != nil {
		return err
	}
	if s.override > 0 {
		h.SetTargetRate(s.override)
	}
	return nil
}

// Update advances the game and watches its outcome.
func (s *session) Update(elapsed time.Duration) error {
	if err := s.Game.Update(elapsed); err != nil {
		return err
	}
	s.frames++
	s.played += elapsed

	scorer, ok := s.Game.(registry.Scorer)
	if !ok {
		return nil
	}
	out, finished := scorer.Outcome()
	switch {
	case finished && !s.saved:
		s.saved = true
		s.record(out)
	case !finished && s.saved:
		// Restarted.
		s.saved = false
		s.frames = 0
		s.played = 0
	}
	return nil
}

func (s *session) record(out registry.Outcome) {
	if s.saver == nil || (out.Score <= 0 && out.Winner == "") {
		return
	}
	r := storage.Result{
		GameID:   s.ID(),
		Score:    out.Score,
		Winner:   out.Winner,
		Frames:   s.frames,
		Duration: s.played,
	}
	// Best-effort save, game continues regardless
	if _, err := s.saver.SaveResult(context.Background(), r); err != nil {
		s.logger.Warn("Could not save result", "game", r.GameID, "error", err)
		return
	}
	s.logger.Info("Result saved", "game", r.GameID, "score", r.Score, "winner", r.Winner)
}
