package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gridloop/internal/storage"
)

func scoreboardUpdate(m ScoreboardModel, msg tea.Msg) ScoreboardModel {
	next, _ := m.Update(msg)
	return next.(ScoreboardModel)
}

func TestScoreboardSwitchesGames(t *testing.T) {
	store, err := storage.Open(t.TempDir() + "/results.db")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, r := range []storage.Result{
		{GameID: "bounce", Score: 3},
		{GameID: "gomoku", Score: 41, Winner: "Blue", Duration: 90 * time.Second},
		{GameID: "gomoku", Score: 19, Winner: "Red"},
	} {
		if _, err := store.SaveResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if m.games[m.cursor].ID != "bounce" || len(m.results) != 1 {
		t.Fatalf("first game = %s with %d results", m.games[m.cursor].ID, len(m.results))
	}

	m = scoreboardUpdate(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.games[m.cursor].ID != "gomoku" || len(m.results) != 2 {
		t.Fatalf("after tab: %s with %d results", m.games[m.cursor].ID, len(m.results))
	}
	view := m.View()
	for _, want := range []string{"best 41", "Blue 1", "Red 1", "#1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	// Wraps around backwards.
	m = scoreboardUpdate(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = scoreboardUpdate(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.games[m.cursor].ID != m.games[len(m.games)-1].ID {
		t.Errorf("cursor = %d, expected the last game", m.cursor)
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	if !strings.Contains(m.View(), "storage is disabled") {
		t.Errorf("view:\n%s", m.View())
	}

	m = scoreboardUpdate(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() || m.IsQuitting() {
		t.Errorf("back = %v, quit = %v", m.IsGoingBack(), m.IsQuitting())
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(storage.GameStats{
		GamesCount: 3,
		HighScore:  9,
		AvgScore:   4.5,
		PlayTime:   61 * time.Second,
		Wins:       map[string]int{"Red": 1, "Blue": 2},
	})
	expected := "played 3  ·  best 9  ·  avg 4.5  ·  time 1m1s  ·  Blue 2  ·  Red 1"
	if line != expected {
		t.Errorf("statsLine() = %q, expected %q", line, expected)
	}
}
