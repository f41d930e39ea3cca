package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-gridloop/internal/config"
	"github.com/vovakirdan/tui-gridloop/internal/storage"
)

// execute runs the CLI with args in an empty home and working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func seedResults(t *testing.T, results ...storage.Result) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.db")
	store, err := storage.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	for _, r := range results {
		if _, err := store.SaveResult(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, id := range []string{"bounce", "gomoku", "pong", "snake"} {
		if !strings.Contains(out, id) {
			t.Errorf("list output missing %s:\n%s", id, out)
		}
	}
}

func TestPlayUnknownGame(t *testing.T) {
	_, err := execute(t, "play", "tetris")
	if err == nil || !strings.Contains(err.Error(), "unknown game") {
		t.Errorf("play tetris = %v, expected unknown game", err)
	}
}

func TestScoresCommand(t *testing.T) {
	db := seedResults(t,
		storage.Result{GameID: "snake", Score: 12, Duration: 30 * time.Second},
		storage.Result{GameID: "snake", Score: 31},
		storage.Result{GameID: "gomoku", Score: 40, Winner: "Blue"},
	)

	out, err := execute(t, "scores", "snake", "--db", db)
	if err != nil {
		t.Fatalf("scores failed: %v", err)
	}
	var ranked []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && (fields[0] == "1" || fields[0] == "2") {
			ranked = append(ranked, fields[1])
		}
	}
	if strings.Join(ranked, ",") != "31,12" {
		t.Errorf("ranked scores = %v, expected [31 12]:\n%s", ranked, out)
	}

	out, err = execute(t, "scores", "gomoku", "--stats", "--db", db)
	if err != nil {
		t.Fatalf("scores --stats failed: %v", err)
	}
	if !strings.Contains(out, "Wins (Blue): 1") {
		t.Errorf("stats output missing wins:\n%s", out)
	}

	out, err = execute(t, "scores", "--db", db)
	if err != nil {
		t.Fatalf("scores summary failed: %v", err)
	}
	if !strings.Contains(out, "gomoku") || !strings.Contains(out, "snake") {
		t.Errorf("summary output:\n%s", out)
	}
}

func TestScoresClear(t *testing.T) {
	db := seedResults(t, storage.Result{GameID: "bounce", Score: 5})

	if _, err := execute(t, "scores", "bounce", "--clear", "--db", db); err != nil {
		t.Fatalf("scores --clear failed: %v", err)
	}
	out, err := execute(t, "scores", "bounce", "--db", db)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No results recorded yet.") {
		t.Errorf("results survived --clear:\n%s", out)
	}
}

func TestScoresUnknownGame(t *testing.T) {
	db := seedResults(t)
	if _, err := execute(t, "scores", "tetris", "--db", db); err == nil {
		t.Error("scores tetris should fail")
	}
}

func TestInvalidFlagValueRejected(t *testing.T) {
	db := seedResults(t)
	_, err := execute(t, "scores", "snake", "--fps", "-5", "--db", db)
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("scores --fps -5 = %v, expected ErrInvalid", err)
	}
}
