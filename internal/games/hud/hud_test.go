package hud

import (
	"testing"

	"github.com/vovakirdan/tui-gridloop/internal/core"
)

func TestStatus(t *testing.T) {
	s := core.NewScreen(20, 3)
	Status(s, 0, "Snake", "12 fps")

	if s.Row(0) != " Snake       12 fps " {
		t.Errorf("Row(0) = %q", s.Row(0))
	}
	if s.Row(1) != "────────────────────" {
		t.Errorf("Row(1) = %q, expected a separator", s.Row(1))
	}
}

func TestOverlay(t *testing.T) {
	s := core.NewScreen(14, 5)
	s.Fill('x')
	Overlay(s, "Game Over", "R")

	expected := []string{
		"┌───────────┐x",
		"│ Game Over │x",
		"│     R     │x",
		"└───────────┘x",
		"xxxxxxxxxxxxxx",
	}
	for y, row := range expected {
		if s.Row(y) != row {
			t.Errorf("Row(%d) = %q, expected %q", y, s.Row(y), row)
		}
	}
}
