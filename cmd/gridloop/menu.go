package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gridloop/internal/platform/tui"
)

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start gridloop with a game picker menu",
		Long: `Start gridloop in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
Leaving a game with Esc returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Results
  Q            - Quit

Examples:
  gridloop menu
  gridloop menu --fps 30
  gridloop menu --db ./results.db`,
		Args: cobra.NoArgs,
		RunE: runMenu,
	}
}

func runMenu(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	return tui.RunApp(e.options())
}
