package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/platform/tui"
	"github.com/vovakirdan/tui-gridloop/internal/registry"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <game>",
		Short: "Play a game",
		Long: `Start playing the specified game.

Every game picks its own frame rate; --fps forces one for all of them.
Keys are held for a short time after the terminal's last auto-repeat,
see loop.key_release in the config.

Controls:
  Arrows/WASD  - Move
  Space/Enter  - Act
  P            - Pause
  R            - Restart
  Mouse        - Point and click (gomoku)
  Esc/Q        - Leave
  Ctrl+S       - Save a text screenshot
  Ctrl+C       - Quit

Examples:
  gridloop play snake
  gridloop play gomoku
  gridloop play pong
  gridloop play bounce --fps 60
  gridloop play snake --seed 42 --log-file /tmp/gridloop.log`,
		Args: cobra.ExactArgs(1),
		RunE: runPlay,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'gridloop list' to see available games", gameID)
	}

	// Logs would garble the alternate screen, so only a file gets them.
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := e.options()
	rc := core.RuntimeConfig{
		ScreenW:   opts.Width,
		ScreenH:   opts.Height,
		TargetFPS: e.cfg.Loop.TargetFPS,
		Seed:      flagSeed,
	}
	game, err := registry.Create(gameID, rc)
	if err != nil {
		return err
	}

	if err := tui.Run(game, opts); err != nil {
		return fmt.Errorf("running %s: %w", gameID, err)
	}
	return nil
}
