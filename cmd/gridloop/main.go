// gridloop runs frame-paced terminal games on top of a fixed-rate
// application loop with edge-triggered input.
//
// Usage:
//
//	gridloop list              - List available games
//	gridloop play <game>       - Play a game
//	gridloop menu              - Start menu to pick games interactively
//	gridloop serve             - Start SSH server for remote play
//	gridloop scores <game>     - Show results for a game
//
// Global flags:
//
//	--fps <rate>          - Force every game to this frame rate
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--config <path>       - Load this config file instead of searching
//	--db <path>           - Set database path (default: ~/.gridloop/results.db)
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a rotating file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-gridloop/internal/config"
	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/logging"
	"github.com/vovakirdan/tui-gridloop/internal/platform/tui"
	"github.com/vovakirdan/tui-gridloop/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/tui-gridloop/internal/games/bounce"
	_ "github.com/vovakirdan/tui-gridloop/internal/games/gomoku"
	_ "github.com/vovakirdan/tui-gridloop/internal/games/pong"
	_ "github.com/vovakirdan/tui-gridloop/internal/games/snake"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridloop",
		Short: "gridloop - frame-paced games in your terminal",
		Long: `gridloop drives terminal games through a fixed-rate application loop.
Each game updates and draws once per frame at the rate it asks for, and
sees key and mouse input as press, hold and release edges.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View results

Examples:
  gridloop list
  gridloop play snake
  gridloop play bounce --fps 60
  gridloop menu
  gridloop serve --ssh :2222
  gridloop scores gomoku --stats`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags
	root.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Force every game to this frame rate (0 = the game's own)")
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	root.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (default from config)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this rotating file")

	// Add subcommands
	root.AddCommand(newListCmd())
	root.AddCommand(newPlayCmd())
	root.AddCommand(newMenuCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newScoresCmd())
	return root
}

// loadConfig reads the config file and applies the global flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Loop.OverrideFPS = flagFPS
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = flagLogFile
	}
	return cfg, cfg.Validate()
}

// env is what the interactive commands share.
type env struct {
	cfg    config.Config
	logger *logging.Logger
	store  *storage.Store
}

// setup loads config, builds the logger and opens the store. Without a log
// file, logs go to fallback (nil discards them). A store that cannot be
// opened is only a warning: games still work, results are not kept.
func setup(cmd *cobra.Command, fallback io.Writer) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging, fallback)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open results database: %v\n", err)
		logger.Warn("Results disabled", "error", err)
		store = nil
	}
	return &env{cfg: cfg, logger: logger, store: store}, nil
}

func (e *env) Close() {
	if e.store != nil {
		e.store.Close()
	}
	e.logger.Close()
}

func (e *env) options() tui.Options {
	width, height := terminalSize()
	return tui.Options{
		Store:  e.store,
		Config: e.cfg,
		Logger: e.logger.Logger,
		Width:  width,
		Height: height,
		Seed:   flagSeed,
	}
}

// terminalSize returns the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() (width, height int) {
	def := core.DefaultConfig()
	width, height = def.ScreenW, def.ScreenH // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}
