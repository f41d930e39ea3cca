// Package config loads the YAML configuration of the gridloop host.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config is the complete host configuration.
type Config struct {
	Loop    LoopConfig            `yaml:"loop"`
	Games   map[string]GameConfig `yaml:"games"`
	Logging LoggingConfig         `yaml:"logging"`
	Storage StorageConfig         `yaml:"storage"`
	SSH     SSHConfig             `yaml:"ssh"`
}

// LoopConfig controls frame pacing and input timing.
type LoopConfig struct {
	// TargetFPS is the rate a game starts at before it asks for its own.
	TargetFPS int `yaml:"target_fps"`
	// OverrideFPS, when positive, replaces whatever rate games request.
	OverrideFPS int `yaml:"override_fps"`
	// DisplayFPS is how often the terminal view is refreshed.
	DisplayFPS int `yaml:"display_fps"`
	// KeyRelease is how long after the last press or auto-repeat a key
	// counts as released.
	KeyRelease time.Duration `yaml:"key_release"`
}

// GameConfig holds per-game overrides.
type GameConfig struct {
	TargetFPS int `yaml:"target_fps"`
}

// LoggingConfig configures the charmbracelet logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // empty logs to stderr, or nowhere in interactive mode
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Timestamps bool   `yaml:"timestamps"`
	Prefix     string `yaml:"prefix"`
}

// StorageConfig locates the results database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// SSHConfig configures the remote play server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Loop.TargetFPS < 0 {
		return fmt.Errorf("loop.target_fps %d: %w", c.Loop.TargetFPS, ErrInvalid)
	}
	if c.Loop.OverrideFPS < 0 {
		return fmt.Errorf("loop.override_fps %d: %w", c.Loop.OverrideFPS, ErrInvalid)
	}
	if c.Loop.DisplayFPS <= 0 {
		return fmt.Errorf("loop.display_fps %d: %w", c.Loop.DisplayFPS, ErrInvalid)
	}
	if c.Loop.KeyRelease <= 0 {
		return fmt.Errorf("loop.key_release %v: %w", c.Loop.KeyRelease, ErrInvalid)
	}
	for id, g := range c.Games {
		if g.TargetFPS < 0 {
			return fmt.Errorf("games.%s.target_fps %d: %w", id, g.TargetFPS, ErrInvalid)
		}
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level %q: %w", c.Logging.Level, ErrInvalid)
	}
	if c.SSH.IdleTimeout < 0 {
		return fmt.Errorf("ssh.idle_timeout %v: %w", c.SSH.IdleTimeout, ErrInvalid)
	}
	return nil
}

// RateFor returns the rate that should override what game id asks for,
// or 0 when the game keeps its own. The global override wins over a
// per-game one.
func (c Config) RateFor(id string) int {
	if c.Loop.OverrideFPS > 0 {
		return c.Loop.OverrideFPS
	}
	return c.Games[id].TargetFPS
}
