package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/gridloop.yaml
var defaultYAML []byte

// Default returns the built-in configuration. The embedded YAML is decoded
// on top of it, so the two only differ if the embed is broken.
func Default() Config {
	return Config{
		Loop: LoopConfig{
			TargetFPS:  30,
			DisplayFPS: 30,
			KeyRelease: 150 * time.Millisecond,
		},
		Games: map[string]GameConfig{},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Timestamps: true,
			Prefix:     "gridloop",
		},
		Storage: StorageConfig{
			DBPath: "~/.gridloop/results.db",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			HostKey:     ".ssh/gridloop_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
	}
}
