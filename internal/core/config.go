package core

// RuntimeConfig is handed to a game factory when a session starts.
type RuntimeConfig struct {
	ScreenW   int   // Terminal width in characters
	ScreenH   int   // Terminal height in characters
	TargetFPS int   // Frame rate the loop starts at; 0 runs unthrottled
	Seed      int64 // RNG seed; 0 lets the host pick one
}

// DefaultConfig returns a RuntimeConfig for an 80x24 terminal at 30 fps.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		TargetFPS: 30,
	}
}
