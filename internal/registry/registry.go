// Package registry keeps the set of playable games.
// Games register themselves in init() functions, so the host can list and
// start them without importing each one by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/loop"
)

// Game is a loop consumer with an identity.
type Game interface {
	loop.Consumer

	// ID is the stable identifier used on the command line and in storage.
	ID() string

	// Title is the human-readable name shown in menus.
	Title() string
}

// Outcome is the result of a finished game.
type Outcome struct {
	Score  int
	Winner string // empty for single-player games
}

// Scorer is implemented by games that end with a result worth keeping.
type Scorer interface {
	// Outcome returns the result and whether the game has finished.
	Outcome() (Outcome, bool)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh game for one session.
type Factory func(cfg core.RuntimeConfig) Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory. It panics if id is already taken.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f(core.DefaultConfig()).Title()
}

// List returns all registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates the game registered as id.
func Create(id string, cfg core.RuntimeConfig) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(cfg), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
