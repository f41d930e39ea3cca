package registry

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/loop"
)

type stubGame struct {
	id  string
	cfg core.RuntimeConfig
}

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return strings.ToUpper(g.id) }
func (g *stubGame) Initialize(loop.Host) error { return nil }
func (g *stubGame) Update(time.Duration) error { return nil }
func (g *stubGame) Draw(*core.Screen) error { return nil }

func TestRegisterCreateList(t *testing.T) {
	Register("zz-stub", func(cfg core.RuntimeConfig) Game {
		return &stubGame{id: "zz-stub", cfg: cfg}
	})
	Register("aa-stub", func(cfg core.RuntimeConfig) Game {
		return &stubGame{id: "aa-stub", cfg: cfg}
	})

	if !Exists("zz-stub") || Exists("missing") {
		t.Fatal("Exists() mismatch")
	}

	cfg := core.RuntimeConfig{ScreenW: 100, ScreenH: 40, TargetFPS: 12, Seed: 7}
	g, err := Create("zz-stub", cfg)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if g.(*stubGame).cfg != cfg {
		t.Errorf("factory got %+v, expected %+v", g.(*stubGame).cfg, cfg)
	}

	var ids []string
	for _, info := range List() {
		if strings.HasSuffix(info.ID, "-stub") {
			ids = append(ids, info.ID)
			if info.Title != strings.ToUpper(info.ID) {
				t.Errorf("title for %s = %q", info.ID, info.Title)
			}
		}
	}
	if len(ids) != 2 || ids[0] != "aa-stub" || ids[1] != "zz-stub" {
		t.Errorf("List() ids = %v, expected sorted stubs", ids)
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-game", core.DefaultConfig()); err == nil {
		t.Error("Create() of an unknown game should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func(core.RuntimeConfig) Game { return &stubGame{id: "dup-stub"} }
	Register("dup-stub", f)

	defer func() {
		if recover() == nil {
			t.Error("registering the same id twice should panic")
		}
	}()
	Register("dup-stub", f)
}
