package app

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"sandfall/internal/core"
	"sandfall/internal/sims/sand"
)

type plainSim struct {
	cells  []uint8
	pixels []byte
}

func (p *plainSim) Name() string    { return "plain" }
func (p *plainSim) Size() core.Size { return core.Size{W: 2, H: 2} }
func (p *plainSim) Reset(int64)     {}
func (p *plainSim) Step(float64)    {}
func (p *plainSim) Cells() []uint8  { return p.cells }
func (p *plainSim) Pixels() []byte  { return p.pixels }

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("sand", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-w", "40", "-h", "30", "-seed", "9", "-hud", "0"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 40 || cfg.Height != 30 || cfg.Seed != 9 || cfg.HUDWidth != 0 || cfg.Sim != "sand" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestBuildSimFromRegistry(t *testing.T) {
	cfg := NewConfig()
	cfg.Width = 16
	cfg.Height = 12

	sim, err := BuildSim(cfg)
	if err != nil {
		t.Fatalf("BuildSim: %v", err)
	}
	if sim.Size() != (core.Size{W: 16, H: 12}) {
		t.Fatalf("size = %+v", sim.Size())
	}
	if MaxDT(sim) != sand.DefaultConfig().Params.MaxDT {
		t.Fatalf("MaxDT = %f", MaxDT(sim))
	}

	cfg.Sim = "missing"
	if _, err := BuildSim(cfg); err == nil {
		t.Fatal("expected unknown sim error")
	}
}

func TestBuildSimFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sand.yaml")
	if err := os.WriteFile(path, []byte("width: 50\nheight: 40\nparams:\n  max_dt: 0.02\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewConfig()
	cfg.ConfigPath = path
	cfg.Height = 20

	sim, err := BuildSim(cfg)
	if err != nil {
		t.Fatalf("BuildSim: %v", err)
	}
	if sim.Size() != (core.Size{W: 50, H: 20}) {
		t.Fatalf("flag height should override file, got %+v", sim.Size())
	}
	if MaxDT(sim) != 0.02 {
		t.Fatalf("MaxDT = %f, expected 0.02", MaxDT(sim))
	}
	if !sim.(*sand.World).SetFloatParameter("max_dt", 0.05) || MaxDT(sim) != 0.05 {
		t.Fatalf("MaxDT should follow runtime changes, got %f", MaxDT(sim))
	}
	if MaxDT(&plainSim{}) != defaultMaxDT {
		t.Fatal("sims without config should use the default cap")
	}
}

func TestBuildSimKeepsConfigSeedUnlessFlagged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sand.yaml")
	if err := os.WriteFile(path, []byte("width: 8\nheight: 8\nseed: 1337\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig()
	fs := flag.NewFlagSet("sand", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-config", path}); err != nil {
		t.Fatal(err)
	}
	cfg.MarkExplicit(fs)
	sim, err := BuildSim(cfg)
	if err != nil {
		t.Fatalf("BuildSim: %v", err)
	}
	if got := sim.(*sand.World).Config().Seed; got != 1337 || cfg.Seed != 1337 {
		t.Fatalf("seed = %d (cfg %d), expected the file's 1337", got, cfg.Seed)
	}

	cfg = NewConfig()
	fs = flag.NewFlagSet("sand", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-config", path, "-seed", "7"}); err != nil {
		t.Fatal(err)
	}
	cfg.MarkExplicit(fs)
	sim, err = BuildSim(cfg)
	if err != nil {
		t.Fatalf("BuildSim: %v", err)
	}
	if got := sim.(*sand.World).Config().Seed; got != 7 {
		t.Fatalf("seed = %d, expected explicit 7", got)
	}
}

func TestSpawnAtClampsCursor(t *testing.T) {
	w := sand.New(8, 6)

	if n := SpawnAt(w, -10, 50); n != 1 {
		t.Fatalf("SpawnAt filled %d cells, expected 1", n)
	}
	if w.Cells()[5*8+0] == 0 {
		t.Fatal("clamped spawn should land in the bottom-left cell")
	}
	if n := SpawnAt(&plainSim{}, 0, 0); n != 0 {
		t.Fatalf("sims without spawners should fill nothing, got %d", n)
	}
}

func TestSnapshotKeysRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.snap")
	w := sand.New(8, 8)
	SpawnAt(w, 3, 0)
	w.Step(0.5)
	want := append([]byte(nil), w.Pixels()...)

	if err := SaveSnapshot(w, path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	w.Reset(0)
	if err := LoadSnapshot(w, path); err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !slices.Equal(want, w.Pixels()) {
		t.Fatal("loaded pixels differ from saved pixels")
	}

	if err := SaveSnapshot(&plainSim{}, path); !errors.Is(err, ErrSnapshotUnsupported) {
		t.Fatalf("expected ErrSnapshotUnsupported, got %v", err)
	}
}
