//go:build ebiten

package app

import (
	"fmt"
	"log"
	"time"

	"sandfall/internal/core"
	"sandfall/internal/render"
	"sandfall/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	timer   *core.FrameTimer

	scale        int
	tps          int
	paused       bool
	tickOnce     bool
	seed         int64
	snapshotPath string
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config) *Game {
	size := sim.Size()
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		sim:          sim,
		painter:      render.NewGridPainter(size.W, size.H),
		overlay:      ui.NewOverlay(sim, scale),
		hud:          ui.NewHUD(sim, cfg.HUDWidth),
		timer:        core.NewFrameTimer(),
		scale:        scale,
		tps:          cfg.TPS,
		seed:         cfg.Seed,
		snapshotPath: cfg.SnapshotPath,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.timer.Reset()
}

// Update handles input and advances the simulation by the elapsed frame time.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.report("saved", SaveSnapshot(g.sim, g.snapshotPath))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.report("loaded", LoadSnapshot(g.sim, g.snapshotPath))
	}

	g.overlay.Update()
	size := g.sim.Size()
	g.hud.Update(size.W * g.scale)

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if mx < size.W*g.scale {
			SpawnAt(g.sim, mx/g.scale, my/g.scale)
		}
	}

	dt := core.ClampDelta(g.timer.Tick(), MaxDT(g.sim))
	if g.paused && !g.tickOnce {
		return nil
	}
	if g.tickOnce && dt == 0 && g.tps > 0 {
		dt = 1 / float64(g.tps)
	}
	g.sim.Step(dt)
	g.tickOnce = false
	return nil
}

func (g *Game) report(action string, err error) {
	if err != nil {
		log.Printf("snapshot %s: %v", g.snapshotPath, err)
		g.hud.SetStatus(fmt.Sprintf("snapshot error: %v", err))
		return
	}
	log.Printf("snapshot %s %s", action, g.snapshotPath)
	g.hud.SetStatus(fmt.Sprintf("%s %s", action, g.snapshotPath))
}

// Draw renders the color buffer produced by the last completed step.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Pixels(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
