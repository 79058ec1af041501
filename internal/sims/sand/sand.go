package sand

import (
	"errors"
	"fmt"
	"math"

	"sandfall/internal/core"
	pcore "sandfall/pkg/core"
)

// ErrOutOfBounds is returned when a coordinate does not address a grid cell.
var ErrOutOfBounds = errors.New("sand: coordinates out of bounds")

// World stores the falling-sand grid as three parallel per-cell arrays
// indexed by y*width+x.
type World struct {
	cfg Config

	w, h int

	occupied *core.ByteGrid
	velocity []float32
	color    []byte

	moved int
	steps uint64
}

// New returns a sand world with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a sand world configured from the provided options.
// The grid starts empty with the background gradient painted.
func NewWithConfig(cfg Config) *World {
	occ := core.NewByteGrid(cfg.Width, cfg.Height)
	cfg.Width, cfg.Height = occ.W, occ.H
	total := occ.W * occ.H
	w := &World{
		cfg:      cfg,
		w:        occ.W,
		h:        occ.H,
		occupied: occ,
		velocity: make([]float32, total),
		color:    make([]byte, 4*total),
	}
	w.paintBackground()
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "sand" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the occupancy layer.
func (w *World) Cells() []uint8 { return w.occupied.Cells() }

// Pixels exposes the RGBA8 color buffer. Callers must treat it as read-only
// and must not hold it across Step calls if they need a stable frame.
func (w *World) Pixels() []byte { return w.color }

// Velocities exposes the per-cell vertical velocity layer.
func (w *World) Velocities() []float32 { return w.velocity }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Count returns the number of occupied cells.
func (w *World) Count() int { return w.occupied.Count() }

// Moved returns how many particles were displaced by the last Step.
func (w *World) Moved() int { return w.moved }

// Steps returns how many non-empty steps have run since the last Reset.
func (w *World) Steps() uint64 { return w.steps }

// Occupied reports whether (x, y) holds material. Cells outside the grid
// report true so edge neighbours behave like walls.
func (w *World) Occupied(x, y int) bool {
	if !w.occupied.InBounds(x, y) {
		return true
	}
	return w.occupied.At(x, y) != 0
}

// Reset clears the grid back to the background gradient. When Prefill is
// positive the area above the floor is scattered with sand drawn from seed,
// falling back to the configured seed when seed is zero.
func (w *World) Reset(seed int64) {
	w.occupied.Clear()
	for i := range w.velocity {
		w.velocity[i] = 0
	}
	w.paintBackground()
	w.moved = 0
	w.steps = 0

	prefill := w.cfg.Params.Prefill
	if prefill <= 0 {
		return
	}
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	rng := pcore.NewRNG(effective)
	cells := w.occupied.Cells()
	for i := 0; i < (w.h-1)*w.w; i++ {
		if rng.Chance(prefill) {
			cells[i] = 1
			w.velocity[i] = float32(w.cfg.Params.SpawnVelocity)
			w.setColor(i, spawnColor)
		}
	}
}

// Spawn deposits a particle at (x, y). An occupied cell is re-seeded.
func (w *World) Spawn(x, y int) error {
	if !w.occupied.InBounds(x, y) {
		return fmt.Errorf("spawn (%d,%d) on %dx%d grid: %w", x, y, w.w, w.h, ErrOutOfBounds)
	}
	idx := w.occupied.Index(x, y)
	w.occupied.Cells()[idx] = 1
	w.velocity[idx] = float32(w.cfg.Params.SpawnVelocity)
	w.setColor(idx, spawnColor)
	return nil
}

// SpawnBrush spawns every in-bounds cell within BrushRadius of (x, y) and
// returns the number of cells written.
func (w *World) SpawnBrush(x, y int) int {
	r := w.cfg.Params.BrushRadius
	if r < 0 {
		r = 0
	}
	r2 := r * r
	n := 0
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			if err := w.Spawn(x+dx, y+dy); err != nil {
				continue
			}
			n++
		}
	}
	return n
}

// Step advances every falling particle by one discrete move using dt seconds
// of gravity. Rows are visited bottom to top so a particle that moved this
// step is never visited again. A non-positive dt leaves the grid untouched.
func (w *World) Step(dt float64) {
	w.moved = 0
	if dt <= 0 || w.h < 2 {
		return
	}
	w.steps++

	width := w.w
	floor := w.h - 1
	occ := w.occupied.Cells()
	dv := float32(w.cfg.Params.Gravity * dt)
	maxV := float32(w.cfg.Params.MaxVelocity)

	for y := floor - 1; y >= 0; y-- {
		row := y * width
		for x := 0; x < width; x++ {
			idx := row + x
			if occ[idx] == 0 {
				continue
			}

			v := w.velocity[idx] + dv
			if maxV > 0 && v > maxV {
				v = maxV
			}
			w.velocity[idx] = v
			w.setColor(idx, velocityColor(v))
			if v < 1 {
				continue
			}

			target := floor
			if reach := math.Round(float64(v)); reach < float64(floor-y) {
				target = y + int(reach)
			}

			landing := y + 1
			for ty := y + 1; ty <= target; ty++ {
				if ty == floor || occ[ty*width+x] != 0 {
					break
				}
				landing = ty
			}

			dst := landing*width + x
			switch {
			case occ[dst] == 0:
				w.swap(idx, dst)
			case !w.Occupied(x-1, landing):
				w.swap(idx, dst-1)
			case !w.Occupied(x+1, landing):
				w.swap(idx, dst+1)
			default:
				continue
			}
			w.moved++
		}
	}
}

// Settled reports whether no particle can move again: every occupied cell
// above the floor is blocked straight down and on both diagonals. Slow
// particles below the movement threshold are not settled.
func (w *World) Settled() bool {
	cells := w.occupied.Cells()
	for y := w.h - 2; y >= 0; y-- {
		for x := 0; x < w.w; x++ {
			if cells[y*w.w+x] == 0 {
				continue
			}
			if !w.Occupied(x, y+1) || !w.Occupied(x-1, y+1) || !w.Occupied(x+1, y+1) {
				return false
			}
		}
	}
	return true
}

// swap exchanges occupancy, velocity and color of two cells as one unit.
func (w *World) swap(a, b int) {
	occ := w.occupied.Cells()
	occ[a], occ[b] = occ[b], occ[a]
	w.velocity[a], w.velocity[b] = w.velocity[b], w.velocity[a]
	pa, pb := a*4, b*4
	for c := 0; c < 4; c++ {
		w.color[pa+c], w.color[pb+c] = w.color[pb+c], w.color[pa+c]
	}
}

func init() {
	core.Register("sand", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c)
	})
}
