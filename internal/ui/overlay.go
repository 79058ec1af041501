//go:build ebiten

package ui

import (
	"image/color"

	"sandfall/internal/core"
	"sandfall/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type velocityProvider interface {
	Velocities() []float32
}

// velocityForFullMask is the speed drawn at full intensity on the heat overlay.
const velocityForFullMask = 30

var (
	occupancyTint = color.RGBA{R: 255, G: 220, B: 120}
	velocityTint  = color.RGBA{R: 255, G: 90, B: 40}
)

// Overlay draws optional debugging masks on top of the simulation.
type Overlay struct {
	sim   core.Sim
	scale int

	showOccupancy bool
	showVelocity  bool

	occupancyPainter *render.GridPainter
	velocityPainter  *render.GridPainter
	mask             []float32
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	return &Overlay{
		sim:              sim,
		scale:            scale,
		occupancyPainter: render.NewGridPainter(size.W, size.H),
		velocityPainter:  render.NewGridPainter(size.W, size.H),
		mask:             make([]float32, size.W*size.H),
	}
}

// Update toggles overlays: 1 for occupancy, 2 for velocity.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showOccupancy = !o.showOccupancy
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showVelocity = !o.showVelocity
	}
}

// Draw renders the enabled overlays onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	cells := o.sim.Cells()
	if len(cells) != len(o.mask) {
		return
	}
	if o.showOccupancy {
		render.OccupancyMask(o.mask, cells)
		o.occupancyPainter.BlitMask(screen, o.mask, occupancyTint, o.scale)
	}
	if o.showVelocity {
		if provider, ok := o.sim.(velocityProvider); ok {
			render.VelocityMask(o.mask, cells, provider.Velocities(), velocityForFullMask)
			o.velocityPainter.BlitMask(screen, o.mask, velocityTint, o.scale)
		}
	}
}
