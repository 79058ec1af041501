package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the contract the app and tools drive once per frame.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	// Step advances the simulation by dt seconds.
	Step(dt float64)
	// Cells exposes per-cell occupancy, nonzero meaning filled.
	Cells() []uint8
	// Pixels exposes the RGBA8 color buffer, row-major, top row first.
	Pixels() []byte
}

// Spawner is implemented by sims that accept material deposited at a cell.
type Spawner interface {
	Spawn(x, y int) error
}

// BrushSpawner deposits material in a disc around a cell and reports how many
// cells were filled.
type BrushSpawner interface {
	SpawnBrush(x, y int) int
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}
