package main

import (
	"flag"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sandfall/internal/sims/sand"
)

type paramSet struct {
	gravity       float64
	spawnVelocity float64
	brushRadius   int
}

func (p paramSet) String() string {
	return fmt.Sprintf("gravity=%.2f spawnVel=%.2f brush=%d", p.gravity, p.spawnVelocity, p.brushRadius)
}

type scenarioResult struct {
	params   paramSet
	grains   int
	height   int
	width    int
	settled  int
	finalVel float64
}

func main() {
	width := flag.Int("w", 96, "grid width")
	height := flag.Int("h", 64, "grid height")
	pour := flag.Int("pour", 120, "brush loads poured at the top center")
	steps := flag.Int("steps", 2000, "step limit per scenario")
	tps := flag.Int("tps", 60, "fixed steps per simulated second")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	flag.Parse()

	base := sand.DefaultConfig()
	base.Width = *width
	base.Height = *height
	dt := 1 / float64(*tps)

	gravityOptions := []float64{4.9, 9.81, 19.6}
	spawnOptions := []float64{0, 1, 4}
	brushOptions := []int{0, 1, 2}

	var sets []paramSet
	for _, g := range gravityOptions {
		for _, v := range spawnOptions {
			for _, r := range brushOptions {
				sets = append(sets, paramSet{gravity: g, spawnVelocity: v, brushRadius: r})
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets (%d workers, pour %d, limit %d steps)\n", len(sets), *workers, *pour, *steps)

	var (
		mu  sync.Mutex
		all []scenarioResult
		g   errgroup.Group
	)
	g.SetLimit(*workers)
	start := time.Now()
	for _, params := range sets {
		params := params
		g.Go(func() error {
			res := runScenario(base, params, *pour, *steps, dt)
			mu.Lock()
			all = append(all, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	sort.Slice(all, func(i, j int) bool {
		if all[i].width != all[j].width {
			return all[i].width > all[j].width
		}
		return all[i].settled < all[j].settled
	})

	fmt.Printf("\nTop 5 widest piles (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < 5; i++ {
		res := all[i]
		fmt.Printf("%2d) width=%d height=%d grains=%d settled=%s maxVel=%.2f params=%s\n",
			i+1, res.width, res.height, res.grains, settledString(res.settled), res.finalVel, res.params)
	}
}

// runScenario pours pour brush loads from the top center, one whenever the
// spout cell is free, and then keeps stepping until every grain is blocked
// or the step limit is reached.
func runScenario(base sand.Config, params paramSet, pour, limit int, dt float64) scenarioResult {
	cfg := base
	cfg.Params.Gravity = params.gravity
	cfg.Params.SpawnVelocity = params.spawnVelocity
	cfg.Params.BrushRadius = params.brushRadius

	world := sand.NewWithConfig(cfg)
	cx := cfg.Width / 2

	settled := -1
	poured := 0
	for step := 0; step < limit; step++ {
		if poured < pour && !world.Occupied(cx, 0) {
			world.SpawnBrush(cx, 0)
			poured++
		}
		world.Step(dt)
		// A jammed spout ends the pour early.
		if world.Settled() && (poured >= pour || world.Occupied(cx, 0)) {
			settled = step + 1
			break
		}
	}

	res := scenarioResult{params: params, grains: world.Count(), settled: settled}
	res.height, res.width = pileExtent(world)
	for _, v := range world.Velocities() {
		if float64(v) > res.finalVel {
			res.finalVel = float64(v)
		}
	}
	return res
}

// pileExtent returns the number of rows from the floor to the highest grain
// and the horizontal span of all grains.
func pileExtent(world *sand.World) (height, width int) {
	size := world.Size()
	cells := world.Cells()
	minX, maxX, top := size.W, -1, size.H
	for i, c := range cells {
		if c == 0 {
			continue
		}
		x, y := i%size.W, i/size.W
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < top {
			top = y
		}
	}
	if maxX < 0 {
		return 0, 0
	}
	return size.H - top, maxX - minX + 1
}

func settledString(step int) string {
	if step < 0 {
		return "never"
	}
	return fmt.Sprintf("step %d", step)
}
