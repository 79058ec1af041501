package core

import "time"

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Step returns the configured tick length.
func (f *FixedStep) Step() time.Duration { return f.step }

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// FrameTimer measures the wall-clock time between consecutive frames.
type FrameTimer struct {
	last time.Time
	dt   time.Duration
	now  func() time.Time
}

// NewFrameTimer returns a timer whose first Tick reports zero.
func NewFrameTimer() *FrameTimer {
	return &FrameTimer{now: time.Now}
}

// Tick records a frame boundary and returns the time since the previous one.
func (t *FrameTimer) Tick() time.Duration {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.dt = 0
		return 0
	}
	t.dt = now.Sub(t.last)
	t.last = now
	return t.dt
}

// DT returns the delta measured by the last Tick.
func (t *FrameTimer) DT() time.Duration { return t.dt }

// Reset forgets the previous frame so the next Tick reports zero.
func (t *FrameTimer) Reset() {
	t.last = time.Time{}
	t.dt = 0
}

// ClampDelta converts d to seconds, capped at max seconds when max > 0.
func ClampDelta(d time.Duration, max float64) float64 {
	secs := d.Seconds()
	if secs < 0 {
		return 0
	}
	if max > 0 && secs > max {
		return max
	}
	return secs
}
