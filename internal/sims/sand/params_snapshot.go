package sand

import (
	"math"
	"strconv"

	"sandfall/internal/core"
)

const (
	paramGravity       = "gravity"
	paramSpawnVelocity = "spawn_velocity"
	paramMaxVelocity   = "max_velocity"
	paramBrushRadius   = "brush_radius"
	paramPrefill       = "prefill"
	paramMaxDT         = "max_dt"

	maxBrushRadius = 32
)

// Parameters reports the current configuration for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				floatParam(paramPrefill, "Prefill", params.Prefill),
			},
		},
		{
			Name: "Physics",
			Params: []core.Parameter{
				floatParam(paramGravity, "Gravity", params.Gravity),
				floatParam(paramSpawnVelocity, "Spawn velocity", params.SpawnVelocity),
				floatParam(paramMaxVelocity, "Max velocity", params.MaxVelocity),
				floatParam(paramMaxDT, "Max frame dt", params.MaxDT),
			},
		},
		{
			Name: "Input",
			Params: []core.Parameter{
				intParam(paramBrushRadius, "Brush radius", params.BrushRadius),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: paramGravity, Label: "Gravity", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, Max: 100, HasMin: true, HasMax: true},
		{Key: paramSpawnVelocity, Label: "Spawn velocity", Type: core.ParamTypeFloat, Step: 0.25, Min: 0, Max: 50, HasMin: true, HasMax: true},
		{Key: paramMaxVelocity, Label: "Max velocity", Type: core.ParamTypeFloat, Step: 1, Min: 0, Max: 200, HasMin: true, HasMax: true},
		{Key: paramBrushRadius, Label: "Brush radius", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: maxBrushRadius, HasMin: true, HasMax: true},
		{Key: paramMaxDT, Label: "Max frame dt", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: paramPrefill, Label: "Prefill (on reset)", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a floating point parameter, clamping to the
// control bounds. It reports whether the key is known.
func (w *World) SetFloatParameter(key string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	switch key {
	case paramGravity:
		w.cfg.Params.Gravity = clampFloat(value, 0, 100)
	case paramSpawnVelocity:
		w.cfg.Params.SpawnVelocity = clampFloat(value, 0, 50)
	case paramMaxVelocity:
		w.cfg.Params.MaxVelocity = clampFloat(value, 0, 200)
	case paramMaxDT:
		w.cfg.Params.MaxDT = clampFloat(value, 0, 1)
	case paramPrefill:
		w.cfg.Params.Prefill = clampFloat(value, 0, 1)
	default:
		return false
	}
	return true
}

// SetIntParameter updates an integer parameter. It reports whether the key is
// known.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case paramBrushRadius:
		if value < 0 {
			value = 0
		}
		if value > maxBrushRadius {
			value = maxBrushRadius
		}
		w.cfg.Params.BrushRadius = value
	default:
		return false
	}
	return true
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}
