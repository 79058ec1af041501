package render

import (
	"image"
	"image/color"
	"math"
)

const (
	maskMaxAlpha      = 140.0
	maskGlowBase      = 0.35
	maskGlowRange     = 0.65
	maskIntensityBias = 0.75
)

// FillMaskRGBA converts a [0,1] intensity mask into translucent tinted pixels
// in buf. Zero intensity yields transparent black; values outside the range
// are clamped. buf must hold 4*len(mask) bytes.
func FillMaskRGBA(buf []byte, mask []float32, tint color.RGBA) {
	for i, m := range mask {
		base := i * 4
		intensity := clamp01(float64(m))
		if intensity == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		glow := maskGlowBase + maskGlowRange*math.Sqrt(intensity)
		buf[base+0] = scaleComponent(tint.R, glow)
		buf[base+1] = scaleComponent(tint.G, glow)
		buf[base+2] = scaleComponent(tint.B, glow)
		buf[base+3] = uint8(math.Round(maskMaxAlpha * math.Pow(intensity, maskIntensityBias)))
	}
}

// OccupancyMask writes 1 for filled cells and 0 elsewhere into dst.
func OccupancyMask(dst []float32, cells []uint8) {
	for i, c := range cells {
		if c != 0 {
			dst[i] = 1
			continue
		}
		dst[i] = 0
	}
}

// VelocityMask writes the speed of filled cells normalised by full into dst.
// Empty cells are 0 regardless of the stale velocity they carry.
func VelocityMask(dst []float32, cells []uint8, velocity []float32, full float32) {
	if full <= 0 {
		full = 1
	}
	for i, c := range cells {
		if c == 0 || i >= len(velocity) {
			dst[i] = 0
			continue
		}
		dst[i] = velocity[i] / full
	}
}

// RGBAImage copies an RGBA8 buffer of w*h pixels into a new image.
func RGBAImage(pix []byte, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
