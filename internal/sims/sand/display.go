package sand

import (
	"image/color"
	"math"
)

// velocityForFullRed is the speed at which the red channel saturates.
const velocityForFullRed = 10.0

var spawnColor = color.RGBA{R: 0, G: 255, B: 255, A: 255}

// ColorAt returns the color sample stored for (x, y).
func (w *World) ColorAt(x, y int) color.RGBA {
	if !w.occupied.InBounds(x, y) {
		return color.RGBA{}
	}
	base := w.occupied.Index(x, y) * 4
	return color.RGBA{R: w.color[base], G: w.color[base+1], B: w.color[base+2], A: w.color[base+3]}
}

// velocityColor encodes speed in the red channel, clamped to the 8-bit range.
func velocityColor(v float32) color.RGBA {
	t := float64(v) / velocityForFullRed
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.RGBA{R: uint8(math.Round(t * 255)), A: 255}
}

// backgroundColor is the gradient shown by cells that have never held sand:
// red grows left to right, green top to bottom.
func backgroundColor(x, y, w, h int) color.RGBA {
	return color.RGBA{
		R: uint8(float64(x) / float64(w) * 255),
		G: uint8(math.Round(float64(y) / float64(h) * 255)),
		B: 255,
		A: 255,
	}
}

func (w *World) paintBackground() {
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			w.setColor(y*w.w+x, backgroundColor(x, y, w.w, w.h))
		}
	}
}

func (w *World) setColor(idx int, c color.RGBA) {
	base := idx * 4
	w.color[base+0] = c.R
	w.color[base+1] = c.G
	w.color[base+2] = c.B
	w.color[base+3] = c.A
}
