//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads an RGBA8 cell buffer into an image and draws it scaled.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads pix and draws it onto dst. Buffers of the wrong size are ignored.
func (gp *GridPainter) Blit(dst *ebiten.Image, pix []byte, scale int) {
	if len(pix) != 4*gp.w*gp.h {
		return
	}
	gp.img.WritePixels(pix)
	gp.draw(dst, scale)
}

// BlitMask draws a [0,1] mask tinted with col on top of dst.
func (gp *GridPainter) BlitMask(dst *ebiten.Image, mask []float32, col color.RGBA, scale int) {
	if len(mask) != gp.w*gp.h {
		return
	}
	FillMaskRGBA(gp.buf, mask, col)
	gp.img.WritePixels(gp.buf)
	gp.draw(dst, scale)
}

func (gp *GridPainter) draw(dst *ebiten.Image, scale int) {
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}
