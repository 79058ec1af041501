package render

import (
	"image/color"
	"slices"
	"testing"
)

func TestFillMaskRGBA(t *testing.T) {
	mask := []float32{0, 1, 2, -1}
	buf := make([]byte, 4*len(mask))
	tint := color.RGBA{R: 200, G: 100, B: 0}

	FillMaskRGBA(buf, mask, tint)

	if !slices.Equal(buf[0:4], []byte{0, 0, 0, 0}) {
		t.Fatalf("zero intensity should be transparent, got %v", buf[0:4])
	}
	if !slices.Equal(buf[4:8], []byte{200, 100, 0, 140}) {
		t.Fatalf("full intensity pixel = %v", buf[4:8])
	}
	if !slices.Equal(buf[8:12], buf[4:8]) {
		t.Fatal("intensity above 1 should clamp to full")
	}
	if !slices.Equal(buf[12:16], []byte{0, 0, 0, 0}) {
		t.Fatal("negative intensity should clamp to transparent")
	}
}

func TestMasks(t *testing.T) {
	cells := []uint8{0, 1, 1, 0}
	vel := []float32{7, 5, 20, 3}
	dst := make([]float32, len(cells))

	OccupancyMask(dst, cells)
	if !slices.Equal(dst, []float32{0, 1, 1, 0}) {
		t.Fatalf("occupancy mask = %v", dst)
	}

	VelocityMask(dst, cells, vel, 10)
	if !slices.Equal(dst, []float32{0, 0.5, 2, 0}) {
		t.Fatalf("velocity mask = %v", dst)
	}
}

func TestRGBAImageCopies(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	img := RGBAImage(pix, 2, 1)
	if got := img.RGBAAt(1, 0); got != (color.RGBA{R: 5, G: 6, B: 7, A: 8}) {
		t.Fatalf("pixel (1,0) = %v", got)
	}
	pix[0] = 99
	if img.Pix[0] != 1 {
		t.Fatal("image must not alias the source buffer")
	}
}
