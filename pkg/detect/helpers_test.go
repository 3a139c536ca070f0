package detect

import (
	"image"
	"image/color"
	"math/rand"
)

// gridSheet draws an n×n sheet of noise cells separated by flat strips sep
// pixels wide, split evenly on both sides of every boundary.
func gridSheet(size, n, sep int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, size, size))
	pitch := size / n
	isSep := func(v int) bool {
		m := v % pitch
		return m < sep/2 || m >= pitch-sep/2
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if isSep(x) || isSep(y) {
				img.SetGray(x, y, color.Gray{Y: 255})
				continue
			}
			img.SetGray(x, y, color.Gray{Y: uint8(rng.Intn(256))})
		}
	}
	return img
}

func noiseSheet(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

// toNRGBA paints a gray sheet in colour so the imaging conversion path is
// exercised: separators become opaque white, content keeps its luminance.
func toNRGBA(g *image.Gray) *image.NRGBA {
	b := g.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := g.GrayAt(x, y).Y
			out.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
