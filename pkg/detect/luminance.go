package detect

import (
	"image"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// Luminance returns an H×W matrix of pixel intensities in [0,255].
// Single-channel images pass through unchanged; colour images are converted
// with the Rec. 601 weights and alpha is ignored.
func Luminance(img image.Image) *mat.Dense {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]float64, w*h)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				data[y*w+x] = float64(src.Pix[off+x])
			}
		}
	default:
		gray := imaging.Grayscale(img)
		for y := 0; y < h; y++ {
			off := y * gray.Stride
			for x := 0; x < w; x++ {
				data[y*w+x] = float64(gray.Pix[off+x*4])
			}
		}
	}
	return mat.NewDense(h, w, data)
}
