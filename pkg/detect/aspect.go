package detect

import (
	"math"

	"github.com/PhantomInTheWire/emoji-splitter/pkg/grid"
)

// CatalogMatch picks the catalog layout whose cells are closest to square.
// Ties go to the earlier catalog entry. ok reports whether the best score is
// within AspectTolerance.
func CatalogMatch(width, height int, t Tuning) (best grid.Layout, score float64, ok bool) {
	score = math.Inf(1)
	for _, l := range t.Catalog {
		cellAspect := (float64(width) / float64(l.Cols)) / (float64(height) / float64(l.Rows))
		if s := math.Abs(cellAspect - 1.0); s < score {
			best, score = l, s
		}
	}
	return best.Clamp(width, height), score, score < t.AspectTolerance
}

// ClosedForm guesses a layout from the sheet aspect ratio: wide sheets get
// two rows, tall sheets two columns, everything else 2x2.
func ClosedForm(width, height int, t Tuning) grid.Layout {
	aspect := float64(width) / float64(height)

	l := grid.Layout{Rows: 2, Cols: 2}
	switch {
	case aspect > t.WideAspect:
		l.Cols = int(math.Round(aspect * 2))
	case aspect < t.TallAspect:
		l.Rows = int(math.Round(2 / aspect))
	}
	return l.Clamp(width, height)
}

// EstimateLayout runs the catalog match and falls back to ClosedForm. It
// always returns a layout valid for a width×height image.
func EstimateLayout(width, height int, t Tuning) (grid.Layout, Stage) {
	if l, _, ok := CatalogMatch(width, height, t); ok {
		return l, StageCatalog
	}
	return ClosedForm(width, height, t), StageClosedForm
}
