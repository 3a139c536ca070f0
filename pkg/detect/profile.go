package detect

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Profiles are the per-line variances of a luminance matrix. Rows has one
// entry per pixel row (length H), Cols one per pixel column (length W).
type Profiles struct {
	Rows []float64
	Cols []float64
}

// VarianceProfiles computes the population variance of every row and every
// column of m.
func VarianceProfiles(m *mat.Dense) Profiles {
	h, w := m.Dims()
	p := Profiles{
		Rows: make([]float64, h),
		Cols: make([]float64, w),
	}
	for y := 0; y < h; y++ {
		p.Rows[y] = stat.PopVariance(m.RawRowView(y), nil)
	}
	col := make([]float64, h)
	for x := 0; x < w; x++ {
		p.Cols[x] = stat.PopVariance(mat.Col(col, x, m), nil)
	}
	return p
}
