package detect

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// FindGridCount searches counts 1..MaxCount for the one whose internal
// boundaries fall on the flattest parts of profile. Lower variance around a
// boundary suggests a separator strip between cells.
//
// Counts whose cells would be smaller than MinCellSize are never returned.
// When no count above one fits but a single cell does, the axis cannot be
// subdivided and 1 is returned. ok is false when the search is inconclusive:
// the axis is shorter than MinCellSize, or the best boundaries are not flat
// enough relative to the profile as a whole.
func FindGridCount(profile []float64, totalSize int, t Tuning) (count int, ok bool) {
	if len(profile) == 0 || totalSize < 1 {
		return 0, false
	}

	best, bestScore := 0, math.Inf(1)
	single, subdivisible := false, false
	for n := 1; n <= t.MaxCount; n++ {
		cellSize := float64(totalSize) / float64(n)
		if cellSize < float64(t.MinCellSize) {
			continue
		}
		if n == 1 {
			single = true
			continue
		}
		subdivisible = true
		if score := boundaryScore(profile, n, cellSize, t.WindowRadius); score < bestScore {
			best, bestScore = n, score
		}
	}

	if !subdivisible {
		if single {
			return 1, true
		}
		return 0, false
	}
	if t.FlatnessRatio > 0 && !(bestScore < t.FlatnessRatio*stat.Mean(profile, nil)) {
		return 0, false
	}
	return best, true
}

// boundaryScore is the mean profile value in a window around each internal
// boundary, averaged over the boundaries.
func boundaryScore(profile []float64, count int, cellSize float64, radius int) float64 {
	var sum float64
	var used int
	for i := 1; i < count; i++ {
		b := int(math.Round(float64(i) * cellSize))
		lo := max(0, b-radius)
		hi := min(len(profile), b+radius+1)
		if lo >= hi {
			continue
		}
		sum += stat.Mean(profile[lo:hi], nil)
		used++
	}
	if used == 0 {
		return math.Inf(1)
	}
	return sum / float64(used)
}
