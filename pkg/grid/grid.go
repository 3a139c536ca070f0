// Package grid describes how a sheet is partitioned into rows and columns of
// equally sized cells.
package grid

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidLayout is matched by every LayoutError.
var ErrInvalidLayout = errors.New("invalid grid layout")

// LayoutError reports a layout that cannot be applied to an image of the
// given size.
type LayoutError struct {
	Rows, Cols    int
	Width, Height int
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("invalid grid layout %dx%d for %dx%d image: cells would be smaller than 1px",
		e.Rows, e.Cols, e.Width, e.Height)
}

func (e *LayoutError) Is(target error) bool { return target == ErrInvalidLayout }

// Layout is a row count by column count.
type Layout struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

func (l Layout) String() string { return fmt.Sprintf("%dx%d", l.Rows, l.Cols) }

// Count is the number of cells in the layout.
func (l Layout) Count() int { return l.Rows * l.Cols }

// Validate rejects layouts whose cells would be smaller than one pixel on
// a width×height image.
func (l Layout) Validate(width, height int) error {
	if l.Rows < 1 || l.Cols < 1 || width < 1 || height < 1 || l.Rows > height || l.Cols > width {
		return &LayoutError{Rows: l.Rows, Cols: l.Cols, Width: width, Height: height}
	}
	return nil
}

// Clamp bounds both counts to [1, dimension] so the layout is always valid
// for a non-empty image.
func (l Layout) Clamp(width, height int) Layout {
	return Layout{Rows: clamp(l.Rows, 1, height), Cols: clamp(l.Cols, 1, width)}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CellSize is the floor-divided cell width and height. Any remainder on the
// right and bottom edges is not covered by a cell.
func (l Layout) CellSize(width, height int) (w, h int) {
	return width / l.Cols, height / l.Rows
}

// Cell is one sub-rectangle of the sheet in source pixel coordinates.
type Cell struct {
	Row, Col int
	// Index is 1-based in row-major order.
	Index  int
	Bounds image.Rectangle
}

// Cells lists every cell of the layout left to right, top to bottom.
func (l Layout) Cells(width, height int) ([]Cell, error) {
	if err := l.Validate(width, height); err != nil {
		return nil, err
	}
	tw, th := l.CellSize(width, height)

	cells := make([]Cell, 0, l.Count())
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			x0, y0 := c*tw, r*th
			cells = append(cells, Cell{
				Row:    r,
				Col:    c,
				Index:  r*l.Cols + c + 1,
				Bounds: image.Rect(x0, y0, x0+tw, y0+th),
			})
		}
	}
	return cells, nil
}
