package grid

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellsRowMajor(t *testing.T) {
	cells, err := Layout{Rows: 2, Cols: 3}.Cells(300, 200)
	require.NoError(t, err)

	want := []Cell{
		{Row: 0, Col: 0, Index: 1, Bounds: image.Rect(0, 0, 100, 100)},
		{Row: 0, Col: 1, Index: 2, Bounds: image.Rect(100, 0, 200, 100)},
		{Row: 0, Col: 2, Index: 3, Bounds: image.Rect(200, 0, 300, 100)},
		{Row: 1, Col: 0, Index: 4, Bounds: image.Rect(0, 100, 100, 200)},
		{Row: 1, Col: 1, Index: 5, Bounds: image.Rect(100, 100, 200, 200)},
		{Row: 1, Col: 2, Index: 6, Bounds: image.Rect(200, 100, 300, 200)},
	}
	if diff := cmp.Diff(want, cells); diff != "" {
		t.Errorf("Cells() mismatch (-want +got):\n%s", diff)
	}
}

func TestCellsDropRemainder(t *testing.T) {
	cells, err := Layout{Rows: 2, Cols: 2}.Cells(101, 101)
	require.NoError(t, err)
	require.Len(t, cells, 4)

	for _, c := range cells {
		assert.Equal(t, 50, c.Bounds.Dx())
		assert.Equal(t, 50, c.Bounds.Dy())
	}
	last := cells[len(cells)-1].Bounds
	assert.Equal(t, image.Pt(100, 100), last.Max, "1px strip on right and bottom is dropped")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		w, h   int
		ok     bool
	}{
		{"one by one", Layout{1, 1}, 1, 1, true},
		{"exact pixels", Layout{10, 20}, 20, 10, true},
		{"zero rows", Layout{0, 2}, 100, 100, false},
		{"negative cols", Layout{2, -1}, 100, 100, false},
		{"rows exceed height", Layout{11, 1}, 100, 10, false},
		{"cols exceed width", Layout{1, 11}, 10, 100, false},
		{"empty image", Layout{1, 1}, 0, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate(tt.w, tt.h)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidLayout), "got %v", err)
			var le *LayoutError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.layout.Rows, le.Rows)
		})
	}
}

func TestCellsRejectsInvalid(t *testing.T) {
	_, err := Layout{Rows: 5, Cols: 1}.Cells(10, 4)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, Layout{Rows: 1, Cols: 3}, Layout{Rows: 4, Cols: 3}.Clamp(10, 1))
	assert.Equal(t, Layout{Rows: 1, Cols: 1}, Layout{Rows: 0, Cols: -2}.Clamp(10, 10))
	assert.Equal(t, Layout{Rows: 2, Cols: 6}, Layout{Rows: 2, Cols: 6}.Clamp(600, 200))
}

func TestCountAndString(t *testing.T) {
	l := Layout{Rows: 3, Cols: 4}
	assert.Equal(t, 12, l.Count())
	assert.Equal(t, "3x4", l.String())
}
