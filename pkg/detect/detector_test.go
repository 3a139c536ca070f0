package detect

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhantomInTheWire/emoji-splitter/pkg/grid"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/sheet"
)

func mustSheet(t *testing.T, img image.Image) *sheet.Sheet {
	t.Helper()
	s, err := sheet.New("sheet.png", img)
	require.NoError(t, err)
	return s
}

func TestDetectStructural(t *testing.T) {
	d := New(DefaultTuning())

	for name, img := range map[string]image.Image{
		"gray":   gridSheet(300, 3, 4, 1),
		"colour": toNRGBA(gridSheet(300, 3, 4, 2)),
	} {
		t.Run(name, func(t *testing.T) {
			res := d.Detect(mustSheet(t, img))
			assert.Equal(t, grid.Layout{Rows: 3, Cols: 3}, res.Layout)
			assert.Equal(t, Structural, res.Confidence)
			assert.Equal(t, StageStructural, res.Stage)
			assert.Equal(t, 100, res.CellWidth)
			assert.Equal(t, 100, res.CellHeight)
		})
	}
}

func TestDetectFallsBackOnNoise(t *testing.T) {
	res := New(DefaultTuning()).Detect(mustSheet(t, noiseSheet(600, 400, 42)))

	assert.Equal(t, Heuristic, res.Confidence)
	assert.Equal(t, StageCatalog, res.Stage)
	assert.Equal(t, grid.Layout{Rows: 2, Cols: 3}, res.Layout)
	assert.Equal(t, 200, res.CellWidth)
	assert.Equal(t, 200, res.CellHeight)
}

func TestDetectClosedForm(t *testing.T) {
	res := New(DefaultTuning()).Detect(mustSheet(t, image.NewGray(image.Rect(0, 0, 1000, 100))))

	assert.Equal(t, Heuristic, res.Confidence)
	assert.Equal(t, StageClosedForm, res.Stage)
	assert.Equal(t, grid.Layout{Rows: 2, Cols: 20}, res.Layout)
	assert.Equal(t, 50, res.CellWidth)
}

func TestDetectTinyImageAlwaysValid(t *testing.T) {
	d := New(DefaultTuning())
	for _, sz := range []image.Point{{1, 1}, {1, 7}, {9, 1}, {3, 2}} {
		res := d.Detect(mustSheet(t, image.NewGray(image.Rect(0, 0, sz.X, sz.Y))))
		assert.NoError(t, res.Layout.Validate(sz.X, sz.Y), "size %v gave %s", sz, res.Layout)
	}
}

func TestDetectImageRejectsEmpty(t *testing.T) {
	_, err := New(DefaultTuning()).DetectImage(image.NewGray(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, sheet.ErrInput)
}

func TestResultString(t *testing.T) {
	r := Result{Layout: grid.Layout{Rows: 2, Cols: 3}, Confidence: Heuristic, Stage: StageCatalog, CellWidth: 10, CellHeight: 12}
	assert.Equal(t, "2x3 (heuristic via catalog, cells 10x12 px)", r.String())
}
