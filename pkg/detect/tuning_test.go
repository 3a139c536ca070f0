package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhantomInTheWire/emoji-splitter/pkg/grid"
)

func TestDefaultTuning(t *testing.T) {
	tu := DefaultTuning()
	require.NoError(t, tu.Validate())
	assert.Equal(t, 50, tu.MinCellSize)
	assert.Equal(t, 3, tu.WindowRadius)
	assert.Equal(t, 9, tu.MaxCount)
	assert.Equal(t, 0.3, tu.AspectTolerance)
	assert.Len(t, tu.Catalog, 23)
	assert.Equal(t, grid.Layout{Rows: 6, Cols: 6}, tu.Catalog[len(tu.Catalog)-1])
}

func TestLoadTuningPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"min_cell_size": 32, "catalog": [{"rows": 4, "cols": 8}]}`), 0644))

	tu, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 32, tu.MinCellSize)
	assert.Equal(t, 3, tu.WindowRadius, "omitted fields keep defaults")
	assert.Equal(t, []grid.Layout{{Rows: 4, Cols: 8}}, tu.Catalog)
}

func TestLoadTuningErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTuning(filepath.Join(dir, "tuning.yaml"))
	assert.ErrorContains(t, err, ".json extension")

	_, err = LoadTuning(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"min_cell_size": `), 0644))
	_, err = LoadTuning(bad)
	assert.ErrorContains(t, err, "parse")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"max_count": 0, "catalog": []}`), 0644))
	_, err = LoadTuning(invalid)
	assert.ErrorContains(t, err, "max_count")
	assert.ErrorContains(t, err, "catalog")
}

func TestValidateAspectBounds(t *testing.T) {
	tu := DefaultTuning()
	tu.TallAspect, tu.WideAspect = 1.5, 1.2
	assert.ErrorContains(t, tu.Validate(), "tall_aspect")
}
