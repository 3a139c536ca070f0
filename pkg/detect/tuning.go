package detect

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PhantomInTheWire/emoji-splitter/pkg/grid"
)

// Tuning holds the detection constants. They were tuned on real emoji sheets
// and have no deeper derivation; DefaultTuning returns the stock values.
type Tuning struct {
	// MinCellSize is the smallest cell edge, in pixels, the structural
	// search will consider.
	MinCellSize int `json:"min_cell_size"`
	// WindowRadius is how many profile samples on each side of a boundary
	// are averaged into its flatness.
	WindowRadius int `json:"window_radius"`
	// MaxCount is the largest row or column count tried.
	MaxCount int `json:"max_count"`
	// FlatnessRatio is how flat the best boundaries must be relative to the
	// profile mean for the structural result to be trusted. 0 accepts the
	// lowest score unconditionally.
	FlatnessRatio float64 `json:"flatness_ratio"`

	// AspectTolerance is the largest |cellAspect-1| a catalog layout may
	// have to be accepted.
	AspectTolerance float64 `json:"aspect_tolerance"`
	// WideAspect and TallAspect split the closed-form fallback into wide,
	// tall and roughly square sheets.
	WideAspect float64 `json:"wide_aspect"`
	TallAspect float64 `json:"tall_aspect"`

	// Catalog lists common sheet layouts in preference order.
	Catalog []grid.Layout `json:"catalog"`
}

// DefaultCatalog returns the common emoji sheet layouts.
func DefaultCatalog() []grid.Layout {
	return []grid.Layout{
		{Rows: 1, Cols: 1}, {Rows: 1, Cols: 2}, {Rows: 1, Cols: 3}, {Rows: 1, Cols: 4},
		{Rows: 2, Cols: 1}, {Rows: 2, Cols: 2}, {Rows: 2, Cols: 3}, {Rows: 2, Cols: 4}, {Rows: 2, Cols: 5}, {Rows: 2, Cols: 6},
		{Rows: 3, Cols: 1}, {Rows: 3, Cols: 2}, {Rows: 3, Cols: 3}, {Rows: 3, Cols: 4}, {Rows: 3, Cols: 5}, {Rows: 3, Cols: 6},
		{Rows: 4, Cols: 1}, {Rows: 4, Cols: 2}, {Rows: 4, Cols: 3}, {Rows: 4, Cols: 4}, {Rows: 4, Cols: 5},
		{Rows: 5, Cols: 5},
		{Rows: 6, Cols: 6},
	}
}

// DefaultTuning returns the stock detection constants.
func DefaultTuning() Tuning {
	return Tuning{
		MinCellSize:     50,
		WindowRadius:    3,
		MaxCount:        9,
		FlatnessRatio:   0.6,
		AspectTolerance: 0.3,
		WideAspect:      1.3,
		TallAspect:      0.7,
		Catalog:         DefaultCatalog(),
	}
}

// Validate checks that the constants describe a usable search.
func (t Tuning) Validate() error {
	var errs []error
	if t.MinCellSize < 1 {
		errs = append(errs, fmt.Errorf("min_cell_size must be >= 1, got %d", t.MinCellSize))
	}
	if t.WindowRadius < 0 {
		errs = append(errs, fmt.Errorf("window_radius must be >= 0, got %d", t.WindowRadius))
	}
	if t.MaxCount < 1 {
		errs = append(errs, fmt.Errorf("max_count must be >= 1, got %d", t.MaxCount))
	}
	if t.FlatnessRatio < 0 {
		errs = append(errs, fmt.Errorf("flatness_ratio must be >= 0, got %g", t.FlatnessRatio))
	}
	if t.AspectTolerance <= 0 {
		errs = append(errs, fmt.Errorf("aspect_tolerance must be > 0, got %g", t.AspectTolerance))
	}
	if t.TallAspect <= 0 || t.WideAspect < t.TallAspect {
		errs = append(errs, fmt.Errorf("need 0 < tall_aspect <= wide_aspect, got %g and %g", t.TallAspect, t.WideAspect))
	}
	if len(t.Catalog) == 0 {
		errs = append(errs, errors.New("catalog must not be empty"))
	}
	for _, l := range t.Catalog {
		if l.Rows < 1 || l.Cols < 1 {
			errs = append(errs, fmt.Errorf("catalog layout %s must have positive counts", l))
		}
	}
	return errors.Join(errs...)
}

// LoadTuning reads a JSON tuning file. Fields omitted from the file keep
// their default values; a catalog given in the file replaces the default one.
func LoadTuning(path string) (Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Tuning{}, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to stat tuning file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return Tuning{}, fmt.Errorf("tuning file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning file: %w", err)
	}

	t := DefaultTuning()
	if err := json.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning JSON: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}
