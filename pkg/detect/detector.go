package detect

import (
	"fmt"
	"image"

	"github.com/PhantomInTheWire/emoji-splitter/pkg/grid"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/sheet"
)

// Confidence tells the caller how much to trust a detected layout.
type Confidence string

const (
	Structural Confidence = "structural"
	Heuristic  Confidence = "heuristic"
)

// Stage names the attempt that produced a layout.
type Stage string

const (
	StageStructural Stage = "structural"
	StageCatalog    Stage = "catalog"
	StageClosedForm Stage = "closed-form"
)

// Confidence maps a stage to the label surfaced to callers.
func (s Stage) Confidence() Confidence {
	if s == StageStructural {
		return Structural
	}
	return Heuristic
}

// Result is a detected layout plus how it was obtained.
type Result struct {
	Layout     grid.Layout `json:"layout"`
	Confidence Confidence  `json:"confidence"`
	Stage      Stage       `json:"stage"`
	CellWidth  int         `json:"cell_width"`
	CellHeight int         `json:"cell_height"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s (%s via %s, cells %dx%d px)",
		r.Layout, r.Confidence, r.Stage, r.CellWidth, r.CellHeight)
}

// attempt is one step of the fallback chain. ok=false hands over to the
// next step.
type attempt func(img image.Image, width, height int) (l grid.Layout, stage Stage, ok bool)

// Detector infers grid layouts.
type Detector struct {
	tuning   Tuning
	attempts []attempt
}

// New returns a Detector using t.
func New(t Tuning) *Detector {
	d := &Detector{tuning: t}
	d.attempts = []attempt{d.structural, d.catalog, d.closedForm}
	return d
}

// Detect returns a layout for s. It never fails: when the pixel data is
// inconclusive the layout comes from the aspect-ratio heuristics.
func (d *Detector) Detect(s *sheet.Sheet) Result {
	for _, try := range d.attempts {
		if l, stage, ok := try(s.Image, s.Width, s.Height); ok {
			return newResult(l, stage, s.Width, s.Height)
		}
	}
	// closedForm always succeeds; kept so the chain has a defined end.
	return newResult(grid.Layout{Rows: 1, Cols: 1}, StageClosedForm, s.Width, s.Height)
}

// DetectImage is Detect for a bare image.
func (d *Detector) DetectImage(img image.Image) (Result, error) {
	s, err := sheet.New("", img)
	if err != nil {
		return Result{}, err
	}
	return d.Detect(s), nil
}

func (d *Detector) structural(img image.Image, width, height int) (grid.Layout, Stage, bool) {
	p := VarianceProfiles(Luminance(img))
	rows, okRows := FindGridCount(p.Rows, height, d.tuning)
	if !okRows {
		return grid.Layout{}, StageStructural, false
	}
	cols, okCols := FindGridCount(p.Cols, width, d.tuning)
	if !okCols {
		return grid.Layout{}, StageStructural, false
	}
	return grid.Layout{Rows: rows, Cols: cols}, StageStructural, true
}

func (d *Detector) catalog(_ image.Image, width, height int) (grid.Layout, Stage, bool) {
	l, _, ok := CatalogMatch(width, height, d.tuning)
	return l, StageCatalog, ok
}

func (d *Detector) closedForm(_ image.Image, width, height int) (grid.Layout, Stage, bool) {
	return ClosedForm(width, height, d.tuning), StageClosedForm, true
}

func newResult(l grid.Layout, stage Stage, width, height int) Result {
	cw, ch := l.CellSize(width, height)
	return Result{
		Layout:     l,
		Confidence: stage.Confidence(),
		Stage:      stage,
		CellWidth:  cw,
		CellHeight: ch,
	}
}
