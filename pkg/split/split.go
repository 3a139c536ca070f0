// Package split cuts a sheet into its grid cells and writes one image file
// per cell.
package split

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/PhantomInTheWire/emoji-splitter/pkg/grid"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/sheet"
)

// Options controls where and how cells are written.
type Options struct {
	// OutputDir is created if missing. Empty means the sheet's default.
	OutputDir string
	Prefix    string
	// Format defaults to PNG.
	Format   Format
	Progress Progress
}

func (o Options) withDefaults(s *sheet.Sheet) Options {
	if o.OutputDir == "" {
		o.OutputDir = s.DefaultOutputDir()
	}
	if o.Format == "" {
		o.Format = PNG
	}
	if o.Progress == nil {
		o.Progress = noProgress{}
	}
	return o
}

// FileName is the name of the cell with the given 1-based index.
func FileName(prefix string, index int, f Format) string {
	return fmt.Sprintf("%s%02d.%s", prefix, index, f.Ext())
}

// Image splits s into layout.Rows×layout.Cols cells and writes them to
// opts.OutputDir in row-major order, returning the written paths.
//
// The layout is validated before anything is written. The first failing
// cell aborts the batch with an *ExportError; earlier files are left in
// place. ctx is checked between cells.
func Image(ctx context.Context, s *sheet.Sheet, layout grid.Layout, opts Options) ([]string, error) {
	cells, err := layout.Cells(s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults(s)
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = format

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	origin := s.Image.Bounds().Min
	total := len(cells)
	files := make([]string, 0, total)
	for _, cell := range cells {
		if err := ctx.Err(); err != nil {
			return files, fmt.Errorf("split cancelled after %d of %d cells: %w", len(files), total, err)
		}

		outFile := filepath.Join(opts.OutputDir, FileName(opts.Prefix, cell.Index, opts.Format))
		tile := imaging.Crop(s.Image, cell.Bounds.Add(origin))
		if err := writeCell(outFile, opts.Format.prepare(tile), opts.Format.Encode); err != nil {
			return files, &ExportError{Index: cell.Index, Written: len(files), Path: outFile, Err: err}
		}

		files = append(files, outFile)
		opts.Progress.Report(len(files), total)
	}
	return files, nil
}

// writeCell leaves no file behind when encoding or closing fails.
func writeCell(path string, img image.Image, encode func(io.Writer, image.Image) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("encode: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// Preview summarises what Image would produce.
type Preview struct {
	Count      int `json:"count"`
	CellWidth  int `json:"cell_width"`
	CellHeight int `json:"cell_height"`
}

func (p Preview) String() string {
	return fmt.Sprintf("%d cells of %dx%d px", p.Count, p.CellWidth, p.CellHeight)
}

// PreviewLayout validates layout against s and reports the cell count and
// size.
func PreviewLayout(s *sheet.Sheet, layout grid.Layout) (Preview, error) {
	if err := layout.Validate(s.Width, s.Height); err != nil {
		return Preview{}, err
	}
	w, h := layout.CellSize(s.Width, s.Height)
	return Preview{Count: layout.Count(), CellWidth: w, CellHeight: h}, nil
}
