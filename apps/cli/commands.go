package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"

	"github.com/PhantomInTheWire/emoji-splitter/apps/internal/s3flags"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/detect"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/grid"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/sheet"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/split"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/storage"
)

type TuningFlag struct {
	Tuning string `help:"JSON file overriding detection constants." type:"existingfile" env:"EMOJISPLIT_TUNING"`
}

func (f TuningFlag) detector() (*detect.Detector, error) {
	if f.Tuning == "" {
		return detect.New(detect.DefaultTuning()), nil
	}
	t, err := detect.LoadTuning(f.Tuning)
	if err != nil {
		return nil, err
	}
	return detect.New(t), nil
}

type detectCmd struct {
	TuningFlag `embed:""`
	Sheet string `arg:"" help:"Sheet image." type:"existingfile"`
	JSON  bool   `help:"Print the result as JSON."`
}

func (c *detectCmd) Run() error {
	s, err := sheet.Open(c.Sheet)
	if err != nil {
		return err
	}
	d, err := c.detector()
	if err != nil {
		return err
	}
	res := d.Detect(s)

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Sheet  string `json:"sheet"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
			detect.Result
		}{s.Path, s.Width, s.Height, res})
	}

	fmt.Printf("%s: %dx%d px\n", s.Path, s.Width, s.Height)
	switch res.Confidence {
	case detect.Structural:
		fmt.Printf("Detected grid: %d rows x %d cols\n", res.Layout.Rows, res.Layout.Cols)
	default:
		fmt.Printf("Estimated grid: %d rows x %d cols (from aspect ratio, %s)\n", res.Layout.Rows, res.Layout.Cols, res.Stage)
	}
	fmt.Printf("Each cell is about %d x %d px\n", res.CellWidth, res.CellHeight)
	return nil
}

type splitCmd struct {
	TuningFlag `embed:""`
	Sheet  string `arg:"" help:"Sheet image." type:"existingfile"`
	Rows   int    `help:"Row count." default:"3" env:"EMOJISPLIT_ROWS"`
	Cols   int    `help:"Column count." default:"3" env:"EMOJISPLIT_COLS"`
	Auto   bool   `help:"Detect rows and columns instead of using --rows/--cols." env:"EMOJISPLIT_AUTO"`
	Out    string `short:"o" help:"Output directory (default: split/ next to the sheet)." env:"EMOJISPLIT_OUT"`
	Prefix string `help:"File name prefix (default: sheet name plus underscore)." env:"EMOJISPLIT_PREFIX"`
	Format string `help:"Output format: png, jpg, gif or webp." default:"png" env:"EMOJISPLIT_FORMAT"`

	S3 s3flags.Flags `embed:"" prefix:"s3-" group:"Upload"`
}

func (c *splitCmd) Run() error {
	s, err := sheet.Open(c.Sheet)
	if err != nil {
		return err
	}
	format, err := split.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	layout := grid.Layout{Rows: c.Rows, Cols: c.Cols}
	if c.Auto {
		d, err := c.detector()
		if err != nil {
			return err
		}
		res := d.Detect(s)
		log.Printf("detected %s", res)
		layout = res.Layout
	}

	preview, err := split.PreviewLayout(s, layout)
	if err != nil {
		return err
	}
	log.Printf("→ %s (%dx%d): %s %s", s.Path, s.Width, s.Height, layout, preview)

	opts := split.Options{
		OutputDir: c.Out,
		Prefix:    c.Prefix,
		Format:    format,
		Progress: split.ProgressFunc(func(done, total int) {
			log.Printf("processing %d/%d", done, total)
		}),
	}
	if opts.OutputDir == "" {
		opts.OutputDir = s.DefaultOutputDir()
	}
	if opts.Prefix == "" {
		opts.Prefix = s.DefaultPrefix()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files, err := split.Image(ctx, s, layout, opts)
	if err != nil {
		return err
	}
	log.Printf("Saved %d cells to %s", len(files), opts.OutputDir)

	if c.S3.Bucket == "" {
		return nil
	}
	cfg := c.S3.Config("")
	if cfg.Prefix == "" {
		cfg.Prefix = path.Join("cells", s.BaseName())
	}
	u, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}
	keys, err := u.UploadFiles(ctx, files)
	log.Printf("Uploaded %d/%d cells to s3://%s/%s", len(keys), len(files), cfg.Bucket, cfg.Prefix)
	return err
}
