// Package sheet holds the source image a split session works on.
//
// A Sheet is loaded once and passed explicitly to detection and slicing;
// nothing in this module keeps the current image in package state.
package sheet

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrInput is matched by every InputError.
var ErrInput = errors.New("invalid input image")

// InputError reports a sheet that cannot be decoded or has no pixels.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("input image: %v", e.Err)
	}
	return fmt.Sprintf("input image %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func (e *InputError) Is(target error) bool { return target == ErrInput }

// Sheet is a decoded source image and where it came from.
type Sheet struct {
	Path   string
	Image  image.Image
	Width  int
	Height int
}

// Open decodes the image at path, applying EXIF orientation.
func Open(path string) (*Sheet, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	return New(path, img)
}

// Decode reads a sheet from r. name is only used for defaults and messages.
func Decode(r io.Reader, name string) (*Sheet, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &InputError{Path: name, Err: err}
	}
	return New(name, img)
}

// New wraps an already decoded image.
func New(path string, img image.Image) (*Sheet, error) {
	if img == nil {
		return nil, &InputError{Path: path, Err: errors.New("no image")}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &InputError{Path: path, Err: fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())}
	}
	return &Sheet{Path: path, Image: img, Width: b.Dx(), Height: b.Dy()}, nil
}

// BaseName is the file name without directory and extension.
func (s *Sheet) BaseName() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DefaultPrefix names cells after the sheet, e.g. "party_" for party.png.
func (s *Sheet) DefaultPrefix() string {
	if s.Path == "" {
		return "emoji_"
	}
	return s.BaseName() + "_"
}

// DefaultOutputDir is a "split" directory next to the sheet.
func (s *Sheet) DefaultOutputDir() string {
	if s.Path == "" {
		return "split"
	}
	return filepath.Join(filepath.Dir(s.Path), "split")
}
