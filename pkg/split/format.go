package split

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Format is an output image format.
type Format string

const (
	PNG  Format = "PNG"
	JPEG Format = "JPEG"
	GIF  Format = "GIF"
	WEBP Format = "WEBP"
)

// Quality used by the lossy encoders.
const Quality = 95

// Formats lists the supported output formats.
var Formats = []Format{PNG, JPEG, GIF, WEBP}

// ParseFormat accepts a format name or extension in any case, e.g. "jpg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "PNG":
		return PNG, nil
	case "JPG", "JPEG":
		return JPEG, nil
	case "GIF":
		return GIF, nil
	case "WEBP":
		return WEBP, nil
	}
	return "", fmt.Errorf("unsupported output format %q (want one of %s)", s, formatList())
}

func formatList() string {
	exts := make([]string, len(Formats))
	for i, f := range Formats {
		exts[i] = f.Ext()
	}
	return strings.Join(exts, ", ")
}

// Ext is the file extension without the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return strings.ToLower(string(f))
}

// SupportsAlpha reports whether the format can store transparency.
func (f Format) SupportsAlpha() bool { return f != JPEG }

// Encode writes img to w.
func (f Format) Encode(w io.Writer, img image.Image) error {
	switch f {
	case PNG:
		return imaging.Encode(w, img, imaging.PNG)
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(Quality))
	case GIF:
		return imaging.Encode(w, img, imaging.GIF)
	case WEBP:
		return webp.Encode(w, img, &webp.Options{Quality: Quality})
	}
	return fmt.Errorf("unsupported output format %q", string(f))
}

// prepare flattens translucent cells onto white for formats without alpha.
func (f Format) prepare(img *image.NRGBA) image.Image {
	if f.SupportsAlpha() || img.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
