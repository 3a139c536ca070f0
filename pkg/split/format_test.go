package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"png":   PNG,
		"PNG":   PNG,
		"jpg":   JPEG,
		"JPEG":  JPEG,
		".jpeg": JPEG,
		"gif":   GIF,
		" WebP": WEBP,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("bmp")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestFormatExtAndAlpha(t *testing.T) {
	assert.Equal(t, "png", PNG.Ext())
	assert.Equal(t, "jpg", JPEG.Ext())
	assert.Equal(t, "gif", GIF.Ext())
	assert.Equal(t, "webp", WEBP.Ext())

	assert.False(t, JPEG.SupportsAlpha())
	for _, f := range []Format{PNG, GIF, WEBP} {
		assert.True(t, f.SupportsAlpha(), f)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "party_01.png", FileName("party_", 1, PNG))
	assert.Equal(t, "12.jpg", FileName("", 12, JPEG))
	assert.Equal(t, "e100.gif", FileName("e", 100, GIF))
}

func TestParseFormatErrorListsFormats(t *testing.T) {
	_, err := ParseFormat("tga")
	assert.EqualError(t, err, `unsupported output format "tga" (want one of png, jpg, gif, webp)`)
}
