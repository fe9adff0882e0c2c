// Package render turns decoded textures into image files.
package render

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"slices"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format is an output image format.
type Format string

const (
	PNG  Format = "png"
	TGA  Format = "tga"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists the supported formats.
var Formats = []Format{PNG, TGA, BMP, TIFF}

// ParseFormat parses a format name, ignoring case and a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(s), "."))
	if f == "tif" {
		f = TIFF
	}
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unsupported image format %q", s)
	}
	return f, nil
}

// MIME returns the media type for f.
func (f Format) MIME() string {
	switch f {
	case PNG:
		return "image/png"
	case TGA:
		return "image/x-tga"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// Encode writes img to w as f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case TGA:
		err = tga.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image format %q", string(f))
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// Resize scales img down to fit within size x size, keeping the aspect ratio.
// Images which already fit are returned unchanged.
func Resize(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if size <= 0 || (w <= size && h <= size) {
		return img
	}
	if w >= h {
		w, h = size, max(1, h*size/w)
	} else {
		w, h = max(1, w*size/h), size
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// DataURI wraps encoded image data in a data: URI.
func DataURI(f Format, data []byte) string {
	return "data:" + f.MIME() + ";base64," + base64.StdEncoding.EncodeToString(data)
}
