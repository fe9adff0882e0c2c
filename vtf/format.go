package vtf

import (
	"errors"
	"fmt"

	"github.com/pg9182/srcasset"
	"github.com/pg9182/srcasset/internal/bcn"
)

// Format is a VTF image format.
type Format int32

const (
	FormatNone Format = iota - 1
	FormatRGBA8888
	FormatABGR8888
	FormatRGB888
	FormatBGR888
	FormatRGB565
	FormatI8
	FormatIA88
	FormatP8
	FormatA8
	FormatRGB888BlueScreen
	FormatBGR888BlueScreen
	FormatARGB8888
	FormatBGRA8888
	FormatDXT1
	FormatDXT3
	FormatDXT5
	FormatBGRX8888
	FormatBGR565
	FormatBGRX5551
	FormatBGRA4444
	FormatDXT1OneBitAlpha
	FormatBGRA5551
	FormatUV88
	FormatUVWQ8888
	FormatRGBA16161616F
	FormatRGBA16161616
	FormatUVLX8888
)

var formatNames = [...]string{
	"NONE",
	"RGBA8888", "ABGR8888", "RGB888", "BGR888", "RGB565", "I8", "IA88", "P8", "A8",
	"RGB888_BLUESCREEN", "BGR888_BLUESCREEN", "ARGB8888", "BGRA8888",
	"DXT1", "DXT3", "DXT5", "BGRX8888", "BGR565", "BGRX5551", "BGRA4444",
	"DXT1_ONEBITALPHA", "BGRA5551", "UV88", "UVWQ8888",
	"RGBA16161616F", "RGBA16161616", "UVLX8888",
}

func (f Format) String() string {
	if f >= FormatNone && f <= FormatUVLX8888 {
		return formatNames[f+1]
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// ParseFormat converts a stored discriminant into a Format.
func ParseFormat(v int32) (Format, error) {
	switch v {
	case -1:
		return FormatNone, nil
	case 0:
		return FormatRGBA8888, nil
	case 1:
		return FormatABGR8888, nil
	case 2:
		return FormatRGB888, nil
	case 3:
		return FormatBGR888, nil
	case 4:
		return FormatRGB565, nil
	case 5:
		return FormatI8, nil
	case 6:
		return FormatIA88, nil
	case 7:
		return FormatP8, nil
	case 8:
		return FormatA8, nil
	case 9:
		return FormatRGB888BlueScreen, nil
	case 10:
		return FormatBGR888BlueScreen, nil
	case 11:
		return FormatARGB8888, nil
	case 12:
		return FormatBGRA8888, nil
	case 13:
		return FormatDXT1, nil
	case 14:
		return FormatDXT3, nil
	case 15:
		return FormatDXT5, nil
	case 16:
		return FormatBGRX8888, nil
	case 17:
		return FormatBGR565, nil
	case 18:
		return FormatBGRX5551, nil
	case 19:
		return FormatBGRA4444, nil
	case 20:
		return FormatDXT1OneBitAlpha, nil
	case 21:
		return FormatBGRA5551, nil
	case 22:
		return FormatUV88, nil
	case 23:
		return FormatUVWQ8888, nil
	case 24:
		return FormatRGBA16161616F, nil
	case 25:
		return FormatRGBA16161616, nil
	case 26:
		return FormatUVLX8888, nil
	}
	return FormatNone, &srcasset.InvalidVariantError{
		Type:  "vtf.Format",
		Min:   int64(FormatNone),
		Max:   int64(FormatUVLX8888),
		Found: int64(v),
	}
}

// ErrUnsupportedFormat is matched by *FormatError.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatError is returned for an image format which cannot be decoded.
type FormatError struct {
	Format Format
}

func (e *FormatError) Error() string {
	return "unsupported image format " + e.Format.String()
}

func (e *FormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// formatInfo describes how to size and convert a supported format. Formats
// missing from formats cannot be decoded.
type formatInfo struct {
	size    func(w, h int) int
	convert func(dst, src []byte, w, h int) error
}

func packed(bpp int) func(w, h int) int {
	return func(w, h int) int { return w * h * bpp }
}

func compressed(c bcn.Codec) formatInfo {
	return formatInfo{
		size: func(w, h int) int { return bcn.Size(c, w, h) },
		convert: func(dst, src []byte, w, h int) error {
			return bcn.Decode(c, dst, src, w, h)
		},
	}
}

var formats = map[Format]formatInfo{
	FormatRGBA8888: {packed(4), func(dst, src []byte, w, h int) error {
		copy(dst, src[:w*h*4])
		return nil
	}},
	FormatABGR8888:         {packed(4), swizzle(4, 3, 2, 1, 0)},
	FormatRGB888:           {packed(3), swizzle(3, 0, 1, 2, -1)},
	FormatBGR888:           {packed(3), swizzle(3, 2, 1, 0, -1)},
	FormatI8:               {packed(1), swizzle(1, 0, 0, 0, -1)},
	FormatA8:               {packed(1), convertA8},
	FormatRGB888BlueScreen: {packed(3), bluescreen(0, 1, 2, [3]byte{0, 0, 255})},
	FormatBGR888BlueScreen: {packed(3), bluescreen(2, 1, 0, [3]byte{255, 0, 0})},
	FormatARGB8888:         {packed(4), swizzle(4, 1, 2, 3, 0)},
	FormatBGRA8888:         {packed(4), swizzle(4, 2, 1, 0, 3)},
	FormatDXT1:             compressed(bcn.BC1),
	FormatDXT3:             compressed(bcn.BC2),
	FormatDXT5:             compressed(bcn.BC3),
}

// swizzle returns a converter for uncompressed formats with bpp bytes per
// texel, taking each output channel from the given input byte. An alpha index
// of -1 means opaque.
func swizzle(bpp, r, g, b, a int) func(dst, src []byte, w, h int) error {
	return func(dst, src []byte, w, h int) error {
		for i, j := 0, 0; i < w*h*4; i, j = i+4, j+bpp {
			t := src[j : j+bpp]
			dst[i+0] = t[r]
			dst[i+1] = t[g]
			dst[i+2] = t[b]
			if a < 0 {
				dst[i+3] = 255
			} else {
				dst[i+3] = t[a]
			}
		}
		return nil
	}
}

// bluescreen is like swizzle for 3-byte formats, but leaves texels matching
// key (in stored order) fully transparent.
func bluescreen(r, g, b int, key [3]byte) func(dst, src []byte, w, h int) error {
	return func(dst, src []byte, w, h int) error {
		for i, j := 0, 0; i < w*h*4; i, j = i+4, j+3 {
			t := src[j : j+3]
			if [3]byte(t) == key {
				continue
			}
			dst[i+0] = t[r]
			dst[i+1] = t[g]
			dst[i+2] = t[b]
			dst[i+3] = 255
		}
		return nil
	}
}

func convertA8(dst, src []byte, w, h int) error {
	for i := 0; i < w*h; i++ {
		dst[i*4+3] = src[i]
	}
	return nil
}

// Supported checks whether f has a size and conversion rule.
func (f Format) Supported() bool {
	_, ok := formats[f]
	return ok
}

// Size returns the number of bytes a w x h image occupies in format f.
func (f Format) Size(w, h int) (int, error) {
	info, ok := formats[f]
	if !ok {
		return 0, &FormatError{f}
	}
	return info.size(w, h), nil
}

// Convert decodes a w x h image stored in format f into a new RGBA8888 buffer.
// Trailing bytes in src are ignored.
func Convert(f Format, src []byte, w, h int) ([]byte, error) {
	info, ok := formats[f]
	if !ok {
		return nil, &FormatError{f}
	}
	if n := info.size(w, h); len(src) < n {
		return nil, &srcasset.UnexpectedEndError{Additional: n - len(src)}
	}
	dst := make([]byte, w*h*4)
	if err := info.convert(dst, src, w, h); err != nil {
		return nil, fmt.Errorf("convert %s: %w", f, err)
	}
	return dst, nil
}
