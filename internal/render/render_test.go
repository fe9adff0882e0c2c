package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 0x80, 0xFF})
		}
	}
	return img
}

func TestEncode(t *testing.T) {
	img := testImage(8, 4)
	for _, x := range []struct {
		Format Format
		Decode func(*bytes.Reader) (image.Image, error)
	}{
		{PNG, func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) }},
		{TGA, func(r *bytes.Reader) (image.Image, error) { return tga.Decode(r) }},
		{BMP, func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) }},
		{TIFF, func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) }},
	} {
		t.Run(string(x.Format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, img, x.Format))

			got, err := x.Decode(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			require.Equal(t, img.Bounds().Size(), got.Bounds().Size())

			r, g, b, a := got.At(got.Bounds().Min.X+3, got.Bounds().Min.Y+2).RGBA()
			require.Equal(t, [4]uint32{48, 32, 0x80, 0xFF}, [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8})
		})
	}

	require.Error(t, Encode(&bytes.Buffer{}, img, "gif"))
}

func TestParseFormat(t *testing.T) {
	for s, want := range map[string]Format{"png": PNG, ".TGA": TGA, "bmp": BMP, "tif": TIFF, "TIFF": TIFF} {
		f, err := ParseFormat(s)
		require.NoError(t, err, s)
		require.Equal(t, want, f, s)
	}
	_, err := ParseFormat("jpg")
	require.Error(t, err)
}

func TestResize(t *testing.T) {
	img := testImage(64, 16)

	require.Same(t, img, Resize(img, 64))
	require.Same(t, img, Resize(img, 0))
	require.Equal(t, image.Pt(32, 8), Resize(img, 32).Bounds().Size())
	require.Equal(t, image.Pt(8, 32), Resize(testImage(16, 64), 32).Bounds().Size())
	require.Equal(t, image.Pt(4, 1), Resize(testImage(64, 2), 4).Bounds().Size())
}

func TestDataURI(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testImage(2, 2), PNG))

	s := DataURI(PNG, buf.Bytes())
	rest, ok := strings.CutPrefix(s, "data:image/png;base64,")
	require.True(t, ok)
	b, err := base64.StdEncoding.DecodeString(rest)
	require.NoError(t, err)
	require.Equal(t, buf.Bytes(), b)
}
