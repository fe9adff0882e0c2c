package lumparchive

import (
	"fmt"
	"io"
	"slices"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec wraps an archive stream in a compression format.
type Codec interface {
	// Name is the name used to select the codec.
	Name() string
	// Ext is the file extension added after .tar, including the dot.
	Ext() string
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var builtinCodecs = map[string]Codec{
	"none": noneCodec{},
	"zstd": zstdCodec{},
	"lz4":  lz4Codec{},
	"s2":   s2Codec{},
	"gzip": gzipCodec{},
}

// GetCodec retrieves a built-in codec by name.
func GetCodec(name string) (Codec, error) {
	if c, ok := builtinCodecs[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unsupported codec %q (expected one of %v)", name, CodecNames())
}

// CodecNames returns the sorted names of the built-in codecs.
func CodecNames() []string {
	s := make([]string, 0, len(builtinCodecs))
	for n := range builtinCodecs {
		s = append(s, n)
	}
	slices.Sort(s)
	return s
}

// CodecForName picks a codec from the extension of an output filename,
// defaulting to none.
func CodecForName(fn string) Codec {
	for _, n := range CodecNames() {
		c := builtinCodecs[n]
		if x := c.Ext(); x != "" && len(fn) > len(x) && fn[len(fn)-len(x):] == x {
			return c
		}
	}
	return noneCodec{}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type noneCodec struct{}

func (noneCodec) Name() string { return "none" }
func (noneCodec) Ext() string  { return "" }

func (noneCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type zstdCodec struct{}

func (zstdCodec) Name() string { return "zstd" }
func (zstdCodec) Ext() string  { return ".zst" }

func (zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func (zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}

type lz4Codec struct{}

func (lz4Codec) Name() string { return "lz4" }
func (lz4Codec) Ext() string  { return ".lz4" }

func (lz4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (lz4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

type s2Codec struct{}

func (s2Codec) Name() string { return "s2" }
func (s2Codec) Ext() string  { return ".s2" }

func (s2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w), nil
}

func (s2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}

type gzipCodec struct{}

func (gzipCodec) Name() string { return "gzip" }
func (gzipCodec) Ext() string  { return ".gz" }

func (gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}
