package bsp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pg9182/srcasset"
	"github.com/ulikunitz/xz/lzma"
)

// LZMASignature is the magic at the start of a compressed lump.
const LZMASignature = "LZMA"

const (
	lzmaPropertiesSize = 5
	lzmaWrapperSize    = 4 + 4 + 4 + lzmaPropertiesSize // as stored in the lump
	lzmaStreamHeader   = lzmaPropertiesSize + 8         // classic .lzma header
)

// Limits on the stored decompressed size relative to the compressed data. A
// size beyond them is rejected before anything is allocated.
const (
	lzmaMaxRatio = 1 << 14
	lzmaMinLimit = 1 << 16
)

// DecompressError wraps a failure to decompress a lump.
type DecompressError struct {
	Lump int
	Err  error
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("decompress lump %d: %v", e.Lump, e.Err)
}

func (e *DecompressError) Unwrap() error {
	return e.Err
}

// lzmaHeader is the header Valve prepends to compressed lumps instead of the
// standard one.
type lzmaHeader struct {
	ActualSize     uint32
	CompressedSize uint32
	Properties     [lzmaPropertiesSize]byte
}

func isLZMA(buf []byte) bool {
	return len(buf) >= 4 && string(buf[:4]) == LZMASignature
}

func (h *lzmaHeader) decode(c *srcasset.Cursor) error {
	var err error
	if err = c.Signature(LZMASignature); err != nil {
		return err
	}
	if h.ActualSize, err = c.Uint32(); err != nil {
		return fmt.Errorf("read actual size: %w", err)
	}
	if h.CompressedSize, err = c.Uint32(); err != nil {
		return fmt.Errorf("read compressed size: %w", err)
	}
	if err = c.Read(h.Properties[:]); err != nil {
		return fmt.Errorf("read properties: %w", err)
	}
	return nil
}

// reframeLZMA converts a compressed lump into a standard LZMA stream: the
// properties, the decompressed size widened to 64 bits, then the compressed
// data unchanged.
func reframeLZMA(buf []byte) ([]byte, lzmaHeader, error) {
	var h lzmaHeader
	c := srcasset.NewCursor(buf)
	if err := h.decode(c); err != nil {
		return nil, h, fmt.Errorf("read lzma header: %w", err)
	}
	rest, _ := c.Bytes(c.Remaining())

	s := make([]byte, lzmaStreamHeader, lzmaStreamHeader+len(rest))
	copy(s, h.Properties[:])
	binary.LittleEndian.PutUint64(s[lzmaPropertiesSize:], uint64(h.ActualSize))
	return append(s, rest...), h, nil
}

func decompressLZMA(buf []byte) ([]byte, error) {
	s, h, err := reframeLZMA(buf)
	if err != nil {
		return nil, err
	}
	compressed := int64(len(s) - lzmaStreamHeader)
	if limit := compressed*lzmaMaxRatio + lzmaMinLimit; int64(h.ActualSize) > limit {
		return nil, fmt.Errorf("actual size %d is implausible for %d compressed bytes (limit %d)", h.ActualSize, compressed, limit)
	}
	r, err := lzma.NewReader(bytes.NewReader(s))
	if err != nil {
		return nil, err
	}
	out := bytes.NewBuffer(make([]byte, 0, min(int64(h.ActualSize), compressed*8+lzmaMinLimit)))
	if n, err := io.Copy(out, io.LimitReader(r, int64(h.ActualSize))); err != nil {
		return nil, err
	} else if n != int64(h.ActualSize) {
		return nil, fmt.Errorf("got %d bytes, expected %d: %w", n, h.ActualSize, io.ErrUnexpectedEOF)
	}
	return out.Bytes(), nil
}
