// Package srcasset contains the binary decoding primitives shared by the
// Source engine asset decoders in the bsp and vtf packages.
//
// All multi-byte values are fixed-width little-endian, matching the on-disk
// layout of both formats.
package srcasset

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Cursor sequentially decodes fixed-width fields from a byte buffer. Reads
// advance the position; a failed read leaves it unchanged.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of b. The buffer is not
// copied and must not be modified while the cursor is in use.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Pos returns the current absolute position.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of bytes after the current position.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) next(n int) ([]byte, error) {
	if n < 0 {
		panic("srcasset: negative read length")
	}
	if r := c.Remaining(); n > r {
		return nil, &UnexpectedEndError{Additional: n - r}
	}
	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

// Bytes returns the next n bytes as a sub-slice of the buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.next(n)
}

// Read fills dst from the buffer, as for a fixed-size byte array.
func (c *Cursor) Read(dst []byte) error {
	b, err := c.next(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// Skip advances the position by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.next(n)
	return err
}

// Seek moves to the absolute offset off, which may not be past the end of the
// buffer.
func (c *Cursor) Seek(off int) error {
	if off < 0 {
		panic("srcasset: negative seek offset")
	}
	if off > len(c.buf) {
		return &UnexpectedEndError{Additional: off - len(c.buf)}
	}
	c.pos = off
	return nil
}

// Signature reads a 4-byte magic tag and checks it against tag.
func (c *Cursor) Signature(tag string) error {
	if len(tag) != 4 {
		panic("srcasset: signature must be 4 bytes")
	}
	var found [4]byte
	if err := c.Read(found[:]); err != nil {
		return err
	}
	if string(found[:]) != tag {
		return &SignatureError{Expected: tag, Found: found}
	}
	return nil
}

func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) Uint64() (uint64, error) {
	b, err := c.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *Cursor) Int8() (int8, error) {
	v, err := c.Uint8()
	return int8(v), err
}

func (c *Cursor) Int16() (int16, error) {
	v, err := c.Uint16()
	return int16(v), err
}

func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

func (c *Cursor) Int64() (int64, error) {
	v, err := c.Uint64()
	return int64(v), err
}

func (c *Cursor) Float32() (float32, error) {
	v, err := c.Uint32()
	return math.Float32frombits(v), err
}

func (c *Cursor) Float64() (float64, error) {
	v, err := c.Uint64()
	return math.Float64frombits(v), err
}

// CString reads a NUL-terminated string, consuming the terminator.
func (c *Cursor) CString() (string, error) {
	i := bytes.IndexByte(c.buf[c.pos:], 0)
	if i < 0 {
		return "", &UnexpectedEndError{Additional: 1}
	}
	b, _ := c.next(i + 1)
	return string(b[:i]), nil
}

// DecodeArray decodes n consecutive elements with fn. It stops at the first
// error.
func DecodeArray[T any](c *Cursor, n int, fn func(*Cursor) (T, error)) ([]T, error) {
	s := make([]T, 0, max(0, min(n, c.Remaining())))
	for i := 0; i < n; i++ {
		v, err := fn(c)
		if err != nil {
			return nil, err
		}
		s = append(s, v)
	}
	return s, nil
}

// Slice returns b[off:off+n], or an *UnexpectedEndError if the range does not
// fit. Negative values and overflow are rejected without panicking.
func Slice(b []byte, off, n int64) ([]byte, error) {
	if off < 0 || n < 0 || off > int64(len(b)) {
		return nil, &UnexpectedEndError{Additional: int(max(n, 0))}
	}
	if avail := int64(len(b)) - off; n > avail {
		return nil, &UnexpectedEndError{Additional: int(n - avail)}
	}
	return b[off : off+n : off+n], nil
}
