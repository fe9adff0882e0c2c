package srcasset

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorScalars(t *testing.T) {
	b := []byte{
		0xFF,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0x00, 0x00, 0x80, 0x3F,
		0xFE, 0xFF, 0xFF, 0xFF,
	}
	c := NewCursor(b)

	u8, err := c.Uint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xFF), u8)

	u16, err := c.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := c.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), u32)

	u64, err := c.Uint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	f32, err := c.Float32()
	require.NoError(t, err)
	require.Equal(t, float32(1), f32)

	i32, err := c.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(-2), i32)

	require.Equal(t, len(b), c.Pos())
	require.Zero(t, c.Remaining())
}

func TestCursorFloat64(t *testing.T) {
	var b [8]byte
	bits := math.Float64bits(-2.5)
	for i := range b {
		b[i] = byte(bits >> (8 * i))
	}
	v, err := NewCursor(b[:]).Float64()
	require.NoError(t, err)
	require.Equal(t, -2.5, v)
}

func TestCursorUnexpectedEnd(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	require.NoError(t, c.Skip(1))

	_, err := c.Uint32()
	var ue *UnexpectedEndError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, 2, ue.Additional)
	require.ErrorIs(t, err, ErrUnexpectedEnd)
	require.Equal(t, 1, c.Pos(), "failed read must not advance")

	v, err := c.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0302), v)
}

func TestCursorSeek(t *testing.T) {
	c := NewCursor(make([]byte, 16))
	require.NoError(t, c.Seek(16))
	require.Equal(t, 16, c.Pos())
	require.NoError(t, c.Seek(4))
	require.Equal(t, 12, c.Remaining())

	err := c.Seek(20)
	var ue *UnexpectedEndError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, 4, ue.Additional)
	require.Equal(t, 4, c.Pos())

	require.Error(t, c.Skip(13))
	require.NoError(t, c.Skip(12))
}

func TestCursorSignature(t *testing.T) {
	for _, x := range []struct {
		Input []byte
		Tag   string
		Err   error
	}{
		{[]byte("VBSP"), "VBSP", nil},
		{[]byte("VTF\x00"), "VTF\x00", nil},
		{[]byte("LZMA\x01"), "LZMA", nil},
		{[]byte("IBSP"), "VBSP", ErrSignatureMismatch},
		{[]byte("VTF "), "VTF\x00", ErrSignatureMismatch},
		{[]byte("VB"), "VBSP", ErrUnexpectedEnd},
	} {
		err := NewCursor(x.Input).Signature(x.Tag)
		if x.Err == nil {
			require.NoError(t, err, "signature %q", x.Tag)
		} else {
			require.ErrorIs(t, err, x.Err, "signature %q", x.Tag)
		}
	}

	var se *SignatureError
	require.True(t, errors.As(NewCursor([]byte("IBSP")).Signature("VBSP"), &se))
	require.Equal(t, "VBSP", se.Expected)
	require.Equal(t, [4]byte{'I', 'B', 'S', 'P'}, se.Found)
}

func TestDecodeArray(t *testing.T) {
	c := NewCursor([]byte{1, 0, 2, 0, 3, 0, 4})
	v, err := DecodeArray(c, 3, (*Cursor).Uint16)
	require.NoError(t, err)
	require.Equal(t, []uint16{1, 2, 3}, v)

	_, err = DecodeArray(c, 1, (*Cursor).Uint16)
	require.ErrorIs(t, err, ErrUnexpectedEnd)

	v, err = DecodeArray(NewCursor(nil), 0, (*Cursor).Uint16)
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Empty(t, v)
}

func TestSlice(t *testing.T) {
	b := []byte{0, 1, 2, 3, 4}
	for _, x := range []struct {
		Off, N     int64
		Want       []byte
		Additional int
	}{
		{0, 5, []byte{0, 1, 2, 3, 4}, 0},
		{1, 3, []byte{1, 2, 3}, 0},
		{5, 0, []byte{}, 0},
		{4, 2, nil, 1},
		{6, 0, nil, 0},
		{-1, 2, nil, 2},
		{0, -1, nil, 0},
		{2, math.MaxInt64, nil, math.MaxInt64 - 3},
	} {
		got, err := Slice(b, x.Off, x.N)
		if x.Want != nil {
			require.NoError(t, err, "slice(%d, %d)", x.Off, x.N)
			require.Equal(t, x.Want, got)
			continue
		}
		var ue *UnexpectedEndError
		require.ErrorAs(t, err, &ue, "slice(%d, %d)", x.Off, x.N)
		require.Equal(t, x.Additional, ue.Additional, "slice(%d, %d)", x.Off, x.N)
	}
}

func TestCursorCString(t *testing.T) {
	c := NewCursor([]byte("vtf\x00\x00materials/x\x00abc"))

	s, err := c.CString()
	require.NoError(t, err)
	require.Equal(t, "vtf", s)

	s, err = c.CString()
	require.NoError(t, err)
	require.Equal(t, "", s)

	s, err = c.CString()
	require.NoError(t, err)
	require.Equal(t, "materials/x", s)

	pos := c.Pos()
	_, err = c.CString()
	require.ErrorIs(t, err, ErrUnexpectedEnd)
	require.Equal(t, pos, c.Pos())
}
