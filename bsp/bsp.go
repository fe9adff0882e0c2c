// Package bsp reads Source engine maps (VBSP).
package bsp

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pg9182/srcasset"
	"github.com/pg9182/srcasset/entities"
)

// Signature is the VBSP magic.
const Signature = "VBSP"

// NumLumps is the number of lump descriptors in a VBSP header.
const NumLumps = 64

// HeaderSize is the encoded size of Header.
const HeaderSize = 4 + 4 + NumLumps*16 + 4

// Header is a VBSP header.
type Header struct {
	Version     int32
	Lumps       [NumLumps]Lump
	MapRevision int32
}

// Lump describes a chunk of the map. A zero FourCC means the lump is not
// compressed, but only the LZMA tag at the start of the data is authoritative.
type Lump struct {
	Offset  int32
	Length  int32
	Version int32
	FourCC  [4]byte
}

// LumpIndexError is returned for a lump index outside 0 to NumLumps-1.
type LumpIndexError struct {
	Index int
}

func (e *LumpIndexError) Error() string {
	return "lump index " + strconv.Itoa(e.Index) + " out of range (0-" + strconv.Itoa(NumLumps-1) + ")"
}

// BSP is a decoded map. It is immutable and safe for concurrent use.
type BSP struct {
	buf    []byte
	Header Header
}

// Open decodes the header of the map in buf. The BSP retains buf, which must
// not be modified afterwards.
func Open(buf []byte) (*BSP, error) {
	b := &BSP{buf: buf}
	if err := b.Header.decode(srcasset.NewCursor(buf)); err != nil {
		return nil, fmt.Errorf("read bsp header: %w", err)
	}
	return b, nil
}

func (h *Header) decode(c *srcasset.Cursor) error {
	var err error
	if err = c.Signature(Signature); err != nil {
		return fmt.Errorf("read signature: %w", err)
	}
	if h.Version, err = c.Int32(); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	for i := range h.Lumps {
		if err = h.Lumps[i].decode(c); err != nil {
			return fmt.Errorf("read lump %d: %w", i, err)
		}
	}
	if h.MapRevision, err = c.Int32(); err != nil {
		return fmt.Errorf("read map revision: %w", err)
	}
	return nil
}

func (l *Lump) decode(c *srcasset.Cursor) error {
	var err error
	if l.Offset, err = c.Int32(); err != nil {
		return err
	}
	if l.Length, err = c.Int32(); err != nil {
		return err
	}
	if l.Version, err = c.Int32(); err != nil {
		return err
	}
	return c.Read(l.FourCC[:])
}

// Size returns the total length of the map buffer.
func (b *BSP) Size() int {
	return len(b.buf)
}

func (b *BSP) slice(i int) ([]byte, error) {
	if i < 0 || i >= NumLumps {
		return nil, &LumpIndexError{i}
	}
	l := b.Header.Lumps[i]
	buf, err := srcasset.Slice(b.buf, int64(l.Offset), int64(l.Length))
	if err != nil {
		return nil, fmt.Errorf("lump %d: %w", i, err)
	}
	return buf, nil
}

// RawLump returns a copy of the stored bytes of lump i.
func (b *BSP) RawLump(i int) ([]byte, error) {
	buf, err := b.slice(i)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(buf), nil
}

// Compressed checks whether lump i is wrapped in LZMA.
func (b *BSP) Compressed(i int) (bool, error) {
	buf, err := b.slice(i)
	if err != nil {
		return false, err
	}
	return isLZMA(buf), nil
}

// Lump returns the contents of lump i, decompressing it if it is wrapped in
// LZMA. The returned slice is owned by the caller.
func (b *BSP) Lump(i int) ([]byte, error) {
	buf, err := b.slice(i)
	if err != nil {
		return nil, err
	}
	if !isLZMA(buf) {
		return bytes.Clone(buf), nil
	}
	out, err := decompressLZMA(buf)
	if err != nil {
		return nil, &DecompressError{Lump: i, Err: err}
	}
	return out, nil
}

// Entities parses the entities lump.
func (b *BSP) Entities() ([]entities.Record, error) {
	buf, err := b.Lump(LumpEntities)
	if err != nil {
		return nil, err
	}
	return entities.ParseBytes(buf)
}
