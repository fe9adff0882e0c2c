// Package bcn decodes BC1, BC2 and BC3 (DXT1, DXT3 and DXT5) block-compressed
// textures into RGBA8888.
package bcn

import (
	"encoding/binary"
	"fmt"

	"github.com/pg9182/srcasset"
)

// Codec is a block compression scheme.
type Codec int

const (
	BC1 Codec = iota + 1
	BC2
	BC3
)

func (c Codec) String() string {
	switch c {
	case BC1:
		return "BC1"
	case BC2:
		return "BC2"
	case BC3:
		return "BC3"
	}
	return fmt.Sprintf("Codec(%d)", int(c))
}

// BlockSize returns the number of bytes in a 4x4 block.
func (c Codec) BlockSize() int {
	switch c {
	case BC1:
		return 8
	case BC2, BC3:
		return 16
	}
	panic("bcn: unknown codec " + c.String())
}

// Size returns the compressed size of a w x h image. Partial blocks at the
// edges are stored whole, so anything up to 4x4 takes exactly one block.
func Size(c Codec, w, h int) int {
	return ((w + 3) / 4) * ((h + 3) / 4) * c.BlockSize()
}

// Decode decompresses src into dst, which must hold w*h*4 bytes. Texels of
// edge blocks which fall outside the image are discarded.
func Decode(c Codec, dst, src []byte, w, h int) error {
	if n := Size(c, w, h); len(src) < n {
		return fmt.Errorf("decode %s: %w", c, &srcasset.UnexpectedEndError{Additional: n - len(src)})
	}
	if len(dst) < w*h*4 {
		return fmt.Errorf("decode %s: destination too small (%d < %d)", c, len(dst), w*h*4)
	}

	var (
		bs    = c.BlockSize()
		bw    = (w + 3) / 4
		bh    = (h + 3) / 4
		block [16][4]byte
	)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			b := src[(by*bw+bx)*bs:][:bs]
			switch c {
			case BC1:
				decodeColor(&block, b, true)
			case BC2:
				decodeColor(&block, b[8:], false)
				decodeExplicitAlpha(&block, b[:8])
			case BC3:
				decodeColor(&block, b[8:], false)
				decodeInterpolatedAlpha(&block, b[:8])
			}
			for py := 0; py < 4; py++ {
				y := by*4 + py
				if y >= h {
					break
				}
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					if x >= w {
						break
					}
					copy(dst[(y*w+x)*4:], block[py*4+px][:])
				}
			}
		}
	}
	return nil
}

// expand565 converts a packed RGB565 color to 8 bits per channel.
func expand565(v uint16) (r, g, b int) {
	r = int(v>>11) & 0x1F
	g = int(v>>5) & 0x3F
	b = int(v) & 0x1F
	return r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2
}

// decodeColor decodes an 8-byte color block. When dxt1 is set and c0 <= c1,
// the block uses three colors and index 3 is transparent black.
func decodeColor(block *[16][4]byte, b []byte, dxt1 bool) {
	c0 := binary.LittleEndian.Uint16(b[0:])
	c1 := binary.LittleEndian.Uint16(b[2:])
	indices := binary.LittleEndian.Uint32(b[4:])

	r0, g0, b0 := expand565(c0)
	r1, g1, b1 := expand565(c1)

	var palette [4][4]byte
	palette[0] = [4]byte{byte(r0), byte(g0), byte(b0), 255}
	palette[1] = [4]byte{byte(r1), byte(g1), byte(b1), 255}
	if dxt1 && c0 <= c1 {
		palette[2] = [4]byte{byte((r0 + r1) / 2), byte((g0 + g1) / 2), byte((b0 + b1) / 2), 255}
		palette[3] = [4]byte{0, 0, 0, 0}
	} else {
		palette[2] = [4]byte{byte((2*r0 + r1) / 3), byte((2*g0 + g1) / 3), byte((2*b0 + b1) / 3), 255}
		palette[3] = [4]byte{byte((r0 + 2*r1) / 3), byte((g0 + 2*g1) / 3), byte((b0 + 2*b1) / 3), 255}
	}
	for i := range block {
		block[i] = palette[(indices>>(2*i))&3]
	}
}

// decodeExplicitAlpha applies the 4-bit alpha values of a BC2 block.
func decodeExplicitAlpha(block *[16][4]byte, b []byte) {
	for i := range block {
		v := b[i/2] >> (4 * (i % 2)) & 0xF
		block[i][3] = v<<4 | v
	}
}

// decodeInterpolatedAlpha applies the 3-bit alpha indices of a BC3 block.
func decodeInterpolatedAlpha(block *[16][4]byte, b []byte) {
	a0, a1 := int(b[0]), int(b[1])

	var palette [8]byte
	palette[0], palette[1] = byte(a0), byte(a1)
	if a0 > a1 {
		for i := 1; i < 7; i++ {
			palette[i+1] = byte(((7-i)*a0 + i*a1) / 7)
		}
	} else {
		for i := 1; i < 5; i++ {
			palette[i+1] = byte(((5-i)*a0 + i*a1) / 5)
		}
		palette[6], palette[7] = 0, 255
	}

	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(b[2+i]) << (8 * i)
	}
	for i := range block {
		block[i][3] = palette[(bits>>(3*i))&7]
	}
}
