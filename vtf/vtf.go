// Package vtf reads Valve Texture Format images.
//
// A VTF stores every mipmap level of every frame of a texture, smallest level
// first. Open decodes the header and computes the location of each level up
// front; Extract converts a single frame of a single level to RGBA8888.
package vtf

import (
	"fmt"
	"image"
	"strconv"

	"github.com/pg9182/srcasset"
	"github.com/pg9182/srcasset/internal/bcn"
)

// UnexpectedMipMapError is returned for a mipmap index outside the texture.
type UnexpectedMipMapError struct {
	Count int
	Found int
}

func (e *UnexpectedMipMapError) Error() string {
	return "mipmap " + strconv.Itoa(e.Found) + " out of range (texture has " + strconv.Itoa(e.Count) + ")"
}

// UnexpectedFrameError is returned for a frame index outside the texture.
type UnexpectedFrameError struct {
	Count int
	Found int
}

func (e *UnexpectedFrameError) Error() string {
	return "frame " + strconv.Itoa(e.Found) + " out of range (texture has " + strconv.Itoa(e.Count) + ")"
}

// MipLevel is a single mipmap level.
type MipLevel struct {
	Width  int
	Height int
	Frames []Frame
}

// Frame is the location of the image data for a frame of a MipLevel.
type Frame struct {
	Offset int
	Length int
}

// Image is a decoded frame as tightly packed RGBA8888.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// RGBA wraps the image data without copying it.
func (m *Image) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    m.Pix,
		Stride: m.Width * 4,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// VTF is a decoded texture. It is immutable and safe for concurrent use.
type VTF struct {
	buf       []byte
	Header    Header
	resources []ResourceEntry
	mips      []MipLevel
	mipsErr   error
}

// Open decodes the texture in buf. The VTF retains buf, which must not be
// modified afterwards.
//
// Errors in the header are returned immediately. Errors computing the mipmap
// table are returned by Mips and Extract instead, so the header of a texture
// in an unsupported format can still be inspected.
func Open(buf []byte) (*VTF, error) {
	v := &VTF{buf: buf}
	c := srcasset.NewCursor(buf)

	if err := v.Header.decode(c); err != nil {
		return nil, fmt.Errorf("read vtf header: %w", err)
	}
	if err := c.Skip(8); err != nil {
		return nil, fmt.Errorf("read vtf header: read padding: %w", err)
	}
	if v.Header.HasResources {
		r, err := srcasset.DecodeArray(c, int(v.Header.NumResources), decodeResourceEntry)
		if err != nil {
			return nil, fmt.Errorf("read vtf header: read resources: %w", err)
		}
		v.resources = r
	}
	if err := c.Seek(int(v.Header.HeaderSize)); err != nil {
		return nil, fmt.Errorf("seek to end of header (%d): %w", v.Header.HeaderSize, err)
	}
	if err := c.Skip(bcn.Size(bcn.BC1, int(v.Header.LowResWidth), int(v.Header.LowResHeight))); err != nil {
		return nil, fmt.Errorf("skip %dx%d thumbnail: %w", v.Header.LowResWidth, v.Header.LowResHeight, err)
	}
	v.mips, v.mipsErr = v.Header.mipTable(c)
	return v, nil
}

// mipTable computes the location of each frame of each mipmap level, starting
// at the current position of c. If any level fails, no table is returned.
func (h *Header) mipTable(c *srcasset.Cursor) ([]MipLevel, error) {
	mips := make([]MipLevel, 0, h.MipmapCount)
	for i := int(h.MipmapCount) - 1; i >= 0; i-- {
		m := MipLevel{
			Width:  max(1, int(h.Width)>>i),
			Height: max(1, int(h.Height)>>i),
			Frames: make([]Frame, h.Frames),
		}
		n, err := h.HighResFormat.Size(m.Width, m.Height)
		if err != nil {
			return nil, fmt.Errorf("mipmap %d: %w", len(mips), err)
		}
		for f := range m.Frames {
			m.Frames[f] = Frame{Offset: c.Pos(), Length: n}
			if err := c.Skip(n); err != nil {
				return nil, fmt.Errorf("mipmap %d (%dx%d) frame %d: %w", len(mips), m.Width, m.Height, f, err)
			}
		}
		mips = append(mips, m)
	}
	return mips, nil
}

// Size returns the total length of the texture buffer.
func (v *VTF) Size() int {
	return len(v.buf)
}

// Resources returns the resource directory. The second return value is false
// if the version predates resources, as opposed to having none.
func (v *VTF) Resources() ([]ResourceEntry, bool) {
	if !v.Header.HasResources {
		return nil, false
	}
	return v.resources, true
}

// Mips returns the mipmap levels, smallest first, or the error encountered
// while computing them.
func (v *VTF) Mips() ([]MipLevel, error) {
	return v.mips, v.mipsErr
}

// Extract decodes a frame of a mipmap level (0 is the smallest) to RGBA8888.
func (v *VTF) Extract(mip, frame int) (*Image, error) {
	if v.mipsErr != nil {
		return nil, v.mipsErr
	}
	if mip < 0 || mip >= len(v.mips) {
		return nil, &UnexpectedMipMapError{Count: int(v.Header.MipmapCount), Found: mip}
	}
	m := v.mips[mip]
	if frame < 0 || frame >= len(m.Frames) {
		return nil, &UnexpectedFrameError{Count: int(v.Header.Frames), Found: frame}
	}
	f := m.Frames[frame]

	src, err := srcasset.Slice(v.buf, int64(f.Offset), int64(f.Length))
	if err != nil {
		return nil, fmt.Errorf("mipmap %d frame %d: %w", mip, frame, err)
	}
	pix, err := Convert(v.Header.HighResFormat, src, m.Width, m.Height)
	if err != nil {
		return nil, fmt.Errorf("mipmap %d frame %d: %w", mip, frame, err)
	}
	return &Image{Width: m.Width, Height: m.Height, Pix: pix}, nil
}

// PreviewLevel chooses the mipmap level to use for a thumbnail of at most size
// pixels on each side: the largest one which fits, or the smallest if none do.
// The result may still need to be scaled down.
func (v *VTF) PreviewLevel(size int) (int, error) {
	if v.mipsErr != nil {
		return 0, v.mipsErr
	}
	if len(v.mips) <= 1 {
		return 0, nil
	}
	for i := len(v.mips) - 1; i >= 0; i-- {
		if m := v.mips[i]; max(m.Width, m.Height) <= size {
			return i, nil
		}
	}
	return 0, nil
}
