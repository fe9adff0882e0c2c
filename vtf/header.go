package vtf

import (
	"fmt"

	"github.com/pg9182/srcasset"
)

// Signature is the VTF magic.
const Signature = "VTF\x00"

// Header is a VTF header. Fields after LowResHeight depend on the version.
type Header struct {
	VersionMajor  uint32
	VersionMinor  uint32
	HeaderSize    uint32
	Width         uint16
	Height        uint16
	Flags         uint32
	Frames        uint16
	FirstFrame    uint16
	Reflectivity  [3]float32
	BumpmapScale  float32
	HighResFormat Format
	MipmapCount   uint8
	LowResFormat  Format
	LowResWidth   uint8
	LowResHeight  uint8

	Depth        uint16 // 7.2+
	HasResources bool   // 7.3+
	NumResources uint32 // 7.3+
}

// Version returns the header version.
func (h *Header) Version() Version {
	return Version{h.VersionMajor, h.VersionMinor}
}

func (h *Header) decode(c *srcasset.Cursor) error {
	var err error
	if err = c.Signature(Signature); err != nil {
		return fmt.Errorf("read signature: %w", err)
	}
	if h.VersionMajor, err = c.Uint32(); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if h.VersionMinor, err = c.Uint32(); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if h.HeaderSize, err = c.Uint32(); err != nil {
		return fmt.Errorf("read header size: %w", err)
	}
	if h.Width, err = c.Uint16(); err != nil {
		return fmt.Errorf("read width: %w", err)
	}
	if h.Height, err = c.Uint16(); err != nil {
		return fmt.Errorf("read height: %w", err)
	}
	if h.Flags, err = c.Uint32(); err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	if h.Frames, err = c.Uint16(); err != nil {
		return fmt.Errorf("read frames: %w", err)
	}
	if h.FirstFrame, err = c.Uint16(); err != nil {
		return fmt.Errorf("read first frame: %w", err)
	}
	if err = c.Skip(4); err != nil {
		return fmt.Errorf("read padding: %w", err)
	}
	for i := range h.Reflectivity {
		if h.Reflectivity[i], err = c.Float32(); err != nil {
			return fmt.Errorf("read reflectivity: %w", err)
		}
	}
	if err = c.Skip(4); err != nil {
		return fmt.Errorf("read padding: %w", err)
	}
	if h.BumpmapScale, err = c.Float32(); err != nil {
		return fmt.Errorf("read bumpmap scale: %w", err)
	}
	if h.HighResFormat, err = decodeFormat(c); err != nil {
		return fmt.Errorf("read high-res format: %w", err)
	}
	if h.MipmapCount, err = c.Uint8(); err != nil {
		return fmt.Errorf("read mipmap count: %w", err)
	}
	if h.LowResFormat, err = decodeFormat(c); err != nil {
		return fmt.Errorf("read low-res format: %w", err)
	}
	if h.LowResWidth, err = c.Uint8(); err != nil {
		return fmt.Errorf("read low-res width: %w", err)
	}
	if h.LowResHeight, err = c.Uint8(); err != nil {
		return fmt.Errorf("read low-res height: %w", err)
	}
	return h.decodeExtensions(c)
}

func decodeFormat(c *srcasset.Cursor) (Format, error) {
	v, err := c.Int32()
	if err != nil {
		return FormatNone, err
	}
	return ParseFormat(v)
}

// ResourceEntry is an entry in the 7.3+ resource directory.
type ResourceEntry struct {
	Tag    [3]byte
	Flags  uint8
	Offset uint32 // or the inline value if Flags&ResourceNoData
}

// ResourceNoData is set on resources whose Offset holds the data itself.
const ResourceNoData = 0x02

var resourceNames = map[[3]byte]string{
	{0x01, 0x00, 0x00}: "low-res image",
	{0x30, 0x00, 0x00}: "high-res image",
	{0x10, 0x00, 0x00}: "animated particle sheet",
	{'C', 'R', 'C'}:    "CRC",
	{'L', 'O', 'D'}:    "LOD control",
	{'T', 'S', 'O'}:    "extended flags",
	{'K', 'V', 'D'}:    "key values",
}

// Name returns a description of well-known resource tags, or the quoted tag.
func (r ResourceEntry) Name() string {
	if n, ok := resourceNames[r.Tag]; ok {
		return n
	}
	return fmt.Sprintf("%q", r.Tag[:])
}

func decodeResourceEntry(c *srcasset.Cursor) (r ResourceEntry, err error) {
	if err = c.Read(r.Tag[:]); err != nil {
		return
	}
	if r.Flags, err = c.Uint8(); err != nil {
		return
	}
	r.Offset, err = c.Uint32()
	return
}
