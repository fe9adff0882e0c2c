package vtf

import (
	"fmt"

	"github.com/pg9182/srcasset"
)

// Version is a VTF format version.
type Version struct {
	Major, Minor uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast compares v against o as a (major, minor) tuple.
func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	return v.Minor >= o.Minor
}

// headerExtensions are the fields appended to the fixed header, in stored
// order, keyed by the first version which has them.
var headerExtensions = []struct {
	Since  Version
	Name   string
	Decode func(h *Header, c *srcasset.Cursor) error
}{
	{Version{7, 2}, "depth", func(h *Header, c *srcasset.Cursor) (err error) {
		h.Depth, err = c.Uint16()
		return
	}},
	{Version{7, 3}, "resource count", func(h *Header, c *srcasset.Cursor) (err error) {
		if err = c.Skip(3); err != nil {
			return
		}
		h.HasResources = true
		h.NumResources, err = c.Uint32()
		return
	}},
}

func (h *Header) decodeExtensions(c *srcasset.Cursor) error {
	v := h.Version()
	for _, x := range headerExtensions {
		if v.AtLeast(x.Since) {
			if err := x.Decode(h, c); err != nil {
				return fmt.Errorf("read %s (%s+): %w", x.Name, x.Since, err)
			}
		}
	}
	return nil
}
