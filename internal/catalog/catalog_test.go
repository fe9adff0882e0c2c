package catalog

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/pg9182/srcasset/bsp"
	"github.com/pg9182/srcasset/internal/lumparchive"
	"github.com/pg9182/srcasset/vtf"
	"github.com/stretchr/testify/require"
)

func testMap(t *testing.T, ents string) *bsp.BSP {
	t.Helper()

	var hdr [bsp.NumLumps]bsp.Lump
	hdr[bsp.LumpEntities] = bsp.Lump{Offset: bsp.HeaderSize, Length: int32(len(ents))}

	var buf bytes.Buffer
	buf.WriteString(bsp.Signature)
	binary.Write(&buf, binary.LittleEndian, int32(20))
	binary.Write(&buf, binary.LittleEndian, hdr)
	binary.Write(&buf, binary.LittleEndian, int32(42))
	buf.WriteString(ents)

	b, err := bsp.Open(buf.Bytes())
	require.NoError(t, err)
	return b
}

// testTexture builds a 7.1 RGBA8888 texture with a single 2x2 level. If pix is
// false, the pixel data is left out.
func testTexture(t *testing.T, pix bool) *vtf.VTF {
	t.Helper()

	var buf bytes.Buffer
	le := func(v any) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	buf.WriteString(vtf.Signature)
	le([3]uint32{7, 1, 80})
	le([2]uint16{2, 2})
	le(uint32(0x2000))
	le([2]uint16{1, 0})
	le([4]byte{})
	le([3]float32{})
	le([4]byte{})
	le(float32(1))
	le(int32(vtf.FormatRGBA8888))
	le(uint8(1))
	le(int32(vtf.FormatDXT1))
	le([2]uint8{0, 0})
	buf.Write(make([]byte, 80-buf.Len()))
	if pix {
		buf.Write(bytes.Repeat([]byte{0xFF}, 16))
	}

	v, err := vtf.Open(buf.Bytes())
	require.NoError(t, err)
	return v
}

func TestCatalog(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer c.Close()

	ents := "{\"classname\" \"worldspawn\"}\n{\"classname\" \"light\"}\n\x00"
	m, err := c.AddMap("maps/mp_box.bsp", testMap(t, ents))
	require.NoError(t, err)
	require.Equal(t, 2, m.Entities)
	require.Equal(t, lumparchive.Digest([]byte(ents)), m.XXHash)

	_, err = c.AddMap("maps/broken.bsp", testMap(t, "\"a\""))
	require.NoError(t, err)

	ms, err := c.Maps("")
	require.NoError(t, err)
	require.Len(t, ms, 2)
	require.Equal(t, "maps/broken.bsp", ms[0].Path)
	require.Equal(t, 0, ms[0].Entities)
	require.Equal(t, m, ms[1])
	require.Equal(t, int32(42), ms[1].Revision)

	x, err := c.AddTexture("materials/dev/a.vtf", testTexture(t, true))
	require.NoError(t, err)
	require.Equal(t, "7.1", x.Version)
	require.Equal(t, "RGBA8888", x.Format)
	require.Equal(t, 1, x.Mips)
	require.Empty(t, x.Error)

	_, err = c.AddTexture("materials/dev/b.vtf", testTexture(t, false))
	require.NoError(t, err)
	_, err = c.AddTexture("models/c.vtf", testTexture(t, true))
	require.NoError(t, err)

	xs, err := c.Textures("materials/%")
	require.NoError(t, err)
	require.Len(t, xs, 2)
	require.Equal(t, x, xs[0])
	require.Equal(t, "materials/dev/b.vtf", xs[1].Path)
	require.NotEmpty(t, xs[1].Error)
	require.Equal(t, 0, xs[1].Mips)
	require.Equal(t, uint32(0x2000), xs[1].Flags)

	// re-adding replaces the row
	_, err = c.AddTexture("materials/dev/b.vtf", testTexture(t, true))
	require.NoError(t, err)
	xs, err = c.Textures("%/b.vtf")
	require.NoError(t, err)
	require.Len(t, xs, 1)
	require.Empty(t, xs[0].Error)

	require.NoError(t, c.Remove("models/c.vtf"))
	require.NoError(t, c.Remove("missing"))
	xs, err = c.Textures("")
	require.NoError(t, err)
	require.Len(t, xs, 2)
}

func TestReopen(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "catalog.db")

	c, err := Open(fn)
	require.NoError(t, err)
	_, err = c.AddTexture("a.vtf", testTexture(t, true))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(fn)
	require.NoError(t, err)
	defer c.Close()
	xs, err := c.Textures("")
	require.NoError(t, err)
	require.Len(t, xs, 1)
}
