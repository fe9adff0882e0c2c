package bsp

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pg9182/srcasset"
	"github.com/pg9182/srcasset/entities"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz/lzma"
)

// buildBSP lays out a map with the provided lump contents after the header.
func buildBSP(t *testing.T, version int32, lumps map[int][]byte) []byte {
	t.Helper()

	var data bytes.Buffer
	var hdr [NumLumps]Lump
	for i := 0; i < NumLumps; i++ {
		b, ok := lumps[i]
		if !ok {
			continue
		}
		hdr[i] = Lump{
			Offset:  int32(HeaderSize + data.Len()),
			Length:  int32(len(b)),
			Version: int32(i % 3),
		}
		if isLZMA(b) && len(b) >= 8 {
			copy(hdr[i].FourCC[:], b[4:8])
		}
		data.Write(b)
	}

	var buf bytes.Buffer
	buf.WriteString(Signature)
	binary.Write(&buf, binary.LittleEndian, version)
	for _, l := range hdr {
		binary.Write(&buf, binary.LittleEndian, l)
	}
	binary.Write(&buf, binary.LittleEndian, int32(1234))
	require.Equal(t, HeaderSize, buf.Len())

	buf.Write(data.Bytes())
	return buf.Bytes()
}

// wrapLZMA compresses b and wraps it the way vbsp stores compressed lumps.
func wrapLZMA(t *testing.T, b []byte) []byte {
	t.Helper()

	var z bytes.Buffer
	w, err := lzma.NewWriter(&z)
	require.NoError(t, err)
	_, err = w.Write(b)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	s := z.Bytes()
	props, compressed := s[:lzmaPropertiesSize], s[lzmaStreamHeader:]

	var buf bytes.Buffer
	buf.WriteString(LZMASignature)
	binary.Write(&buf, binary.LittleEndian, uint32(len(b)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(compressed)))
	buf.Write(props)
	buf.Write(compressed)
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	buf := buildBSP(t, 20, map[int][]byte{
		1: []byte("planes"),
		5: []byte("nodes!"),
	})
	b, err := Open(buf)
	require.NoError(t, err)
	require.Equal(t, int32(20), b.Header.Version)
	require.Equal(t, int32(1234), b.Header.MapRevision)
	require.Equal(t, int32(HeaderSize), b.Header.Lumps[1].Offset)
	require.Equal(t, int32(6), b.Header.Lumps[1].Length)
	require.Equal(t, int32(1), b.Header.Lumps[1].Version)
	require.Equal(t, int32(HeaderSize+6), b.Header.Lumps[5].Offset)
	require.Equal(t, len(buf), b.Size())
}

func TestOpenErrors(t *testing.T) {
	buf := buildBSP(t, 20, nil)

	_, err := Open(append([]byte("IBSP"), buf[4:]...))
	require.ErrorIs(t, err, srcasset.ErrSignatureMismatch)

	for _, n := range []int{0, 3, 8, 100, HeaderSize - 1} {
		_, err = Open(buf[:n])
		require.ErrorIs(t, err, srcasset.ErrUnexpectedEnd, "truncated to %d", n)
	}
}

func TestLumpRaw(t *testing.T) {
	lumps := map[int][]byte{
		0:  []byte("{\"classname\" \"worldspawn\"}\n\x00"),
		2:  {1, 2, 3},
		63: []byte("last"),
		7:  {0xAB},
	}
	buf := buildBSP(t, 20, lumps)
	b, err := Open(buf)
	require.NoError(t, err)

	for i := 0; i < NumLumps; i++ {
		got, err := b.Lump(i)
		require.NoError(t, err, "lump %d", i)

		l := b.Header.Lumps[i]
		require.Equal(t, buf[l.Offset:l.Offset+l.Length], got, "lump %d", i)
		if want, ok := lumps[i]; ok {
			require.Equal(t, want, got, "lump %d", i)
		} else {
			require.Empty(t, got, "lump %d", i)
		}

		compressed, err := b.Compressed(i)
		require.NoError(t, err)
		require.False(t, compressed)
	}

	for _, i := range []int{1, 62} {
		got, err := b.Lump(i)
		require.NoError(t, err)
		require.NotNil(t, got, "empty lump %d", i)
		got, err = b.RawLump(i)
		require.NoError(t, err)
		require.NotNil(t, got, "empty raw lump %d", i)
	}

	got, err := b.Lump(2)
	require.NoError(t, err)
	got[0] = 0xFF
	require.Equal(t, byte(1), buf[HeaderSize+len(lumps[0])], "returned lump must not alias the map buffer")
}

func TestLumpIndex(t *testing.T) {
	b, err := Open(buildBSP(t, 20, nil))
	require.NoError(t, err)

	for _, i := range []int{-1, NumLumps, NumLumps + 1, 1 << 20} {
		_, err := b.Lump(i)
		var le *LumpIndexError
		require.ErrorAs(t, err, &le, "index %d", i)
		require.Equal(t, i, le.Index)

		_, err = b.RawLump(i)
		require.ErrorAs(t, err, &le)

		_, err = b.Compressed(i)
		require.ErrorAs(t, err, &le)
	}
}

func TestLumpOutOfRange(t *testing.T) {
	buf := buildBSP(t, 20, map[int][]byte{3: make([]byte, 16)})

	// truncate the map so lump 3 runs past the end
	b, err := Open(buf[:len(buf)-4])
	require.NoError(t, err)
	_, err = b.Lump(3)
	var ue *srcasset.UnexpectedEndError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, 4, ue.Additional)

	// negative offsets and lengths
	b, err = Open(buf)
	require.NoError(t, err)
	b.Header.Lumps[4] = Lump{Offset: -8, Length: 4}
	_, err = b.Lump(4)
	require.ErrorIs(t, err, srcasset.ErrUnexpectedEnd)
	b.Header.Lumps[4] = Lump{Offset: 0, Length: -1}
	_, err = b.Lump(4)
	require.ErrorIs(t, err, srcasset.ErrUnexpectedEnd)
}

func TestLumpLZMA(t *testing.T) {
	plain := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)
	wrapped := wrapLZMA(t, plain)

	buf := buildBSP(t, 21, map[int][]byte{
		8:  wrapped,
		9:  []byte("LZM"),
		10: []byte("LZMB........................"),
	})
	b, err := Open(buf)
	require.NoError(t, err)

	compressed, err := b.Compressed(8)
	require.NoError(t, err)
	require.True(t, compressed)
	require.Equal(t, [4]byte{byte(len(plain)), byte(len(plain) >> 8)}, b.Header.Lumps[8].FourCC)

	got, err := b.Lump(8)
	require.NoError(t, err)
	require.Equal(t, plain, got)

	raw, err := b.RawLump(8)
	require.NoError(t, err)
	require.Equal(t, wrapped, raw)

	// too short to carry a tag, or the wrong tag, means stored raw
	got, err = b.Lump(9)
	require.NoError(t, err)
	require.Equal(t, []byte("LZM"), got)
	got, err = b.Lump(10)
	require.NoError(t, err)
	require.Equal(t, []byte("LZMB........................"), got)
}

func TestReframeLZMA(t *testing.T) {
	plain := bytes.Repeat([]byte{0, 1, 2, 3}, 1000)
	wrapped := wrapLZMA(t, plain)

	s, h, err := reframeLZMA(wrapped)
	require.NoError(t, err)
	require.Equal(t, uint32(len(plain)), h.ActualSize)
	require.Equal(t, uint32(len(wrapped)-lzmaWrapperSize), h.CompressedSize)
	require.Len(t, s, lzmaStreamHeader+len(wrapped)-lzmaWrapperSize)

	require.Equal(t, 13, lzmaStreamHeader)
	require.Equal(t, wrapped[12:17], s[:5], "properties")
	require.Equal(t, uint64(len(plain)), binary.LittleEndian.Uint64(s[5:13]), "widened size")
	require.Equal(t, wrapped[lzmaWrapperSize:], s[lzmaStreamHeader:], "compressed data")

	// the widened field is zero-extended
	big := append([]byte(nil), wrapped...)
	binary.LittleEndian.PutUint32(big[4:], 0xFFFFFFFF)
	s, _, err = reframeLZMA(big)
	require.NoError(t, err)
	require.Equal(t, uint64(0xFFFFFFFF), binary.LittleEndian.Uint64(s[5:13]))
}

func TestLumpLZMAErrors(t *testing.T) {
	plain := bytes.Repeat([]byte("abcdefgh"), 512)
	wrapped := wrapLZMA(t, plain)

	buf := buildBSP(t, 21, map[int][]byte{
		1: wrapped[:len(wrapped)/2],
		2: []byte("LZMA\x01\x02"),
		3: append(append([]byte(nil), wrapped[:lzmaWrapperSize]...), 0xFF, 0xFF, 0xFF, 0xFF),
	})
	b, err := Open(buf)
	require.NoError(t, err)

	for _, i := range []int{1, 2, 3} {
		_, err := b.Lump(i)
		var de *DecompressError
		require.ErrorAs(t, err, &de, "lump %d", i)
		require.Equal(t, i, de.Lump)
		require.Error(t, de.Unwrap())
	}

	_, err = b.Lump(2)
	require.ErrorIs(t, err, srcasset.ErrUnexpectedEnd)
}

func TestLumpLZMASizeLimit(t *testing.T) {
	wrapped := wrapLZMA(t, bytes.Repeat([]byte{0}, 1<<16))

	huge := append([]byte(nil), wrapped[:lzmaWrapperSize]...)
	binary.LittleEndian.PutUint32(huge[4:], 0xFFFFFFF0)

	// claims more than the stream holds, but within the limit
	short := append([]byte(nil), wrapped...)
	binary.LittleEndian.PutUint32(short[4:], 1<<17)

	b, err := Open(buildBSP(t, 21, map[int][]byte{1: huge, 2: short, 3: wrapped}))
	require.NoError(t, err)

	_, err = b.Lump(1)
	var de *DecompressError
	require.ErrorAs(t, err, &de)
	require.ErrorContains(t, err, "implausible")

	_, err = b.Lump(2)
	require.ErrorAs(t, err, &de)

	got, err := b.Lump(3)
	require.NoError(t, err)
	require.Len(t, got, 1<<16)
}

func TestEntities(t *testing.T) {
	text := []byte("{\n\"classname\" \"worldspawn\"\n\"skyname\" \"sky_day01_01\"\n}\n{\n\"classname\" \"logic_relay\"\n\"OnTrigger\" \"a,Open,,0,-1\"\n\"OnTrigger\" \"b,Close,,1,-1\"\n}\n\x00")

	for name, lump := range map[string][]byte{
		"Raw":  text,
		"LZMA": wrapLZMA(t, text),
	} {
		t.Run(name, func(t *testing.T) {
			b, err := Open(buildBSP(t, 20, map[int][]byte{LumpEntities: lump}))
			require.NoError(t, err)

			ents, err := b.Entities()
			require.NoError(t, err)
			require.Equal(t, []entities.Record{
				{{Key: "classname", Value: "worldspawn"}, {Key: "skyname", Value: "sky_day01_01"}},
				{{Key: "classname", Value: "logic_relay"}, {Key: "OnTrigger", Value: "a,Open,,0,-1"}, {Key: "OnTrigger", Value: "b,Close,,1,-1"}},
			}, ents)
		})
	}

	b, err := Open(buildBSP(t, 20, map[int][]byte{LumpEntities: []byte(`"a" "b"`)}))
	require.NoError(t, err)
	_, err = b.Entities()
	require.ErrorIs(t, err, entities.ErrSyntax)
}

func TestLumpName(t *testing.T) {
	require.Equal(t, "ENTITIES", LumpName(LumpEntities))
	require.Equal(t, "PAKFILE", LumpName(LumpPakfile))
	require.Equal(t, "DISP_MULTIBLEND", LumpName(63))
	require.Equal(t, "LUMP_64", LumpName(64))
}

func TestParseLumpIndex(t *testing.T) {
	for s, want := range map[string]int{"0": 0, "63": 63, "entities": 0, "PAKFILE": 40, "lump_pakfile": 40, "Game_Lump": 35} {
		i, err := ParseLumpIndex(s)
		require.NoError(t, err, s)
		require.Equal(t, want, i, s)
	}
	_, err := ParseLumpIndex("64")
	var le *LumpIndexError
	require.ErrorAs(t, err, &le)
	_, err = ParseLumpIndex("-1")
	require.ErrorAs(t, err, &le)
	_, err = ParseLumpIndex("nope")
	require.ErrorContains(t, err, "unknown lump")
}
