// Package vpk reads Respawn (Titanfall 2) VPK archives, which is where the
// game's maps and textures are shipped.
package vpk

import (
	"fmt"
	"strconv"

	"github.com/pg9182/srcasset"
)

// Titanfall 2 VPK constants.
const (
	Magic                    uint32 = 0x55AA1234
	VersionMajor             uint16 = 2
	VersionMinor             uint16 = 3
	MaxChunkUncompressedSize uint64 = 0x100000

	magicBytes = "\x34\x12\xAA\x55"
	headerSize = 4 + 2 + 2 + 4 + 4
)

// Index is a VPK block index.
type Index uint16

const (
	IndexDir Index = 0x7FFF // data stored after the tree in _dir.vpk
	IndexEOF Index = 0xFFFF // chunk list terminator
)

func (i Index) String() string {
	switch i {
	case IndexDir:
		return "dir"
	case IndexEOF:
		return "EOF"
	default:
		return fmt.Sprintf("%03d", uint16(i))
	}
}

func (i Index) GoString() string {
	switch i {
	case IndexDir:
		return "vpk.IndexDir"
	case IndexEOF:
		return "vpk.IndexEOF"
	default:
		return "vpk.Index(" + strconv.FormatUint(uint64(i), 10) + ")"
	}
}

// Dir is the directory tree of a VPK.
type Dir struct {
	MajorVersion uint16
	MinorVersion uint16
	TreeSize     uint32
	File         []File
}

// File is a file in a VPK.
type File struct {
	Path         string
	CRC32        uint32
	PreloadBytes uint16
	Index        Index
	Chunk        []Chunk
}

// Chunk is a (possibly LZHAM-compressed) piece of a File.
type Chunk struct {
	LoadFlags        uint32
	TextureFlags     uint16
	Offset           uint64
	CompressedSize   uint64
	UncompressedSize uint64
}

// Compressed checks if a chunk is compressed.
func (c Chunk) Compressed() bool {
	return c.CompressedSize != c.UncompressedSize
}

// Size returns the uncompressed size of the file.
func (f File) Size() (n uint64) {
	for _, c := range f.Chunk {
		n += c.UncompressedSize
	}
	return
}

// CompressedSize returns the stored size of the file.
func (f File) CompressedSize() (n uint64) {
	for _, c := range f.Chunk {
		n += c.CompressedSize
	}
	return
}

// LoadFlags gets the load flags for the file.
func (f File) LoadFlags() (uint32, error) {
	if len(f.Chunk) == 0 {
		return 0, fmt.Errorf("invalid file: no chunks")
	}
	return f.Chunk[0].LoadFlags, nil
}

// TextureFlags gets the texture flags for the file.
func (f File) TextureFlags() (uint16, error) {
	if len(f.Chunk) == 0 {
		return 0, fmt.Errorf("invalid file: no chunks")
	}
	return f.Chunk[0].TextureFlags, nil
}

// DataOffset returns the offset in the _dir.vpk of chunk data for files with
// Index == IndexDir.
func (d *Dir) DataOffset() int64 {
	return headerSize + int64(d.TreeSize)
}

// ParseDir parses the header and tree at the start of a _dir.vpk. Trailing
// data is ignored.
func ParseDir(buf []byte) (*Dir, error) {
	var d Dir
	c := srcasset.NewCursor(buf)
	if err := c.Signature(magicBytes); err != nil {
		return nil, fmt.Errorf("read dir magic: %w", err)
	}
	var err error
	if d.MajorVersion, err = c.Uint16(); err != nil {
		return nil, fmt.Errorf("read major version: %w", err)
	}
	if d.MinorVersion, err = c.Uint16(); err != nil {
		return nil, fmt.Errorf("read minor version: %w", err)
	}
	if d.MajorVersion != VersionMajor || d.MinorVersion != VersionMinor {
		return nil, fmt.Errorf("unsupported dir version %d.%d (expected %d.%d)", d.MajorVersion, d.MinorVersion, VersionMajor, VersionMinor)
	}
	if d.TreeSize, err = c.Uint32(); err != nil {
		return nil, fmt.Errorf("read tree size: %w", err)
	}
	if ds, err := c.Uint32(); err != nil {
		return nil, fmt.Errorf("read data size: %w", err)
	} else if ds != 0 {
		return nil, fmt.Errorf("read data size: preload data is not supported")
	}
	tree, err := c.Bytes(int(d.TreeSize))
	if err != nil {
		return nil, fmt.Errorf("read directory tree: %w", err)
	}
	if d.File, err = parseTree(srcasset.NewCursor(tree)); err != nil {
		return nil, fmt.Errorf("read directory tree: %w", err)
	}
	return &d, nil
}

// parseTree reads the extension, then path, then name levels of the tree,
// each terminated by an empty string. A path of a single space is the root.
func parseTree(c *srcasset.Cursor) ([]File, error) {
	var files []File
	for {
		ext, err := c.CString()
		if err != nil {
			return nil, fmt.Errorf("read extension: %w", err)
		}
		if ext == "" {
			break
		}
		for {
			dir, err := c.CString()
			if err != nil {
				return nil, fmt.Errorf("read path: %w", err)
			}
			if dir == "" {
				break
			}
			for {
				name, err := c.CString()
				if err != nil {
					return nil, fmt.Errorf("read name: %w", err)
				}
				if name == "" {
					break
				}
				fn := name + "." + ext
				if dir != " " {
					fn = dir + "/" + fn
				}
				f, err := parseFile(c, fn)
				if err != nil {
					return nil, fmt.Errorf("read file data for %q: %w", fn, err)
				}
				files = append(files, f)
			}
		}
	}
	if n := c.Remaining(); n != 0 {
		return nil, fmt.Errorf("tree ended %d bytes before the tree size", n)
	}
	return files, nil
}

func parseFile(c *srcasset.Cursor, path string) (File, error) {
	f := File{Path: path}
	var err error
	if f.CRC32, err = c.Uint32(); err != nil {
		return f, fmt.Errorf("read crc32: %w", err)
	}
	if f.PreloadBytes, err = c.Uint16(); err != nil {
		return f, fmt.Errorf("read preload bytes: %w", err)
	} else if f.PreloadBytes != 0 {
		return f, fmt.Errorf("non-zero preload bytes are not supported")
	}
	var idx uint16
	if idx, err = c.Uint16(); err != nil {
		return f, fmt.Errorf("read archive index: %w", err)
	}
	f.Index = Index(idx)
	for {
		ch, err := parseChunk(c)
		if err != nil {
			return f, fmt.Errorf("read chunk %d: %w", len(f.Chunk), err)
		}
		f.Chunk = append(f.Chunk, ch)

		term, err := c.Uint16()
		if err != nil {
			return f, fmt.Errorf("read chunk terminator: %w", err)
		}
		if Index(term) == IndexEOF {
			break
		} else if Index(term) != f.Index {
			return f, fmt.Errorf("non-eof chunk terminator %#04x must equal the block index", term)
		}
	}
	return f, nil
}

func parseChunk(c *srcasset.Cursor) (ch Chunk, err error) {
	if ch.LoadFlags, err = c.Uint32(); err != nil {
		return ch, fmt.Errorf("read load flags: %w", err)
	}
	if ch.TextureFlags, err = c.Uint16(); err != nil {
		return ch, fmt.Errorf("read texture flags: %w", err)
	}
	if ch.Offset, err = c.Uint64(); err != nil {
		return ch, fmt.Errorf("read archive offset: %w", err)
	}
	if ch.CompressedSize, err = c.Uint64(); err != nil {
		return ch, fmt.Errorf("read compressed size: %w", err)
	} else if ch.CompressedSize == 0 {
		return ch, fmt.Errorf("read compressed size: must be non-zero")
	}
	if ch.UncompressedSize, err = c.Uint64(); err != nil {
		return ch, fmt.Errorf("read uncompressed size: %w", err)
	} else if ch.UncompressedSize == 0 {
		return ch, fmt.Errorf("read uncompressed size: must be non-zero")
	} else if ch.UncompressedSize > MaxChunkUncompressedSize {
		return ch, fmt.Errorf("read uncompressed size: %d larger than %d", ch.UncompressedSize, MaxChunkUncompressedSize)
	}
	return ch, nil
}

// Names for flag 1<<index.
var (
	loadFlags = [32]string{
		0:  "VISIBLE",
		8:  "CACHE",
		10: "ACACHE_UNK0",
		18: "TEXTURE_UNK0",
		19: "TEXTURE_UNK1",
		20: "TEXTURE_UNK2",
	}
	textureFlags = [16]string{
		3:  "DEFAULT",
		10: "ENVIRONMENT_MAP",
	}
)

// DescribeLoadFlags returns a human-readable slice of strings describing the
// provided load flags.
func DescribeLoadFlags(flags uint32) []string {
	return describe(uint64(flags), loadFlags[:])
}

// DescribeTextureFlags returns a human-readable slice of strings describing the
// provided texture flags.
func DescribeTextureFlags(flags uint16) []string {
	return describe(uint64(flags), textureFlags[:])
}

func describe(flags uint64, names []string) (s []string) {
	for i, x := range names {
		if flags&(uint64(1)<<i) != 0 {
			if x != "" {
				x = ":" + x
			}
			s = append(s, fmt.Sprintf("%02d%s", i, x))
		}
	}
	return
}
