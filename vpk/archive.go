package vpk

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pg9182/srcasset/internal"
	"github.com/pg9182/tf2lzham"
)

// ReaderAtCloser is an open VPK block.
type ReaderAtCloser interface {
	io.ReaderAt
	io.Closer
}

// ChecksumError is returned when the contents of a file do not match the
// stored CRC32.
type ChecksumError struct {
	Path     string
	Expected uint32
	Actual   uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s: crc mismatch: expected %08X, got %08X", e.Path, e.Expected, e.Actual)
}

// Archive reads files from a VPK. It is safe for concurrent use.
type Archive struct {
	Dir *Dir

	// Parallel is the maximum number of chunks of a file to decompress at
	// once. Values less than 1 are treated as 1.
	Parallel int

	blocks  map[Index]io.ReaderAt
	closers []io.Closer
	byPath  map[string]int // normalized
	exact   map[string]int
}

// Open opens the VPK containing the block at filename, which is usually the
// _dir.vpk.
func Open(filename, prefix string) (*Archive, error) {
	dir, fn := filepath.Split(filename)
	name, _, err := SplitName(fn, prefix)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(filepath.Join(dir, JoinName(prefix, name, IndexDir)))
	if err != nil {
		return nil, err
	}
	return NewArchive(buf, func(i Index) (ReaderAtCloser, error) {
		return os.Open(filepath.Join(dir, JoinName(prefix, name, i)))
	})
}

// NewArchive reads the tree from the contents of the _dir.vpk, opening the
// blocks referenced by it with open.
func NewArchive(dir []byte, open func(Index) (ReaderAtCloser, error)) (*Archive, error) {
	d, err := ParseDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read root directory: %w", err)
	}
	a := &Archive{
		Dir:    d,
		blocks: map[Index]io.ReaderAt{IndexDir: bytes.NewReader(dir[d.DataOffset():])},
		byPath: make(map[string]int, len(d.File)),
		exact:  make(map[string]int, len(d.File)),
	}
	for i, f := range d.File {
		a.byPath[normalize(f.Path)] = i
		a.exact[f.Path] = i
		if _, ok := a.blocks[f.Index]; ok {
			continue
		}
		r, err := open(f.Index)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open block %s: %w", f.Index, err)
		}
		a.blocks[f.Index] = r
		a.closers = append(a.closers, r)
	}
	return a, nil
}

// Close closes the blocks opened by the Archive.
func (a *Archive) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func normalize(p string) string {
	return strings.TrimPrefix(strings.ToLower(strings.ReplaceAll(p, "\\", "/")), "/")
}

// Lookup finds a file by path, ignoring case.
func (a *Archive) Lookup(name string) (File, bool) {
	if i, ok := a.byPath[normalize(name)]; ok {
		return a.Dir.File[i], true
	}
	return File{}, false
}

// Glob returns the files matching pattern as for internal.MatchGlobParents.
func (a *Archive) Glob(pattern string) ([]File, error) {
	var fs []File
	for _, f := range a.Dir.File {
		if m, err := internal.MatchGlobParents(pattern, f.Path); err != nil {
			return nil, err
		} else if m {
			fs = append(fs, f)
		}
	}
	return fs, nil
}

// ReadFile implements fs.ReadFileFS. Like Open, name must match the stored
// path exactly.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	i, ok := a.exact[name]
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	return a.Read(a.Dir.File[i])
}

// ReadFileFold is like ReadFile, but finds the file with Lookup.
func (a *Archive) ReadFileFold(name string) ([]byte, error) {
	f, ok := a.Lookup(name)
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	return a.Read(f)
}

// Read reads and verifies the contents of f.
func (a *Archive) Read(f File) ([]byte, error) {
	r, ok := a.blocks[f.Index]
	if !ok {
		return nil, fmt.Errorf("%s: block %s not open", f.Path, f.Index)
	}

	var (
		buf  = make([]byte, f.Size())
		errs = make([]error, len(f.Chunk))
		sem  = make(chan struct{}, max(1, a.Parallel))
		wg   sync.WaitGroup
		off  uint64
	)
	for i, c := range f.Chunk {
		i, c := i, c
		dst := buf[off : off+c.UncompressedSize]
		off += c.UncompressedSize

		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = readChunk(r, c, dst)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: chunk %d: %w", f.Path, i, err)
		}
	}
	if f.CRC32 != 0 {
		if x := crc32.ChecksumIEEE(buf); x != f.CRC32 {
			return nil, &ChecksumError{Path: f.Path, Expected: f.CRC32, Actual: x}
		}
	}
	return buf, nil
}

func readChunk(r io.ReaderAt, c Chunk, dst []byte) error {
	if !c.Compressed() {
		if n, err := r.ReadAt(dst, int64(c.Offset)); n != len(dst) {
			return fmt.Errorf("read chunk: %w", noEOF(err))
		}
		return nil
	}
	src := make([]byte, c.CompressedSize)
	if n, err := r.ReadAt(src, int64(c.Offset)); n != len(src) {
		return fmt.Errorf("read chunk: %w", noEOF(err))
	}
	n, _, _, err := tf2lzham.Decompress(dst, src)
	if err != nil {
		return fmt.Errorf("decompress chunk: %w", err)
	}
	if n != len(dst) {
		return fmt.Errorf("decompress chunk: got %d bytes, expected %d", n, len(dst))
	}
	return nil
}

func noEOF(err error) error {
	if err == nil || err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
