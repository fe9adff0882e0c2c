package vpk

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"
)

var (
	_ fs.FS          = (*Archive)(nil)
	_ fs.ReadFileFS  = (*Archive)(nil)
	_ fs.File        = (*archiveFile)(nil)
	_ fs.ReadDirFile = (*archiveDir)(nil)
	_ fs.DirEntry    = (*archiveInfo)(nil)
	_ fs.FileInfo    = (*archiveInfo)(nil)
)

// Open implements fs.FS. Directories are synthesized from file paths. Names
// are matched exactly; see Lookup for the lenient form.
func (a *Archive) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if i, ok := a.exact[name]; ok {
		buf, err := a.Read(a.Dir.File[i])
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &archiveFile{archiveInfo{path.Base(name), &a.Dir.File[i]}, bytes.NewReader(buf)}, nil
	}

	var prefix string
	if name != "." {
		prefix = name + "/"
	}
	children := map[string]*File{}
	for i, f := range a.Dir.File {
		rest, ok := strings.CutPrefix(f.Path, prefix)
		if !ok {
			continue
		}
		if j := strings.IndexByte(rest, '/'); j < 0 {
			children[rest] = &a.Dir.File[i]
		} else {
			children[rest[:j]] = nil
		}
	}
	if name != "." && len(children) == 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	entries := make([]*archiveInfo, 0, len(children))
	for n, f := range children {
		entries = append(entries, &archiveInfo{n, f})
	}
	slices.SortFunc(entries, func(x, y *archiveInfo) int {
		return strings.Compare(x.name, y.name)
	})
	return &archiveDir{info: archiveInfo{path.Base(name), nil}, entry: entries}, nil
}

type archiveFile struct {
	info archiveInfo
	r    *bytes.Reader
}

func (f *archiveFile) Stat() (fs.FileInfo, error) { return &f.info, nil }
func (f *archiveFile) Read(b []byte) (int, error) { return f.r.Read(b) }
func (f *archiveFile) Close() error               { return nil }

type archiveDir struct {
	info   archiveInfo
	entry  []*archiveInfo
	offset int
}

func (d *archiveDir) Stat() (fs.FileInfo, error) { return &d.info, nil }
func (d *archiveDir) Close() error               { return nil }

func (d *archiveDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

func (d *archiveDir) ReadDir(count int) ([]fs.DirEntry, error) {
	n := len(d.entry) - d.offset
	if n == 0 && count > 0 {
		return nil, io.EOF
	}
	if count > 0 && n > count {
		n = count
	}
	list := make([]fs.DirEntry, n)
	for i := range list {
		list[i] = d.entry[d.offset+i]
	}
	d.offset += n
	return list, nil
}

// archiveInfo describes a file, or a directory if file is nil.
type archiveInfo struct {
	name string
	file *File
}

func (i *archiveInfo) Info() (fs.FileInfo, error) { return i, nil }
func (i *archiveInfo) Type() fs.FileMode          { return i.Mode().Type() }
func (i *archiveInfo) Name() string               { return i.name }
func (i *archiveInfo) ModTime() time.Time         { return time.Time{} }
func (i *archiveInfo) IsDir() bool                { return i.file == nil }

func (i *archiveInfo) Size() int64 {
	if i.IsDir() {
		return 0
	}
	return int64(i.file.Size())
}

func (i *archiveInfo) Mode() fs.FileMode {
	if i.IsDir() {
		return 0777 | fs.ModeDir
	}
	return 0666
}

// Sys returns the File for files.
func (i *archiveInfo) Sys() any {
	if i.IsDir() {
		return nil
	}
	return *i.file
}
