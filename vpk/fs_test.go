package vpk

import (
	"bytes"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestArchiveFS(t *testing.T) {
	data := []byte("abcdefgh")
	buf := buildDir(t, []entry{
		{"vtf", "materials/dev", "a", IndexDir, 0, []Chunk{raw(0, 2)}},
		{"vtf", "materials/dev", "b", IndexDir, 0, []Chunk{raw(2, 2)}},
		{"vmt", "materials", "c", IndexDir, 0, []Chunk{raw(4, 2)}},
		{"bsp", "maps", "mp_box", IndexDir, 0, []Chunk{raw(6, 2)}},
		{"txt", " ", "root", IndexDir, 0, []Chunk{raw(0, 8)}},
	}, data)
	a, err := NewArchive(buf, nil)
	require.NoError(t, err)

	require.NoError(t, fstest.TestFS(a, "materials/dev/a.vtf", "materials/dev/b.vtf", "materials/c.vmt", "maps/mp_box.bsp", "root.txt"))

	got, err := fs.ReadFile(a, "materials/c.vmt")
	require.NoError(t, err)
	require.Equal(t, "ef", string(got))

	ents, err := fs.ReadDir(a, ".")
	require.NoError(t, err)
	var names []string
	for _, e := range ents {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"maps", "materials", "root.txt"}, names)

	var files []string
	require.NoError(t, fs.WalkDir(a, ".", func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, p)
		}
		return err
	}))
	require.Equal(t, []string{"maps/mp_box.bsp", "materials/c.vmt", "materials/dev/a.vtf", "materials/dev/b.vtf", "root.txt"}, files)

	st, err := fs.Stat(a, "materials/dev/b.vtf")
	require.NoError(t, err)
	require.Equal(t, int64(2), st.Size())
	require.Equal(t, "b.vtf", st.Name())
	require.IsType(t, File{}, st.Sys())

	_, err = a.Open("materials/missing")
	require.ErrorIs(t, err, fs.ErrNotExist)
	_, err = a.Open("/materials")
	require.ErrorIs(t, err, fs.ErrInvalid)

	// ReadFile matches exactly, like Open
	for _, name := range []string{"maps\\mp_box.bsp", "MAPS/mp_box.bsp", "maps/MP_BOX.bsp", "materials/dev"} {
		_, err = a.ReadFile(name)
		require.ErrorIs(t, err, fs.ErrNotExist, name)
		_, err = a.Open(name)
		require.ErrorIs(t, err, fs.ErrNotExist, name)
	}
	_, err = a.ReadFile("/maps/mp_box.bsp")
	require.ErrorIs(t, err, fs.ErrInvalid)
	got, err = a.ReadFileFold("MAPS\\mp_box.bsp")
	require.NoError(t, err)
	require.Equal(t, "gh", string(got))

	f, err := a.Open("root.txt")
	require.NoError(t, err)
	var out bytes.Buffer
	_, err = out.ReadFrom(f)
	require.NoError(t, err)
	require.Equal(t, data, out.Bytes())
	require.NoError(t, f.Close())
}
