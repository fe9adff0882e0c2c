package bsp

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/pg9182/srcasset/entities"
	"github.com/stretchr/testify/require"
)

func TestReferencedAssets(t *testing.T) {
	ents, err := entities.Parse(`
{
"classname" "worldspawn"
"skyname" "Sky_Day01_01"
"model" "*0"
}
{
"classname" "prop_static"
"model" "models\Props\Crate.mdl"
}
{
"classname" "prop_dynamic"
"model" "models/props/crate.mdl"
}
{
"classname" "ambient_generic"
"message" "#Ambient/Wind.wav"
}
{
"classname" "func_door"
"model" "*3"
"noise1" "doors/open.mp3"
"noise2" "Doors.Close"
}
{
"classname" "infodecal"
"texture" "decals/Splat"
}
{
"classname" "game_text"
"message" "Welcome"
}
{
"classname" "info_target"
"skyname" "ignored"
}
`)
	require.NoError(t, err)

	a := ReferencedAssets(ents)
	require.Equal(t, []string{"models/props/crate.mdl"}, a.Models)
	require.Equal(t, []string{"sound/ambient/wind.wav", "sound/doors/open.mp3"}, a.Sounds)
	require.Equal(t, []string{
		"materials/decals/splat.vmt",
		"materials/skybox/sky_day01_01bk.vmt",
		"materials/skybox/sky_day01_01dn.vmt",
		"materials/skybox/sky_day01_01ft.vmt",
		"materials/skybox/sky_day01_01lf.vmt",
		"materials/skybox/sky_day01_01rt.vmt",
		"materials/skybox/sky_day01_01up.vmt",
	}, a.Materials)

	a = ReferencedAssets(nil)
	require.Empty(t, a.Models)
	require.Empty(t, a.Sounds)
	require.Empty(t, a.Materials)
}

func TestPakfile(t *testing.T) {
	var z bytes.Buffer
	zw := zip.NewWriter(&z)
	w, err := zw.Create("materials/maps/test/cubemap.vtf")
	require.NoError(t, err)
	_, err = w.Write([]byte("not really a texture"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	b, err := Open(buildBSP(t, 20, map[int][]byte{LumpPakfile: z.Bytes()}))
	require.NoError(t, err)
	zr, err := b.Pakfile()
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	require.Equal(t, "materials/maps/test/cubemap.vtf", zr.File[0].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "not really a texture", string(got))

	// compressed pakfiles go through the lump decompression
	b, err = Open(buildBSP(t, 21, map[int][]byte{LumpPakfile: wrapLZMA(t, z.Bytes())}))
	require.NoError(t, err)
	zr, err = b.Pakfile()
	require.NoError(t, err)
	require.Len(t, zr.File, 1)

	b, err = Open(buildBSP(t, 20, nil))
	require.NoError(t, err)
	zr, err = b.Pakfile()
	require.NoError(t, err)
	require.Empty(t, zr.File)

	b, err = Open(buildBSP(t, 20, map[int][]byte{LumpPakfile: []byte("not a zip")}))
	require.NoError(t, err)
	_, err = b.Pakfile()
	require.ErrorContains(t, err, "read pakfile")
}
