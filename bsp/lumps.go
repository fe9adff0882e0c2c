package bsp

import (
	"fmt"
	"strconv"
	"strings"
)

// Lump indexes with special handling.
const (
	LumpEntities = 0
	LumpPakfile  = 40
)

// Names for lump indexes, as of Source 2013.
var lumpNames = [NumLumps]string{
	"ENTITIES", "PLANES", "TEXDATA", "VERTEXES", "VISIBILITY", "NODES", "TEXINFO", "FACES",
	"LIGHTING", "OCCLUSION", "LEAFS", "FACEIDS", "EDGES", "SURFEDGES", "MODELS", "WORLDLIGHTS",
	"LEAFFACES", "LEAFBRUSHES", "BRUSHES", "BRUSHSIDES", "AREAS", "AREAPORTALS", "PORTALS", "CLUSTERS",
	"PORTALVERTS", "CLUSTERPORTALS", "DISPINFO", "ORIGINALFACES", "PHYSDISP", "PHYSCOLLIDE", "VERTNORMALS", "VERTNORMALINDICES",
	"DISP_LIGHTMAP_ALPHAS", "DISP_VERTS", "DISP_LIGHTMAP_SAMPLE_POSITIONS", "GAME_LUMP", "LEAFWATERDATA", "PRIMITIVES", "PRIMVERTS", "PRIMINDICES",
	"PAKFILE", "CLIPPORTALVERTS", "CUBEMAPS", "TEXDATA_STRING_DATA", "TEXDATA_STRING_TABLE", "OVERLAYS", "LEAFMINDISTTOWATER", "FACE_MACRO_TEXTURE_INFO",
	"DISP_TRIS", "PHYSCOLLIDESURFACE", "WATEROVERLAYS", "LEAF_AMBIENT_INDEX_HDR", "LEAF_AMBIENT_INDEX", "LIGHTING_HDR", "WORLDLIGHTS_HDR", "LEAF_AMBIENT_LIGHTING_HDR",
	"LEAF_AMBIENT_LIGHTING", "XZIPPAKFILE", "FACES_HDR", "MAP_FLAGS", "OVERLAY_FADES", "OVERLAY_SYSTEM_LEVELS", "PHYSLEVEL", "DISP_MULTIBLEND",
}

// LumpName returns a human-readable name for lump index i.
func LumpName(i int) string {
	if i < 0 || i >= NumLumps {
		return fmt.Sprintf("LUMP_%d", i)
	}
	return lumpNames[i]
}

// ParseLumpIndex parses a lump index or name (case-insensitive, with or without
// the LUMP_ prefix).
func ParseLumpIndex(s string) (int, error) {
	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 || i >= NumLumps {
			return 0, &LumpIndexError{i}
		}
		return i, nil
	}
	n := strings.TrimPrefix(strings.ToUpper(s), "LUMP_")
	for i, x := range lumpNames {
		if x == n {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown lump %q", s)
}
