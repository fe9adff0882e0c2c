package bsp

import (
	"path"
	"slices"
	"strings"

	"github.com/pg9182/srcasset/entities"
)

// Assets lists the files referenced by a map's entities.
type Assets struct {
	Models    []string `json:"models"`
	Sounds    []string `json:"sounds"`
	Materials []string `json:"materials"`
}

var skyboxSides = []string{"bk", "dn", "ft", "lf", "rt", "up"}

// ReferencedAssets collects the models, sounds and materials named by ents.
// Paths are lower-cased with forward slashes, deduplicated and sorted.
func ReferencedAssets(ents []entities.Record) Assets {
	var (
		models    = map[string]struct{}{}
		sounds    = map[string]struct{}{}
		materials = map[string]struct{}{}
	)
	for _, r := range ents {
		for _, p := range r {
			v := normalizeAsset(p.Value)
			if v == "" {
				continue
			}
			switch k := strings.ToLower(p.Key); {
			case k == "model":
				// brush entities reference inline models as *N
				if !strings.HasPrefix(v, "*") {
					models[v] = struct{}{}
				}
			case k == "message" || k == "sound" || strings.HasPrefix(k, "noise"):
				if s := soundPath(v); s != "" {
					sounds[s] = struct{}{}
				}
			case k == "texture" || k == "material":
				materials[materialPath(v)] = struct{}{}
			case k == "skyname":
				if cls, _ := r.Get("classname"); cls == "worldspawn" {
					for _, side := range skyboxSides {
						materials["materials/skybox/"+v+side+".vmt"] = struct{}{}
					}
				}
			}
		}
	}
	return Assets{
		Models:    sortedKeys(models),
		Sounds:    sortedKeys(sounds),
		Materials: sortedKeys(materials),
	}
}

func normalizeAsset(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "\\", "/")))
	return strings.TrimLeft(s, "/")
}

// soundPath strips the sound channel prefix characters and returns the path
// under sound/, or an empty string if v does not name a sound file.
func soundPath(v string) string {
	v = strings.TrimLeft(v, "*#@<>^)}$!?&~`+%")
	if ext := path.Ext(v); ext != ".wav" && ext != ".mp3" {
		return ""
	}
	if !strings.HasPrefix(v, "sound/") {
		v = "sound/" + v
	}
	return v
}

func materialPath(v string) string {
	if !strings.HasPrefix(v, "materials/") {
		v = "materials/" + v
	}
	if path.Ext(v) == "" {
		v += ".vmt"
	}
	return v
}

func sortedKeys(m map[string]struct{}) []string {
	s := make([]string, 0, len(m))
	for k := range m {
		s = append(s, k)
	}
	slices.Sort(s)
	return s
}
