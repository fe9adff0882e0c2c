// Package cmd assembles the srcasset command tree.
package cmd

import (
	"github.com/pg9182/srcasset/cmd/root"

	_ "github.com/pg9182/srcasset/cmd/bsp/assets"
	_ "github.com/pg9182/srcasset/cmd/bsp/entities"
	_ "github.com/pg9182/srcasset/cmd/bsp/export"
	_ "github.com/pg9182/srcasset/cmd/bsp/info"
	_ "github.com/pg9182/srcasset/cmd/bsp/lump"
	_ "github.com/pg9182/srcasset/cmd/bsp/pakfile"
	_ "github.com/pg9182/srcasset/cmd/catalog/add"
	_ "github.com/pg9182/srcasset/cmd/catalog/maps"
	_ "github.com/pg9182/srcasset/cmd/catalog/textures"
	_ "github.com/pg9182/srcasset/cmd/version"
	_ "github.com/pg9182/srcasset/cmd/vpk/cat"
	_ "github.com/pg9182/srcasset/cmd/vpk/ls"
	_ "github.com/pg9182/srcasset/cmd/vtf/extract"
	_ "github.com/pg9182/srcasset/cmd/vtf/info"
	_ "github.com/pg9182/srcasset/cmd/vtf/preview"
)

func Execute() error {
	return root.Command.Execute()
}
