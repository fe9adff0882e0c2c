package maps

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal/catalog"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "maps db_path [pattern]",
	Short: "Lists the maps in a catalog, optionally matching a SQL LIKE pattern",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var pattern string
		if len(args) > 1 {
			pattern = args[1]
		}
		main(args[0], pattern)
	},
}

func init() {
	root.CatalogCommand.AddCommand(Command)
}

func main(db, pattern string) {
	c, err := catalog.Open(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	ms, err := c.Maps(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	for _, m := range ms {
		fmt.Printf("v%-2d r%-6d %5d entities %9s %s  %s\n", m.Version, m.Revision, m.Entities, humanize.Bytes(uint64(m.Size)), m.XXHash, m.Path)
	}
}
