package textures

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal/catalog"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "textures db_path [pattern]",
	Short: "Lists the textures in a catalog, optionally matching a SQL LIKE pattern",
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

	xs, err := c.Textures(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	for _, x := range xs {
		fmt.Printf("%-4s %5dx%-5d %-18s %2d mips %3d frames %9s  %s", x.Version, x.Width, x.Height, x.Format, x.Mips, x.Frames, humanize.Bytes(uint64(x.Size)), x.Path)
		if x.Error != "" {
			fmt.Printf(" # %s", x.Error)
		}
		fmt.Printf("\n")
	}
}
