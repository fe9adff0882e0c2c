package add

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/pg9182/srcasset/bsp"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal"
	"github.com/pg9182/srcasset/internal/catalog"
	"github.com/pg9182/srcasset/internal/logger"
	"github.com/pg9182/srcasset/vtf"
	"github.com/spf13/cobra"
)

var Flags struct {
	Verbose bool
	Filter  *internal.Filter
}

var Command = &cobra.Command{
	Use:   "add db_path [file...]",
	Short: "Adds maps and textures to a catalog (every one in the --vpk if no files are given)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		main(args[0], args[1:])
	},
}

func init() {
	Command.Flags().BoolVarP(&Flags.Verbose, "verbose", "v", false, "display files as they are added")
	Flags.Filter = root.FlagIncludeExclude(Command, true)
	root.CatalogCommand.AddCommand(Command)
}

func main(db string, files []string) {
	if len(files) == 0 {
		a, err := root.Archive()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: no files specified: %v\n", err)
			os.Exit(2)
		}
		if err := fs.WalkDir(a, ".", func(p string, d fs.DirEntry, err error) error {
			if err == nil && !d.IsDir() {
				switch path.Ext(p) {
				case ".bsp", ".vtf":
					files = append(files, p)
				}
			}
			return err
		}); err != nil {
			fmt.Fprintf(os.Stderr, "error: list vpk: %v\n", err)
			os.Exit(1)
		}
	}

	c, err := catalog.Open(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	var added, failed int
	for _, fn := range files {
		if skip, err := Flags.Filter.Excluded(fn); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		} else if skip {
			continue
		}
		if err := add(c, fn); err != nil {
			fmt.Fprintf(os.Stderr, "warning: add %q: %v\n", fn, err)
			failed++
			continue
		}
		added++
		if Flags.Verbose {
			fmt.Printf("%s\n", fn)
		}
	}
	logger.Info("catalog updated", "db", db, "added", added, "failed", failed)
	if failed != 0 {
		fmt.Fprintf(os.Stderr, "%d/%d files added\n", added, added+failed)
		os.Exit(1)
	}
}

func add(c *catalog.Catalog, fn string) error {
	buf, err := root.ReadInput(fn)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(path.Ext(fn)); ext {
	case ".bsp":
		b, err := bsp.Open(buf)
		if err != nil {
			return err
		}
		_, err = c.AddMap(fn, b)
		return err
	case ".vtf":
		v, err := vtf.Open(buf)
		if err != nil {
			return err
		}
		x, err := c.AddTexture(fn, v)
		if err == nil && x.Error != "" {
			logger.Warn("texture has an invalid mipmap layout", "path", fn, "error", x.Error)
		}
		return err
	default:
		return fmt.Errorf("unsupported file extension %q", ext)
	}
}
