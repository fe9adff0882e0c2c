package pakfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"
	"github.com/pg9182/srcasset/bsp"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal"
	"github.com/pg9182/srcasset/internal/logger"
	"github.com/spf13/cobra"
)

var Flags struct {
	Extract       []string
	Output        string
	HumanReadable bool
	Filter        *internal.Filter
}

var Command = &cobra.Command{
	Use:   "pakfile map_path",
	Short: "Lists or extracts the files embedded in a map",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		main(args[0])
	},
}

func init() {
	Command.Flags().Bool("help", false, "help for "+Command.Name()) // prevent the default short help flag from being set
	Command.Flags().StringSliceVarP(&Flags.Extract, "extract", "x", nil, "extract files matching the provided glob instead of listing them")
	Command.Flags().StringVarP(&Flags.Output, "output", "o", ".", "the directory to extract files to")
	Command.Flags().BoolVarP(&Flags.HumanReadable, "human-readable", "h", false, "show sizes in human-readable form")
	Flags.Filter = root.FlagIncludeExclude(Command, true)
	root.ArgInput(Command, 1, ".bsp")
	root.BSPCommand.AddCommand(Command)
}

func main(name string) {
	buf, err := root.ReadInput(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: read map: %v\n", err)
		os.Exit(1)
	}
	b, err := bsp.Open(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	z, err := b.Pakfile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	filter := *Flags.Filter
	if len(Flags.Extract) != 0 {
		filter.Include = append(filter.Include, Flags.Extract...)
	}

	var failed int
	for _, f := range z.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if skip, err := filter.Excluded(f.Name); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		} else if skip {
			continue
		}
		if len(Flags.Extract) == 0 {
			if Flags.HumanReadable {
				fmt.Printf("%9s %9s  %s\n", humanize.Bytes(f.CompressedSize64), humanize.Bytes(f.UncompressedSize64), f.Name)
			} else {
				fmt.Printf("%9d %9d  %s\n", f.CompressedSize64, f.UncompressedSize64, f.Name)
			}
			continue
		}
		if err := extract(f); err != nil {
			fmt.Fprintf(os.Stderr, "error: extract %q: %v\n", f.Name, err)
			failed++
		}
	}
	if failed != 0 {
		os.Exit(1)
	}
}

func extract(f *zip.File) error {
	name := filepath.FromSlash(f.Name)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("refusing to write outside the output directory")
	}
	fn := filepath.Join(Flags.Output, name)
	if err := os.MkdirAll(filepath.Dir(fn), 0777); err != nil {
		return err
	}

	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer w.Close()

	if _, err := io.Copy(w, r); err != nil {
		return err
	}
	logger.Info("extracted", "name", f.Name, "size", f.UncompressedSize64)
	return w.Close()
}
