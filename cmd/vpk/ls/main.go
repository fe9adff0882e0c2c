package ls

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal"
	"github.com/pg9182/srcasset/vpk"
	"github.com/spf13/cobra"
)

var Flags struct {
	HumanReadable      bool
	HumanReadableFlags bool
	Long               bool
	Test               bool
	Filter             *internal.Filter
}

var Command = &cobra.Command{
	Use:     "ls vpk_path",
	Short:   "Lists the contents of a VPK",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"list"},
	Run: func(cmd *cobra.Command, args []string) {
		main(args[0])
	},
}

func init() {
	Command.Flags().Bool("help", false, "help for "+Command.Name()) // prevent the default short help flag from being set
	Command.Flags().BoolVarP(&Flags.HumanReadable, "human-readable", "h", false, "show values in human-readable form")
	Command.Flags().BoolVarP(&Flags.HumanReadableFlags, "human-readable-flags", "f", false, "if displaying flags, also show them in human-readable form at the very end of the line (delimited by a #)")
	Command.Flags().BoolVarP(&Flags.Long, "long", "l", false, "show detailed file metadata (adds the following columns to the beginning: block_index load_flags[binary] texture_flags[binary] crc32[hex] compressed_percent compressed_size uncompressed_size)")
	Command.Flags().BoolVarP(&Flags.Test, "test", "t", false, "also attempt to read contents and compute checksums (adds a column with OK/ERR to the end)")
	Flags.Filter = root.FlagIncludeExclude(Command, true)
	root.ArgInput(Command, 1, vpk.Ext)
	root.VPKCommand.AddCommand(Command)
}

func main(name string) {
	r, err := root.OpenVPK(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	var pathLen int
	for _, f := range r.Dir.File {
		pathLen = max(pathLen, min(len(f.Path), 64))
	}

	var total, testErrCount int
	for _, f := range r.Dir.File {
		if skip, err := Flags.Filter.Excluded(f.Path); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		} else if skip {
			continue
		}
		total++

		load, err := f.LoadFlags()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: entry %q: compute load flags: %v\n", f.Path, err)
		}
		texture, err := f.TextureFlags()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: entry %q: compute texture flags: %v\n", f.Path, err)
		}
		compressed, uncompressed := f.CompressedSize(), f.Size()

		if Flags.Long {
			fmt.Printf("%s %032b %016b %08X %6.2f %% ", f.Index, load, texture, f.CRC32, float64(compressed)/float64(uncompressed)*100)
			if Flags.HumanReadable {
				fmt.Printf("%9s %9s  ", humanize.Bytes(compressed), humanize.Bytes(uncompressed))
			} else {
				fmt.Printf("%9d %9d  ", compressed, uncompressed)
			}
		}
		if Flags.Test || (Flags.Long && Flags.HumanReadableFlags) {
			fmt.Printf("%*s", -pathLen, f.Path)
		} else {
			fmt.Printf("%s", f.Path)
		}

		var testErr error
		if Flags.Test {
			os.Stdout.Sync()
			if _, testErr = r.Read(f); testErr != nil {
				testErrCount++
				fmt.Printf(" ERR")
			} else {
				fmt.Printf("  OK")
			}
		}
		if Flags.Long && Flags.HumanReadableFlags {
			fmt.Printf(" # load=%s texture=%s", strings.Join(vpk.DescribeLoadFlags(load), ","), strings.Join(vpk.DescribeTextureFlags(texture), ","))
		}
		fmt.Printf("\n")

		if testErr != nil {
			fmt.Fprintf(os.Stderr, "warning: entry %q: test: %v\n", f.Path, testErr)
		}
	}
	if Flags.Test {
		fmt.Fprintf(os.Stderr, "%d/%d files valid\n", total-testErrCount, total)
		if testErrCount != 0 {
			os.Exit(1)
		}
	}
}
