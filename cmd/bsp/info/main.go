package info

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pg9182/srcasset/bsp"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal/lumparchive"
	"github.com/spf13/cobra"
)

var Flags struct {
	Hash  bool
	All   bool
	Bytes bool
}

var Command = &cobra.Command{
	Use:   "info map_path",
	Short: "Shows the header and lump table of a map",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		main(args[0])
	},
}

func init() {
	Command.Flags().BoolVarP(&Flags.Hash, "hash", "H", false, "also compute the xxhash64 of each decoded lump")
	Command.Flags().BoolVarP(&Flags.All, "all", "a", false, "include empty lumps")
	Command.Flags().BoolVarP(&Flags.Bytes, "bytes", "b", false, "show sizes in bytes instead of human-readable form")
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

	fmt.Printf("version  %d\n", b.Header.Version)
	fmt.Printf("revision %d\n", b.Header.MapRevision)
	fmt.Printf("size     %s\n", size(int64(b.Size())))
	fmt.Printf("\n")

	var failed bool
	for i, l := range b.Header.Lumps {
		if l.Length == 0 && !Flags.All {
			continue
		}
		compressed, err := b.Compressed(i)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			failed = true
			continue
		}
		c := " "
		if compressed {
			c = "z"
		}
		fmt.Printf("%02d %-34s %s %10d %10s v%-2d %X", i, bsp.LumpName(i), c, l.Offset, size(int64(l.Length)), l.Version, l.FourCC[:])
		if Flags.Hash {
			if data, err := b.Lump(i); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				fmt.Printf(" %16s", "ERR")
				failed = true
			} else {
				fmt.Printf(" %s", lumparchive.Digest(data))
			}
		}
		fmt.Printf("\n")
	}
	if failed {
		os.Exit(1)
	}
}

func size(n int64) string {
	if Flags.Bytes || n < 0 {
		return fmt.Sprint(n)
	}
	return humanize.Bytes(uint64(n))
}
