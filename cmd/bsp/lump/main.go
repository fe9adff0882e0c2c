package lump

import (
	"fmt"
	"os"

	"github.com/pg9182/srcasset/bsp"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal/logger"
	"github.com/spf13/cobra"
)

var Flags struct {
	Raw    bool
	Output string
}

var Command = &cobra.Command{
	Use:   "lump map_path index|name",
	Short: "Writes the contents of a lump",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		main(args[0], args[1])
	},
}

func init() {
	Command.Flags().BoolVarP(&Flags.Raw, "raw", "r", false, "do not decompress LZMA lumps")
	Command.Flags().StringVarP(&Flags.Output, "output", "o", "", "write the lump to a file instead of stdout")
	root.ArgInput(Command, 1, ".bsp")
	root.BSPCommand.AddCommand(Command)
}

func main(name, index string) {
	i, err := bsp.ParseLumpIndex(index)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

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

	var data []byte
	if Flags.Raw {
		data, err = b.RawLump(i)
	} else {
		data, err = b.Lump(i)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("read lump", "index", i, "name", bsp.LumpName(i), "size", len(data))

	w, err := root.Output(Flags.Output, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if _, err := w.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "error: write lump: %v\n", err)
		os.Exit(1)
	}
	if err := w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error: write lump: %v\n", err)
		os.Exit(1)
	}
}
