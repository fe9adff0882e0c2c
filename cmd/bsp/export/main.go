package export

import (
	"fmt"
	"os"

	"github.com/pg9182/srcasset/bsp"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal/logger"
	"github.com/pg9182/srcasset/internal/lumparchive"
	"github.com/spf13/cobra"
)

var Flags struct {
	Output string
	Codec  string
	Raw    bool
	Zip    bool
}

var Command = &cobra.Command{
	Use:   "export map_path",
	Short: "Exports every lump of a map as a tar or zip archive",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		main(args[0])
	},
}

func init() {
	Command.Flags().StringVarP(&Flags.Output, "output", "o", "", "write the archive to a file (- for stdout)")
	Command.Flags().StringVarP(&Flags.Codec, "codec", "z", "", fmt.Sprintf("compress the tar with the provided codec %v (default is based on the output extension)", lumparchive.CodecNames()))
	Command.Flags().BoolVarP(&Flags.Raw, "raw", "r", false, "do not decompress LZMA lumps")
	Command.Flags().BoolVar(&Flags.Zip, "zip", false, "write a zip archive instead of a tar")
	root.ArgInput(Command, 1, ".bsp")
	root.BSPCommand.AddCommand(Command)
}

func main(name string) {
	if Flags.Output == "" {
		fmt.Fprintf(os.Stderr, "error: no output file specified\n")
		os.Exit(2)
	}

	var codec lumparchive.Codec
	switch {
	case Flags.Codec != "":
		c, err := lumparchive.GetCodec(Flags.Codec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		codec = c
	case !Flags.Zip:
		codec = lumparchive.CodecForName(Flags.Output)
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

	w, err := root.Output(Flags.Output, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	if codec != nil {
		logger.Info("exporting lumps", "codec", codec.Name(), "raw", Flags.Raw)
	}
	if err := lumparchive.Write(w, b, lumparchive.Options{
		Raw:   Flags.Raw,
		Zip:   Flags.Zip,
		Codec: codec,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: export lumps: %v\n", err)
		os.Exit(1)
	}
	if err := w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error: write output file %q: %v\n", Flags.Output, err)
		os.Exit(1)
	}
}
