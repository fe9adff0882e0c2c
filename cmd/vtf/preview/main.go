package preview

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal/logger"
	"github.com/pg9182/srcasset/internal/render"
	"github.com/pg9182/srcasset/vtf"
	"github.com/spf13/cobra"
)

var Flags struct {
	Size    int
	Format  string
	DataURI bool
	Output  string
}

var Command = &cobra.Command{
	Use:   "preview texture_path",
	Short: "Renders a small preview of the first frame of a texture",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root.Default(cmd, "size", strconv.Itoa(root.Config.PreviewSize))
		root.Default(cmd, "format", root.Config.ImageFormat)
		main(args[0])
	},
}

func init() {
	Command.Flags().IntVarP(&Flags.Size, "size", "s", 256, "the maximum width and height of the preview")
	Command.Flags().StringVarP(&Flags.Format, "format", "F", "png", "the output format (png, tga, bmp, tiff)")
	Command.Flags().BoolVarP(&Flags.DataURI, "data-uri", "d", false, "output a data URI instead of the image")
	Command.Flags().StringVarP(&Flags.Output, "output", "o", "", "write the preview to a file instead of stdout")
	root.ArgInput(Command, 1, ".vtf")
	root.VTFCommand.AddCommand(Command)
}

func main(name string) {
	format, err := render.ParseFormat(Flags.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	buf, err := root.ReadInput(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: read texture: %v\n", err)
		os.Exit(1)
	}
	v, err := vtf.Open(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	mip, err := v.PreviewLevel(Flags.Size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	img, err := v.Extract(mip, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: extract mip %d: %v\n", mip, err)
		os.Exit(1)
	}
	logger.Debug("preview", "mip", mip, "width", img.Width, "height", img.Height)

	var out bytes.Buffer
	if err := render.Encode(&out, render.Resize(img.RGBA(), Flags.Size), format); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	w, err := root.Output(Flags.Output, !Flags.DataURI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if Flags.DataURI {
		_, err = fmt.Fprintln(w, render.DataURI(format, out.Bytes()))
	} else {
		_, err = w.Write(out.Bytes())
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: write preview: %v\n", err)
		os.Exit(1)
	}
}
