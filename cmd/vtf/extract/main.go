package extract

import (
	"fmt"
	"os"

	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/internal/logger"
	"github.com/pg9182/srcasset/internal/render"
	"github.com/pg9182/srcasset/vtf"
	"github.com/spf13/cobra"
)

var Flags struct {
	Mip    int
	Frame  int
	Format string
	Output string
}

var Command = &cobra.Command{
	Use:   "extract texture_path",
	Short: "Converts a mipmap frame of a texture to an image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root.Default(cmd, "format", root.Config.ImageFormat)
		main(args[0])
	},
}

func init() {
	Command.Flags().IntVarP(&Flags.Mip, "mip", "m", -1, "the mipmap level to extract, where 0 is the smallest (default is the largest)")
	Command.Flags().IntVarP(&Flags.Frame, "frame", "f", 0, "the frame to extract")
	Command.Flags().StringVarP(&Flags.Format, "format", "F", "png", "the output format (png, tga, bmp, tiff, or raw for RGBA8888)")
	Command.Flags().StringVarP(&Flags.Output, "output", "o", "", "write the image to a file instead of stdout")
	root.ArgInput(Command, 1, ".vtf")
	root.VTFCommand.AddCommand(Command)
}

func main(name string) {
	var format render.Format
	if Flags.Format != "raw" {
		f, err := render.ParseFormat(Flags.Format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		format = f
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

	mip := Flags.Mip
	if mip < 0 {
		mip = int(v.Header.MipmapCount) - 1
	}
	img, err := v.Extract(mip, Flags.Frame)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: extract mip %d frame %d: %v\n", mip, Flags.Frame, err)
		os.Exit(1)
	}
	logger.Debug("extracted", "mip", mip, "frame", Flags.Frame, "width", img.Width, "height", img.Height, "format", v.Header.HighResFormat)

	w, err := root.Output(Flags.Output, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if format == "" {
		_, err = w.Write(img.Pix)
	} else {
		err = render.Encode(w, img.RGBA(), format)
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: write image: %v\n", err)
		os.Exit(1)
	}
}
