package info

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/vtf"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "info texture_path",
	Short: "Shows the header, resources and mipmap layout of a texture",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		main(args[0])
	},
}

func init() {
	root.ArgInput(Command, 1, ".vtf")
	root.VTFCommand.AddCommand(Command)
}

func main(name string) {
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

	h := v.Header
	fmt.Printf("version      %s\n", h.Version())
	fmt.Printf("size         %s\n", humanize.Bytes(uint64(v.Size())))
	fmt.Printf("header size  %d\n", h.HeaderSize)
	fmt.Printf("dimensions   %dx%d", h.Width, h.Height)
	if h.Depth > 1 {
		fmt.Printf("x%d", h.Depth)
	}
	fmt.Printf("\n")
	fmt.Printf("format       %s\n", h.HighResFormat)
	fmt.Printf("thumbnail    %s %dx%d\n", h.LowResFormat, h.LowResWidth, h.LowResHeight)
	fmt.Printf("frames       %d (first %d)\n", h.Frames, h.FirstFrame)
	fmt.Printf("mipmaps      %d\n", h.MipmapCount)
	fmt.Printf("reflectivity %.3f %.3f %.3f\n", h.Reflectivity[0], h.Reflectivity[1], h.Reflectivity[2])
	fmt.Printf("bumpmap      %g\n", h.BumpmapScale)
	fmt.Printf("flags        %08X %s\n", h.Flags, strings.Join(vtf.DescribeFlags(h.Flags), " "))

	if rs, ok := v.Resources(); ok {
		fmt.Printf("\nresources:\n")
		for _, r := range rs {
			fmt.Printf("  %-20s flags=%02X offset=%d\n", r.Name(), r.Flags, r.Offset)
		}
	}

	mips, err := v.Mips()
	if err != nil {
		fmt.Printf("\nmipmaps: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nmipmaps:\n")
	for i, m := range mips {
		fmt.Printf("  %2d %5dx%-5d", i, m.Width, m.Height)
		for _, f := range m.Frames {
			fmt.Printf(" %d+%d", f.Offset, f.Length)
		}
		fmt.Printf("\n")
	}
}
