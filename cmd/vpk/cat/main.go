package cat

import (
	"fmt"
	"os"

	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/vpk"
	"github.com/spf13/cobra"
)

var Flags struct {
	Output string
}

var Command = &cobra.Command{
	Use:     "cat vpk_path file...",
	Aliases: []string{"get"},
	Short:   "Reads files from a VPK to stdout",
	Args:    cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		main(args[0], args[1:])
	},
}

func init() {
	Command.Flags().StringVarP(&Flags.Output, "output", "o", "", "write to a file instead of stdout")
	root.ArgInput(Command, 1, vpk.Ext)
	root.VPKCommand.AddCommand(Command)
}

func main(name string, files []string) {
	r, err := root.OpenVPK(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	w, err := root.Output(Flags.Output, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	var failed int
	for _, fn := range files {
		if err := func() error {
			buf, err := r.ReadFileFold(fn)
			if err != nil {
				return err
			}
			_, err = w.Write(buf)
			return err
		}(); err != nil {
			fmt.Fprintf(os.Stderr, "error: read file %q: %v\n", fn, err)
			failed++
		}
	}
	if err := w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error: write output: %v\n", err)
		os.Exit(1)
	}
	if failed != 0 {
		os.Exit(1)
	}
}
