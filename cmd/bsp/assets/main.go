package assets

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pg9182/srcasset/bsp"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/spf13/cobra"
)

var Flags struct {
	JSON bool
}

var Command = &cobra.Command{
	Use:   "assets map_path",
	Short: "Lists the models, sounds and materials referenced by the entities of a map",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		main(args[0])
	},
}

func init() {
	Command.Flags().BoolVar(&Flags.JSON, "json", false, "output as JSON")
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
	ents, err := b.Entities()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: parse entities: %v\n", err)
		os.Exit(1)
	}

	a := bsp.ReferencedAssets(ents)
	if Flags.JSON {
		if err := json.NewEncoder(os.Stdout).Encode(a); err != nil {
			os.Exit(1)
		}
		return
	}
	for _, x := range a.Models {
		fmt.Printf("model    %s\n", x)
	}
	for _, x := range a.Sounds {
		fmt.Printf("sound    %s\n", x)
	}
	for _, x := range a.Materials {
		fmt.Printf("material %s\n", x)
	}
}
