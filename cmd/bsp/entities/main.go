package entities

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pg9182/srcasset/bsp"
	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/srcasset/entities"
	"github.com/spf13/cobra"
)

var Flags struct {
	Multi     bool
	Indent    bool
	Classname []string
}

var Command = &cobra.Command{
	Use:   "entities map_path",
	Short: "Prints the entities of a map as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root.Default(cmd, "multi", strconv.FormatBool(root.Config.Entities.Multi))
		main(args[0])
	},
}

func init() {
	Command.Flags().BoolVarP(&Flags.Multi, "multi", "m", false, "output every value of duplicated keys as a list")
	Command.Flags().BoolVarP(&Flags.Indent, "indent", "i", false, "indent the output")
	Command.Flags().StringSliceVarP(&Flags.Classname, "classname", "c", nil, "only output entities with the provided classnames")
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

	if len(Flags.Classname) != 0 {
		filtered := make([]entities.Record, 0, len(ents))
	e:
		for _, r := range ents {
			cls, _ := r.Get("classname")
			for _, x := range Flags.Classname {
				if x == cls {
					filtered = append(filtered, r)
					continue e
				}
			}
		}
		ents = filtered
	}

	var v any = ents
	if Flags.Multi {
		v = entities.Multi(ents)
	}
	enc := json.NewEncoder(os.Stdout)
	if Flags.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: write entities: %v\n", err)
		os.Exit(1)
	}
}
