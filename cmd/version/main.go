package version

import (
	"fmt"
	"runtime/debug"
	"strconv"

	"github.com/pg9182/srcasset/cmd/root"
	"github.com/pg9182/tf2lzham"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		main()
	},
}

func init() {
	root.Command.AddCommand(Command)
}

// deps are the modules whose versions are printed.
var deps = []string{
	"github.com/pg9182/tf2lzham",
	"github.com/ulikunitz/xz",
	"modernc.org/sqlite",
}

func main() {
	var vcs struct {
		revision string
		modified bool
	}
	versions := map[string]string{}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				vcs.revision = s.Value
			case "vcs.modified":
				vcs.modified, _ = strconv.ParseBool(s.Value)
			}
		}
		if vcs.revision == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			vcs.revision = bi.Main.Version
		}
		for _, d := range bi.Deps {
			var s string
			if d.Replace != nil {
				s = d.Replace.Path
				if d.Version != "(devel)" {
					s += " " + d.Replace.Version
				}
			} else if d.Version != "(devel)" {
				s = d.Version
			}
			versions[d.Path] = s
		}
	}

	version := "srcasset "
	if len(vcs.revision) >= 7 {
		version += vcs.revision[:7]
	} else if vcs.revision != "" {
		version += vcs.revision
	} else {
		version += "unknown"
	}
	if vcs.modified {
		version += " (modified)"
	}
	fmt.Println(version)

	for _, d := range deps {
		v := versions[d]
		if v == "" {
			v = "unknown"
		}
		if d == "github.com/pg9182/tf2lzham" {
			if tf2lzham.WebAssembly {
				v += " (wasm)"
			} else {
				v += " (native)"
			}
		}
		fmt.Printf("%s %s\n", d, v)
	}
}
