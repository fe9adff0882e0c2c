// Command srcasset inspects Source engine maps and textures.
package main

import (
	"os"

	"github.com/pg9182/srcasset/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(2)
	}
}
