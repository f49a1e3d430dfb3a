package main

import (
	"os"

	"github.com/hulkholden/gpubind/cmd/bindsim/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
