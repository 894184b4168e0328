package main

import (
	"os"

	"github.com/loomkit/loom/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
