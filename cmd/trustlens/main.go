package main

import (
	"os"

	"github.com/trustlens/trustlens/cmd/trustlens/commands"
)

// main is the entry point for the trustlens CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
