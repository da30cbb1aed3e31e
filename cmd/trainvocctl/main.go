package main

import (
	"os"

	"trainvoc-updates/cmd/trainvocctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
