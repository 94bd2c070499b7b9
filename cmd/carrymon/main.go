package main

import (
	"os"

	"github.com/avdeenko/carrymon/cmd/carrymon/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
