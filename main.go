package main

import (
	"os"

	"github.com/abhisek/egotutor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
