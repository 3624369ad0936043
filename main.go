package main

import (
	"os"

	"github.com/dike950121/upwork-radar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
