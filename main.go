package main

import (
	"os"

	"github.com/pietroscik/marinetraffic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
