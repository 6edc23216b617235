package main

import (
	"os"

	"github.com/float-ritual-stack/floatd/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
