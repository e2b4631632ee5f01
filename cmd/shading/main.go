// Package main is the entry point of the shading CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/shading/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
