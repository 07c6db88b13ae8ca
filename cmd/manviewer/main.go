// Package main is the entry point for the manviewer CLI.
package main

import (
	"os"

	"github.com/betterman/manviewer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
