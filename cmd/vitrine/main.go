// Package main is the entry point for the Vitrine CLI.
package main

import (
	"os"

	"github.com/vitrinewallet/vitrine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
