// Package main is the entry point for the bazi CLI.
package main

import (
	"os"

	"github.com/f3rmion/bazi/cmd/bazi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
