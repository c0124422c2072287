// Package main is the entry point for the cardsmith server.
package main

import (
	"os"

	"github.com/donaldgifford/cardsmith/cmd/cardsmith/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
