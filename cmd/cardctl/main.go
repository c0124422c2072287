// Package main is the entry point for the cardctl CLI client.
package main

import (
	"github.com/donaldgifford/cardsmith/cmd/cardctl/cmd"
)

func main() {
	cmd.Execute()
}
