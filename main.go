// Package main is the entry point for the nichefy application
package main

import (
	"github.com/ethpandaops/nichefy/cmd"
)

func main() {
	cmd.Execute()
}
