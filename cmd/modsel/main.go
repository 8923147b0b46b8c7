// Package main is the entry point for the modsel CLI.
package main

import (
	"os"

	"github.com/armn3t/go-modfilter/cmd/modsel/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
