// Package main provides the extraction CLI entrypoint.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/pagelens/pagelens/cmd/pagelens-cli/commands"
)

func main() {
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
