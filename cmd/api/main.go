package main

import (
	"log"
	"os"

	"github.com/styleselector/core/cmd/api/commands"
)

// @title Style Selector API
// @version 1.0
// @description Style catalog, category index and prompt compositor for a generative-image web UI.

// @license.name MIT

// @host 127.0.0.1:7861
// @BasePath /api/v1

func main() {
	rootCmd := commands.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
