package main

import (
	"fmt"
	"os"

	"github.com/streamtide/deploy-cli/internal/cli"
	"github.com/streamtide/deploy-cli/internal/config"
)

// Set through -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
