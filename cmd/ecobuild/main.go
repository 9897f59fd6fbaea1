// EcoBuild Core - sustainability scoring for proposed buildings.
//
// This is the main entry point for the ecobuild binary. It serves the
// backend API and wizard sessions, manages the schema, and scores building
// descriptions from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/ecobuild-core/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on Ctrl+C or SIGTERM so every command shuts down cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1) //nolint:gocritic // cancel already called
	}
}

// getConfigPath returns the configuration file path.
// Uses ECOBUILD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ECOBUILD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
