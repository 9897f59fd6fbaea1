package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/config"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/logging"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

// NewRootCommand creates the ecobuild command tree. Running it without a
// subcommand starts the server.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ecobuild",
		Short: "Sustainability scoring for proposed buildings",
		Long: `EcoBuild Core scores proposed buildings for sustainability.

It serves the wizard and building API, stores analysed buildings per user,
and publishes building events to WebSocket clients, MQTT and InfluxDB.`,
		Version: version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", getConfigPath(),
		"path to the YAML configuration file (env ECOBUILD_CONFIG)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newAnalyzeCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// loadConfig loads configuration and builds the configured logger.
func loadConfig(opts *rootOptions) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, logging.New(cfg.Logging, version), nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ecobuild %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
