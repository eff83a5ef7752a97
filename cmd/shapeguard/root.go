package main

import (
	"fmt"
	"os"

	"github.com/aretw0/shapeguard/internal/cli"
	"github.com/aretw0/shapeguard/internal/config"
	"github.com/spf13/cobra"
)

// Exit codes. A non-conforming document is not an execution error.
const (
	exitInvalid = 1
	exitError   = 2
)

var rootCmd = &cobra.Command{
	Use:   "shapeguard",
	Short: "shapeguard checks JSON documents against structural schemas",
	Long: `shapeguard validates the shape of JSON documents: arrays of a given item,
objects with an exact set of keys, and primitive types. No coercion, no partial matches.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./shapeguard.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// bootstrap loads configuration and builds the services for a command.
func bootstrap(cmd *cobra.Command) (*cli.Services, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}

	logger, err := cli.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return cli.Bootstrap(cfg, logger)
}
