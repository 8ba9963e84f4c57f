package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate"
	"github.com/toolgate/toolgate/internal/config"
	"github.com/toolgate/toolgate/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "toolgate",
	Short: "toolgate exposes vendor web APIs as MCP tool servers",
	Long: `toolgate wraps vendor web APIs (GitHub, SerpAPI, GreenAPI) as
schema-described tool servers for MCP hosts and HTTP clients.

Credentials are read from environment variables at startup and can be
overridden per call through the reserved __credentials__ argument.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig merges the optional config file with command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

// buildGate assembles the tool server for one vendor from the merged config.
func buildGate(cmd *cobra.Command, vendor string) (*toolgate.Gate, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	opts := []toolgate.Option{
		toolgate.WithLogger(logger),
		toolgate.WithVendorTimeout(cfg.VendorTimeout()),
	}
	if base := cfg.BaseURLs[vendor]; base != "" {
		opts = append(opts, toolgate.WithBaseURL(base))
	}

	gate, err := toolgate.New(vendor, opts...)
	if err != nil {
		return nil, cfg, err
	}
	return gate, cfg, nil
}
