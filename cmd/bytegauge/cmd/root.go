/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/bytegauge/bytegauge/pkg/config"
)

// configContextKey is the context key under which the loaded
// configuration is stored for subcommands.
const configContextKey = "config"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bytegauge",
	Short: "ByteGauge - approximate Shannon entropy toolkit",
	Long: `ByteGauge estimates the Shannon entropy of byte sequences, in bits
per byte, using an approximate base-2 logarithm that needs no
transcendental math runtime. It can estimate entropy of streams and
files, scan directory trees, persist scan reports, and serve the
estimator over a REST API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg := config.DefaultConfig()
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		// Store in command context
		cmd.SetContext(context.WithValue(cmd.Context(), configContextKey, cfg))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
}

// configFromContext returns the configuration loaded by the root command,
// falling back to defaults if the command runs outside the root.
func configFromContext(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configContextKey).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}
