/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bytegauge/bytegauge/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a ByteGauge configuration with a generated API key",
	Long: `Create the ByteGauge configuration file with a generated client API
key and default scan settings.

Examples:
  bytegauge init
  bytegauge init --data-dir /var/lib/bytegauge
  bytegauge init --config ./bytegauge.yaml --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		if dataDir != "" {
			if err := os.MkdirAll(dataDir, 0750); err != nil {
				return err
			}
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			return err
		}

		cmd.Printf("Configuration written to %s\n", configPath)
		cmd.Printf("Client API key: %s\n", cfg.Security.ClientAPIKey)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("\nStart the server with:\n")
		cmd.Printf("  bytegauge serve --config %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringP("data-dir", "d", "", "Data directory for the report store")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}
