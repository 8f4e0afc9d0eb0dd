/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bytegauge/bytegauge/pkg/api"
	"github.com/bytegauge/bytegauge/pkg/config"
	"github.com/bytegauge/bytegauge/pkg/storage"
)

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bootstrap and start the ByteGauge server",
	Long: `Bootstrap ByteGauge by creating the configuration and API key if they
don't exist, then start the REST API server. This is the recommended way
to get ByteGauge running.

Examples:
  bytegauge up
  bytegauge up --data-dir ./mydata --port 9000
  bytegauge up --config ./custom-config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		configPath, _ := cmd.Flags().GetString("config")
		printKey, _ := cmd.Flags().GetBool("print-key")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		var cfg *config.Config
		var err error

		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cmd.Printf("Loaded existing configuration from %s\n", configPath)
		} else {
			cmd.Printf("First run detected. Bootstrapping ByteGauge...\n")
			cfg, err = config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				return err
			}
			cmd.Printf("Created configuration at %s\n", configPath)
		}

		if port != 0 {
			cfg.Port = port
		}
		if bind != "" {
			cfg.Bind = bind
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		if printKey {
			cmd.Printf("Client API key: %s\n", cfg.Security.ClientAPIKey)
		}

		reportStore, err := storage.NewReportStore(filepath.Join(cfg.DataDir, "reports"))
		if err != nil {
			return err
		}
		defer reportStore.Close()

		serverConfig := api.ServerConfig{
			Port:      cfg.Port,
			Bind:      cfg.Bind,
			APIKey:    cfg.Security.ClientAPIKey,
			DataDir:   cfg.DataDir,
			Workers:   cfg.Scan.Workers,
			ChunkSize: cfg.Scan.ChunkSize,
			Threshold: cfg.Scan.HighEntropyThreshold,
		}

		return api.StartServer(reportStore, serverConfig)
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
	upCmd.Flags().StringP("data-dir", "d", "", "Data directory for the report store")
	upCmd.Flags().IntP("port", "p", 0, "Port to listen on")
	upCmd.Flags().String("bind", "", "Address to bind to")
	upCmd.Flags().Bool("print-key", false, "Print the client API key on startup")
}
