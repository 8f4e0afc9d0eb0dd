/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bytegauge/bytegauge/pkg/api"
	"github.com/bytegauge/bytegauge/pkg/storage"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the ByteGauge REST API server.

The server exposes entropy estimation over POST /api/v1/entropy,
directory scans over POST /api/v1/scan, and stored scan reports under
/api/v1/reports. All API routes require the X-API-Key header; Prometheus
metrics are served unauthenticated at /metrics.

Examples:
  bytegauge serve --api-key=mysecretkey --port=8080
  bytegauge serve --config ./bytegauge.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromContext(cmd)

		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		if port == 0 {
			port = cfg.Port
		}
		if bind == "" {
			bind = cfg.Bind
		}
		if dataDir == "" {
			dataDir = cfg.DataDir
		}
		if apiKey == "" {
			apiKey = cfg.Security.ClientAPIKey
		}
		if apiKey == "" || apiKey == "auto" {
			cmd.Println("Error: no API key configured (pass --api-key or run 'bytegauge init' first)")
			return nil
		}

		reportStore, err := storage.NewReportStore(filepath.Join(dataDir, "reports"))
		if err != nil {
			return err
		}
		defer reportStore.Close()

		serverConfig := api.ServerConfig{
			Port:      port,
			Bind:      bind,
			APIKey:    apiKey,
			DataDir:   dataDir,
			Workers:   cfg.Scan.Workers,
			ChunkSize: cfg.Scan.ChunkSize,
			Threshold: cfg.Scan.HighEntropyThreshold,
		}

		return api.StartServer(reportStore, serverConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().String("bind", "", "Address to bind to (default from config)")
	serveCmd.Flags().String("api-key", "", "API key for client authentication (default from config)")
	serveCmd.Flags().StringP("data-dir", "d", "", "Data directory for the report store (default from config)")
}
