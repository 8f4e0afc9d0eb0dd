package cmd

import (
	"path/filepath"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/bytegauge/bytegauge/pkg/storage"
)

// reportsCmd represents the reports command
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect stored scan reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored scan reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openReportStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		reports, err := store.List()
		if err != nil {
			return err
		}

		if len(reports) == 0 {
			cmd.Println("No stored reports")
			return nil
		}
		for _, r := range reports {
			cmd.Printf("%s  %8d  %.4f  %s\n", r.ID, r.Size, r.Entropy, r.Path)
		}
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored scan report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return err
		}

		store, err := openReportStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := store.Get(id)
		if err != nil {
			return err
		}

		cmd.Printf("Path:     %s\n", report.Path)
		cmd.Printf("Size:     %d bytes\n", report.Size)
		cmd.Printf("Entropy:  %.6f bits/byte\n", report.Entropy)
		cmd.Printf("Metric:   %.9f\n", report.Metric)
		cmd.Printf("Scanned:  %s\n", report.ScannedAt.Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored scan report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return err
		}

		store, err := openReportStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(id); err != nil {
			return err
		}
		cmd.Printf("Deleted %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsDeleteCmd)

	reportsCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the report store (default from config)")
}

// openReportStore opens the report store under the configured data directory.
func openReportStore(cmd *cobra.Command) (*storage.ReportStore, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = configFromContext(cmd).DataDir
	}
	return storage.NewReportStore(filepath.Join(dataDir, "reports"))
}
