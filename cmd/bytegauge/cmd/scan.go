package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bytegauge/bytegauge/pkg/scan"
	"github.com/bytegauge/bytegauge/pkg/storage"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Scan a directory tree and report per-file entropy",
	Long: `Scan every regular file under a directory and report its approximate
Shannon entropy. Files at or above the high-entropy threshold are
flagged; these are typically compressed or encrypted.

Examples:
  bytegauge scan ./payloads
  bytegauge scan --workers 8 --threshold 7.5 /var/uploads
  bytegauge scan --store --data-dir ./data ./payloads`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromContext(cmd)

		workers, _ := cmd.Flags().GetInt("workers")
		chunkSize, _ := cmd.Flags().GetInt("chunk-size")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		store, _ := cmd.Flags().GetBool("store")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		if workers == 0 {
			workers = cfg.Scan.Workers
		}
		if chunkSize == 0 {
			chunkSize = cfg.Scan.ChunkSize
		}
		if threshold == 0 {
			threshold = cfg.Scan.HighEntropyThreshold
		}
		if dataDir == "" {
			dataDir = cfg.DataDir
		}

		reports, err := scan.ScanDir(cmd.Context(), args[0], scan.Options{
			Workers:   workers,
			ChunkSize: chunkSize,
		})
		if err != nil {
			return err
		}

		for _, r := range reports {
			marker := " "
			if r.Entropy >= threshold {
				marker = "!"
			}
			cmd.Printf("%s %8d  %.4f  %s\n", marker, r.Size, r.Entropy, r.Path)
		}

		summary, err := scan.Summarize(reports)
		if err != nil {
			return err
		}
		cmd.Printf("\n%d files, %d bytes\n", summary.Files, summary.Bytes)
		if summary.Files > 0 {
			cmd.Printf("entropy mean=%.4f median=%.4f stddev=%.4f min=%.4f max=%.4f\n",
				summary.Mean, summary.Median, summary.StdDev, summary.Min, summary.Max)
		}

		flagged := scan.Filter(reports, threshold)
		if len(flagged) > 0 {
			cmd.Printf("%d high-entropy files at or above %.2f bits/byte\n", len(flagged), threshold)
		}

		if store {
			reportStore, err := storage.NewReportStore(filepath.Join(dataDir, "reports"))
			if err != nil {
				return err
			}
			defer reportStore.Close()

			for _, r := range reports {
				id, err := reportStore.Put(r)
				if err != nil {
					return err
				}
				cmd.Printf("stored %s as %s\n", r.Path, id)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Int("workers", 0, "Number of concurrent file scanners (default from config)")
	scanCmd.Flags().Int("chunk-size", 0, "Read buffer size in bytes (default from config)")
	scanCmd.Flags().Float64("threshold", 0, "High-entropy threshold in bits per byte (default from config)")
	scanCmd.Flags().Bool("store", false, "Persist reports to the report store")
	scanCmd.Flags().StringP("data-dir", "d", "", "Data directory for the report store (default from config)")
}
