package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bytegauge/bytegauge/pkg/entropy"
	"github.com/bytegauge/bytegauge/pkg/scan"
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate [file...]",
	Short: "Estimate the Shannon entropy of stdin or files",
	Long: `Estimate the approximate Shannon entropy, in bits per byte, of data
read from standard input or from the given files.

Examples:
  cat /bin/ls | bytegauge estimate
  bytegauge estimate archive.zip notes.txt
  bytegauge estimate --metric archive.zip`,
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, _ := cmd.Flags().GetBool("metric")
		cfg := configFromContext(cmd)

		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			if metric {
				cmd.Printf("Shannon Metric Entropy (approximate): %v\n", entropy.Metric(data))
				return nil
			}
			cmd.Printf("Shannon Entropy (approximate bits per byte): %v\n", entropy.Estimate(data))
			return nil
		}

		for _, path := range args {
			report, err := scan.ScanFile(path, cfg.Scan.ChunkSize)
			if err != nil {
				return err
			}
			if metric {
				cmd.Printf("%s: %v\n", path, report.Metric)
				continue
			}
			cmd.Printf("%s: %v\n", path, report.Entropy)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	estimateCmd.Flags().Bool("metric", false, "Print metric entropy (entropy divided by input length)")
}
