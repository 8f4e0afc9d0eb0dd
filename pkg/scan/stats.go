package scan

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary aggregates the entropy distribution of a set of reports.
type Summary struct {
	Files  int     `json:"files"`
	Bytes  int64   `json:"bytes"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes aggregate statistics over the entropy values of
// reports. An empty report set yields a zero Summary.
func Summarize(reports []Report) (Summary, error) {
	if len(reports) == 0 {
		return Summary{}, nil
	}

	values := make(stats.Float64Data, len(reports))
	var bytes int64
	for i, r := range reports {
		values[i] = r.Entropy
		bytes += r.Size
	}

	mean, err := values.Mean()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute mean: %w", err)
	}
	median, err := values.Median()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute median: %w", err)
	}
	stdDev, err := values.StandardDeviation()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute standard deviation: %w", err)
	}
	min, err := values.Min()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute min: %w", err)
	}
	max, err := values.Max()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute max: %w", err)
	}

	return Summary{
		Files:  len(reports),
		Bytes:  bytes,
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
	}, nil
}
