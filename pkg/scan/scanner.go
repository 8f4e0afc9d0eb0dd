// Package scan computes entropy reports for files and directory trees.
package scan

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bytegauge/bytegauge/pkg/entropy"
)

const (
	// DefaultChunkSize is the read buffer size for file scans.
	DefaultChunkSize = 1 << 20

	// DefaultWorkers is the worker pool size for directory scans.
	DefaultWorkers = 4

	// DefaultThreshold is the bits-per-byte level above which a file is
	// considered high-entropy (likely compressed or encrypted).
	DefaultThreshold = 7.2
)

// Report holds the entropy measurement for a single file.
type Report struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Entropy   float64   `json:"entropy"`
	Metric    float64   `json:"metric"`
	ScannedAt time.Time `json:"scanned_at"`
}

// Options configures a scan.
type Options struct {
	// Workers is the number of concurrent file scanners; DefaultWorkers
	// when zero or negative.
	Workers int

	// ChunkSize is the per-read buffer size in bytes; DefaultChunkSize
	// when zero or negative.
	ChunkSize int
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return DefaultWorkers
	}
	return o.Workers
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

// ScanFile computes the entropy report for a single file. The file is
// read in chunks of chunkSize bytes; the counts accumulate into one
// frequency table and the estimator runs once over the final table, so
// arbitrarily large files are scanned without loading them into memory.
func ScanFile(path string, chunkSize int) (Report, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var table entropy.FreqTable
	var total int64

	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			chunk := entropy.Count(buf[:n])
			for i, c := range chunk {
				table[i] += c
			}
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Report{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	est := entropy.NewEstimator()
	h := est.EstimateTable(&table, int(total))

	var metric float64
	if total > 0 {
		metric = h / float64(total)
	}

	return Report{
		Path:      path,
		Size:      total,
		Entropy:   h,
		Metric:    metric,
		ScannedAt: time.Now().UTC(),
	}, nil
}

// ScanDir walks root and computes a report for every regular file,
// fanning the work out over a fixed pool of workers. Reports come back
// sorted by path. The walk stops early if ctx is cancelled.
func ScanDir(ctx context.Context, root string, opts Options) ([]Report, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	jobs := make(chan string)
	results := make(chan Report, len(paths))
	errs := make(chan error, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < opts.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				report, err := ScanFile(path, opts.chunkSize())
				if err != nil {
					errs <- err
					continue
				}
				results <- report
			}
		}()
	}

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	close(results)
	close(errs)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := <-errs; err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(paths))
	for report := range results {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Path < reports[j].Path
	})

	return reports, nil
}

// Filter returns the reports whose entropy is at or above threshold.
func Filter(reports []Report, threshold float64) []Report {
	var flagged []Report
	for _, r := range reports {
		if r.Entropy >= threshold {
			flagged = append(flagged, r)
		}
	}
	return flagged
}
