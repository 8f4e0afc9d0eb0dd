package scan

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestScanFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("identical bytes", func(t *testing.T) {
		path := writeFile(t, tmpDir, "zeros.bin", bytes.Repeat([]byte{0}, 4096))

		report, err := ScanFile(path, 0)
		require.NoError(t, err)

		assert.Equal(t, path, report.Path)
		assert.Equal(t, int64(4096), report.Size)
		assert.InDelta(t, 0.0, report.Entropy, 0.01)
		assert.False(t, report.ScannedAt.IsZero())
	})

	t.Run("two values", func(t *testing.T) {
		path := writeFile(t, tmpDir, "half.bin", bytes.Repeat([]byte{0, 1}, 2048))

		report, err := ScanFile(path, 0)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, report.Entropy, 0.01)
	})

	t.Run("full alphabet", func(t *testing.T) {
		pattern := make([]byte, 256)
		for i := range pattern {
			pattern[i] = byte(i)
		}
		path := writeFile(t, tmpDir, "uniform.bin", bytes.Repeat(pattern, 16))

		report, err := ScanFile(path, 0)
		require.NoError(t, err)
		assert.InDelta(t, 8.0, report.Entropy, 0.01)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, tmpDir, "empty.bin", nil)

		report, err := ScanFile(path, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), report.Size)
		assert.Equal(t, 0.0, report.Entropy)
		assert.Equal(t, 0.0, report.Metric)
	})

	t.Run("chunked read matches single read", func(t *testing.T) {
		data := bytes.Repeat([]byte("entropy is additive over counts"), 100)
		path := writeFile(t, tmpDir, "chunked.bin", data)

		whole, err := ScanFile(path, len(data)+1)
		require.NoError(t, err)
		tiny, err := ScanFile(path, 7)
		require.NoError(t, err)

		assert.Equal(t, whole.Entropy, tiny.Entropy)
		assert.Equal(t, whole.Size, tiny.Size)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ScanFile(filepath.Join(tmpDir, "does-not-exist"), 0)
		assert.Error(t, err)
	})
}

func TestScanDir(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "a.bin", bytes.Repeat([]byte{0}, 512))
	writeFile(t, tmpDir, "b.bin", bytes.Repeat([]byte{0, 1}, 256))
	writeFile(t, tmpDir, filepath.Join("nested", "c.bin"), bytes.Repeat([]byte{0, 1, 2, 3}, 128))

	reports, err := ScanDir(context.Background(), tmpDir, Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, reports, 3)

	// Sorted by path.
	assert.True(t, reports[0].Path < reports[1].Path)
	assert.True(t, reports[1].Path < reports[2].Path)

	assert.InDelta(t, 0.0, reports[0].Entropy, 0.01)
	assert.InDelta(t, 1.0, reports[1].Entropy, 0.01)
	assert.InDelta(t, 2.0, reports[2].Entropy, 0.01)
}

func TestScanDir_Cancelled(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.bin", []byte("data"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanDir(ctx, tmpDir, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilter(t *testing.T) {
	reports := []Report{
		{Path: "low", Entropy: 1.5},
		{Path: "mid", Entropy: 6.9},
		{Path: "high", Entropy: 7.8},
	}

	flagged := Filter(reports, DefaultThreshold)
	require.Len(t, flagged, 1)
	assert.Equal(t, "high", flagged[0].Path)

	assert.Len(t, Filter(reports, 0), 3)
	assert.Empty(t, Filter(nil, DefaultThreshold))
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		summary, err := Summarize(nil)
		require.NoError(t, err)
		assert.Equal(t, Summary{}, summary)
	})

	t.Run("aggregates", func(t *testing.T) {
		reports := []Report{
			{Size: 100, Entropy: 1.0},
			{Size: 200, Entropy: 3.0},
			{Size: 300, Entropy: 5.0},
		}

		summary, err := Summarize(reports)
		require.NoError(t, err)

		assert.Equal(t, 3, summary.Files)
		assert.Equal(t, int64(600), summary.Bytes)
		assert.InDelta(t, 3.0, summary.Mean, 1e-9)
		assert.InDelta(t, 3.0, summary.Median, 1e-9)
		assert.InDelta(t, 1.0, summary.Min, 1e-9)
		assert.InDelta(t, 5.0, summary.Max, 1e-9)
		assert.Greater(t, summary.StdDev, 0.0)
	})
}
