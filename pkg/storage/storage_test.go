package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytegauge/bytegauge/pkg/scan"
)

func newTestStore(t *testing.T) *ReportStore {
	t.Helper()
	store, err := NewReportStore(filepath.Join(t.TempDir(), "reports"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestReportStore_PutGet(t *testing.T) {
	store := newTestStore(t)

	want := scan.Report{
		Path:      "/tmp/sample.bin",
		Size:      1024,
		Entropy:   7.91,
		Metric:    0.0077,
		ScannedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	id, err := store.Put(want)
	require.NoError(t, err)
	require.NotNil(t, id)

	got, err := store.Get(*id)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestReportStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(ksuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, pebble.ErrNotFound)
}

func TestReportStore_List(t *testing.T) {
	store := newTestStore(t)

	paths := []string{"/a", "/b", "/c"}
	for _, p := range paths {
		_, err := store.Put(scan.Report{Path: p, Entropy: 1.0})
		require.NoError(t, err)
	}

	reports, err := store.List()
	require.NoError(t, err)
	require.Len(t, reports, 3)

	// KSUID timestamps have second resolution, so ordering within a
	// single second is not guaranteed.
	var got []string
	for _, r := range reports {
		assert.NotEmpty(t, r.ID)
		got = append(got, r.Path)
	}
	assert.ElementsMatch(t, paths, got)
}

func TestReportStore_Delete(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Put(scan.Report{Path: "/gone"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(*id))

	_, err = store.Get(*id)
	assert.Error(t, err)

	reports, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, reports)
}
