package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytegauge/bytegauge/pkg/scan"
	"github.com/bytegauge/bytegauge/pkg/storage"
)

// Prometheus collectors register globally, so all tests share one Metrics.
var (
	metricsOnce sync.Once
	testMetrics *Metrics
)

func sharedMetrics() *Metrics {
	metricsOnce.Do(func() {
		testMetrics = NewMetrics()
	})
	return testMetrics
}

// fakeReportStore is an in-memory ReportStore for handler tests.
type fakeReportStore struct {
	mu      sync.Mutex
	reports map[ksuid.KSUID]scan.Report
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[ksuid.KSUID]scan.Report)}
}

func (f *fakeReportStore) Put(report scan.Report) (*ksuid.KSUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := ksuid.New()
	f.reports[id] = report
	return &id, nil
}

func (f *fakeReportStore) Get(id ksuid.KSUID) (*scan.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[id]
	if !ok {
		return nil, pebble.ErrNotFound
	}
	return &report, nil
}

func (f *fakeReportStore) List() ([]storage.StoredReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []storage.StoredReport
	for id, report := range f.reports {
		out = append(out, storage.StoredReport{ID: id.String(), Report: report})
	}
	return out, nil
}

func (f *fakeReportStore) Delete(id ksuid.KSUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reports, id)
	return nil
}

func (f *fakeReportStore) Close() error { return nil }

func newTestServer(t *testing.T) (*Server, *fakeReportStore) {
	t.Helper()
	store := newFakeReportStore()
	server := NewServer(store, ServerConfig{APIKey: "test-key"}, sharedMetrics())
	return server, store
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	server.handleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestHandleEstimate(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name        string
		body        []byte
		wantEntropy float64
	}{
		{
			name:        "empty body",
			body:        nil,
			wantEntropy: 0.0,
		},
		{
			name:        "single repeated byte",
			body:        bytes.Repeat([]byte("A"), 64),
			wantEntropy: 0.0,
		},
		{
			name:        "two equally frequent values",
			body:        []byte("A\n"),
			wantEntropy: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/entropy", bytes.NewReader(tt.body))
			w := httptest.NewRecorder()
			server.handleEstimate(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Success bool          `json:"success"`
				Data    EntropyResult `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Success)
			assert.InDelta(t, tt.wantEntropy, resp.Data.Entropy, 0.01)
			assert.Equal(t, len(tt.body), resp.Data.Length)
		})
	}
}

func TestHandleScan(t *testing.T) {
	server, store := newTestServer(t)

	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "flat.bin"), bytes.Repeat([]byte{0}, 256), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "two.bin"), bytes.Repeat([]byte{0, 1}, 128), 0600))

	t.Run("scan without storing", func(t *testing.T) {
		body, _ := json.Marshal(ScanRequest{Path: tmpDir})
		req := httptest.NewRequest("POST", "/api/v1/scan", bytes.NewReader(body))
		w := httptest.NewRecorder()
		server.handleScan(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool       `json:"success"`
			Data    ScanResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.Data.Summary.Files)
		assert.Len(t, resp.Data.Reports, 2)
		assert.Empty(t, resp.Data.StoredIDs)
		assert.Empty(t, store.reports)
	})

	t.Run("scan with storing", func(t *testing.T) {
		body, _ := json.Marshal(ScanRequest{Path: tmpDir, Store: true})
		req := httptest.NewRequest("POST", "/api/v1/scan", bytes.NewReader(body))
		w := httptest.NewRecorder()
		server.handleScan(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool       `json:"success"`
			Data    ScanResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.StoredIDs, 2)
		assert.Len(t, store.reports, 2)
	})

	t.Run("missing path", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/scan", bytes.NewReader([]byte(`{}`)))
		w := httptest.NewRecorder()
		server.handleScan(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("path is not a directory", func(t *testing.T) {
		body, _ := json.Marshal(ScanRequest{Path: filepath.Join(tmpDir, "flat.bin")})
		req := httptest.NewRequest("POST", "/api/v1/scan", bytes.NewReader(body))
		w := httptest.NewRecorder()
		server.handleScan(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/scan", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		server.handleScan(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportEndpointsThroughRouter(t *testing.T) {
	store := newFakeReportStore()
	metrics := sharedMetrics()
	server := NewServer(store, ServerConfig{APIKey: "router-key"}, metrics)
	router := NewRouter(server, metrics, "router-key")

	id, err := store.Put(scan.Report{Path: "/data/high.bin", Size: 64, Entropy: 7.9})
	require.NoError(t, err)

	do := func(method, path string, withKey bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if withKey {
			req.Header.Set("X-API-Key", "router-key")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("requires API key", func(t *testing.T) {
		w := do("GET", "/api/v1/reports", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("list reports", func(t *testing.T) {
		w := do("GET", "/api/v1/reports", true)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool                   `json:"success"`
			Data    []storage.StoredReport `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "/data/high.bin", resp.Data[0].Path)
	})

	t.Run("get report", func(t *testing.T) {
		w := do("GET", "/api/v1/reports/"+id.String(), true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("get with invalid id", func(t *testing.T) {
		w := do("GET", "/api/v1/reports/not-a-ksuid", true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete report", func(t *testing.T) {
		w := do("DELETE", "/api/v1/reports/"+id.String(), true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, store.reports)
	})
}
