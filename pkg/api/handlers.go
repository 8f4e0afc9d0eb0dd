package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/bytegauge/bytegauge/pkg/entropy"
	"github.com/bytegauge/bytegauge/pkg/scan"
)

const defaultMaxBodyBytes = 32 << 20

// Server holds the API server state
type Server struct {
	estimator *entropy.Estimator
	reports   ReportStore
	config    ServerConfig
	metrics   *Metrics
}

// NewServer creates a new API server
func NewServer(reports ReportStore, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		estimator: entropy.NewEstimator(),
		reports:   reports,
		config:    config,
		metrics:   metrics,
	}
}

// handleHealth reports service liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleEstimate computes the entropy of the raw request body
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.config.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		s.metrics.RecordEstimate("request", false, 0, 0)
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	result := EntropyResult{
		Entropy: s.estimator.Estimate(body),
		Metric:  s.estimator.Metric(body),
		Length:  len(body),
	}

	s.metrics.RecordEstimate("request", true, int64(len(body)), result.Entropy)
	sendSuccess(w, result)
}

// handleScan scans a directory tree on the server's filesystem
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordScan(false, 0, 0)
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		s.metrics.RecordScan(false, 0, 0)
		sendError(w, "Path is required", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		s.metrics.RecordScan(false, 0, 0)
		sendError(w, "Path is not a readable directory", http.StatusBadRequest)
		return
	}

	reports, err := scan.ScanDir(r.Context(), req.Path, scan.Options{
		Workers:   s.config.Workers,
		ChunkSize: s.config.ChunkSize,
	})
	if err != nil {
		s.metrics.RecordScan(false, 0, 0)
		sendError(w, "Scan failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	summary, err := scan.Summarize(reports)
	if err != nil {
		s.metrics.RecordScan(false, 0, 0)
		sendError(w, "Failed to summarize scan: "+err.Error(), http.StatusInternalServerError)
		return
	}

	threshold := s.config.Threshold
	if threshold <= 0 {
		threshold = scan.DefaultThreshold
	}

	result := ScanResult{
		Summary: summary,
		Reports: reports,
		Flagged: scan.Filter(reports, threshold),
	}

	if req.Store {
		for _, report := range reports {
			id, err := s.reports.Put(report)
			if err != nil {
				s.metrics.RecordScan(false, len(reports), time.Since(start))
				sendError(w, "Failed to store report: "+err.Error(), http.StatusInternalServerError)
				return
			}
			result.StoredIDs = append(result.StoredIDs, id.String())
		}
	}

	for _, report := range reports {
		s.metrics.RecordEstimate("scan", true, report.Size, report.Entropy)
	}
	s.metrics.RecordScan(true, len(reports), time.Since(start))
	sendSuccess(w, result)
}

// handleListReports returns all stored scan reports
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reports.List()
	if err != nil {
		sendError(w, "Failed to list reports: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, reports)
}

// handleGetReport returns the stored report for {id}
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	report, err := s.reports.Get(id)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			sendError(w, "Report not found", http.StatusNotFound)
			return
		}
		sendError(w, "Failed to read report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	sendSuccess(w, report)
}

// handleDeleteReport removes the stored report for {id}
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	if err := s.reports.Delete(id); err != nil {
		sendError(w, "Failed to delete report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	sendSuccess(w, map[string]string{"deleted": id.String()})
}
