package api

import (
	"github.com/bytegauge/bytegauge/pkg/scan"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// EntropyResult is the response payload for an entropy estimate
type EntropyResult struct {
	Entropy float64 `json:"entropy"`
	Metric  float64 `json:"metric"`
	Length  int     `json:"length"`
}

// ScanRequest asks the server to scan a directory tree
type ScanRequest struct {
	Path  string `json:"path"`
	Store bool   `json:"store,omitempty"`
}

// ScanResult is the response payload for a directory scan
type ScanResult struct {
	Summary   scan.Summary  `json:"summary"`
	Reports   []scan.Report `json:"reports"`
	Flagged   []scan.Report `json:"flagged,omitempty"`
	StoredIDs []string      `json:"stored_ids,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port      int
	Bind      string
	APIKey    string
	DataDir   string
	Workers   int     // Worker pool size for directory scans
	ChunkSize int     // Read buffer size for file scans
	Threshold float64 // High-entropy flag threshold in bits per byte

	// MaxBodyBytes caps the request body accepted by the entropy
	// endpoint; defaults to 32 MiB when zero.
	MaxBodyBytes int64
}
