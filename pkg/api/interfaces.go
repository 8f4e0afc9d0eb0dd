// Package api provides interfaces for dependency injection
package api

import (
	"github.com/segmentio/ksuid"

	"github.com/bytegauge/bytegauge/pkg/scan"
	"github.com/bytegauge/bytegauge/pkg/storage"
)

// ReportStore defines the interface for persisting scan reports
type ReportStore interface {
	// Put stores a report and returns its key
	Put(report scan.Report) (*ksuid.KSUID, error)

	// Get retrieves the report stored under id
	Get(id ksuid.KSUID) (*scan.Report, error)

	// List returns all stored reports
	List() ([]storage.StoredReport, error)

	// Delete removes the report stored under id
	Delete(id ksuid.KSUID) error

	// Close releases store resources
	Close() error
}
