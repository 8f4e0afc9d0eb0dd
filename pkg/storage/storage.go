// Package storage persists scan reports in an embedded pebble database,
// keyed by KSUID so listings come back in creation order.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/bytegauge/bytegauge/pkg/scan"
)

// StoredReport is a scan report together with its storage key.
type StoredReport struct {
	ID string `json:"id"`
	scan.Report
}

// ReportStore stores scan reports in a pebble database.
type ReportStore struct {
	db *pebble.DB
}

// NewReportStore opens (creating if necessary) the report database at path.
func NewReportStore(path string) (*ReportStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open report store: %w", err)
	}
	return &ReportStore{db: db}, nil
}

// Put stores a report under a fresh KSUID and returns the key.
func (s *ReportStore) Put(report scan.Report) (*ksuid.KSUID, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, pebble.NoSync); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	return &id, nil
}

// Get returns the report stored under id.
func (s *ReportStore) Get(id ksuid.KSUID) (*scan.Report, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", id, err)
	}
	defer closer.Close()

	var report scan.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}

	return &report, nil
}

// List returns all stored reports in key order. KSUIDs embed a
// second-resolution timestamp, so this is roughly oldest first.
func (s *ReportStore) List() ([]StoredReport, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate report store: %w", err)
	}
	defer iter.Close()

	var reports []StoredReport
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("malformed report key: %w", err)
		}

		var report scan.Report
		if err := json.Unmarshal(iter.Value(), &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
		}

		reports = append(reports, StoredReport{ID: id.String(), Report: report})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("report store iteration failed: %w", err)
	}

	return reports, nil
}

// Delete removes the report stored under id.
func (s *ReportStore) Delete(id ksuid.KSUID) error {
	if err := s.db.Delete(id.Bytes(), pebble.NoSync); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *ReportStore) Close() error {
	return s.db.Close()
}
