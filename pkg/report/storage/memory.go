package storage

import (
	"context"
	"sort"
	"sync"

	"mercator-hq/arbor/pkg/report"
)

// MemoryStorage implements report.Storage with an in-memory map.
// Records are lost when the process exits.
type MemoryStorage struct {
	records map[string]*report.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*report.Record),
	}
}

// Store persists a copy of the record.
func (s *MemoryStorage) Store(ctx context.Context, record *report.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.records[record.ID] = &recordCopy
	return nil
}

// Query returns copies of the matching records, newest first unless the
// query asks for ascending order.
func (s *MemoryStorage) Query(ctx context.Context, query *report.Query) ([]*report.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*report.Record{}
	for _, record := range s.records {
		if query.Matches(record) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	asc := query.Ascending()
	sort.Slice(results, func(i, j int) bool {
		ti, tj := results[i].CreatedAt, results[j].CreatedAt
		if ti.Equal(tj) {
			return results[i].ID < results[j].ID
		}
		if asc {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if query == nil {
		return results, nil
	}

	start := query.Offset
	if start > len(results) {
		return []*report.Record{}, nil
	}
	results = results[start:]
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}
	return results, nil
}

// Count returns the number of matching records.
func (s *MemoryStorage) Count(ctx context.Context, query *report.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if query.Matches(record) {
			count++
		}
	}
	return count, nil
}

// Delete removes the matching records.
func (s *MemoryStorage) Delete(ctx context.Context, query *report.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if query.Matches(record) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close clears all records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*report.Record)
	return nil
}
