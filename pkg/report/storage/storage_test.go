package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/arbor/pkg/config"
	"mercator-hq/arbor/pkg/report"
)

var base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func record(id string, age time.Duration, ok bool) *report.Record {
	return &report.Record{
		ID:        id,
		RunID:     "run-1",
		Operation: report.OperationSubtype,
		Grammar:   "lang",
		Subject:   "lang.Bool <: lang.Expression",
		OK:        ok,
		Duration:  3 * time.Millisecond,
		CreatedAt: base.Add(-age),
	}
}

func newSQLite(t *testing.T, driver string) report.Storage {
	t.Helper()
	s, err := NewSQLiteStorage(config.SQLiteConfig{
		Driver:       driver,
		Path:         filepath.Join(t.TempDir(), "reports.db"),
		BusyTimeout:  time.Second,
		MaxOpenConns: 1,
	})
	if err != nil {
		if strings.Contains(err.Error(), "CGO_ENABLED=0") {
			t.Skipf("driver %s needs cgo", driver)
		}
		t.Fatalf("NewSQLiteStorage(%s) error = %v", driver, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func backends() map[string]func(t *testing.T) report.Storage {
	return map[string]func(t *testing.T) report.Storage{
		"memory":  func(t *testing.T) report.Storage { return NewMemoryStorage() },
		"sqlite":  func(t *testing.T) report.Storage { return newSQLite(t, "sqlite") },
		"sqlite3": func(t *testing.T) report.Storage { return newSQLite(t, "sqlite3") },
	}
}

func seed(t *testing.T, s report.Storage) {
	t.Helper()
	ctx := context.Background()
	records := []*report.Record{
		record("a", 3*time.Hour, true),
		record("b", 2*time.Hour, false),
		record("c", 1*time.Hour, true),
	}
	records[1].Operation = report.OperationValidate
	records[1].ErrorKind = "unknown_type"
	records[1].Error = "unknown type \"Foo\""
	for _, r := range records {
		if err := s.Store(ctx, r); err != nil {
			t.Fatalf("Store(%s) error = %v", r.ID, err)
		}
	}
}

func ids(records []*report.Record) string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return strings.Join(out, ",")
}

func TestStorage_Query(t *testing.T) {
	okTrue := true
	cutoff := base.Add(-90 * time.Minute)

	tests := []struct {
		name  string
		query *report.Query
		want  string
	}{
		{name: "all newest first", query: &report.Query{}, want: "c,b,a"},
		{name: "ascending", query: &report.Query{SortOrder: "asc"}, want: "a,b,c"},
		{name: "limit", query: &report.Query{Limit: 2}, want: "c,b"},
		{name: "offset", query: &report.Query{Offset: 1}, want: "b,a"},
		{name: "ok only", query: &report.Query{OK: &okTrue}, want: "c,a"},
		{name: "operation", query: &report.Query{Operation: report.OperationValidate}, want: "b"},
		{name: "end time", query: &report.Query{EndTime: &cutoff}, want: "b,a"},
		{name: "start time", query: &report.Query{StartTime: &cutoff}, want: "c"},
		{name: "grammar miss", query: &report.Query{Grammar: "other"}, want: ""},
	}

	for backend, open := range backends() {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			seed(t, s)

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := s.Query(context.Background(), tt.query)
					if err != nil {
						t.Fatalf("Query() error = %v", err)
					}
					if ids(got) != tt.want {
						t.Errorf("Query() = %q, want %q", ids(got), tt.want)
					}
				})
			}
		})
	}
}

func TestStorage_RoundTripFields(t *testing.T) {
	for backend, open := range backends() {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			seed(t, s)

			got, err := s.Query(context.Background(), &report.Query{Operation: report.OperationValidate})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("Query() returned %d records, want 1", len(got))
			}
			r := got[0]
			if r.ErrorKind != "unknown_type" {
				t.Errorf("ErrorKind = %q, want %q", r.ErrorKind, "unknown_type")
			}
			if r.RunID != "run-1" {
				t.Errorf("RunID = %q, want %q", r.RunID, "run-1")
			}
			if r.Duration != 3*time.Millisecond {
				t.Errorf("Duration = %v, want %v", r.Duration, 3*time.Millisecond)
			}
			if !r.CreatedAt.Equal(base.Add(-2 * time.Hour)) {
				t.Errorf("CreatedAt = %v, want %v", r.CreatedAt, base.Add(-2*time.Hour))
			}
		})
	}
}

func TestStorage_CountAndDelete(t *testing.T) {
	for backend, open := range backends() {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			seed(t, s)
			ctx := context.Background()

			count, err := s.Count(ctx, &report.Query{})
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if count != 3 {
				t.Errorf("Count() = %d, want 3", count)
			}

			cutoff := base.Add(-90 * time.Minute)
			deleted, err := s.Delete(ctx, &report.Query{EndTime: &cutoff})
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if deleted != 2 {
				t.Errorf("Delete() = %d, want 2", deleted)
			}

			count, _ = s.Count(ctx, &report.Query{})
			if count != 1 {
				t.Errorf("Count() after delete = %d, want 1", count)
			}
		})
	}
}

func TestStorage_DuplicateID(t *testing.T) {
	s := newSQLite(t, "sqlite")
	ctx := context.Background()

	if err := s.Store(ctx, record("a", 0, true)); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	err := s.Store(ctx, record("a", 0, true))
	if err == nil {
		t.Fatal("Store() with duplicate id should fail")
	}
	var storageErr *report.StorageError
	if !errors.As(err, &storageErr) || storageErr.Operation != "store" {
		t.Errorf("Store() error = %v, want StorageError for operation store", err)
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage(config.SQLiteConfig{})
	if err == nil {
		t.Error("NewSQLiteStorage() with empty path should fail")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend string
		wantNil bool
		wantErr bool
	}{
		{backend: "none", wantNil: true},
		{backend: "", wantNil: true},
		{backend: "memory"},
		{backend: "postgres", wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := New(&config.ReportsConfig{Backend: tt.backend})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (s == nil) != tt.wantNil {
				t.Errorf("New() = %v, wantNil %v", s, tt.wantNil)
			}
		})
	}
}
