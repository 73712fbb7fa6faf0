package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "modernc.org/sqlite"          // registers "sqlite"

	"mercator-hq/arbor/pkg/config"
	"mercator-hq/arbor/pkg/report"
)

const defaultQueryLimit = 100

// SQLiteStorage implements report.Storage using SQLite.
// Timestamps are stored as unix nanoseconds so both drivers round-trip them identically.
type SQLiteStorage struct {
	db     *sql.DB
	config config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database at cfg.Path with cfg.Driver and
// creates the schema if needed.
func NewSQLiteStorage(cfg config.SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Driver == "" {
		cfg.Driver = config.DefaultSQLiteDriver
	}
	if cfg.Path == "" {
		return nil, report.NewStorageError("sqlite", "open", fmt.Errorf("database path cannot be empty"))
	}

	logger := slog.Default().With("component", "report.storage.sqlite")

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, report.NewStorageError("sqlite", "open", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	s := &SQLiteStorage{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite report storage initialized",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"wal_mode", cfg.WALEnabled(),
	)

	return s, nil
}

// initialize applies pragmas, creates the schema and verifies its version.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALEnabled() {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return report.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	if s.config.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())
		if _, err := s.db.Exec(pragma); err != nil {
			return report.NewStorageError("sqlite", "set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return report.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return report.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return report.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return report.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store inserts a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *report.Record) error {
	const query = `
		INSERT INTO reports (
			id, run_id, operation, grammar, subject, ok,
			error_kind, error, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, nullable(record.RunID), record.Operation, record.Grammar, record.Subject, record.OK,
		nullable(record.ErrorKind), nullable(record.Error),
		record.Duration.Milliseconds(), record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return report.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query returns matching records ordered by creation time.
func (s *SQLiteStorage) Query(ctx context.Context, query *report.Query) ([]*report.Record, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT id, run_id, operation, grammar, subject, ok, error_kind, error, duration_ms, created_at FROM reports"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	sortOrder := "DESC"
	if query.Ascending() {
		sortOrder = "ASC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY created_at %s, id %s", sortOrder, sortOrder)

	limit := defaultQueryLimit
	if query != nil && query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query != nil && query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, report.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*report.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, report.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, report.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the number of matching records.
func (s *SQLiteStorage) Count(ctx context.Context, query *report.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM reports"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, report.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Delete removes matching records.
func (s *SQLiteStorage) Delete(ctx context.Context, query *report.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM reports"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, report.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, report.NewStorageError("sqlite", "delete", err)
	}
	return count, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return report.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite report storage closed")
	return nil
}

func buildWhereClause(query *report.Query) (string, []interface{}) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []interface{}

	if query.StartTime != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, query.EndTime.UnixNano())
	}
	if query.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, query.RunID)
	}
	if query.Operation != "" {
		conditions = append(conditions, "operation = ?")
		args = append(args, query.Operation)
	}
	if query.Grammar != "" {
		conditions = append(conditions, "grammar = ?")
		args = append(args, query.Grammar)
	}
	if query.OK != nil {
		conditions = append(conditions, "ok = ?")
		args = append(args, *query.OK)
	}

	return strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(row rowScanner) (*report.Record, error) {
	var (
		record     report.Record
		runID      sql.NullString
		errorKind  sql.NullString
		errorText  sql.NullString
		durationMs int64
		createdAt  int64
	)

	err := row.Scan(
		&record.ID, &runID, &record.Operation, &record.Grammar, &record.Subject, &record.OK,
		&errorKind, &errorText, &durationMs, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.RunID = runID.String
	record.ErrorKind = errorKind.String
	record.Error = errorText.String
	record.Duration = time.Duration(durationMs) * time.Millisecond
	record.CreatedAt = time.Unix(0, createdAt)

	return &record, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
