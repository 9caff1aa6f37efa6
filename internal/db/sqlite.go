package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteTimeLayout has a fixed width so that created_at sorts as text
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps analysis history in a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the history database at path and its schema
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	conn.SetMaxOpenConns(1) // SQLite: single writer

	if _, err := conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS analyses (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		company      TEXT NOT NULL,
		score        INTEGER NOT NULL,
		confidence   TEXT NOT NULL,
		action       TEXT NOT NULL,
		source       TEXT NOT NULL DEFAULT '',
		text_hash    TEXT NOT NULL,
		profile_hash TEXT NOT NULL,
		result       TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}

	return &SQLiteStore{db: conn}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAnalysis stores an analysis, replacing any record with the same ID
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, record *AnalysisRecord) error {
	if record.ID == "" {
		return ErrMissingID
	}
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO analyses (id, title, company, score, confidence, action,
		                                  source, text_hash, profile_hash, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Title, record.Company, record.Score, record.Confidence,
		record.Action, record.Source, record.TextHash, record.ProfileHash,
		string(resultJSON), record.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", record.ID, err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID
func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*AnalysisRecord, error) {
	var r AnalysisRecord
	var resultJSON, createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, company, score, confidence, action, source,
		        text_hash, profile_hash, result, created_at
		 FROM analyses WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.Title, &r.Company, &r.Score, &r.Confidence, &r.Action,
		&r.Source, &r.TextHash, &r.ProfileHash, &resultJSON, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(resultJSON), &r.Result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	r.CreatedAt, _ = time.Parse(sqliteTimeLayout, createdAt)
	return &r, nil
}

// ListAnalyses returns summaries, newest first
func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter ListFilter) ([]AnalysisSummary, error) {
	where, args := filter.whereClause(func(int) string { return "?" })
	args = append(args, filter.normalizedLimit(), max(filter.Offset, 0))

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, company, score, confidence, action, source, created_at
		 FROM analyses`+where+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]AnalysisSummary, 0)
	for rows.Next() {
		var sum AnalysisSummary
		var createdAt string
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Company, &sum.Score, &sum.Confidence,
			&sum.Action, &sum.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(sqliteTimeLayout, createdAt)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
