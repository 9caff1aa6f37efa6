// Package db persists analysis results in PostgreSQL or a local SQLite file.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	company      TEXT NOT NULL,
	score        INTEGER NOT NULL,
	confidence   TEXT NOT NULL,
	action       TEXT NOT NULL,
	source       TEXT NOT NULL DEFAULT '',
	text_hash    TEXT NOT NULL,
	profile_hash TEXT NOT NULL,
	result       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
CREATE INDEX IF NOT EXISTS analyses_hashes_idx ON analyses (text_hash, profile_hash);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Migrate creates the analyses table and its indexes if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// SaveAnalysis stores an analysis, replacing any record with the same ID
func (db *DB) SaveAnalysis(ctx context.Context, record *AnalysisRecord) error {
	if record.ID == "" {
		return ErrMissingID
	}
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, title, company, score, confidence, action, source,
		                       text_hash, profile_hash, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET title = $2, company = $3, score = $4,
		     confidence = $5, action = $6, source = $7, text_hash = $8,
		     profile_hash = $9, result = $10`,
		record.ID, record.Title, record.Company, record.Score, record.Confidence,
		record.Action, record.Source, record.TextHash, record.ProfileHash,
		resultJSON, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", record.ID, err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID
func (db *DB) GetAnalysis(ctx context.Context, id string) (*AnalysisRecord, error) {
	var r AnalysisRecord
	var resultJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, title, company, score, confidence, action, source,
		        text_hash, profile_hash, result, created_at
		 FROM analyses WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Title, &r.Company, &r.Score, &r.Confidence, &r.Action,
		&r.Source, &r.TextHash, &r.ProfileHash, &resultJSON, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(resultJSON, &r.Result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	return &r, nil
}

// ListAnalyses returns summaries, newest first
func (db *DB) ListAnalyses(ctx context.Context, filter ListFilter) ([]AnalysisSummary, error) {
	where, args := filter.whereClause(func(n int) string { return fmt.Sprintf("$%d", n) })
	args = append(args, filter.normalizedLimit(), max(filter.Offset, 0))

	query := fmt.Sprintf(
		`SELECT id, title, company, score, confidence, action, source, created_at
		 FROM analyses%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	summaries := make([]AnalysisSummary, 0)
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Company, &s.Score, &s.Confidence,
			&s.Action, &s.Source, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// whereClause renders the filter's conditions; placeholder formats the nth bind
// parameter for the target dialect.
func (f ListFilter) whereClause(placeholder func(n int) string) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, placeholder(len(args))))
	}

	if f.MinScore > 0 {
		add("score >= %s", f.MinScore)
	}
	if f.Action != "" {
		add("action = %s", f.Action)
	}
	if f.Company != "" {
		add("LOWER(company) = LOWER(%s)", f.Company)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
