package db

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingID is returned when saving a record without an ID
var ErrMissingID = errors.New("analysis record has no id")

// Store persists analysis results. Get returns (nil, nil) when no record matches.
type Store interface {
	SaveAnalysis(ctx context.Context, record *AnalysisRecord) error
	GetAnalysis(ctx context.Context, id string) (*AnalysisRecord, error)
	ListAnalyses(ctx context.Context, filter ListFilter) ([]AnalysisSummary, error)
	Close() error
}

// Open returns a Postgres store when databaseURL is set, otherwise a SQLite store
// at sqlitePath. With neither configured it returns (nil, nil) and results are
// not persisted.
func Open(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	switch {
	case databaseURL != "":
		database, err := Connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, err
		}
		return database, nil
	case sqlitePath != "":
		store, err := OpenSQLite(ctx, sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}
