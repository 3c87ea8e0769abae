// Package store persists research run history. Two drivers share one
// interface: SQLite for local single-binary use, Postgres for shared
// deployments.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trendscout/internal/model"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = eris.New("store: run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	// SaveRun persists a completed run. A missing ID or CreatedAt is
	// filled in before the write and reflected back on the record.
	SaveRun(ctx context.Context, rec *model.RunRecord) error
	GetRun(ctx context.Context, runID string) (*model.RunRecord, error)

	// ListRuns returns runs newest-first.
	ListRuns(ctx context.Context, filter RunFilter) ([]model.RunRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New opens a store for the given DSN. Postgres URLs route to the
// pool-backed driver; anything else is treated as a SQLite path.
func New(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgres(ctx, dsn, nil)
	}
	return NewSQLite(dsn)
}
