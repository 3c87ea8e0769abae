package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/trendscout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS research_runs (
	id               TEXT PRIMARY KEY,
	inputs           TEXT NOT NULL,
	plan             TEXT NOT NULL,
	selected_results TEXT NOT NULL,
	report_markdown  TEXT NOT NULL DEFAULT '',
	errors           TEXT NOT NULL DEFAULT '[]',
	total_scraped    INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_research_runs_created_at ON research_runs(created_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, rec *model.RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	inputsJSON, planJSON, resultsJSON, errorsJSON, err := marshalRun(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal run")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO research_runs (id, inputs, plan, selected_results, report_markdown, errors, total_scraped, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(inputsJSON), string(planJSON), string(resultsJSON),
		rec.ReportMarkdown, string(errorsJSON), rec.TotalScraped, rec.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert run %s", rec.ID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, inputs, plan, selected_results, report_markdown, errors, total_scraped, created_at
		 FROM research_runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.RunRecord, error) {
	query := `SELECT id, inputs, plan, selected_results, report_markdown, errors, total_scraped, created_at
	          FROM research_runs ORDER BY created_at DESC`
	var args []any

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// helpers

func marshalRun(rec *model.RunRecord) (inputs, plan, results, errs []byte, err error) {
	if inputs, err = json.Marshal(rec.Inputs); err != nil {
		return
	}
	if plan, err = json.Marshal(rec.Plan); err != nil {
		return
	}
	selected := rec.SelectedResults
	if selected == nil {
		selected = []model.ContentItem{}
	}
	if results, err = json.Marshal(selected); err != nil {
		return
	}
	runErrs := rec.Errors
	if runErrs == nil {
		runErrs = []string{}
	}
	errs, err = json.Marshal(runErrs)
	return
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.RunRecord, error) {
	var r model.RunRecord
	var inputsJSON, planJSON, resultsJSON, errorsJSON string

	err := row.Scan(&r.ID, &inputsJSON, &planJSON, &resultsJSON,
		&r.ReportMarkdown, &errorsJSON, &r.TotalScraped, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if err := json.Unmarshal([]byte(inputsJSON), &r.Inputs); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal inputs")
	}
	if err := json.Unmarshal([]byte(planJSON), &r.Plan); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal plan")
	}
	if err := json.Unmarshal([]byte(resultsJSON), &r.SelectedResults); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal selected results")
	}
	if err := json.Unmarshal([]byte(errorsJSON), &r.Errors); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal errors")
	}
	return &r, nil
}
