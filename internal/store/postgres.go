package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/trendscout/internal/db"
	"github.com/sells-group/trendscout/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_run": `INSERT INTO research_runs (id, inputs, plan, selected_results, report_markdown, errors, total_scraped, created_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
	"get_run": `SELECT id, inputs, plan, selected_results, report_markdown, errors, total_scraped, created_at
	            FROM research_runs WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS research_runs (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	inputs           JSONB NOT NULL,
	plan             JSONB NOT NULL,
	selected_results JSONB NOT NULL,
	report_markdown  TEXT NOT NULL DEFAULT '',
	errors           JSONB NOT NULL DEFAULT '[]',
	total_scraped    INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_research_runs_created_at ON research_runs(created_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, rec *model.RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	inputsJSON, planJSON, resultsJSON, errorsJSON, err := marshalRun(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal run")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO research_runs (id, inputs, plan, selected_results, report_markdown, errors, total_scraped, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, inputsJSON, planJSON, resultsJSON,
		rec.ReportMarkdown, errorsJSON, rec.TotalScraped, rec.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert run %s", rec.ID)
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.RunRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, inputs, plan, selected_results, report_markdown, errors, total_scraped, created_at
		 FROM research_runs WHERE id = $1`,
		runID,
	)
	r, err := scanRunPg(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.RunRecord, error) {
	query := `SELECT id, inputs, plan, selected_results, report_markdown, errors, total_scraped, created_at
	          FROM research_runs ORDER BY created_at DESC`
	args := []any{}
	argIdx := 1

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		r, err := scanRunPg(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func scanRunPg(row scannable) (*model.RunRecord, error) {
	var r model.RunRecord
	var inputsJSON, planJSON, resultsJSON, errorsJSON []byte

	err := row.Scan(&r.ID, &inputsJSON, &planJSON, &resultsJSON,
		&r.ReportMarkdown, &errorsJSON, &r.TotalScraped, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(inputsJSON, &r.Inputs); err != nil {
		return nil, eris.Wrap(err, "unmarshal inputs")
	}
	if err := json.Unmarshal(planJSON, &r.Plan); err != nil {
		return nil, eris.Wrap(err, "unmarshal plan")
	}
	if err := json.Unmarshal(resultsJSON, &r.SelectedResults); err != nil {
		return nil, eris.Wrap(err, "unmarshal selected results")
	}
	if err := json.Unmarshal(errorsJSON, &r.Errors); err != nil {
		return nil, eris.Wrap(err, "unmarshal errors")
	}
	return &r, nil
}
