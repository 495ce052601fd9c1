package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"cvleak/domain/core"
	"cvleak/domain/eval"
	"cvleak/internal/errors"
	"cvleak/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// RunRepositoryImpl implements the run ledger on PostgreSQL. Procedure
// results are stored as JSONB; the config columns stay relational so
// runs can be filtered by shape.
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a PostgreSQL-backed run ledger.
func NewRunRepository(db *sqlx.DB) ports.RunLedger {
	return &RunRepositoryImpl{db: db}
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// EnsureSchema creates the runs table if it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS experiment_runs (
			id TEXT PRIMARY KEY,
			dataset_id TEXT NOT NULL,
			sample_count INT NOT NULL,
			variable_count INT NOT NULL,
			class_count INT NOT NULL,
			fold_count INT NOT NULL,
			selected_feature_count INT NOT NULL,
			random_seed BIGINT NOT NULL,
			biased JSONB NOT NULL,
			unbiased JSONB NOT NULL,
			runtime_ms BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return errors.DatabaseError("failed to create experiment_runs table", err)
	}
	return nil
}

type runRow struct {
	ID                   string    `db:"id"`
	DatasetID            string    `db:"dataset_id"`
	SampleCount          int       `db:"sample_count"`
	VariableCount        int       `db:"variable_count"`
	ClassCount           int       `db:"class_count"`
	FoldCount            int       `db:"fold_count"`
	SelectedFeatureCount int       `db:"selected_feature_count"`
	RandomSeed           int64     `db:"random_seed"`
	Biased               []byte    `db:"biased"`
	Unbiased             []byte    `db:"unbiased"`
	RuntimeMs            int64     `db:"runtime_ms"`
	CreatedAt            time.Time `db:"created_at"`
}

// SaveRun stores a completed run with both procedure results.
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, run *eval.ExperimentRun) error {
	biased, err := json.Marshal(run.Biased)
	if err != nil {
		return errors.DatabaseError("failed to encode biased result", err)
	}
	unbiased, err := json.Marshal(run.Unbiased)
	if err != nil {
		return errors.DatabaseError("failed to encode unbiased result", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO experiment_runs (id, dataset_id, sample_count, variable_count, class_count,
			fold_count, selected_feature_count, random_seed, biased, unbiased, runtime_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, string(run.RunID), string(run.DatasetID),
		run.Config.SampleCount, run.Config.VariableCount, run.Config.ClassCount,
		run.Config.FoldCount, run.Config.SelectedFeatureCount, run.Config.Seed,
		biased, unbiased, run.RuntimeMs, run.CreatedAt.Time())

	if err != nil {
		return errors.DatabaseError("failed to insert run", err)
	}
	return nil
}

// GetRun retrieves one run by ID.
func (r *RunRepositoryImpl) GetRun(ctx context.Context, runID core.RunID) (*eval.ExperimentRun, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, dataset_id, sample_count, variable_count, class_count,
			fold_count, selected_feature_count, random_seed, biased, unbiased, runtime_ms, created_at
		FROM experiment_runs WHERE id = $1
	`, string(runID))
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("run", string(runID))
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to fetch run", err)
	}
	return rowToRun(&row)
}

// LatestRun returns the most recently created run.
func (r *RunRepositoryImpl) LatestRun(ctx context.Context) (*eval.ExperimentRun, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, dataset_id, sample_count, variable_count, class_count,
			fold_count, selected_feature_count, random_seed, biased, unbiased, runtime_ms, created_at
		FROM experiment_runs ORDER BY created_at DESC LIMIT 1
	`)
	if err == sql.ErrNoRows {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to fetch latest run", err)
	}
	return rowToRun(&row)
}

// ListRuns returns up to limit runs, newest first.
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]*eval.ExperimentRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []runRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, dataset_id, sample_count, variable_count, class_count,
			fold_count, selected_feature_count, random_seed, biased, unbiased, runtime_ms, created_at
		FROM experiment_runs ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to list runs", err)
	}

	runs := make([]*eval.ExperimentRun, 0, len(rows))
	for i := range rows {
		run, err := rowToRun(&rows[i])
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func rowToRun(row *runRow) (*eval.ExperimentRun, error) {
	run := &eval.ExperimentRun{
		RunID:     core.RunID(row.ID),
		DatasetID: core.DatasetID(row.DatasetID),
		Config: eval.RunConfig{
			SampleCount:          row.SampleCount,
			VariableCount:        row.VariableCount,
			ClassCount:           row.ClassCount,
			FoldCount:            row.FoldCount,
			SelectedFeatureCount: row.SelectedFeatureCount,
			Seed:                 row.RandomSeed,
		},
		RuntimeMs: row.RuntimeMs,
		CreatedAt: core.Timestamp(row.CreatedAt),
	}
	if err := json.Unmarshal(row.Biased, &run.Biased); err != nil {
		return nil, errors.DatabaseError("failed to decode biased result", err)
	}
	if err := json.Unmarshal(row.Unbiased, &run.Unbiased); err != nil {
		return nil, errors.DatabaseError("failed to decode unbiased result", err)
	}
	return run, nil
}
