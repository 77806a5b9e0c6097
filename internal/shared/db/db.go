package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Schema cria as tabelas do catálogo de seleções, dos presets e do histórico de execuções
const Schema = `
CREATE TABLE IF NOT EXISTS teams (
	name            TEXT PRIMARY KEY,
	iso_code        TEXT NOT NULL DEFAULT '',
	elo_rating      DOUBLE PRECISION,
	avg_overall     DOUBLE PRECISION,
	max_overall     DOUBLE PRECISION,
	avg_attack      DOUBLE PRECISION,
	avg_defense     DOUBLE PRECISION,
	avg_pace        DOUBLE PRECISION,
	avg_shooting    DOUBLE PRECISION,
	avg_passing     DOUBLE PRECISION,
	form_scored     DOUBLE PRECISION,
	form_conceded   DOUBLE PRECISION,
	form_win_rate   DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS preset_results (
	preset_id     TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	format        TEXT NOT NULL,
	groups        JSONB NOT NULL,
	champions     JSONB NOT NULL,
	finalists     JSONB NOT NULL,
	semifinalists JSONB NOT NULL,
	n_sims        INTEGER NOT NULL,
	run_id        TEXT NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS simulation_runs (
	run_id       TEXT PRIMARY KEY,
	preset_id    TEXT NOT NULL,
	format       TEXT NOT NULL,
	n_sims       INTEGER NOT NULL,
	duration_ms  BIGINT NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL
);
`

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// Migrate aplica o Schema (idempotente)
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
