package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/radieske/worldcup-predictor/internal/preset"
	"github.com/radieske/worldcup-predictor/pkg/contracts/events"
)

// PostgresRepo persiste os resultados de presets e o histórico de execuções
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

const upsertPreset = `
	INSERT INTO preset_results
	  (preset_id, name, format, groups, champions, finalists, semifinalists, n_sims, run_id, updated_at)
	VALUES
	  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (preset_id) DO UPDATE SET
	  name          = EXCLUDED.name,
	  format        = EXCLUDED.format,
	  groups        = EXCLUDED.groups,
	  champions     = EXCLUDED.champions,
	  finalists     = EXCLUDED.finalists,
	  semifinalists = EXCLUDED.semifinalists,
	  n_sims        = EXCLUDED.n_sims,
	  run_id        = EXCLUDED.run_id,
	  updated_at    = EXCLUDED.updated_at
`

// UpsertPreset grava o resultado corrente do preset (uma linha por preset_id)
func (r *PostgresRepo) UpsertPreset(ctx context.Context, p preset.Preset, runID string) error {
	args, err := presetArgs(p, runID)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, upsertPreset, args...)
	return err
}

// InsertRun registra uma execução concluída no histórico
func (r *PostgresRepo) InsertRun(ctx context.Context, ev events.SimulationCompleted) error {
	const q = `
		INSERT INTO simulation_runs
		  (run_id, preset_id, format, n_sims, duration_ms, completed_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (run_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, q, ev.RunID, ev.PresetID, ev.Format, ev.NSims, ev.DurationMs, ev.CompletedAt)
	return err
}

// presetArgs serializa os mapas para as colunas JSONB
func presetArgs(p preset.Preset, runID string) ([]any, error) {
	args := []any{p.ID, p.Name, p.Format}
	for _, v := range []any{p.Groups, p.Champions, p.Finalists, p.Semifinalists} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode preset %s: %w", p.ID, err)
		}
		args = append(args, b)
	}
	return append(args, p.NSims, runID, p.UpdatedAt), nil
}
