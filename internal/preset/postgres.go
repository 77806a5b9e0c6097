package preset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const selectPreset = `
	SELECT preset_id, name, format, groups, champions, finalists, semifinalists, n_sims, updated_at
	FROM preset_results
	WHERE preset_id = $1;
`

// PostgresSource lê o último resultado persistido pelo preset-worker
type PostgresSource struct {
	DB *sql.DB
}

func (PostgresSource) Name() string { return "postgres" }

func (s PostgresSource) Load(ctx context.Context, id string) (Preset, error) {
	p, err := scanPreset(s.DB.QueryRowContext(ctx, selectPreset, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%s in postgres: %w", id, ErrNotFound)
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (Preset, error) {
	var (
		p                        Preset
		groups, champs, fin, sem []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Format, &groups, &champs, &fin, &sem, &p.NSims, &p.UpdatedAt); err != nil {
		return Preset{}, err
	}

	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{groups, &p.Groups},
		{champs, &p.Champions},
		{fin, &p.Finalists},
		{sem, &p.Semifinalists},
	} {
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return Preset{}, fmt.Errorf("decode preset %s: %w", p.ID, err)
		}
	}
	return p, nil
}
