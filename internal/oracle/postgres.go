package oracle

import (
	"context"
	"database/sql"
	"fmt"
)

const selectTeams = `
	SELECT name, iso_code, elo_rating,
	       avg_overall, max_overall, avg_attack, avg_defense, avg_pace, avg_shooting, avg_passing,
	       form_scored, form_conceded, form_win_rate
	FROM teams
	ORDER BY name;
`

type scanner interface {
	Scan(dest ...any) error
}

// LoadCatalog lê a tabela teams uma vez; o catálogo resultante é imutável
func LoadCatalog(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx, selectTeams)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var profiles []TeamProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewCatalog(profiles), nil
}

// scanProfile converte colunas nulas em "sem dado": elenco só existe com avg_overall,
// forma só com as três colunas de forma.
func scanProfile(s scanner) (TeamProfile, error) {
	var (
		p                                     TeamProfile
		elo                                   sql.NullFloat64
		avg, top, att, def, pace, shoot, pass sql.NullFloat64
		scored, conceded, winRate             sql.NullFloat64
	)
	if err := s.Scan(&p.Name, &p.ISOCode, &elo,
		&avg, &top, &att, &def, &pace, &shoot, &pass,
		&scored, &conceded, &winRate); err != nil {
		return TeamProfile{}, err
	}

	if elo.Valid {
		p.Elo = elo.Float64
	}
	if avg.Valid {
		p.Players = &PlayerStats{
			AvgOverall:  avg.Float64,
			MaxOverall:  top.Float64,
			AvgAttack:   att.Float64,
			AvgDefense:  def.Float64,
			AvgPace:     pace.Float64,
			AvgShooting: shoot.Float64,
			AvgPassing:  pass.Float64,
		}
	}
	if scored.Valid && conceded.Valid && winRate.Valid {
		p.Form = &Form{AvgScored: scored.Float64, AvgConceded: conceded.Float64, WinRate: winRate.Float64}
	}
	return p, nil
}
