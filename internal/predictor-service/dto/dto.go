package dto

// TeamResponse é uma seleção disponível para previsão
type TeamResponse struct {
	Name      string  `json:"name"`
	ISOCode   string  `json:"iso_code"`
	EloRating float64 `json:"elo_rating"`
	FlagURL   string  `json:"flag_url"`
}

// PredictRequest: flags ausentes valem true (campo neutro, jogo de Copa)
type PredictRequest struct {
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	IsNeutral  *bool  `json:"is_neutral,omitempty"`
	IsWorldCup *bool  `json:"is_world_cup,omitempty"`
}

// SimulateRequest: format padrão "32_team", n_sims padrão configurável
type SimulateRequest struct {
	Groups map[string][]string `json:"groups"`
	Format string              `json:"format"`
	NSims  *int                `json:"n_sims,omitempty"`
}

// SimulateResponse traz contagens brutas; probabilidade = contagem / n_sims.
// Partial indica que o tempo limite foi atingido e n_sims < requested.
type SimulateResponse struct {
	Champions     map[string]int `json:"champions"`
	Finalists     map[string]int `json:"finalists"`
	Semifinalists map[string]int `json:"semifinalists"`
	NSims         int            `json:"n_sims"`
	Requested     int            `json:"requested"`
	Partial       bool           `json:"partial,omitempty"`
}

type RefreshRequest struct {
	NSims int     `json:"n_sims"`
	Seed  *uint64 `json:"seed,omitempty"`
}

type RefreshResponse struct {
	RunID    string `json:"run_id"`
	PresetID string `json:"preset_id"`
	Status   string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
