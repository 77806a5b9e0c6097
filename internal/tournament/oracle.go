package tournament

import "context"

// MatchContext carrega as flags de contexto repassadas ao oráculo
type MatchContext struct {
	IsNeutral  bool
	IsWorldCup bool
}

// DefaultMatchContext é o contexto usado em todas as partidas de torneio
var DefaultMatchContext = MatchContext{IsNeutral: true, IsWorldCup: true}

// Prediction é o resultado do oráculo para um confronto (home x away)
// As probabilidades somam 1 (com tolerância de ponto flutuante)
type Prediction struct {
	HomeTeam          string  `json:"home_team"`
	AwayTeam          string  `json:"away_team"`
	HomeWinProb       float64 `json:"home_win_prob"`
	DrawProb          float64 `json:"draw_prob"`
	AwayWinProb       float64 `json:"away_win_prob"`
	ExpectedHomeGoals float64 `json:"expected_home_goals"`
	ExpectedAwayGoals float64 `json:"expected_away_goals"`
}

// Oracle converte um confronto em gols esperados e probabilidades 1X2.
//
// Predict deve retornar um erro que satisfaça errors.Is(err, ErrTeamDataMissing)
// quando algum dos times não tem dados. Strength é o rating a priori do time
// (Elo) e precisa responder mesmo quando Predict não consegue.
// Implementações são compartilhadas entre trials concorrentes.
type Oracle interface {
	Predict(ctx context.Context, home, away string, mc MatchContext) (Prediction, error)
	Strength(ctx context.Context, team string) float64
}
