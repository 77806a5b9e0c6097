package oracle

import (
	"context"
	"fmt"

	"github.com/radieske/worldcup-predictor/internal/tournament"
)

// Predictor é o oráculo concreto: catálogo de seleções + modelo de gols
type Predictor struct {
	catalog  *Catalog
	model    GoalModel
	maxGoals int
}

var _ tournament.Oracle = (*Predictor)(nil)

// New cria o oráculo; model nil usa DefaultBaseline
func New(c *Catalog, model GoalModel) *Predictor {
	if model == nil {
		model = DefaultBaseline()
	}
	return &Predictor{catalog: c, model: model, maxGoals: DefaultGridGoals}
}

func (p *Predictor) Catalog() *Catalog { return p.catalog }

func (p *Predictor) Predict(_ context.Context, home, away string, mc tournament.MatchContext) (tournament.Prediction, error) {
	hp, ok := p.catalog.Get(home)
	if !ok || hp.Players == nil {
		return tournament.Prediction{}, fmt.Errorf("%s: %w", home, tournament.ErrTeamDataMissing)
	}
	ap, ok := p.catalog.Get(away)
	if !ok || ap.Players == nil {
		return tournament.Prediction{}, fmt.Errorf("%s: %w", away, tournament.ErrTeamDataMissing)
	}

	xgHome, xgAway := p.model.ExpectedGoals(BuildFeatures(hp, ap, mc))
	o := OutcomeProbabilities(xgHome, xgAway, p.maxGoals)

	return tournament.Prediction{
		HomeTeam:          home,
		AwayTeam:          away,
		HomeWinProb:       o.HomeWin,
		DrawProb:          o.Draw,
		AwayWinProb:       o.AwayWin,
		ExpectedHomeGoals: xgHome,
		ExpectedAwayGoals: xgAway,
	}, nil
}

// Strength é o Elo; não depende de dados de elenco
func (p *Predictor) Strength(_ context.Context, team string) float64 {
	if tp, ok := p.catalog.Get(team); ok {
		return tp.Rating()
	}
	return DefaultElo
}
