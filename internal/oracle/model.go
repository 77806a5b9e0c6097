package oracle

import "math"

// GoalModel estima os gols esperados de cada lado a partir das features
type GoalModel interface {
	ExpectedGoals(f Features) (home, away float64)
}

// BaselineModel é um modelo log-linear sobre Elo, qualidade do elenco e forma.
// Pesos em unidades de log-gols; zero value não é útil, use DefaultBaseline.
type BaselineModel struct {
	Intercept     float64 // log da média de gols por seleção
	EloWeight     float64 // por 400 pontos de diferença
	QualityWeight float64 // por 10 pontos de overall
	MatchupWeight float64 // ataque próprio contra defesa adversária, por 10 pontos
	FormWeight    float64 // por gol acima/abaixo da média recente
	HomeAdvantage float64 // só quando o jogo não é em campo neutro
	WorldCupAdj   float64 // jogos de Copa são mais fechados
	MaxGoals      float64 // teto para xG
}

func DefaultBaseline() BaselineModel {
	return BaselineModel{
		Intercept:     math.Log(1.3),
		EloWeight:     0.55,
		QualityWeight: 0.25,
		MatchupWeight: 0.15,
		FormWeight:    0.10,
		HomeAdvantage: 0.20,
		WorldCupAdj:   -0.08,
		MaxGoals:      6,
	}
}

func (m BaselineModel) ExpectedGoals(f Features) (float64, float64) {
	home := m.side(f)
	if !f.IsNeutral {
		home *= math.Exp(m.HomeAdvantage)
	}
	return math.Min(home, m.MaxGoals), math.Min(m.side(f.Mirror()), m.MaxGoals)
}

// side calcula o xG do mandante de f
func (m BaselineModel) side(f Features) float64 {
	form := ((f.HomeForm.AvgScored - DefaultForm.AvgScored) + (f.AwayForm.AvgConceded - DefaultForm.AvgConceded)) / 2

	x := m.Intercept +
		m.EloWeight*f.EloDiff/400 +
		m.QualityWeight*f.OverallDiff/10 +
		m.MatchupWeight*(f.Home.AvgAttack-f.Away.AvgDefense)/10 +
		m.FormWeight*form
	if f.IsWorldCup {
		x += m.WorldCupAdj
	}
	return math.Exp(x)
}
