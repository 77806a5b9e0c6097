package tournament

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// MinPoissonMean é o piso da média de gols usada na amostragem
const MinPoissonMean = 0.1

type Outcome int

const (
	HomeWin Outcome = iota
	Draw
	AwayWin
)

func (o Outcome) String() string {
	switch o {
	case HomeWin:
		return "home_win"
	case AwayWin:
		return "away_win"
	default:
		return "draw"
	}
}

// MatchResult é uma partida de grupo realizada: placar amostrado + previsão do oráculo
type MatchResult struct {
	Prediction
	HomeGoals int
	AwayGoals int
	Outcome   Outcome
}

// Simulator resolve partidas individuais a partir do oráculo.
// Não guarda estado entre chamadas; o *rand.Rand é de quem chama.
type Simulator struct {
	oracle Oracle
	mc     MatchContext
}

func NewSimulator(o Oracle, mc MatchContext) *Simulator {
	return &Simulator{oracle: o, mc: mc}
}

// PlayGroupMatch amostra um placar com gols ~ Poisson(max(0.1, xg)) para cada lado.
// ok=false quando o oráculo não tem dados: a partida não conta na tabela.
func (s *Simulator) PlayGroupMatch(ctx context.Context, rng *rand.Rand, home, away string) (MatchResult, bool, error) {
	p, err := s.oracle.Predict(ctx, home, away, s.mc)
	if err != nil {
		if errors.Is(err, ErrTeamDataMissing) {
			return MatchResult{}, false, nil
		}
		return MatchResult{}, false, err
	}

	hg := samplePoisson(rng, p.ExpectedHomeGoals)
	ag := samplePoisson(rng, p.ExpectedAwayGoals)

	out := Draw
	switch {
	case hg > ag:
		out = HomeWin
	case hg < ag:
		out = AwayWin
	}
	return MatchResult{Prediction: p, HomeGoals: hg, AwayGoals: ag, Outcome: out}, true, nil
}

// PlayKnockoutMatch sempre devolve um vencedor.
//
// A probabilidade de empate é dividida igualmente entre os dois lados:
// home vence se u < P(home) + P(draw)/2, com u ~ U[0,1).
// Sem dados no oráculo, vence o time de maior Strength; empate de rating vai para b.
func (s *Simulator) PlayKnockoutMatch(ctx context.Context, rng *rand.Rand, a, b string) (string, error) {
	p, err := s.oracle.Predict(ctx, a, b, s.mc)
	if err != nil {
		if errors.Is(err, ErrTeamDataMissing) {
			return s.strengthFallback(ctx, a, b), nil
		}
		return "", err
	}

	if rng.Float64() < p.HomeWinProb+p.DrawProb/2 {
		return a, nil
	}
	return b, nil
}

func (s *Simulator) strengthFallback(ctx context.Context, a, b string) string {
	if s.oracle.Strength(ctx, a) > s.oracle.Strength(ctx, b) {
		return a
	}
	return b
}

func samplePoisson(rng *rand.Rand, mean float64) int {
	lambda := math.Max(MinPoissonMean, mean)
	d := distuv.Poisson{Lambda: lambda, Src: rng}
	return int(d.Rand())
}
