package tournament

import (
	"context"
	"errors"
	"fmt"
)

// stubOracle devolve a mesma previsão para qualquer confronto
type stubOracle struct {
	pred     Prediction
	missing  map[string]bool
	ratings  map[string]float64
	failWith error
}

func (s *stubOracle) Predict(_ context.Context, home, away string, _ MatchContext) (Prediction, error) {
	if s.failWith != nil {
		return Prediction{}, s.failWith
	}
	if s.missing[home] || s.missing[away] {
		return Prediction{}, fmt.Errorf("%s vs %s: %w", home, away, ErrTeamDataMissing)
	}
	p := s.pred
	p.HomeTeam, p.AwayTeam = home, away
	return p, nil
}

func (s *stubOracle) Strength(_ context.Context, team string) float64 {
	if r, ok := s.ratings[team]; ok {
		return r
	}
	return 1500
}

// ratingOracle: o time de maior rating sempre vence por larga margem
type ratingOracle struct {
	ratings map[string]float64
}

func (r *ratingOracle) Predict(_ context.Context, home, away string, _ MatchContext) (Prediction, error) {
	p := Prediction{HomeTeam: home, AwayTeam: away}
	if r.ratings[home] >= r.ratings[away] {
		p.HomeWinProb, p.ExpectedHomeGoals = 1, 60
	} else {
		p.AwayWinProb, p.ExpectedAwayGoals = 1, 60
	}
	return p, nil
}

func (r *ratingOracle) Strength(_ context.Context, team string) float64 { return r.ratings[team] }

var homeAlwaysWins = Prediction{HomeWinProb: 1, ExpectedHomeGoals: 60, ExpectedAwayGoals: 0}

var errBoom = errors.New("boom")

func groupLetters(f Format) []string {
	return []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}[:f.GroupCount()]
}

// makeGroups cria grupos "A".."H"/"L" com times "A1".."A4" etc.
func makeGroups(f Format) Groups {
	g := make(Groups)
	for _, name := range groupLetters(f) {
		g[name] = []string{name + "1", name + "2", name + "3", name + "4"}
	}
	return g
}

// rankedStandings monta uma tabela já ordenada: posição i -> time "<G><i+1>"
func rankedStandings(f Format) Standings {
	st := make(Standings)
	for gi, name := range groupLetters(f) {
		table := make([]Standing, GroupSize)
		for i := range table {
			table[i] = Standing{
				Team:           fmt.Sprintf("%s%d", name, i+1),
				Group:          name,
				Points:         9 - 3*i,
				GoalDifference: float64(gi) - float64(i),
			}
		}
		st[name] = table
	}
	return st
}
