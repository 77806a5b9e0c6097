package tournament

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

// GroupSize é fixo para os dois formatos
const GroupSize = 4

// Groups mapeia o nome do grupo ("A".."L") para os times na ordem de entrada
type Groups map[string][]string

// Names retorna os nomes dos grupos em ordem alfabética
func (g Groups) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizeGroupName aceita "Group A", "group a" ou "A" e devolve "A"
func NormalizeGroupName(name string) string {
	n := strings.TrimSpace(name)
	if len(n) > 6 && strings.EqualFold(n[:6], "group ") {
		n = strings.TrimSpace(n[6:])
	}
	return strings.ToUpper(n)
}

// NormalizeGroups aplica NormalizeGroupName às chaves. Duas chaves que viram o
// mesmo nome são entrada inválida.
func NormalizeGroups(in map[string][]string) (Groups, error) {
	out := make(Groups, len(in))
	for name, teams := range in {
		n := NormalizeGroupName(name)
		if n == "" {
			return nil, fmt.Errorf("%w: empty group name", ErrMalformedBracketInput)
		}
		if _, dup := out[n]; dup {
			return nil, fmt.Errorf("%w: duplicate group %s", ErrMalformedBracketInput, n)
		}
		out[n] = teams
	}
	return out, nil
}

// Standing é a linha de um time na tabela do grupo.
// GoalsFor e GoalDifference acumulam os gols ESPERADOS do oráculo, não o placar amostrado.
type Standing struct {
	Team           string  `json:"team"`
	Group          string  `json:"group,omitempty"`
	Points         int     `json:"points"`
	GoalDifference float64 `json:"gd"`
	GoalsFor       float64 `json:"gf"`
	Wins           int     `json:"wins"`
}

// SortStandings ordena por pontos, saldo e gols pró (todos desc).
// Empates restantes mantêm a ordem de entrada.
func SortStandings(table []Standing) {
	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})
}

// ResolveGroup joga o turno único do grupo: para i<j, teams[i] é mandante contra teams[j].
func (s *Simulator) ResolveGroup(ctx context.Context, rng *rand.Rand, name string, teams []string) ([]Standing, error) {
	table := make([]Standing, len(teams))
	for i, t := range teams {
		table[i] = Standing{Team: t, Group: name}
	}

	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			res, ok, err := s.PlayGroupMatch(ctx, rng, teams[i], teams[j])
			if err != nil {
				return nil, fmt.Errorf("group %s: %s vs %s: %w", name, teams[i], teams[j], err)
			}
			if !ok {
				continue
			}
			applyResult(&table[i], &table[j], res)
		}
	}

	SortStandings(table)
	return table, nil
}

// ResolveGroups resolve todos os grupos em ordem alfabética de nome,
// para que o consumo do rng seja reprodutível com a mesma seed.
func (s *Simulator) ResolveGroups(ctx context.Context, rng *rand.Rand, groups Groups) (Standings, error) {
	out := make(Standings, len(groups))
	for _, name := range groups.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table, err := s.ResolveGroup(ctx, rng, name, groups[name])
		if err != nil {
			return nil, err
		}
		out[name] = table
	}
	return out, nil
}

func applyResult(home, away *Standing, r MatchResult) {
	xgHome, xgAway := r.ExpectedHomeGoals, r.ExpectedAwayGoals
	home.GoalsFor += xgHome
	away.GoalsFor += xgAway

	switch r.Outcome {
	case HomeWin:
		home.Points += 3
		home.Wins++
		home.GoalDifference += xgHome - xgAway
		away.GoalDifference += xgAway - xgHome
	case AwayWin:
		away.Points += 3
		away.Wins++
		away.GoalDifference += xgAway - xgHome
		home.GoalDifference += xgHome - xgAway
	default:
		// empate: saldo não muda
		home.Points++
		away.Points++
	}
}
