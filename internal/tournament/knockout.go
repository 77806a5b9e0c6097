package tournament

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// KnockoutResult guarda quem chegou a cada fase em um trial
type KnockoutResult struct {
	Rounds        [][]string // Rounds[0] são os times da primeira fase eliminatória, na ordem da chave
	Semifinalists []string
	Finalists     []string
	Champion      string
}

// ResolveKnockout avança a chave até sobrar um campeão.
// Cada rodada pareia posições consecutivas (0x1, 2x3, ...) e mantém a ordem dos vencedores.
func (s *Simulator) ResolveKnockout(ctx context.Context, rng *rand.Rand, pairings []Pairing) (KnockoutResult, error) {
	round := make([]string, 0, 2*len(pairings))
	for _, p := range pairings {
		round = append(round, p.Home, p.Away)
	}
	if len(round) < 2 || len(round)&(len(round)-1) != 0 {
		return KnockoutResult{}, fmt.Errorf("%w: knockout needs a power of two teams, got %d", ErrMalformedBracketInput, len(round))
	}

	var res KnockoutResult
	for {
		res.Rounds = append(res.Rounds, round)
		switch len(round) {
		case 4:
			res.Semifinalists = round
		case 2:
			res.Finalists = round
		case 1:
			res.Champion = round[0]
			return res, nil
		}

		if err := ctx.Err(); err != nil {
			return KnockoutResult{}, err
		}

		next := make([]string, 0, len(round)/2)
		for i := 0; i < len(round); i += 2 {
			w, err := s.PlayKnockoutMatch(ctx, rng, round[i], round[i+1])
			if err != nil {
				return KnockoutResult{}, fmt.Errorf("knockout %s vs %s: %w", round[i], round[i+1], err)
			}
			next = append(next, w)
		}
		round = next
	}
}
