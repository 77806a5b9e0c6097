package tournament

import (
	"fmt"
	"sort"
)

type Format string

const (
	Format32 Format = "32_team"
	Format48 Format = "48_team"
)

// BestThirdPlaced é quantos terceiros colocados avançam no formato de 48
const BestThirdPlaced = 8

// ParseFormat valida o formato recebido da API
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Format32, Format48:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// GroupCount é a quantidade de grupos esperada para o formato
func (f Format) GroupCount() int {
	if f == Format48 {
		return 12
	}
	return 8
}

// FirstRoundPairings é o tamanho da primeira fase eliminatória (R16 ou R32)
func (f Format) FirstRoundPairings() int {
	if f == Format48 {
		return 16
	}
	return 8
}

// Pairing é um jogo de mata-mata. A posição na lista define o lado da chave.
type Pairing struct {
	Home string `json:"team_a"`
	Away string `json:"team_b"`
}

// Standings é o resultado ranqueado da fase de grupos, por nome de grupo
type Standings map[string][]Standing

func (st Standings) at(group string, rank int) (string, error) {
	table, ok := st[group]
	if !ok {
		return "", fmt.Errorf("%w: group %s is missing", ErrMalformedBracketInput, group)
	}
	if len(table) != GroupSize {
		return "", fmt.Errorf("%w: group %s has %d teams, want %d", ErrMalformedBracketInput, group, len(table), GroupSize)
	}
	return table[rank].Team, nil
}

func (st Standings) names() []string {
	names := make([]string, 0, len(st))
	for n := range st {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RankThirdPlaced junta os terceiros de todos os grupos e ordena por pontos e saldo (desc).
// A ordem de desempate é a alfabética dos grupos.
func RankThirdPlaced(st Standings) []Standing {
	thirds := make([]Standing, 0, len(st))
	for _, name := range st.names() {
		table := st[name]
		if len(table) > 2 {
			thirds = append(thirds, table[2])
		}
	}
	sort.SliceStable(thirds, func(i, j int) bool {
		if thirds[i].Points != thirds[j].Points {
			return thirds[i].Points > thirds[j].Points
		}
		return thirds[i].GoalDifference > thirds[j].GoalDifference
	})
	return thirds
}

// BuildBracket32 monta as oitavas do formato de 32 times (regra FIFA).
//
//	lado esquerdo: 1A-2B, 1C-2D, 1E-2F, 1G-2H
//	lado direito:  1B-2A, 1D-2C, 1F-2E, 1H-2G
func BuildBracket32(st Standings) ([]Pairing, error) {
	order := [][2]string{
		{"A", "B"}, {"C", "D"}, {"E", "F"}, {"G", "H"},
		{"B", "A"}, {"D", "C"}, {"F", "E"}, {"H", "G"},
	}

	pairs := make([]Pairing, 0, len(order))
	for _, o := range order {
		winner, err := st.at(o[0], 0)
		if err != nil {
			return nil, err
		}
		runnerUp, err := st.at(o[1], 1)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pairing{Home: winner, Away: runnerUp})
	}
	return pairs, nil
}

// BuildBracket48 monta a R32 do formato de 48 times: 12 primeiros, 12 segundos e
// os 8 melhores terceiros (thirds já ordenado por RankThirdPlaced).
//
// A-D e E-H cruzam com o segundo do grupo parceiro; se ele já foi usado entra o
// próximo melhor terceiro. I-L cruzam direto entre I/J e K/L. O que sobrar
// (segundos em ordem de grupo e depois terceiros) é pareado em sequência.
func BuildBracket48(st Standings, thirds []Standing) ([]Pairing, error) {
	want := Format48.FirstRoundPairings()

	winners := make(map[string]string, len(st))
	runnersUp := make(map[string]string, len(st))
	for _, g := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		w, err := st.at(g, 0)
		if err != nil {
			return nil, err
		}
		r, err := st.at(g, 1)
		if err != nil {
			return nil, err
		}
		winners[g], runnersUp[g] = w, r
	}

	pool := make([]string, 0, BestThirdPlaced)
	for _, t := range thirds {
		if len(pool) == BestThirdPlaced {
			break
		}
		pool = append(pool, t.Team)
	}

	used := make(map[string]bool, 2*want)
	pairs := make([]Pairing, 0, want)
	next := 0

	crossBlock := func(groups, partners []string) {
		for i, g := range groups {
			opp := runnersUp[partners[i]]
			switch {
			case !used[opp]:
				pairs = append(pairs, Pairing{Home: winners[g], Away: opp})
				used[winners[g]], used[opp] = true, true
			case next < len(pool):
				pairs = append(pairs, Pairing{Home: winners[g], Away: pool[next]})
				used[winners[g]], used[pool[next]] = true, true
				next++
			}
		}
	}
	crossBlock([]string{"A", "B", "C", "D"}, []string{"B", "A", "D", "C"})
	crossBlock([]string{"E", "F", "G", "H"}, []string{"F", "E", "H", "G"})

	for _, p := range [][2]string{{"I", "J"}, {"J", "I"}, {"K", "L"}, {"L", "K"}} {
		pairs = append(pairs, Pairing{Home: winners[p[0]], Away: runnersUp[p[1]]})
	}
	for _, g := range []string{"I", "J", "K", "L"} {
		used[winners[g]], used[runnersUp[g]] = true, true
	}

	var remaining []string
	for _, g := range st.names() {
		if r, ok := runnersUp[g]; ok && !used[r] {
			remaining = append(remaining, r)
		}
	}
	for _, t := range pool {
		if !used[t] {
			remaining = append(remaining, t)
		}
	}
	for i := 0; i+1 < len(remaining); i += 2 {
		pairs = append(pairs, Pairing{Home: remaining[i], Away: remaining[i+1]})
	}

	if len(pairs) > want {
		pairs = pairs[:want]
	}
	if len(pairs) != want {
		return nil, fmt.Errorf("%w: built %d round of 32 pairings, want %d", ErrMalformedBracketInput, len(pairs), want)
	}
	return pairs, nil
}

// BuildBracket escolhe o construtor pelo formato
func BuildBracket(f Format, st Standings) ([]Pairing, error) {
	switch f {
	case Format32:
		return BuildBracket32(st)
	case Format48:
		return BuildBracket48(st, RankThirdPlaced(st))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
