package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertEachTeamOnce(t *testing.T, pairs []Pairing, want int) {
	t.Helper()
	seen := make(map[string]int)
	for _, p := range pairs {
		seen[p.Home]++
		seen[p.Away]++
	}
	assert.Len(t, seen, want)
	for team, n := range seen {
		assert.Equal(t, 1, n, "team %s appears %d times", team, n)
	}
}

func TestBuildBracket32_FixedRule(t *testing.T) {
	pairs, err := BuildBracket32(rankedStandings(Format32))
	require.NoError(t, err)

	want := []Pairing{
		{"A1", "B2"}, {"C1", "D2"}, {"E1", "F2"}, {"G1", "H2"},
		{"B1", "A2"}, {"D1", "C2"}, {"F1", "E2"}, {"H1", "G2"},
	}
	assert.Equal(t, want, pairs)
	assertEachTeamOnce(t, pairs, 16)
}

func TestBuildBracket32_MalformedInput(t *testing.T) {
	st := rankedStandings(Format32)
	delete(st, "F")
	_, err := BuildBracket32(st)
	assert.ErrorIs(t, err, ErrMalformedBracketInput)

	st = rankedStandings(Format32)
	st["C"] = st["C"][:3]
	_, err = BuildBracket32(st)
	assert.ErrorIs(t, err, ErrMalformedBracketInput)
}

func TestRankThirdPlaced(t *testing.T) {
	thirds := RankThirdPlaced(rankedStandings(Format48))
	require.Len(t, thirds, 12)
	assert.Equal(t, "L3", thirds[0].Team)
	assert.Equal(t, "A3", thirds[11].Team)

	// pontos e saldo iguais: ordem alfabética dos grupos
	st := Standings{
		"B": {{Team: "B1"}, {Team: "B2"}, {Team: "B3", Points: 3}, {Team: "B4"}},
		"A": {{Team: "A1"}, {Team: "A2"}, {Team: "A3", Points: 3}, {Team: "A4"}},
		"C": {{Team: "C1"}, {Team: "C2"}, {Team: "C3", Points: 4}, {Team: "C4"}},
	}
	assert.Equal(t, []string{"C3", "A3", "B3"}, teamsOf(RankThirdPlaced(st)))
}

func TestBuildBracket48_Structure(t *testing.T) {
	st := rankedStandings(Format48)
	pairs, err := BuildBracket48(st, RankThirdPlaced(st))
	require.NoError(t, err)
	require.Len(t, pairs, 16)
	assertEachTeamOnce(t, pairs, 32)

	want := []Pairing{
		{"A1", "B2"}, {"B1", "A2"}, {"C1", "D2"}, {"D1", "C2"},
		{"E1", "F2"}, {"F1", "E2"}, {"G1", "H2"}, {"H1", "G2"},
		{"I1", "J2"}, {"J1", "I2"}, {"K1", "L2"}, {"L1", "K2"},
		{"L3", "K3"}, {"J3", "I3"}, {"H3", "G3"}, {"F3", "E3"},
	}
	assert.Equal(t, want, pairs)
}

func TestBuildBracket48_IToLBlockIgnoresThirdPool(t *testing.T) {
	st := rankedStandings(Format48)
	thirds := RankThirdPlaced(st)

	reversed := make([]Standing, len(thirds))
	for i, s := range thirds {
		reversed[len(thirds)-1-i] = s
	}

	block := []Pairing{{"I1", "J2"}, {"J1", "I2"}, {"K1", "L2"}, {"L1", "K2"}}
	for _, pool := range [][]Standing{thirds, reversed} {
		pairs, err := BuildBracket48(st, pool)
		require.NoError(t, err)
		assert.Equal(t, block, pairs[8:12])
		assertEachTeamOnce(t, pairs, 32)
	}
}

func TestBuildBracket48_OnlyBestEightThirdsAdvance(t *testing.T) {
	st := rankedStandings(Format48)
	pairs, err := BuildBracket48(st, RankThirdPlaced(st))
	require.NoError(t, err)

	in := make(map[string]bool)
	for _, p := range pairs {
		in[p.Home], in[p.Away] = true, true
	}
	for _, eliminated := range []string{"A3", "B3", "C3", "D3"} {
		assert.False(t, in[eliminated], eliminated)
	}
}

func TestBuildBracket48_MalformedInput(t *testing.T) {
	st := rankedStandings(Format48)
	delete(st, "K")
	_, err := BuildBracket48(st, RankThirdPlaced(st))
	assert.ErrorIs(t, err, ErrMalformedBracketInput)

	// poucos terceiros: não fecha 16 jogos
	st = rankedStandings(Format48)
	_, err = BuildBracket48(st, RankThirdPlaced(st)[:5])
	assert.ErrorIs(t, err, ErrMalformedBracketInput)
}

func TestBuildBracket_UnknownFormat(t *testing.T) {
	_, err := BuildBracket(Format("64_team"), rankedStandings(Format32))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("48_team")
	require.NoError(t, err)
	assert.Equal(t, Format48, f)
	assert.Equal(t, 12, f.GroupCount())

	_, err = ParseFormat("16_team")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
