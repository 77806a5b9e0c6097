package oracle

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/worldcup-predictor/internal/tournament"
)

func stats(overall float64) *PlayerStats {
	return &PlayerStats{
		AvgOverall: overall, MaxOverall: overall + 6,
		AvgAttack: overall, AvgDefense: overall,
		AvgPace: overall, AvgShooting: overall, AvgPassing: overall,
	}
}

func testCatalog() *Catalog {
	return NewCatalog([]TeamProfile{
		{Name: "Brazil", Elo: 2050, Players: stats(84)},
		{Name: "Argentina", Elo: 2100, Players: stats(83), Form: &Form{AvgScored: 2.2, AvgConceded: 0.4, WinRate: 0.8}},
		{Name: "Qatar", Elo: 1550, Players: stats(68)},
		{Name: "Gibraltar", Elo: 1100}, // sem elenco
	})
}

func TestOutcomeProbabilities(t *testing.T) {
	o := OutcomeProbabilities(1, 1, DefaultGridGoals)
	assert.InDelta(t, 1.0, o.HomeWin+o.Draw+o.AwayWin, 1e-12)
	assert.InDelta(t, o.HomeWin, o.AwayWin, 1e-12)
	// P(empate) para duas Poisson(1) = e^-2 * I0(2)
	assert.InDelta(t, 0.3085, o.Draw, 1e-3)

	strong := OutcomeProbabilities(2.5, 0.6, DefaultGridGoals)
	assert.Greater(t, strong.HomeWin, 0.7)
	assert.Greater(t, strong.HomeWin, strong.AwayWin)

	// média mínima
	assert.Equal(t, OutcomeProbabilities(0.1, 0.1, DefaultGridGoals), OutcomeProbabilities(0, -1, DefaultGridGoals))
}

func TestBaselineModel(t *testing.T) {
	m := DefaultBaseline()
	even := BuildFeatures(
		TeamProfile{Name: "X", Elo: 1800, Players: stats(75)},
		TeamProfile{Name: "Y", Elo: 1800, Players: stats(75)},
		tournament.DefaultMatchContext,
	)

	h, a := m.ExpectedGoals(even)
	assert.InDelta(t, h, a, 1e-12)
	assert.InDelta(t, 1.3*0.923, h, 0.01) // intercepto com ajuste de Copa

	even.IsNeutral = false
	h2, a2 := m.ExpectedGoals(even)
	assert.Greater(t, h2, h)
	assert.Equal(t, a, a2)

	c := testCatalog()
	br, _ := c.Get("Brazil")
	qa, _ := c.Get("Qatar")
	h, a = m.ExpectedGoals(BuildFeatures(br, qa, tournament.DefaultMatchContext))
	assert.Greater(t, h, 1.5)
	assert.Less(t, a, 1.0)

	far := BuildFeatures(TeamProfile{Elo: 4000, Players: stats(99)}, TeamProfile{Elo: 100, Players: stats(20)}, tournament.DefaultMatchContext)
	h, _ = m.ExpectedGoals(far)
	assert.Equal(t, m.MaxGoals, h)
}

func TestFeatures_UseDefaults(t *testing.T) {
	f := BuildFeatures(
		TeamProfile{Players: stats(70)},
		TeamProfile{Elo: 1700, Players: stats(72)},
		tournament.MatchContext{IsNeutral: true},
	)
	assert.Equal(t, DefaultElo, f.HomeElo)
	assert.Equal(t, -200.0, f.EloDiff)
	assert.Equal(t, DefaultForm, f.HomeForm)
	assert.Equal(t, -2.0, f.OverallDiff)
	assert.False(t, f.IsWorldCup)
	assert.False(t, f.IsContinental)

	m := f.Mirror()
	assert.Equal(t, 200.0, m.EloDiff)
	assert.Equal(t, f.Away, m.Home)
}

func TestPredictor_Predict(t *testing.T) {
	p := New(testCatalog(), nil)
	ctx := context.Background()

	pred, err := p.Predict(ctx, "Brazil", "Qatar", tournament.DefaultMatchContext)
	require.NoError(t, err)
	assert.Equal(t, "Brazil", pred.HomeTeam)
	assert.Equal(t, "Qatar", pred.AwayTeam)
	assert.InDelta(t, 1.0, pred.HomeWinProb+pred.DrawProb+pred.AwayWinProb, 1e-9)
	assert.Greater(t, pred.HomeWinProb, pred.AwayWinProb)
	assert.Greater(t, pred.ExpectedHomeGoals, pred.ExpectedAwayGoals)

	_, err = p.Predict(ctx, "Gibraltar", "Qatar", tournament.DefaultMatchContext)
	assert.ErrorIs(t, err, tournament.ErrTeamDataMissing)

	_, err = p.Predict(ctx, "Brazil", "Atlantis", tournament.DefaultMatchContext)
	assert.ErrorIs(t, err, tournament.ErrTeamDataMissing)
}

func TestPredictor_Strength(t *testing.T) {
	p := New(testCatalog(), nil)
	ctx := context.Background()

	assert.Equal(t, 2100.0, p.Strength(ctx, "Argentina"))
	assert.Equal(t, 1100.0, p.Strength(ctx, "Gibraltar"))
	assert.Equal(t, DefaultElo, p.Strength(ctx, "Atlantis"))
}

func TestCatalog_Available(t *testing.T) {
	c := testCatalog()
	teams := c.Available()

	names := make([]string, len(teams))
	for i, tp := range teams {
		names[i] = tp.Name
	}
	assert.Equal(t, []string{"Argentina", "Brazil", "Qatar"}, names)
	assert.Equal(t, "ar", teams[0].ISOCode)
	assert.Equal(t, 4, c.Len())
}

func TestISOCode(t *testing.T) {
	assert.Equal(t, "gb-eng", ISOCode("England"))
	assert.Equal(t, "us", ISOCode("USA"))
	assert.Equal(t, "at", ISOCode("Atlantis"))
	assert.Equal(t, "https://flagcdn.com/w80/br.png", FlagURL("br"))
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r[i].(string)
		case *sql.NullFloat64:
			if v, ok := r[i].(float64); ok {
				*p = sql.NullFloat64{Float64: v, Valid: true}
			} else {
				*p = sql.NullFloat64{}
			}
		}
	}
	return nil
}

func TestScanProfile(t *testing.T) {
	full := fakeRow{"Spain", "es", 2000.0, 82.0, 90.0, 81.0, 80.0, 78.0, 77.0, 85.0, 2.0, 0.5, 0.7}
	p, err := scanProfile(full)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, p.Elo)
	require.NotNil(t, p.Players)
	assert.Equal(t, 90.0, p.Players.MaxOverall)
	assert.Equal(t, Form{AvgScored: 2.0, AvgConceded: 0.5, WinRate: 0.7}, p.RecentForm())

	sparse := fakeRow{"Tuvalu", "tv", nil, nil, nil, nil, nil, nil, nil, nil, 1.0, nil, nil}
	p, err = scanProfile(sparse)
	require.NoError(t, err)
	assert.Nil(t, p.Players)
	assert.Nil(t, p.Form)
	assert.Equal(t, DefaultElo, p.Rating())
	assert.Equal(t, DefaultForm, p.RecentForm())
}
