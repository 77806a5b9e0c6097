package oracle

import "github.com/radieske/worldcup-predictor/internal/tournament"

// Features é o registro tipado de entrada do modelo de gols, montado uma vez por chamada
type Features struct {
	HomeElo, AwayElo, EloDiff float64

	Home, Away PlayerStats

	OverallDiff float64
	AttackDiff  float64
	DefenseDiff float64

	HomeForm, AwayForm Form

	IsNeutral     bool
	IsWorldCup    bool
	IsContinental bool
}

// BuildFeatures exige que os dois perfis tenham dados de elenco
func BuildFeatures(home, away TeamProfile, mc tournament.MatchContext) Features {
	h, a := *home.Players, *away.Players
	return Features{
		HomeElo: home.Rating(),
		AwayElo: away.Rating(),
		EloDiff: home.Rating() - away.Rating(),

		Home: h,
		Away: a,

		OverallDiff: h.AvgOverall - a.AvgOverall,
		AttackDiff:  h.AvgAttack - a.AvgAttack,
		DefenseDiff: h.AvgDefense - a.AvgDefense,

		HomeForm: home.RecentForm(),
		AwayForm: away.RecentForm(),

		IsNeutral:  mc.IsNeutral,
		IsWorldCup: mc.IsWorldCup,
	}
}

// Mirror troca mandante e visitante
func (f Features) Mirror() Features {
	m := f
	m.HomeElo, m.AwayElo = f.AwayElo, f.HomeElo
	m.EloDiff = -f.EloDiff
	m.Home, m.Away = f.Away, f.Home
	m.OverallDiff, m.AttackDiff, m.DefenseDiff = -f.OverallDiff, -f.AttackDiff, -f.DefenseDiff
	m.HomeForm, m.AwayForm = f.AwayForm, f.HomeForm
	return m
}
