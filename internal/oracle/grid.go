package oracle

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/radieske/worldcup-predictor/internal/tournament"
)

// DefaultGridGoals cobre praticamente toda a massa para xG até ~4
const DefaultGridGoals = 10

// Outcome guarda as probabilidades de vitória/empate/derrota do mandante
type Outcome struct {
	HomeWin, Draw, AwayWin float64
}

// OutcomeProbabilities cruza duas Poisson independentes (média mínima 0.1) em
// placares 0..maxGoals e renormaliza a massa truncada.
func OutcomeProbabilities(homeXG, awayXG float64, maxGoals int) Outcome {
	h := pmf(homeXG, maxGoals)
	a := pmf(awayXG, maxGoals)

	var o Outcome
	for i, ph := range h {
		for j, pa := range a {
			p := ph * pa
			switch {
			case i > j:
				o.HomeWin += p
			case i == j:
				o.Draw += p
			default:
				o.AwayWin += p
			}
		}
	}

	total := o.HomeWin + o.Draw + o.AwayWin
	o.HomeWin /= total
	o.Draw /= total
	o.AwayWin /= total
	return o
}

func pmf(xg float64, maxGoals int) []float64 {
	d := distuv.Poisson{Lambda: math.Max(tournament.MinPoissonMean, xg)}
	out := make([]float64, maxGoals+1)
	for k := range out {
		out[k] = d.Prob(float64(k))
	}
	return out
}
