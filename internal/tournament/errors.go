package tournament

import "errors"

var (
	// ErrTeamDataMissing: o oráculo não consegue avaliar o confronto.
	// Recuperado localmente (grupo: partida sem resultado; mata-mata: fallback por rating).
	ErrTeamDataMissing = errors.New("team data missing")

	// ErrMalformedBracketInput: grupo ausente ou com quantidade errada de times
	ErrMalformedBracketInput = errors.New("malformed bracket input")

	// ErrDegenerateAggregation: número de simulações <= 0
	ErrDegenerateAggregation = errors.New("n_tournament_sims must be positive")

	ErrUnknownFormat = errors.New("unknown tournament format")
)
