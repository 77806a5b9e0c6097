package tournament

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Tally conta em quantos trials cada time chegou a cada fase
type Tally struct {
	Champions     map[string]int `json:"champions"`
	Finalists     map[string]int `json:"finalists"`
	Semifinalists map[string]int `json:"semifinalists"`
}

func NewTally() Tally {
	return Tally{
		Champions:     make(map[string]int),
		Finalists:     make(map[string]int),
		Semifinalists: make(map[string]int),
	}
}

// Add registra um trial completo
func (t Tally) Add(k KnockoutResult) {
	t.Champions[k.Champion]++
	for _, f := range k.Finalists {
		t.Finalists[f]++
	}
	for _, s := range k.Semifinalists {
		t.Semifinalists[s]++
	}
}

// Result é a contagem bruta; probabilidade = contagem / NSims fica com quem chama
type Result struct {
	Tally
	NSims int `json:"n_sims"`
}

// Options configura o Engine. Zero value é válido.
type Options struct {
	Workers int        // trials em paralelo; <=0 usa GOMAXPROCS
	Seed    *uint64    // nil = seed aleatória (produção)
	Context MatchContext
	Logger  *zap.Logger

	OnTrial func() // métricas: trial concluído
}

// Engine roda o pipeline completo (grupos -> chave -> mata-mata) N vezes
type Engine struct {
	sim  *Simulator
	opts Options
	log  *zap.Logger
}

func NewEngine(o Oracle, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Context == (MatchContext{}) {
		opts.Context = DefaultMatchContext
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{sim: NewSimulator(o, opts.Context), opts: opts, log: log}
}

// WithSeed devolve uma cópia do engine com seed fixa
func (e *Engine) WithSeed(seed uint64) *Engine {
	c := *e
	c.opts.Seed = &seed
	return &c
}

// Simulator expõe o simulador de partidas usado pelo engine
func (e *Engine) Simulator() *Simulator { return e.sim }

// RunTrial simula um torneio completo
func (e *Engine) RunTrial(ctx context.Context, rng *rand.Rand, groups Groups, f Format) (KnockoutResult, error) {
	st, err := e.sim.ResolveGroups(ctx, rng, groups)
	if err != nil {
		return KnockoutResult{}, err
	}
	pairs, err := BuildBracket(f, st)
	if err != nil {
		return KnockoutResult{}, err
	}
	return e.sim.ResolveKnockout(ctx, rng, pairs)
}

// SimulateTournament roda nSims trials independentes em paralelo e soma as contagens.
//
// Cada trial i usa seu próprio rng derivado de (seed, i), então com seed fixa o
// resultado não depende da quantidade de workers. Se ctx for cancelado, os trials
// já concluídos são devolvidos (NSims = concluídos) junto com o erro do contexto;
// trials interrompidos no meio são descartados.
func (e *Engine) SimulateTournament(ctx context.Context, groups Groups, f Format, nSims int) (Result, error) {
	if nSims <= 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrDegenerateAggregation, nSims)
	}
	if err := ValidateGroups(groups, f); err != nil {
		return Result{}, err
	}

	seed := rand.Uint64()
	if e.opts.Seed != nil {
		seed = *e.opts.Seed
	}

	start := time.Now()
	var (
		mu        sync.Mutex
		tally     = NewTally()
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := 0; i < nSims; i++ {
		if gctx.Err() != nil {
			break
		}
		trial := uint64(i)
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, trial))
			k, err := e.RunTrial(gctx, rng, groups, f)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("trial %d: %w", trial, err)
			}

			mu.Lock()
			tally.Add(k)
			completed++
			mu.Unlock()

			if e.opts.OnTrial != nil {
				e.opts.OnTrial()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Tally: tally, NSims: completed}
	e.log.Debug("tournament simulated",
		zap.String("format", string(f)),
		zap.Int("requested", nSims),
		zap.Int("completed", completed),
		zap.Int("workers", e.opts.Workers),
		zap.Duration("took", time.Since(start)),
	)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// ValidateGroups confere quantidade de grupos e de times por grupo para o formato
func ValidateGroups(groups Groups, f Format) error {
	if f != Format32 && f != Format48 {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if len(groups) != f.GroupCount() {
		return fmt.Errorf("%w: expected %d groups for %s format, got %d", ErrMalformedBracketInput, f.GroupCount(), f, len(groups))
	}
	for _, name := range groups.Names() {
		if n := len(groups[name]); n != GroupSize {
			return fmt.Errorf("%w: group %s must have exactly %d teams, got %d", ErrMalformedBracketInput, name, GroupSize, n)
		}
	}
	return nil
}

// IsInputError indica erros de entrada (viram 400 na API)
func IsInputError(err error) bool {
	return errors.Is(err, ErrMalformedBracketInput) ||
		errors.Is(err, ErrDegenerateAggregation) ||
		errors.Is(err, ErrUnknownFormat)
}
