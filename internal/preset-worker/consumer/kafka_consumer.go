package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/internal/preset"
	"github.com/radieske/worldcup-predictor/internal/tournament"
	"github.com/radieske/worldcup-predictor/pkg/contracts/events"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type PresetLoader interface {
	Load(ctx context.Context, id string) (preset.Preset, error)
}

type Repo interface {
	UpsertPreset(ctx context.Context, p preset.Preset, runID string) error
	InsertRun(ctx context.Context, ev events.SimulationCompleted) error
}

type Cache interface {
	Save(ctx context.Context, p preset.Preset) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, ev events.SimulationCompleted) error
}

// errSkip marca mensagens descartadas (já contadas em OnError)
var errSkip = errors.New("message skipped")

// Processor consome pedidos de simulação do Kafka, roda o Monte Carlo,
// persiste o resultado e avisa os interessados (Kafka + Redis Pub/Sub).
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log         *zap.Logger
	Reader      MessageReader
	Engine      *tournament.Engine
	Presets     PresetLoader
	Repo        Repo
	Cache       Cache
	Publisher   Publisher
	Broadcaster Broadcaster

	MaxSims     int // teto de n_sims por execução
	DefaultSims int // n_sims quando o evento não informa

	OnConsumed  func()                                  // métricas (counter++)
	OnSimulated func(format string, took time.Duration) // métricas
	OnPersist   func()                                  // métricas
	OnError     func(string)                            // métricas por fase
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		if _, err := p.Handle(ctx, m.Value); err != nil && !errors.Is(err, errSkip) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("simulation request failed", zap.ByteString("key", m.Key), zap.Error(err))
		}
	}
}

// Handle processa um simulation_requested e devolve o evento de conclusão publicado
func (p *Processor) Handle(ctx context.Context, value []byte) (events.SimulationCompleted, error) {
	var req events.SimulationRequested
	if err := json.Unmarshal(value, &req); err != nil {
		p.Log.Warn("invalid message", zap.Error(err))
		p.fail("decode")
		return events.SimulationCompleted{}, errSkip
	}

	pr, err := p.resolve(ctx, req)
	if err != nil {
		p.fail("resolve")
		return events.SimulationCompleted{}, err
	}

	groups, err := tournament.NormalizeGroups(pr.Groups)
	if err != nil {
		p.fail("input")
		return events.SimulationCompleted{}, err
	}

	engine := p.Engine
	if req.Seed != nil {
		engine = engine.WithSeed(*req.Seed)
	}

	n := req.NSims
	if n <= 0 {
		n = p.DefaultSims
	}
	n = min(n, p.MaxSims)

	start := time.Now()
	res, err := engine.SimulateTournament(ctx, groups, tournament.Format(pr.Format), n)
	if err != nil {
		p.fail("simulate")
		return events.SimulationCompleted{}, fmt.Errorf("simulate %s: %w", pr.ID, err)
	}
	took := time.Since(start)
	if p.OnSimulated != nil {
		p.OnSimulated(pr.Format, took)
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	now := time.Now().UTC()

	pr.Groups = groups
	pr.Champions = res.Champions
	pr.Finalists = res.Finalists
	pr.Semifinalists = res.Semifinalists
	pr.NSims = res.NSims
	pr.UpdatedAt = now

	done := events.SimulationCompleted{
		RunID:         runID,
		PresetID:      pr.ID,
		Format:        pr.Format,
		Groups:        groups,
		Champions:     res.Champions,
		Finalists:     res.Finalists,
		Semifinalists: res.Semifinalists,
		NSims:         res.NSims,
		DurationMs:    took.Milliseconds(),
		CompletedAt:   now,
	}

	// Persiste resultado corrente e histórico no Postgres
	if err := p.Repo.UpsertPreset(ctx, pr, runID); err != nil {
		p.fail("db_upsert")
		return events.SimulationCompleted{}, fmt.Errorf("upsert preset %s: %w", pr.ID, err)
	}
	if err := p.Repo.InsertRun(ctx, done); err != nil {
		p.fail("db_history")
		return events.SimulationCompleted{}, fmt.Errorf("insert run %s: %w", runID, err)
	}
	if p.OnPersist != nil {
		p.OnPersist()
	}

	// cache e avisos não bloqueiam: o resultado já está no banco
	if err := p.Cache.Save(ctx, pr); err != nil {
		p.Log.Warn("redis set failed", zap.Error(err))
		p.fail("cache")
	}
	if err := p.Publisher.PublishJSON(ctx, pr.ID, done); err != nil {
		p.Log.Warn("publish simulation_completed failed", zap.Error(err))
		p.fail("publish")
	}
	bctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := p.Broadcaster.Broadcast(bctx, done); err != nil {
		p.Log.Warn("ws broadcast publish failed", zap.Error(err))
		p.fail("broadcast")
	}

	p.Log.Info("preset simulated",
		zap.String("preset", pr.ID),
		zap.String("run_id", runID),
		zap.Int("n_sims", res.NSims),
		zap.Duration("took", took),
	)
	return done, nil
}

// resolve monta o preset a simular: grupos do evento ou da cadeia de fontes
func (p *Processor) resolve(ctx context.Context, req events.SimulationRequested) (preset.Preset, error) {
	if req.PresetID == "" {
		return preset.Preset{}, fmt.Errorf("%w: preset_id is required", tournament.ErrMalformedBracketInput)
	}

	pr := preset.Preset{ID: req.PresetID, Groups: req.Groups, Format: req.Format}
	if len(pr.Groups) == 0 {
		loaded, err := p.Presets.Load(ctx, req.PresetID)
		if err != nil {
			return preset.Preset{}, err
		}
		pr.Name, pr.Groups = loaded.Name, loaded.Groups
		if pr.Format == "" {
			pr.Format = loaded.Format
		}
	}

	if pr.Name == "" {
		if info, ok := preset.Lookup(pr.ID); ok {
			pr.Name = info.Name
		} else {
			pr.Name = preset.DefaultName(pr.ID)
		}
	}
	if pr.Format == "" {
		pr.Format = preset.InferFormat(pr.Groups)
	}
	return pr, nil
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
