package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/internal/preset"
	"github.com/radieske/worldcup-predictor/pkg/contracts/events"
)

type PresetLoader interface {
	Load(ctx context.Context, id string) (preset.Preset, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Scheduler agenda recomputações de presets publicando simulation_requested.
// Na subida só agenda os presets sem resultado; depois, a cada Interval, todos.
type Scheduler struct {
	Log       *zap.Logger
	Publisher Publisher
	Presets   PresetLoader
	IDs       []string
	NSims     int
	Interval  time.Duration // 0 = só o aquecimento inicial

	OnScheduled func()
}

// Run executa o aquecimento e, se houver Interval, o loop periódico
func (s *Scheduler) Run(ctx context.Context) error {
	n := s.Tick(ctx, true)
	s.Log.Info("preset warmup scheduled", zap.Int("presets", n))

	if s.Interval <= 0 {
		return nil
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			n := s.Tick(ctx, false)
			s.Log.Debug("preset refresh scheduled", zap.Int("presets", n))
		}
	}
}

// Tick publica um pedido por preset e devolve quantos foram agendados
func (s *Scheduler) Tick(ctx context.Context, onlyMissing bool) int {
	sent := 0
	for _, id := range s.IDs {
		if onlyMissing && s.hasResult(ctx, id) {
			continue
		}
		ev := events.SimulationRequested{
			RunID:       uuid.NewString(),
			PresetID:    id,
			NSims:       s.NSims,
			RequestedAt: time.Now().UTC(),
		}
		if err := s.Publisher.PublishJSON(ctx, id, ev); err != nil {
			s.Log.Warn("failed to schedule preset", zap.String("preset", id), zap.Error(err))
			continue
		}
		sent++
		if s.OnScheduled != nil {
			s.OnScheduled()
		}
	}
	return sent
}

func (s *Scheduler) hasResult(ctx context.Context, id string) bool {
	p, err := s.Presets.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, preset.ErrNotFound) {
			s.Log.Warn("preset lookup failed", zap.String("preset", id), zap.Error(err))
		}
		return false
	}
	return len(p.Champions) > 0
}
