// Package preset carrega torneios pré-configurados (grupos + resultado já simulado)
// a partir de uma cadeia de fontes: cache, banco e arquivos JSON.
package preset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/internal/tournament"
)

var ErrNotFound = errors.New("preset not found")

// Preset é um torneio conhecido com o resultado pré-computado (se houver)
type Preset struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Format        string              `json:"format"`
	Groups        map[string][]string `json:"groups"`
	Champions     map[string]int      `json:"champions,omitempty"`
	Finalists     map[string]int      `json:"finalists,omitempty"`
	Semifinalists map[string]int      `json:"semifinalists,omitempty"`
	NSims         int                 `json:"n_sims,omitempty"`
	Metadata      map[string]any      `json:"metadata,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// Info descreve um preset disponível
type Info struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Format string `json:"format"`
}

// Known são os presets servidos pela API
var Known = []Info{
	{ID: "wc2022", Name: "2022 FIFA World Cup", Format: string(tournament.Format32)},
	{ID: "wc2026", Name: "2026 FIFA World Cup (Projected)", Format: string(tournament.Format48)},
}

func Lookup(id string) (Info, bool) {
	for _, k := range Known {
		if k.ID == id {
			return k, true
		}
	}
	return Info{}, false
}

// KnownIDs lista os ids de Known
func KnownIDs() []string {
	ids := make([]string, len(Known))
	for i, k := range Known {
		ids[i] = k.ID
	}
	return ids
}

// InferFormat: 12 grupos = 48 times, qualquer outro valor = 32
func InferFormat(groups map[string][]string) string {
	if len(groups) == tournament.Format48.GroupCount() {
		return string(tournament.Format48)
	}
	return string(tournament.Format32)
}

// DefaultName usa o ano no fim do id ("wc2022" -> "World Cup 2022")
func DefaultName(id string) string {
	if len(id) >= 4 {
		return "World Cup " + id[len(id)-4:]
	}
	return "World Cup " + id
}

// Source é uma origem de presets
type Source interface {
	Name() string
	Load(ctx context.Context, id string) (Preset, error)
}

// Chain consulta as fontes em ordem; a primeira que encontrar vence.
// Erros diferentes de ErrNotFound são registrados e a cadeia segue.
type Chain struct {
	Sources []Source
	Log     *zap.Logger

	OnHit   func(source string) // métricas
	OnError func(stage string)
}

func (c *Chain) Load(ctx context.Context, id string) (Preset, error) {
	for _, src := range c.Sources {
		p, err := src.Load(ctx, id)
		if err == nil {
			if c.OnHit != nil {
				c.OnHit(src.Name())
			}
			return p, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if ctx.Err() != nil {
			return Preset{}, ctx.Err()
		}
		if c.Log != nil {
			c.Log.Warn("preset source failed", zap.String("source", src.Name()), zap.String("preset", id), zap.Error(err))
		}
		if c.OnError != nil {
			c.OnError("preset_" + src.Name())
		}
	}
	return Preset{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}
