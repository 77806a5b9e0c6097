package oracle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/internal/shared/cache"
	"github.com/radieske/worldcup-predictor/internal/tournament"
)

const (
	LayerMemo  = "memo"
	LayerRedis = "redis"
)

// Store é o cache remoto de previsões
type Store interface {
	Get(ctx context.Context, key string, dst *tournament.Prediction) (bool, error)
	Set(ctx context.Context, key string, p tournament.Prediction, ttl time.Duration) error
}

// RedisStore implementa Store sobre go-redis
type RedisStore struct {
	R redis.Cmdable
}

func (s RedisStore) Get(ctx context.Context, key string, dst *tournament.Prediction) (bool, error) {
	return cache.GetJSON(ctx, s.R, key, dst)
}

func (s RedisStore) Set(ctx context.Context, key string, p tournament.Prediction, ttl time.Duration) error {
	return cache.SetJSON(ctx, s.R, key, p, ttl)
}

// Cached decora um oráculo com memo em processo e, opcionalmente, um Store remoto.
// Falta de dados nunca é cacheada; falhas do Store caem no oráculo interno.
type Cached struct {
	Inner tournament.Oracle
	Store Store // nil = só memo
	TTL   time.Duration
	Log   *zap.Logger

	OnHit   func(layer string) // métricas
	OnMiss  func(layer string)
	OnError func(stage string)

	memo sync.Map // key -> tournament.Prediction
}

var _ tournament.Oracle = (*Cached)(nil)

// Key monta a chave do cache para um confronto
func Key(home, away string, mc tournament.MatchContext) string {
	return fmt.Sprintf("oracle:v1:%s:%s:%d:%d", home, away, b2i(mc.IsNeutral), b2i(mc.IsWorldCup))
}

func (c *Cached) Predict(ctx context.Context, home, away string, mc tournament.MatchContext) (tournament.Prediction, error) {
	key := Key(home, away, mc)

	if v, ok := c.memo.Load(key); ok {
		c.hit(LayerMemo)
		return v.(tournament.Prediction), nil
	}
	c.miss(LayerMemo)

	if c.Store != nil {
		var p tournament.Prediction
		ok, err := c.Store.Get(ctx, key, &p)
		switch {
		case err != nil:
			c.fail("cache_get", err)
		case ok:
			c.hit(LayerRedis)
			c.memo.Store(key, p)
			return p, nil
		default:
			c.miss(LayerRedis)
		}
	}

	p, err := c.Inner.Predict(ctx, home, away, mc)
	if err != nil {
		return tournament.Prediction{}, err
	}
	c.memo.Store(key, p)

	if c.Store != nil {
		if err := c.Store.Set(ctx, key, p, c.TTL); err != nil {
			c.fail("cache_set", err)
		}
	}
	return p, nil
}

func (c *Cached) Strength(ctx context.Context, team string) float64 {
	return c.Inner.Strength(ctx, team)
}

func (c *Cached) hit(layer string) {
	if c.OnHit != nil {
		c.OnHit(layer)
	}
}

func (c *Cached) miss(layer string) {
	if c.OnMiss != nil {
		c.OnMiss(layer)
	}
}

func (c *Cached) fail(stage string, err error) {
	if c.Log != nil {
		c.Log.Warn("oracle cache failed", zap.String("stage", stage), zap.Error(err))
	}
	if c.OnError != nil {
		c.OnError(stage)
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
