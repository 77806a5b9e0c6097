package preset

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/worldcup-predictor/internal/shared/cache"
)

// RedisSource guarda o preset completo em preset:{id}
type RedisSource struct {
	Client redis.Cmdable
	TTL    time.Duration
}

func NewRedisSource(c redis.Cmdable, ttl time.Duration) *RedisSource {
	return &RedisSource{Client: c, TTL: ttl}
}

func key(id string) string { return "preset:" + id }

func (*RedisSource) Name() string { return "redis" }

func (r *RedisSource) Load(ctx context.Context, id string) (Preset, error) {
	var p Preset
	ok, err := cache.GetJSON(ctx, r.Client, key(id), &p)
	if err != nil {
		return Preset{}, err
	}
	if !ok {
		return Preset{}, fmt.Errorf("%s in redis: %w", id, ErrNotFound)
	}
	return p, nil
}

// Save grava o preset com o TTL configurado
func (r *RedisSource) Save(ctx context.Context, p Preset) error {
	return cache.SetJSON(ctx, r.Client, key(p.ID), p, r.TTL)
}
