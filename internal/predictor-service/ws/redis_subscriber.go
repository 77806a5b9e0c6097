package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/pkg/contracts/events"
)

// StartRedisSubscriber escuta o canal Redis Pub/Sub em uma goroutine e repassa
// cada simulação concluída aos clientes WebSocket inscritos no preset.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	go relay(ctx, sub.Channel(), hub, log, func() { _ = sub.Close() })
}

func relay(ctx context.Context, ch <-chan *redis.Message, hub *Hub, log *zap.Logger, closeFn func()) {
	defer closeFn()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg == nil {
				continue
			}
			var b events.Broadcast
			if err := json.Unmarshal([]byte(msg.Payload), &b); err != nil {
				log.Warn("ws subscriber unmarshal error", zap.Error(err))
				continue
			}
			hub.Broadcast(b)
		}
	}
}
