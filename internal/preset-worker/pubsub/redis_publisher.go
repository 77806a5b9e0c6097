package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/worldcup-predictor/pkg/contracts/events"
)

// RedisBroadcaster publica simulações concluídas no canal lido pelo websocket do predictor-service
type RedisBroadcaster struct {
	r       redis.Cmdable
	channel string
}

func NewRedisBroadcaster(r redis.Cmdable, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{r: r, channel: channel}
}

func (b *RedisBroadcaster) Broadcast(ctx context.Context, ev events.SimulationCompleted) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(events.Broadcast{
		PresetID: ev.PresetID,
		Type:     "simulation_completed",
		Payload:  payload,
	})
	if err != nil {
		return err
	}
	return b.r.Publish(ctx, b.channel, msg).Err()
}
