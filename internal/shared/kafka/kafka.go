package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type (
	Writer  = kafka.Writer
	Reader  = kafka.Reader
	Message = kafka.Message
)

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // mesma chave (preset) cai na mesma partição
		AllowAutoTopicCreation: true,
	}
}

func NewReader(brokers []string, topic string, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
}

// Publisher serializa eventos em JSON para um tópico
type Publisher struct {
	W *kafka.Writer
}

// PublishJSON envia v com a chave informada
func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.W.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: b,
		Time:  time.Now(),
	})
}

func (p *Publisher) Close() error { return p.W.Close() }
