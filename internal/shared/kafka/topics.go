package kafka

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EnsureTopics cria os tópicos via controller do cluster (single-broker em local/dev).
// Tópico já existente não é erro.
func EnsureTopics(ctx context.Context, brokers []string, log *zap.Logger, topics ...string) error {
	if len(brokers) == 0 {
		return fmt.Errorf("kafka brokers not provided")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("kafka controller: %w", err)
	}

	cconn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer cconn.Close()

	for _, t := range topics {
		err := cconn.CreateTopics(kafka.TopicConfig{Topic: t, NumPartitions: 1, ReplicationFactor: 1})
		switch {
		case err == nil:
			log.Info("kafka topic created", zap.String("topic", t))
		case strings.Contains(err.Error(), "already exists"):
		default:
			log.Warn("failed to create kafka topic", zap.String("topic", t), zap.Error(err))
		}
	}
	return nil
}

// DevEnv indica ambientes onde os tópicos são criados na subida
func DevEnv(env string) bool { return env == "local" || env == "dev" }
