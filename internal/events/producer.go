// Package events publishes user lifecycle events to kafka. Publishing is
// best effort: the auth flow never fails because the broker is down.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns nil when no brokers are configured; a nil producer
// discards every publish.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	if p == nil || p.writer == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	}); err != nil {
		return fmt.Errorf("kafka: write message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
