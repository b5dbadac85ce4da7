package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
)

// Producer publishes retry and dead-letter traffic. Messages are keyed by
// aggregate id and hash-balanced, so redelivered events stay on the same
// partition as their siblings and per-aggregate ordering survives the
// retry detour.
type Producer struct {
	writer *kafkago.Writer
	log    *slog.Logger
}

// NewProducer creates a Producer for the given brokers.
func NewProducer(brokers string, log *slog.Logger) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(strings.Split(brokers, ",")...),
			Balancer:               &kafkago.Hash{},
			AllowAutoTopicCreation: true,
		},
		log: log.With("adapter", "kafka"),
	}
}

// Publish writes one message to the given topic.
func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte, headers []kafkago.Header) error {
	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and tears down the writer. Call only after every consumer
// loop has drained, or in-flight retries are lost.
func (p *Producer) Close() error {
	return p.writer.Close()
}
