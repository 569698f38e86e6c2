package transfer

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/congo-pay/solo_wallet/internal/wallet"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes transfer intents as JSON messages keyed by recipient.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher builds a publisher writing to topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes the intent to Kafka.
func (p *KafkaPublisher) Publish(ctx context.Context, intent wallet.TransferIntent) error {
	data, err := encode(intent)
	if err != nil {
		return fmt.Errorf("encode transfer intent: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(intent.Recipient),
		Value: data,
		Headers: []kafka.Header{
			{Key: "intent_id", Value: []byte(intent.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
