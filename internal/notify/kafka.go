package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

// Notify publishes the event keyed by owner. Delivery failures are logged
// and dropped, a lost toast must never fail the operation that produced it.
func (p *KafkaPublisher) Notify(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		slog.Error("marshal notification", "err", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(e.OwnerID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("publish notification", "err", err, "title", e.Title)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
