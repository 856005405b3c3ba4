package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes notifications as JSON, keyed by severity
type KafkaNotifier struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true, // Notify must not block the caller
		},
		timeout: 5 * time.Second,
	}
}

func (k *KafkaNotifier) Notify(severity Severity, title, message string) {
	n := newNotification(severity, title, message)

	value, err := json.Marshal(n)
	if err != nil {
		log.Printf("Warning: failed to encode notification: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	msg := kafka.Message{Key: []byte(severity), Value: value}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("Warning: failed to publish notification %s: %v", n.ID, err)
	}
}

func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}
