package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	kafka "github.com/segmentio/kafka-go"
)

// KafkaQueue publishes jobs to a Kafka topic consumed by the processing
// workers (PDF parsing, structure extraction).
type KafkaQueue struct {
	writer *kafka.Writer
}

func NewKafkaQueue(brokers []string, topic string) *KafkaQueue {
	return &KafkaQueue{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}),
	}
}

func (q *KafkaQueue) Enqueue(ctx context.Context, jobName string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", jobName, err)
	}
	err = q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(jobName),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("enqueue job %s: %w", jobName, err)
	}
	return nil
}

func (q *KafkaQueue) Close() error {
	return q.writer.Close()
}
