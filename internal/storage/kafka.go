package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"talanch-backoffice/internal/domain"
)

// KafkaPublisher emits one event per confirmed mutation so downstream
// consumers can follow what the admins changed.
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishMutation(ctx context.Context, event domain.MutationEvent) error {
	payload, _ := json.Marshal(event)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%s:%s", event.Entity, strconv.Itoa(event.EntityID))),
		Value: payload,
	})
}
