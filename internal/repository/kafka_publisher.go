package repository

import (
	"context"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	pkgkafka "MarketPulse/pkg/kafka"
)

// KafkaPublisher emits pipeline outputs to Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka-backed Publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// PublishOpportunities keys messages by opportunity type so consumers can
// partition direct/indirect/correlation streams independently.
func (p *KafkaPublisher) PublishOpportunities(ctx context.Context, opps []*models.MarketOpportunity) error {
	if len(opps) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(opps))
	for _, opp := range opps {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(opp.Type), Value: opp})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
