package usecase

import (
	"context"
	"encoding/json"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	pkgkafka "MarketPulse/pkg/kafka"
	"MarketPulse/pkg/util"
)

// KafkaNewsHandler consumes raw news messages and writes them to the news
// store, re-keyed like feed-ingested items so both paths stay idempotent.
type KafkaNewsHandler struct {
	topic     string
	newsStore domrepo.NewsStore
	metrics   domrepo.Metrics
}

func NewKafkaNewsHandler(topic string, newsStore domrepo.NewsStore, metrics domrepo.Metrics) *KafkaNewsHandler {
	return &KafkaNewsHandler{topic: topic, newsStore: newsStore, metrics: metrics}
}

func (h *KafkaNewsHandler) Topic() string { return h.topic }

// incoming message schema matches models.NewsItem
func (h *KafkaNewsHandler) Handle(ctx context.Context, b []byte) error {
	var item models.NewsItem
	if err := json.Unmarshal(b, &item); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if item.Title == "" {
		h.metrics.RecordError("consumer_empty_title")
		return nil // drop, not retryable
	}
	if item.Date == "" {
		item.Date = util.Today()
	}
	if item.Source == "" {
		item.Source = "kafka"
	}
	if item.Symbols == nil {
		item.Symbols = []string{}
	}
	baseID := item.ID
	if baseID == "" {
		baseID = item.Date + "_" + item.Title
	}
	item.ID = newsDocID(&models.NewsItem{ID: baseID, Date: item.Date})

	start := time.Now()
	err := h.newsStore.Put(ctx, &item)
	h.metrics.RecordLatency("news_store_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordNewsIngested("kafka", 1)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaNewsHandler)(nil)
