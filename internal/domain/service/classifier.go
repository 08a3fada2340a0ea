package service

import (
	"context"

	"MarketPulse/internal/domain/models"
)

// TextClassifier is an optional external text-classification call used when
// no rule matches. A nil result with nil error means the item was judged
// unprocessable; callers degrade to the low-confidence fallback.
type TextClassifier interface {
	Classify(ctx context.Context, news *models.NewsItem) (*models.Classification, error)
}
