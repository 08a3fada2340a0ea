package repository

import (
	"context"

	"MarketPulse/internal/domain/models"
)

// NewsSource fetches normalized news items from an external feed.
type NewsSource interface {
	Name() string
	Fetch(ctx context.Context, opts FetchOptions) ([]models.NewsItem, error)
}

// FetchOptions bounds a news fetch.
type FetchOptions struct {
	Tickers  []string
	DaysBack int
	MaxItems int
}

// BarProvider fetches a daily EOD series for one symbol from an external API.
type BarProvider interface {
	FetchDaily(ctx context.Context, symbol string) ([]models.EODBar, error)
}

// Publisher emits pipeline outputs onto the message bus. Opportunities
// from one run are published as a batch.
type Publisher interface {
	PublishOpportunities(ctx context.Context, opps []*models.MarketOpportunity) error
	Close() error
}

// Metrics records pipeline counters and latencies.
type Metrics interface {
	RecordNewsIngested(source string, n int)
	RecordIncidentClassified(incidentType string)
	RecordSignalCreated(symbol string)
	RecordOpportunityGenerated(oppType string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
