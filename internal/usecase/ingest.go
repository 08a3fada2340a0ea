package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/feeds"
	"MarketPulse/internal/services/classify"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"
)

// DefaultTickers is the watchlist used when a request names none.
var DefaultTickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META"}

// IngestUseCase pulls news from every configured source and EOD bars for the
// requested tickers. Source failures degrade to warnings; the job only fails
// when persistence itself fails.
type IngestUseCase struct {
	sources   []drepo.NewsSource
	bars      drepo.BarProvider
	newsStore drepo.NewsStore
	barStore  drepo.BarStore
	metrics   drepo.Metrics
	l         *applogger.Logger
}

func NewIngestUseCase(
	sources []drepo.NewsSource,
	bars drepo.BarProvider,
	newsStore drepo.NewsStore,
	barStore drepo.BarStore,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		sources:   sources,
		bars:      bars,
		newsStore: newsStore,
		barStore:  barStore,
		metrics:   metrics,
		l:         l,
	}
}

type IngestParams struct {
	Tickers  []string
	DaysBack int
	Limit    int
}

type IngestResult struct {
	News     int            `json:"news"`
	Tickers  int            `json:"tickers"`
	Sources  map[string]int `json:"sources"`
	Warnings []string       `json:"warnings,omitempty"`
}

func (uc *IngestUseCase) Run(ctx context.Context, p IngestParams) (*IngestResult, error) {
	if len(p.Tickers) == 0 {
		p.Tickers = DefaultTickers
	}
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.DaysBack <= 0 {
		p.DaysBack = 1
	}

	res := &IngestResult{Sources: make(map[string]int, len(uc.sources))}

	var merged []models.NewsItem
	for _, src := range uc.sources {
		items, err := src.Fetch(ctx, drepo.FetchOptions{
			Tickers:  p.Tickers,
			DaysBack: p.DaysBack,
			MaxItems: p.Limit / 2,
		})
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", src.Name(), err))
			uc.metrics.RecordError("ingest_" + src.Name())
			continue
		}
		kept := filterRelevant(src.Name(), items)
		res.Sources[src.Name()] = len(kept)
		merged = append(merged, kept...)
	}

	// Dedup near-identical headlines across sources, then re-key documents
	// by date plus content hash so replays overwrite rather than duplicate.
	merged = dedupByTitle(merged)
	for i := range merged {
		item := merged[i]
		item.ID = newsDocID(&item)
		if err := uc.newsStore.Put(ctx, &item); err != nil {
			return nil, fmt.Errorf("store news %s: %w", item.ID, err)
		}
		res.News++
	}
	for src, n := range res.Sources {
		uc.metrics.RecordNewsIngested(src, n)
	}

	for _, symbol := range p.Tickers {
		bars, err := uc.bars.FetchDaily(ctx, symbol)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("eod %s: %v", symbol, err))
			uc.metrics.RecordError("ingest_eod")
			continue
		}
		if err := uc.barStore.StoreBars(ctx, bars); err != nil {
			return nil, fmt.Errorf("store bars %s: %w", symbol, err)
		}
		res.Tickers++
	}

	if uc.l != nil {
		uc.l.Info("ingest complete",
			applogger.Int("news", res.News),
			applogger.Int("tickers", res.Tickers),
			applogger.Int("warnings", len(res.Warnings)),
		)
	}
	return res, nil
}

// filterRelevant drops low-impact global items from broad sources; items
// from ticker-scoped sources are already relevant. Headlines with obvious
// market language pass even when no impact rule fires.
func filterRelevant(source string, items []models.NewsItem) []models.NewsItem {
	if source == "alpha_vantage" {
		return items
	}
	out := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		rel := feeds.AnalyzeRelevance(&item)
		if (rel.IsRelevant && rel.ImpactLevel != models.MagnitudeLow) || classify.LooksFinancial(item.Title) {
			out = append(out, item)
		}
	}
	return out
}

func dedupByTitle(items []models.NewsItem) []models.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		key := titleKey(item.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func titleKey(title string) string {
	b := make([]byte, 0, 50)
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b = append(b, byte(r))
		case r >= 'A' && r <= 'Z':
			b = append(b, byte(r)+'a'-'A')
		}
		if len(b) == 50 {
			break
		}
	}
	return string(b)
}

func newsDocID(item *models.NewsItem) string {
	date := item.Date
	if date == "" {
		date = util.Today()
	}
	sum := sha256.Sum256([]byte(item.ID))
	return date + "_" + hex.EncodeToString(sum[:])[:40]
}
