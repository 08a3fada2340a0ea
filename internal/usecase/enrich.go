package usecase

import (
	"context"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/services/classify"
	"MarketPulse/internal/services/correlation"
	"MarketPulse/internal/services/sectors"
	"MarketPulse/internal/services/symbols"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"
)

// EnrichUseCase classifies stored news into incidents and promotes strong
// classifications to market events. Classification is idempotent: a news item
// that already has an incident is skipped entirely.
type EnrichUseCase struct {
	newsStore     drepo.NewsStore
	incidentStore drepo.IncidentStore
	eventStore    drepo.EventStore
	classifier    *classify.Classifier
	metrics       drepo.Metrics
	l             *applogger.Logger
}

func NewEnrichUseCase(
	newsStore drepo.NewsStore,
	incidentStore drepo.IncidentStore,
	eventStore drepo.EventStore,
	classifier *classify.Classifier,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *EnrichUseCase {
	return &EnrichUseCase{
		newsStore:     newsStore,
		incidentStore: incidentStore,
		eventStore:    eventStore,
		classifier:    classifier,
		metrics:       metrics,
		l:             l,
	}
}

type EnrichResult struct {
	Scanned   int `json:"scanned"`
	Incidents int `json:"incidents"`
	Events    int `json:"events"`
	Skipped   int `json:"skipped"`
}

func (uc *EnrichUseCase) Run(ctx context.Context, limit int) (*EnrichResult, error) {
	if limit <= 0 {
		limit = 200
	}
	items, err := uc.newsStore.List(ctx, drepo.ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	res := &EnrichResult{Scanned: len(items)}
	for i := range items {
		item := &items[i]
		exists, err := uc.incidentStore.Exists(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			res.Skipped++
			continue
		}

		syms := item.Symbols
		if len(syms) == 0 {
			syms = symbols.Extract(item.Title + " " + item.Summary)
		}

		cls := uc.classifier.Classify(ctx, item)
		created, err := uc.incidentStore.Create(ctx, &models.Incident{
			ID:      item.ID,
			Date:    item.Date,
			Symbols: syms,
			Type:    cls.Type,
			Score:   cls.Score,
		})
		if err != nil {
			return nil, err
		}
		if !created {
			res.Skipped++
			continue
		}
		res.Incidents++
		uc.metrics.RecordIncidentClassified(string(cls.Type))

		if !classify.IsIncidentWorthy(cls) {
			continue
		}
		ev := buildEvent(item, cls, syms)
		if err := uc.eventStore.Put(ctx, ev); err != nil {
			return nil, err
		}
		res.Events++
	}

	if uc.l != nil {
		uc.l.Info("enrich complete",
			applogger.Int("scanned", res.Scanned),
			applogger.Int("incidents", res.Incidents),
			applogger.Int("events", res.Events),
		)
	}
	return res, nil
}

// buildEvent promotes a classified item to a market event. Sectors are the
// union of the symbols' own sectors and the sectors correlated through the
// event-pattern table, so later impact analysis sees both.
func buildEvent(item *models.NewsItem, cls models.Classification, syms []string) *models.MarketEvent {
	ev := &models.MarketEvent{
		ID:              "event_" + item.ID,
		Date:            item.Date,
		Type:            cls.Type,
		Category:        correlation.CategorizeEvent(cls.Type),
		Title:           item.Title,
		Description:     item.Summary,
		ImpactedSymbols: syms,
		Magnitude:       cls.Magnitude,
		TimeHorizon:     correlation.DetermineTimeHorizon(cls.Type),
	}

	sectorSet := make(map[string]struct{})
	for _, s := range syms {
		for _, sec := range sectors.SectorsOf(s) {
			if _, ok := sectorSet[sec]; !ok {
				sectorSet[sec] = struct{}{}
				ev.ImpactedSectors = append(ev.ImpactedSectors, sec)
			}
		}
	}
	impact := correlation.AnalyzeImpact(ev)
	for _, sec := range impact.CorrelatedSectors {
		if _, ok := sectorSet[sec]; !ok {
			sectorSet[sec] = struct{}{}
			ev.ImpactedSectors = append(ev.ImpactedSectors, sec)
		}
	}
	if ev.ImpactedSectors == nil {
		ev.ImpactedSectors = []string{}
	}
	ev.Description = util.Truncate(ev.Description, 500)
	return ev
}
