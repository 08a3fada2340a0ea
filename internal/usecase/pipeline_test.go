package usecase

import (
	"context"
	"errors"
	"testing"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/repository"
	"MarketPulse/internal/services/classify"
	"MarketPulse/pkg/docstore"
)

type noopMetrics struct{}

func (noopMetrics) RecordNewsIngested(string, int)    {}
func (noopMetrics) RecordIncidentClassified(string)   {}
func (noopMetrics) RecordSignalCreated(string)        {}
func (noopMetrics) RecordOpportunityGenerated(string) {}
func (noopMetrics) RecordError(string)                {}
func (noopMetrics) RecordLatency(string, float64)     {}

type capturePublisher struct {
	published []*models.MarketOpportunity
}

func (p *capturePublisher) PublishOpportunities(_ context.Context, opps []*models.MarketOpportunity) error {
	p.published = append(p.published, opps...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

type captureNotifier struct {
	notified int
}

func (n *captureNotifier) NotifyOpportunity(*models.MarketOpportunity) { n.notified++ }

type fakeBarStore struct {
	series map[string][]models.EODBar
	stored [][]models.EODBar
}

func (f *fakeBarStore) GetSeries(_ context.Context, symbol string) ([]models.EODBar, error) {
	return f.series[symbol], nil
}

func (f *fakeBarStore) StoreBars(_ context.Context, bars []models.EODBar) error {
	f.stored = append(f.stored, bars)
	return nil
}

type fakeSource struct {
	name  string
	items []models.NewsItem
	err   error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(context.Context, drepo.FetchOptions) ([]models.NewsItem, error) {
	return s.items, s.err
}

type fakeBarProvider struct {
	bars map[string][]models.EODBar
	err  error
}

func (f *fakeBarProvider) FetchDaily(_ context.Context, symbol string) ([]models.EODBar, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bars[symbol], nil
}

func TestEnrichIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	newsStore := repository.NewDocNewsStore(mem)
	incidentStore := repository.NewDocIncidentStore(mem)
	eventStore := repository.NewDocEventStore(mem)

	item := &models.NewsItem{
		ID:      "2026-03-02_abc",
		Date:    "2026-03-02",
		Source:  "test",
		Title:   "Apple beats earnings estimates by a massive margin",
		Symbols: []string{"AAPL"},
	}
	if err := newsStore.Put(ctx, item); err != nil {
		t.Fatalf("put news: %v", err)
	}

	uc := NewEnrichUseCase(newsStore, incidentStore, eventStore, classify.New(nil), noopMetrics{}, nil)
	res, err := uc.Run(ctx, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Incidents != 1 {
		t.Fatalf("incidents = %d, want 1", res.Incidents)
	}
	if res.Events != 1 {
		t.Fatalf("events = %d, want 1", res.Events)
	}

	events, err := eventStore.List(ctx, drepo.ListOptions{})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].ID != "event_2026-03-02_abc" {
		t.Fatalf("events = %+v, want one with id event_2026-03-02_abc", events)
	}
	if events[0].Type != models.IncidentEarningsBeat {
		t.Fatalf("event type = %s, want earnings_beat", events[0].Type)
	}
	if len(events[0].ImpactedSectors) == 0 {
		t.Fatalf("event has no impacted sectors")
	}

	res2, err := uc.Run(ctx, 0)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if res2.Incidents != 0 || res2.Skipped != 1 {
		t.Fatalf("rerun incidents=%d skipped=%d, want 0/1", res2.Incidents, res2.Skipped)
	}
}

func TestEnrichInfersSymbols(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	newsStore := repository.NewDocNewsStore(mem)
	incidentStore := repository.NewDocIncidentStore(mem)

	item := &models.NewsItem{
		ID:    "2026-03-02_def",
		Date:  "2026-03-02",
		Title: "NVDA faces major lawsuit over chip patents",
	}
	if err := newsStore.Put(ctx, item); err != nil {
		t.Fatalf("put news: %v", err)
	}

	uc := NewEnrichUseCase(newsStore, incidentStore, repository.NewDocEventStore(mem), classify.New(nil), noopMetrics{}, nil)
	if _, err := uc.Run(ctx, 0); err != nil {
		t.Fatalf("run: %v", err)
	}

	incidents, err := incidentStore.List(ctx, drepo.ListOptions{})
	if err != nil {
		t.Fatalf("list incidents: %v", err)
	}
	if len(incidents) != 1 {
		t.Fatalf("incidents = %d, want 1", len(incidents))
	}
	if len(incidents[0].Symbols) != 1 || incidents[0].Symbols[0] != "NVDA" {
		t.Fatalf("symbols = %v, want [NVDA]", incidents[0].Symbols)
	}
}

func TestSignalsFromIncidents(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	incidentStore := repository.NewDocIncidentStore(mem)
	signalStore := repository.NewDocSignalStore(mem)

	created, err := incidentStore.Create(ctx, &models.Incident{
		ID:      "2026-03-02_abc",
		Date:    "2026-03-02",
		Symbols: []string{"AAPL"},
		Type:    models.IncidentEarningsMiss,
		Score:   0.8,
	})
	if err != nil || !created {
		t.Fatalf("create incident: created=%v err=%v", created, err)
	}

	uc := NewSignalsUseCase(incidentStore, signalStore, noopMetrics{}, nil)
	res, err := uc.Run(ctx, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Created != 1 {
		t.Fatalf("created = %d, want 1", res.Created)
	}

	signals, err := signalStore.List(ctx, drepo.ListOptions{})
	if err != nil {
		t.Fatalf("list signals: %v", err)
	}
	sig := signals[0]
	if sig.ID != "AAPL_2026-03-02" {
		t.Fatalf("signal id = %s, want AAPL_2026-03-02", sig.ID)
	}
	if sig.Direction != models.DirectionShort {
		t.Fatalf("direction = %s, want short", sig.Direction)
	}
	if sig.Strength != 0.8 {
		t.Fatalf("strength = %v, want 0.8", sig.Strength)
	}

	res2, err := uc.Run(ctx, 0)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if res2.Created != 0 || res2.Skipped != 1 {
		t.Fatalf("rerun created=%d skipped=%d, want 0/1", res2.Created, res2.Skipped)
	}
}

func TestDirectionForDefaultsLong(t *testing.T) {
	if d := DirectionFor(models.IncidentGeopolitical); d != models.DirectionLong {
		t.Fatalf("geopolitical direction = %s, want long", d)
	}
	if d := DirectionFor(models.IncidentLayoffs); d != models.DirectionShort {
		t.Fatalf("layoffs direction = %s, want short", d)
	}
}

func TestOpportunitiesRun(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	eventStore := repository.NewDocEventStore(mem)
	oppStore := repository.NewDocOpportunityStore(mem)

	err := eventStore.Put(ctx, &models.MarketEvent{
		ID:              "event_2026-03-01_abc",
		Date:            "2026-03-01",
		Type:            models.IncidentPandemic,
		Category:        models.CategorySocial,
		Title:           "Novel virus outbreak spreads",
		ImpactedSectors: []string{"Healthcare"},
		ImpactedSymbols: []string{"PFE"},
		Magnitude:       models.MagnitudeHigh,
		TimeHorizon:     models.HorizonImmediate,
	})
	if err != nil {
		t.Fatalf("put event: %v", err)
	}

	pub := &capturePublisher{}
	notif := &captureNotifier{}
	uc := NewOpportunitiesUseCase(eventStore, oppStore, pub, notif, noopMetrics{}, nil)
	res, err := uc.Run(ctx, OpportunitiesParams{DaysBack: 30, MinConfidence: 0.6, IncludeIndirect: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Stored == 0 {
		t.Fatalf("no opportunities stored")
	}
	if len(pub.published) != res.Stored {
		t.Fatalf("published %d, stored %d", len(pub.published), res.Stored)
	}
	if notif.notified != res.Stored {
		t.Fatalf("notified %d, stored %d", notif.notified, res.Stored)
	}
	if len(res.Top) == 0 {
		t.Fatalf("no top opportunities")
	}
	if res.Top[0].Confidence < 0.6 {
		t.Fatalf("top confidence %v below floor", res.Top[0].Confidence)
	}

	stored, err := oppStore.List(ctx, drepo.ListOptions{})
	if err != nil {
		t.Fatalf("list opportunities: %v", err)
	}
	if len(stored) != res.Stored {
		t.Fatalf("store holds %d, want %d", len(stored), res.Stored)
	}
}

func TestOpportunitiesConfidenceFloor(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	eventStore := repository.NewDocEventStore(mem)

	// layoffs has no pattern entry, so nothing can be generated
	err := eventStore.Put(ctx, &models.MarketEvent{
		ID:              "event_2026-03-01_xyz",
		Date:            "2026-03-01",
		Type:            models.IncidentLayoffs,
		Title:           "Company announces layoffs",
		ImpactedSymbols: []string{"AAPL"},
		Magnitude:       models.MagnitudeMedium,
	})
	if err != nil {
		t.Fatalf("put event: %v", err)
	}

	uc := NewOpportunitiesUseCase(eventStore, repository.NewDocOpportunityStore(mem), nil, nil, noopMetrics{}, nil)
	res, err := uc.Run(ctx, OpportunitiesParams{DaysBack: 30})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Stored != 0 {
		t.Fatalf("stored = %d, want 0", res.Stored)
	}
}

func TestBacktestRun(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	signalStore := repository.NewDocSignalStore(mem)

	if _, err := signalStore.Create(ctx, &models.Signal{
		ID:           "AAPL_2026-01-05",
		Symbol:       "AAPL",
		Date:         "2026-01-05",
		IncidentType: models.IncidentEarningsBeat,
		Direction:    models.DirectionLong,
		Strength:     0.8,
	}); err != nil {
		t.Fatalf("create signal: %v", err)
	}

	bars := &fakeBarStore{series: map[string][]models.EODBar{
		"AAPL": {
			{Symbol: "AAPL", Date: "2026-01-05", Close: 100},
			{Symbol: "AAPL", Date: "2026-01-06", Close: 102},
			{Symbol: "AAPL", Date: "2026-01-07", Close: 110},
		},
	}}

	uc := NewBacktestUseCase(signalStore, bars, noopMetrics{}, nil)
	res, err := uc.Run(ctx, BacktestParams{Windows: []int{2}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Signals != 1 || res.Symbols != 1 {
		t.Fatalf("signals=%d symbols=%d, want 1/1", res.Signals, res.Symbols)
	}
	report, ok := res.Windows[2]
	if !ok {
		t.Fatalf("missing window 2 report")
	}
	if report.Metrics.Count != 1 {
		t.Fatalf("count = %d, want 1", report.Metrics.Count)
	}
	if report.Metrics.HitRate != 1 {
		t.Fatalf("hit rate = %v, want 1", report.Metrics.HitRate)
	}
	if len(report.Confusion) != 1 || report.Confusion[0].Positive != 1 {
		t.Fatalf("confusion = %+v, want one positive earnings_beat row", report.Confusion)
	}
}

func TestIngestWarningsAndFiltering(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	newsStore := repository.NewDocNewsStore(mem)

	broad := &fakeSource{name: "gdelt", items: []models.NewsItem{
		{ID: "g1", Date: "2026-03-02", Title: "War escalates as invasion of ukraine widens"},
		{ID: "g2", Date: "2026-03-02", Title: "Town fair draws record crowds"},
	}}
	failing := &fakeSource{name: "rss", err: errors.New("feed down")}

	bars := &fakeBarStore{}
	provider := &fakeBarProvider{bars: map[string][]models.EODBar{
		"AAPL": {{Symbol: "AAPL", Date: "2026-03-02", Close: 100}},
	}}

	uc := NewIngestUseCase(
		[]drepo.NewsSource{broad, failing},
		provider, newsStore, bars, noopMetrics{}, nil,
	)
	res, err := uc.Run(ctx, IngestParams{Tickers: []string{"AAPL"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.News != 1 {
		t.Fatalf("news = %d, want 1 (irrelevant item filtered)", res.News)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one for the failing source", res.Warnings)
	}
	if res.Tickers != 1 || len(bars.stored) != 1 {
		t.Fatalf("tickers=%d storedBatches=%d, want 1/1", res.Tickers, len(bars.stored))
	}

	items, err := newsStore.List(ctx, drepo.ListOptions{})
	if err != nil {
		t.Fatalf("list news: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("stored items = %d, want 1", len(items))
	}
	// re-keyed: date prefix plus content hash
	if got := items[0].ID; len(got) != len("2026-03-02")+1+40 || got[:10] != "2026-03-02" {
		t.Fatalf("news id = %q, want date-prefixed hash key", got)
	}
}

func TestIngestDedupAcrossSources(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	newsStore := repository.NewDocNewsStore(mem)

	a := &fakeSource{name: "gdelt", items: []models.NewsItem{
		{ID: "a1", Date: "2026-03-02", Title: "Oil prices spike as OPEC cuts output"},
	}}
	b := &fakeSource{name: "rss", items: []models.NewsItem{
		{ID: "b1", Date: "2026-03-02", Title: "Oil Prices Spike as OPEC Cuts Output"},
	}}

	uc := NewIngestUseCase(
		[]drepo.NewsSource{a, b},
		&fakeBarProvider{}, newsStore, &fakeBarStore{}, noopMetrics{}, nil,
	)
	res, err := uc.Run(ctx, IngestParams{Tickers: []string{"AAPL"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.News != 1 {
		t.Fatalf("news = %d, want 1 after title dedup", res.News)
	}
}
