package repository

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/docstore"
	"MarketPulse/pkg/util"
)

// Collections in the document store.
const (
	collNews          = "news"
	collIncidents     = "incidents"
	collEvents        = "events"
	collSignals       = "signals"
	collOpportunities = "opportunities"
)

func indexDate(iso string) time.Time {
	if d, ok := util.ParseDate(iso); ok {
		return d
	}
	return time.Now().UTC()
}

func toQuery(opts domrepo.ListOptions) docstore.Query {
	return docstore.Query{Since: opts.Since, Limit: opts.Limit}
}

// DocNewsStore persists news items in the document store.
type DocNewsStore struct {
	store docstore.Store
}

func NewDocNewsStore(store docstore.Store) *DocNewsStore {
	return &DocNewsStore{store: store}
}

func (s *DocNewsStore) Put(ctx context.Context, item *models.NewsItem) error {
	if item.ID == "" {
		return fmt.Errorf("news item without id")
	}
	return s.store.Put(ctx, collNews, item.ID, item, indexDate(item.Date))
}

func (s *DocNewsStore) List(ctx context.Context, opts domrepo.ListOptions) ([]models.NewsItem, error) {
	return docstore.ListTyped[models.NewsItem](ctx, s.store, collNews, toQuery(opts))
}

// DocIncidentStore persists incidents. Create is existence-checked so the
// enrichment step stays idempotent across reruns.
type DocIncidentStore struct {
	store docstore.Store
}

func NewDocIncidentStore(store docstore.Store) *DocIncidentStore {
	return &DocIncidentStore{store: store}
}

func (s *DocIncidentStore) Create(ctx context.Context, inc *models.Incident) (bool, error) {
	exists, err := s.store.Exists(ctx, collIncidents, inc.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.store.Put(ctx, collIncidents, inc.ID, inc, indexDate(inc.Date)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *DocIncidentStore) Exists(ctx context.Context, id string) (bool, error) {
	return s.store.Exists(ctx, collIncidents, id)
}

func (s *DocIncidentStore) List(ctx context.Context, opts domrepo.ListOptions) ([]models.Incident, error) {
	return docstore.ListTyped[models.Incident](ctx, s.store, collIncidents, toQuery(opts))
}

// DocEventStore persists market events. Put merges with any existing event:
// impacted sectors and symbols are unioned, never replaced, so repeated
// enrichment only widens an event's blast radius.
type DocEventStore struct {
	store docstore.Store
}

func NewDocEventStore(store docstore.Store) *DocEventStore {
	return &DocEventStore{store: store}
}

func (s *DocEventStore) Put(ctx context.Context, ev *models.MarketEvent) error {
	var existing models.MarketEvent
	err := s.store.Get(ctx, collEvents, ev.ID, &existing)
	switch {
	case err == nil:
		ev.ImpactedSectors = unionStrings(existing.ImpactedSectors, ev.ImpactedSectors)
		ev.ImpactedSymbols = unionStrings(existing.ImpactedSymbols, ev.ImpactedSymbols)
	case err != docstore.ErrNotFound:
		return err
	}
	return s.store.Put(ctx, collEvents, ev.ID, ev, indexDate(ev.Date))
}

func (s *DocEventStore) List(ctx context.Context, opts domrepo.ListOptions) ([]models.MarketEvent, error) {
	return docstore.ListTyped[models.MarketEvent](ctx, s.store, collEvents, toQuery(opts))
}

// DocSignalStore persists signals keyed symbol_date.
type DocSignalStore struct {
	store docstore.Store
}

func NewDocSignalStore(store docstore.Store) *DocSignalStore {
	return &DocSignalStore{store: store}
}

func (s *DocSignalStore) Create(ctx context.Context, sig *models.Signal) (bool, error) {
	exists, err := s.store.Exists(ctx, collSignals, sig.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.store.Put(ctx, collSignals, sig.ID, sig, indexDate(sig.Date)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *DocSignalStore) List(ctx context.Context, opts domrepo.ListOptions) ([]models.Signal, error) {
	return docstore.ListTyped[models.Signal](ctx, s.store, collSignals, toQuery(opts))
}

// DocOpportunityStore persists generated opportunities.
type DocOpportunityStore struct {
	store docstore.Store
}

func NewDocOpportunityStore(store docstore.Store) *DocOpportunityStore {
	return &DocOpportunityStore{store: store}
}

func (s *DocOpportunityStore) Put(ctx context.Context, opp *models.MarketOpportunity) error {
	return s.store.Put(ctx, collOpportunities, opp.ID, opp, indexDate(opp.CreatedAt))
}

func (s *DocOpportunityStore) List(ctx context.Context, opts domrepo.ListOptions) ([]models.MarketOpportunity, error) {
	return docstore.ListTyped[models.MarketOpportunity](ctx, s.store, collOpportunities, toQuery(opts))
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, vs := range [][]string{a, b} {
		for _, v := range vs {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
