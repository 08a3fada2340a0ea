package repository

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

// BarStore provides read/write access to EOD price series. Series are
// returned date-ascending; a symbol with no bars yields an empty slice.
type BarStore interface {
	GetSeries(ctx context.Context, symbol string) ([]models.EODBar, error)
	StoreBars(ctx context.Context, bars []models.EODBar) error
}

// ListOptions bounds a collection listing.
type ListOptions struct {
	Since time.Time // zero means no lower bound
	Limit int       // <=0 means store default
}

// NewsStore persists raw news items.
type NewsStore interface {
	Put(ctx context.Context, item *models.NewsItem) error
	List(ctx context.Context, opts ListOptions) ([]models.NewsItem, error)
}

// IncidentStore persists incidents. Creation is existence-checked: Create
// reports whether a new incident was written so callers can keep
// classification idempotent.
type IncidentStore interface {
	Create(ctx context.Context, inc *models.Incident) (created bool, err error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]models.Incident, error)
}

// EventStore persists market events. Put merges: impacted sectors/symbols
// of an existing event are widened, never replaced.
type EventStore interface {
	Put(ctx context.Context, ev *models.MarketEvent) error
	List(ctx context.Context, opts ListOptions) ([]models.MarketEvent, error)
}

// SignalStore persists signals keyed symbol_date. Create reports whether
// the signal was new; an existing id blocks re-creation silently.
type SignalStore interface {
	Create(ctx context.Context, sig *models.Signal) (created bool, err error)
	List(ctx context.Context, opts ListOptions) ([]models.Signal, error)
}

// OpportunityStore persists generated opportunities.
type OpportunityStore interface {
	Put(ctx context.Context, opp *models.MarketOpportunity) error
	List(ctx context.Context, opts ListOptions) ([]models.MarketOpportunity, error)
}
