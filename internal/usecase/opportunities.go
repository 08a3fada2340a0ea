package usecase

import (
	"context"
	"sort"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/services/correlation"
	applogger "MarketPulse/pkg/logger"
)

// OpportunityNotifier pushes freshly generated opportunities to live
// subscribers. Delivery is best-effort.
type OpportunityNotifier interface {
	NotifyOpportunity(opp *models.MarketOpportunity)
}

// OpportunitiesUseCase synthesizes trading opportunities from recent market
// events, persists and publishes the ones above the confidence floor, and
// builds the summary view.
type OpportunitiesUseCase struct {
	eventStore drepo.EventStore
	oppStore   drepo.OpportunityStore
	publisher  drepo.Publisher
	notifier   OpportunityNotifier
	metrics    drepo.Metrics
	l          *applogger.Logger
	now        func() time.Time
}

func NewOpportunitiesUseCase(
	eventStore drepo.EventStore,
	oppStore drepo.OpportunityStore,
	publisher drepo.Publisher,
	notifier OpportunityNotifier,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *OpportunitiesUseCase {
	return &OpportunitiesUseCase{
		eventStore: eventStore,
		oppStore:   oppStore,
		publisher:  publisher,
		notifier:   notifier,
		metrics:    metrics,
		l:          l,
		now:        time.Now,
	}
}

type OpportunitiesParams struct {
	DaysBack        int
	MinConfidence   float64
	IncludeIndirect bool
}

// DefaultOpportunitiesParams mirrors the scheduled run.
func DefaultOpportunitiesParams() OpportunitiesParams {
	return OpportunitiesParams{DaysBack: 7, MinConfidence: 0.6, IncludeIndirect: true}
}

type TopOpportunity struct {
	ID             string           `json:"id"`
	Symbols        []string         `json:"symbols"`
	Direction      models.Direction `json:"direction"`
	Confidence     float64          `json:"confidence"`
	ExpectedReturn float64          `json:"expectedReturn"`
	Horizon        string           `json:"horizon"`
}

type OpportunitiesResult struct {
	Events        int                   `json:"events"`
	Generated     int                   `json:"generated"`
	Stored        int                   `json:"stored"`
	ByHorizon     map[string]int        `json:"byHorizon"`
	ByType        map[string]int        `json:"byType"`
	Top           []TopOpportunity      `json:"topOpportunities"`
	MacroPatterns []models.MacroPattern `json:"macroPatterns,omitempty"`
}

func (uc *OpportunitiesUseCase) Run(ctx context.Context, p OpportunitiesParams) (*OpportunitiesResult, error) {
	if p.DaysBack <= 0 {
		p.DaysBack = 7
	}
	if p.MinConfidence <= 0 {
		p.MinConfidence = 0.6
	}
	now := uc.now().UTC()

	stored, err := uc.eventStore.List(ctx, drepo.ListOptions{
		Since: now.AddDate(0, 0, -p.DaysBack),
	})
	if err != nil {
		return nil, err
	}

	// Widen each event's symbol set with supply-chain neighbors before
	// generation, capped so one broad sector cannot dominate.
	events := make([]*models.MarketEvent, 0, len(stored))
	for i := range stored {
		ev := stored[i]
		if p.IncludeIndirect {
			impact := correlation.AnalyzeImpact(&ev)
			indirect := impact.IndirectSymbols
			if len(indirect) > 20 {
				indirect = indirect[:20]
			}
			ev.ImpactedSymbols = unionStrings(ev.ImpactedSymbols, indirect)
		}
		events = append(events, &ev)
	}

	opps := correlation.GenerateOpportunities(events, now)

	res := &OpportunitiesResult{
		Events:    len(events),
		Generated: len(opps),
		ByHorizon: make(map[string]int),
		ByType:    make(map[string]int),
	}

	kept := make([]*models.MarketOpportunity, 0, len(opps))
	for _, opp := range opps {
		if opp.Confidence < p.MinConfidence {
			continue
		}
		if !p.IncludeIndirect && opp.Type == models.OpportunityIndirect {
			continue
		}
		if err := uc.oppStore.Put(ctx, opp); err != nil {
			return nil, err
		}
		if uc.notifier != nil {
			uc.notifier.NotifyOpportunity(opp)
		}
		uc.metrics.RecordOpportunityGenerated(string(opp.Type))
		kept = append(kept, opp)
		res.ByHorizon[opp.Timeframe.Horizon]++
		res.ByType[string(opp.Type)]++
	}
	res.Stored = len(kept)

	if uc.publisher != nil && len(kept) > 0 {
		if err := uc.publisher.PublishOpportunities(ctx, kept); err != nil {
			uc.metrics.RecordError("opportunity_publish")
			if uc.l != nil {
				uc.l.Warn("opportunity publish failed",
					applogger.Int("count", len(kept)),
					applogger.Error(err),
				)
			}
		}
	}

	res.Top = topOpportunities(kept, 10)
	res.MacroPatterns = correlation.ScanMacroPatterns(events, now)

	if uc.l != nil {
		uc.l.Info("opportunities complete",
			applogger.Int("events", res.Events),
			applogger.Int("generated", res.Generated),
			applogger.Int("stored", res.Stored),
			applogger.Int("macro_patterns", len(res.MacroPatterns)),
		)
	}
	return res, nil
}

// topOpportunities ranks by expected return weighted by confidence.
func topOpportunities(opps []*models.MarketOpportunity, n int) []TopOpportunity {
	ranked := make([]*models.MarketOpportunity, len(opps))
	copy(ranked, opps)
	sort.SliceStable(ranked, func(i, j int) bool {
		return oppScore(ranked[i]) > oppScore(ranked[j])
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]TopOpportunity, 0, len(ranked))
	for _, opp := range ranked {
		syms := opp.Symbols
		if len(syms) > 5 {
			syms = syms[:5]
		}
		expected := 0.0
		if opp.ExpectedReturn != nil {
			expected = opp.ExpectedReturn.Expected
		}
		out = append(out, TopOpportunity{
			ID:             opp.ID,
			Symbols:        syms,
			Direction:      opp.Direction,
			Confidence:     opp.Confidence,
			ExpectedReturn: expected,
			Horizon:        opp.Timeframe.Horizon,
		})
	}
	return out
}

func oppScore(opp *models.MarketOpportunity) float64 {
	if opp.ExpectedReturn == nil {
		return 0
	}
	return opp.ExpectedReturn.Expected * opp.Confidence
}

func unionStrings(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, lists := range [][]string{base, extra} {
		for _, s := range lists {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
