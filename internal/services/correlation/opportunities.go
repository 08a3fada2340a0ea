package correlation

import (
	"fmt"
	"math"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/services/sectors"
	"MarketPulse/pkg/util"
)

const maxSymbolsPerOpportunity = 10

// GenerateOpportunities synthesizes direct, indirect, and correlation
// opportunities from a batch of events. now anchors timeframes and ids so
// callers can replay a batch deterministically.
func GenerateOpportunities(events []*models.MarketEvent, now time.Time) []*models.MarketOpportunity {
	opps := make([]*models.MarketOpportunity, 0, len(events)*2)
	createdAt := now.UTC().Format(time.RFC3339)

	for _, ev := range events {
		impact := AnalyzeImpact(ev)
		for _, cfg := range eventPatterns[ev.Type] {
			if direct := directOpportunity(ev, impact, cfg, now, createdAt); direct != nil {
				opps = append(opps, direct)
			}
			if indirect := indirectOpportunity(ev, impact, cfg, now, createdAt); indirect != nil {
				opps = append(opps, indirect)
			}
		}
	}

	opps = append(opps, correlationOpportunities(events, opps, now, createdAt)...)
	return opps
}

func directOpportunity(ev *models.MarketEvent, impact Impact, cfg sectorImpact, now time.Time, createdAt string) *models.MarketOpportunity {
	var matched []string
	for _, sym := range impact.DirectSymbols {
		if sectorsIntersect(sectors.SectorsOf(sym), cfg.Sectors) {
			matched = append(matched, sym)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return &models.MarketOpportunity{
		ID:             fmt.Sprintf("opp_%s_direct_%d", ev.ID, now.UnixMilli()),
		CreatedAt:      createdAt,
		EventIDs:       []string{ev.ID},
		Symbols:        topN(matched, maxSymbolsPerOpportunity),
		Sectors:        cfg.Sectors,
		Type:           models.OpportunityDirect,
		Direction:      cfg.Direction,
		Timeframe:      timeframeFor(cfg.TimeHorizon, now),
		Confidence:     clamp01(cfg.Confidence * magnitudeConfidenceMultiplier(ev.Magnitude)),
		Reasoning:      fmt.Sprintf("%s. Event: %s", cfg.Reasoning, ev.Title),
		ExpectedReturn: expectedReturn(cfg.Confidence, ev.Magnitude),
		RiskScore:      riskScore(ev.Magnitude, cfg.TimeHorizon),
		Status:         models.StatusActive,
	}
}

func indirectOpportunity(ev *models.MarketEvent, impact Impact, cfg sectorImpact, now time.Time, createdAt string) *models.MarketOpportunity {
	var matched []string
	for _, sym := range impact.IndirectSymbols {
		if inSupplyChainOf(sym, cfg.Sectors) {
			matched = append(matched, sym)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	sectorSet := newOrderedSet()
	for _, sym := range matched {
		sectorSet.addAll(sectors.SectorsOf(sym))
	}
	conf := cfg.Confidence * 0.7
	return &models.MarketOpportunity{
		ID:             fmt.Sprintf("opp_%s_indirect_%d", ev.ID, now.UnixMilli()),
		CreatedAt:      createdAt,
		EventIDs:       []string{ev.ID},
		Symbols:        topN(matched, maxSymbolsPerOpportunity),
		Sectors:        sectorSet.values(),
		Type:           models.OpportunityIndirect,
		Direction:      cfg.Direction,
		Timeframe:      timeframeFor(cfg.TimeHorizon, now),
		Confidence:     clamp01(conf),
		Reasoning:      fmt.Sprintf("Indirect impact from %s. Event: %s", cfg.Reasoning, ev.Title),
		ExpectedReturn: expectedReturn(conf, ev.Magnitude),
		RiskScore:      riskScore(ev.Magnitude, cfg.TimeHorizon) * 1.3,
		Status:         models.StatusActive,
	}
}

// inSupplyChainOf reports whether any of the symbol's sectors sit one hop
// upstream or downstream of any configured sector.
func inSupplyChainOf(symbol string, cfgSectors []string) bool {
	symSectors := sectors.SectorsOf(symbol)
	for _, sector := range cfgSectors {
		chain := sectors.SupplyChainImpact(sector)
		if sectorsIntersect(symSectors, chain.Upstream) || sectorsIntersect(symSectors, chain.Downstream) {
			return true
		}
	}
	return false
}

// correlationOpportunities finds symbols where multiple opportunities agree
// on a direction. Votes are confidence-weighted; a symbol qualifies when
// total weight exceeds 1.5 and one direction outweighs the other more than
// twofold. Three or more qualifying symbols per direction yield one
// consensus opportunity.
func correlationOpportunities(events []*models.MarketEvent, existing []*models.MarketOpportunity, now time.Time, createdAt string) []*models.MarketOpportunity {
	type votes struct{ long, short float64 }
	bySymbol := make(map[string]*votes)
	var order []string
	for _, opp := range existing {
		for _, sym := range opp.Symbols {
			v, ok := bySymbol[sym]
			if !ok {
				v = &votes{}
				bySymbol[sym] = v
				order = append(order, sym)
			}
			if opp.Direction == models.DirectionLong {
				v.long += opp.Confidence
			} else {
				v.short += opp.Confidence
			}
		}
	}

	type consensus struct {
		symbol   string
		strength float64
	}
	var longs, shorts []consensus
	for _, sym := range order {
		v := bySymbol[sym]
		total := v.long + v.short
		if total <= 1.5 {
			continue
		}
		switch {
		case v.long > v.short*2:
			longs = append(longs, consensus{sym, v.long / total})
		case v.short > v.long*2:
			shorts = append(shorts, consensus{sym, v.short / total})
		}
	}

	eventIDs := make([]string, 0, len(events))
	for _, ev := range events {
		eventIDs = append(eventIDs, ev.ID)
	}

	build := func(group []consensus, dir models.Direction, reasoning string) *models.MarketOpportunity {
		if len(group) < 3 {
			return nil
		}
		var sum float64
		for _, c := range group {
			sum += c.strength
		}
		avg := sum / float64(len(group))
		syms := make([]string, 0, maxSymbolsPerOpportunity)
		sectorSet := newOrderedSet()
		for i, c := range group {
			if i < maxSymbolsPerOpportunity {
				syms = append(syms, c.symbol)
			}
			sectorSet.addAll(sectors.SectorsOf(c.symbol))
		}
		return &models.MarketOpportunity{
			ID:         fmt.Sprintf("opp_corr_%s_%d", dir, now.UnixMilli()),
			CreatedAt:  createdAt,
			EventIDs:   eventIDs,
			Symbols:    syms,
			Sectors:    sectorSet.values(),
			Type:       models.OpportunityCorrelation,
			Direction:  dir,
			Timeframe:  timeframeFor(models.HorizonShortTerm, now),
			Confidence: math.Min(avg*1.2, 0.95),
			Reasoning:  reasoning,
			ExpectedReturn: &models.ExpectedReturn{
				Min:      avg * 0.03,
				Max:      avg * 0.15,
				Expected: avg * 0.08,
			},
			RiskScore: 0.4,
			Status:    models.StatusActive,
		}
	}

	var out []*models.MarketOpportunity
	if o := build(longs, models.DirectionLong, "Multiple correlated events suggesting bullish momentum across related sectors"); o != nil {
		out = append(out, o)
	}
	if o := build(shorts, models.DirectionShort, "Multiple correlated events suggesting bearish pressure across related sectors"); o != nil {
		out = append(out, o)
	}
	return out
}

func timeframeFor(horizon models.TimeHorizon, now time.Time) models.Timeframe {
	entry := util.FormatDate(now)
	switch horizon {
	case models.HorizonImmediate:
		return models.Timeframe{Entry: entry, Exit: util.FormatDate(now.AddDate(0, 0, 7)), Horizon: "days"}
	case models.HorizonLongTerm:
		return models.Timeframe{Entry: entry, Exit: util.FormatDate(now.AddDate(0, 6, 0)), Horizon: "months"}
	default:
		return models.Timeframe{Entry: entry, Exit: util.FormatDate(now.AddDate(0, 0, 30)), Horizon: "weeks"}
	}
}

// expectedReturn projects a return band off a 5% base scaled by confidence
// and magnitude. Note this magnitude scale (3/2/1.5/1) is distinct from the
// confidence multiplier.
func expectedReturn(confidence float64, mag models.Magnitude) *models.ExpectedReturn {
	var mult float64
	switch mag {
	case models.MagnitudeCritical:
		mult = 3
	case models.MagnitudeHigh:
		mult = 2
	case models.MagnitudeMedium:
		mult = 1.5
	default:
		mult = 1
	}
	base := confidence * mult * 0.05
	return &models.ExpectedReturn{Min: base * 0.5, Max: base * 2, Expected: base}
}

func magnitudeConfidenceMultiplier(mag models.Magnitude) float64 {
	switch mag {
	case models.MagnitudeCritical:
		return 1.2
	case models.MagnitudeHigh:
		return 1.1
	case models.MagnitudeMedium:
		return 1.0
	default:
		return 0.9
	}
}

func riskScore(mag models.Magnitude, horizon models.TimeHorizon) float64 {
	var magRisk float64
	switch mag {
	case models.MagnitudeCritical:
		magRisk = 0.8
	case models.MagnitudeHigh:
		magRisk = 0.6
	case models.MagnitudeMedium:
		magRisk = 0.4
	default:
		magRisk = 0.2
	}
	var horizonRisk float64
	switch horizon {
	case models.HorizonImmediate:
		horizonRisk = 0.3
	case models.HorizonShortTerm:
		horizonRisk = 0.5
	default:
		horizonRisk = 0.7
	}
	return (magRisk + horizonRisk) / 2
}

func sectorsIntersect(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func topN(vs []string, n int) []string {
	if len(vs) > n {
		return vs[:n]
	}
	return vs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
