package correlation

import (
	"math"
	"sort"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/util"
)

func titleContains(ev *models.MarketEvent, substr string) bool {
	return strings.Contains(strings.ToLower(ev.Title), substr)
}

func countWhere(events []*models.MarketEvent, pred func(*models.MarketEvent) bool) int {
	n := 0
	for _, ev := range events {
		if pred(ev) {
			n++
		}
	}
	return n
}

// ScanMacroPatterns sweeps a batch of events for known macro regimes:
// contagion risk, commodity supercycles, bubble formation and the like.
// Patterns whose supporting events cluster inside the last week get a
// confidence boost. Results are sorted by confidence descending.
func ScanMacroPatterns(events []*models.MarketEvent, now time.Time) []models.MacroPattern {
	var patterns []models.MacroPattern

	financialStress := countWhere(events, func(ev *models.MarketEvent) bool {
		return ev.Type == models.IncidentEconomicIndicator ||
			titleContains(ev, "bank") || titleContains(ev, "default") || titleContains(ev, "credit")
	})
	if financialStress >= 2 {
		systemic := countWhere(events, func(ev *models.MarketEvent) bool {
			return titleContains(ev, "contagion") || titleContains(ev, "systemic")
		}) > 0
		conf := 0.65
		if systemic {
			conf = 0.85
		}
		patterns = append(patterns, models.MacroPattern{
			Pattern:         "Financial Contagion Risk",
			Confidence:      conf,
			PredictedImpact: "bearish",
			AffectedSectors: []string{"Banking", "Financial Services", "Real Estate", "Insurance"},
			TimeHorizon:     "1-3 weeks",
			Analogy:         "2008 Financial Crisis / 2023 Regional Bank Crisis",
		})
	}

	commodity := countWhere(events, func(ev *models.MarketEvent) bool {
		return ev.Type == models.IncidentCommodityShift ||
			titleContains(ev, "commodity") || titleContains(ev, "oil") || titleContains(ev, "gold")
	})
	supplyChain := countWhere(events, func(ev *models.MarketEvent) bool {
		return ev.Type == models.IncidentSupplyChain
	})
	if commodity >= 2 && supplyChain >= 1 {
		patterns = append(patterns, models.MacroPattern{
			Pattern:         "Commodity Supercycle Initiation",
			Confidence:      0.75,
			PredictedImpact: "bullish",
			AffectedSectors: []string{"Commodities", "Mining", "Energy", "Agriculture", "Materials"},
			TimeHorizon:     "6-12 months",
			Analogy:         "2000s China-driven commodity boom",
		})
	}

	tech := countWhere(events, func(ev *models.MarketEvent) bool {
		return ev.Type == models.IncidentTechnologyShift || ev.Category == models.CategoryTechnological
	})
	aiMentions := countWhere(events, func(ev *models.MarketEvent) bool {
		return titleContains(ev, "ai") || titleContains(ev, "artificial intelligence")
	})
	if tech >= 3 && aiMentions >= 2 {
		patterns = append(patterns, models.MacroPattern{
			Pattern:         "Technology Bubble Formation",
			Confidence:      0.7,
			PredictedImpact: "volatile",
			AffectedSectors: []string{"AI/ML", "Semiconductors", "Cloud Services", "Software"},
			TimeHorizon:     "3-6 months",
			Analogy:         "1999 Dot-com bubble / 2021 SPAC bubble",
		})
	}

	geo := countWhere(events, func(ev *models.MarketEvent) bool {
		return ev.Category == models.CategoryGeopolitical
	})
	military := countWhere(events, func(ev *models.MarketEvent) bool {
		return ev.Category == models.CategoryGeopolitical &&
			(titleContains(ev, "military") || titleContains(ev, "missile") || titleContains(ev, "attack"))
	})
	if geo >= 3 && military >= 1 {
		patterns = append(patterns, models.MacroPattern{
			Pattern:         "Geopolitical Escalation Cascade",
			Confidence:      0.8,
			PredictedImpact: "bearish",
			AffectedSectors: []string{"Defense", "Energy", "Commodities", "Safe Havens"},
			TimeHorizon:     "Immediate",
			Analogy:         "1973 Oil Crisis / 1990 Gulf War",
		})
	}

	deflationary := countWhere(events, func(ev *models.MarketEvent) bool {
		return titleContains(ev, "deflation") || titleContains(ev, "demand destruction") || titleContains(ev, "recession")
	})
	credit := countWhere(events, func(ev *models.MarketEvent) bool {
		return titleContains(ev, "credit") || titleContains(ev, "liquidity")
	})
	if deflationary >= 2 && credit >= 1 {
		patterns = append(patterns, models.MacroPattern{
			Pattern:         "Deflationary Spiral Risk",
			Confidence:      0.65,
			PredictedImpact: "bearish",
			AffectedSectors: []string{"Consumer Discretionary", "Real Estate", "Commodities", "Small Caps"},
			TimeHorizon:     "3-6 months",
			Analogy:         "Japan 1990s / Europe 2010s",
		})
	}

	emerging := countWhere(events, func(ev *models.MarketEvent) bool {
		return titleContains(ev, "emerging market") || titleContains(ev, "currency crisis") || titleContains(ev, "capital flight")
	})
	strongDollar := countWhere(events, func(ev *models.MarketEvent) bool {
		return titleContains(ev, "dollar") && titleContains(ev, "strong")
	})
	if emerging >= 1 && strongDollar >= 1 {
		patterns = append(patterns, models.MacroPattern{
			Pattern:         "Emerging Market Crisis",
			Confidence:      0.7,
			PredictedImpact: "bearish",
			AffectedSectors: []string{"Emerging Markets", "Commodities", "International Banks"},
			TimeHorizon:     "1-3 months",
			Analogy:         "1997 Asian Financial Crisis / 2013 Taper Tantrum",
		})
	}

	disruptive := countWhere(events, func(ev *models.MarketEvent) bool {
		return titleContains(ev, "disruption") || titleContains(ev, "breakthrough") || titleContains(ev, "revolution")
	})
	if disruptive >= 3 {
		patterns = append(patterns, models.MacroPattern{
			Pattern:         "Innovation Disruption Wave",
			Confidence:      0.6,
			PredictedImpact: "volatile",
			AffectedSectors: []string{"Technology", "Healthcare", "Financial Services", "Retail"},
			TimeHorizon:     "6-18 months",
			Analogy:         "Internet Revolution 1995-2000 / Mobile Revolution 2007-2012",
		})
	}

	criticalNonCompany := countWhere(events, func(ev *models.MarketEvent) bool {
		return ev.Magnitude == models.MagnitudeCritical && ev.Category != models.CategoryCompanySpecific
	})
	categories := make(map[models.EventCategory]struct{})
	for _, ev := range events {
		categories[ev.Category] = struct{}{}
	}
	if criticalNonCompany >= 4 && len(categories) >= 5 {
		patterns = append(patterns, models.MacroPattern{
			Pattern:         "Black Swan Convergence",
			Confidence:      0.9,
			PredictedImpact: "volatile",
			AffectedSectors: []string{"All Sectors"},
			TimeHorizon:     "Immediate",
			Analogy:         "March 2020 COVID Crash / September 2008 Lehman Collapse",
		})
	}

	boostClustered(patterns, events, now)

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence > patterns[j].Confidence
	})
	return patterns
}

// boostClustered raises a pattern's confidence when more than 60% of its
// sector-related events landed within the last 7 days.
func boostClustered(patterns []models.MacroPattern, events []*models.MarketEvent, now time.Time) {
	for i := range patterns {
		var related, recent int
		for _, ev := range events {
			if !sectorsIntersect(ev.ImpactedSectors, patterns[i].AffectedSectors) {
				continue
			}
			related++
			if d, ok := util.ParseDate(ev.Date); ok {
				if now.Sub(d) <= 7*24*time.Hour {
					recent++
				}
			}
		}
		if related > 0 && float64(recent) > float64(related)*0.6 {
			patterns[i].Confidence = math.Min(patterns[i].Confidence*1.2, 0.95)
		}
	}
}
