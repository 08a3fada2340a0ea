package correlation

import (
	"math"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func TestGenerateDirectOpportunity(t *testing.T) {
	ev := &models.MarketEvent{
		ID:              "ev1",
		Date:            "2026-03-01",
		Type:            models.IncidentPandemic,
		Title:           "Global pandemic declared",
		ImpactedSymbols: []string{"ZM", "AMZN"},
		ImpactedSectors: []string{"Remote Work"},
		Magnitude:       models.MagnitudeHigh,
	}
	opps := GenerateOpportunities([]*models.MarketEvent{ev}, testNow)
	var direct *models.MarketOpportunity
	for _, o := range opps {
		if o.Type == models.OpportunityDirect && o.Direction == models.DirectionLong && o.Timeframe.Horizon == "weeks" {
			direct = o
			break
		}
	}
	if direct == nil {
		t.Fatalf("expected a direct long opportunity, got %d opps", len(opps))
	}
	if math.Abs(direct.Confidence-0.85*1.1) > 1e-9 {
		t.Fatalf("unexpected confidence %v", direct.Confidence)
	}
	if math.Abs(direct.RiskScore-(0.6+0.5)/2) > 1e-9 {
		t.Fatalf("unexpected risk %v", direct.RiskScore)
	}
	if direct.ExpectedReturn == nil {
		t.Fatalf("expected return band")
	}
	want := 0.85 * 2 * 0.05
	if math.Abs(direct.ExpectedReturn.Expected-want) > 1e-9 {
		t.Fatalf("unexpected expected return %v", direct.ExpectedReturn.Expected)
	}
	if math.Abs(direct.ExpectedReturn.Min-want*0.5) > 1e-9 || math.Abs(direct.ExpectedReturn.Max-want*2) > 1e-9 {
		t.Fatalf("unexpected band %+v", direct.ExpectedReturn)
	}
	if direct.Timeframe.Entry != "2026-03-02" || direct.Timeframe.Exit != "2026-04-01" {
		t.Fatalf("unexpected timeframe %+v", direct.Timeframe)
	}
	if direct.Status != models.StatusActive {
		t.Fatalf("unexpected status %s", direct.Status)
	}
}

func TestGenerateConfidenceClamped(t *testing.T) {
	ev := &models.MarketEvent{
		ID:              "ev1",
		Type:            models.IncidentPandemic,
		Title:           "Catastrophic outbreak",
		ImpactedSymbols: []string{"ABNB"},
		Magnitude:       models.MagnitudeCritical,
	}
	opps := GenerateOpportunities([]*models.MarketEvent{ev}, testNow)
	for _, o := range opps {
		if o.Type == models.OpportunityCorrelation {
			continue
		}
		if o.Confidence > 1 {
			t.Fatalf("confidence not clamped: %v", o.Confidence)
		}
	}
	// 0.9 base confidence at critical magnitude exceeds 1 before clamping.
	var short *models.MarketOpportunity
	for _, o := range opps {
		if o.Type == models.OpportunityDirect && o.Direction == models.DirectionShort {
			short = o
		}
	}
	if short == nil {
		t.Fatalf("expected short direct opportunity for travel symbols")
	}
	if short.Confidence != 1 {
		t.Fatalf("expected clamped confidence 1, got %v", short.Confidence)
	}
}

func TestGenerateIndirectDiscount(t *testing.T) {
	ev := &models.MarketEvent{
		ID:              "ev1",
		Type:            models.IncidentTechnologyShift,
		Title:           "AI everywhere",
		ImpactedSymbols: []string{"NVDA"},
		ImpactedSectors: []string{"Semiconductors"},
		Magnitude:       models.MagnitudeMedium,
	}
	opps := GenerateOpportunities([]*models.MarketEvent{ev}, testNow)
	var indirect *models.MarketOpportunity
	for _, o := range opps {
		if o.Type == models.OpportunityIndirect {
			indirect = o
			break
		}
	}
	if indirect == nil {
		t.Fatalf("expected an indirect opportunity")
	}
	// First technology_shift config: 0.9 confidence, discounted by 0.7.
	if math.Abs(indirect.Confidence-0.9*0.7) > 1e-9 {
		t.Fatalf("unexpected indirect confidence %v", indirect.Confidence)
	}
	base := riskScore(models.MagnitudeMedium, models.HorizonLongTerm)
	if math.Abs(indirect.RiskScore-base*1.3) > 1e-9 {
		t.Fatalf("unexpected indirect risk %v", indirect.RiskScore)
	}
	if len(indirect.Symbols) > maxSymbolsPerOpportunity {
		t.Fatalf("symbol cap exceeded: %d", len(indirect.Symbols))
	}
}

func TestGenerateNoPatternNoOpportunities(t *testing.T) {
	ev := &models.MarketEvent{
		ID:              "ev1",
		Type:            models.IncidentLayoffs,
		Title:           "Layoffs at MegaCorp",
		ImpactedSymbols: []string{"AAPL"},
		Magnitude:       models.MagnitudeHigh,
	}
	opps := GenerateOpportunities([]*models.MarketEvent{ev}, testNow)
	if len(opps) != 0 {
		t.Fatalf("expected no opportunities, got %d", len(opps))
	}
}

func TestCorrelationConsensus(t *testing.T) {
	mk := func(dir models.Direction, conf float64, syms ...string) *models.MarketOpportunity {
		return &models.MarketOpportunity{Symbols: syms, Direction: dir, Confidence: conf}
	}
	existing := []*models.MarketOpportunity{
		mk(models.DirectionLong, 0.9, "AAPL", "MSFT", "NVDA"),
		mk(models.DirectionLong, 0.9, "AAPL", "MSFT", "NVDA"),
		mk(models.DirectionShort, 0.9, "TSLA", "F"),
		mk(models.DirectionShort, 0.9, "TSLA", "F"),
	}
	events := []*models.MarketEvent{{ID: "e1"}, {ID: "e2"}}
	out := correlationOpportunities(events, existing, testNow, testNow.Format(time.RFC3339))
	if len(out) != 1 {
		t.Fatalf("expected exactly one consensus opportunity, got %d", len(out))
	}
	opp := out[0]
	if opp.Direction != models.DirectionLong || opp.Type != models.OpportunityCorrelation {
		t.Fatalf("unexpected opportunity %+v", opp)
	}
	if len(opp.Symbols) != 3 {
		t.Fatalf("expected 3 symbols, got %v", opp.Symbols)
	}
	// Each symbol has pure long consensus: strength 1.0, avg 1.0, capped.
	if opp.Confidence != 0.95 {
		t.Fatalf("unexpected confidence %v", opp.Confidence)
	}
	if opp.RiskScore != 0.4 {
		t.Fatalf("unexpected risk %v", opp.RiskScore)
	}
	if math.Abs(opp.ExpectedReturn.Expected-0.08) > 1e-9 {
		t.Fatalf("unexpected expected return %v", opp.ExpectedReturn.Expected)
	}
	if len(opp.EventIDs) != 2 {
		t.Fatalf("expected all event ids, got %v", opp.EventIDs)
	}
}

func TestCorrelationConsensusNeedsWeight(t *testing.T) {
	// Single vote per symbol: total weight 0.9 <= 1.5, no consensus.
	existing := []*models.MarketOpportunity{
		{Symbols: []string{"AAPL", "MSFT", "NVDA"}, Direction: models.DirectionLong, Confidence: 0.9},
	}
	out := correlationOpportunities(nil, existing, testNow, testNow.Format(time.RFC3339))
	if len(out) != 0 {
		t.Fatalf("expected none, got %d", len(out))
	}
}

func TestDetermineTimeHorizon(t *testing.T) {
	cases := []struct {
		typ  models.IncidentType
		want models.TimeHorizon
	}{
		{models.IncidentEarningsMiss, models.HorizonImmediate},
		{models.IncidentUpgrade, models.HorizonImmediate},
		{models.IncidentTechnologyShift, models.HorizonLongTerm},
		{models.IncidentConsumerTrend, models.HorizonLongTerm},
		{models.IncidentLayoffs, models.HorizonShortTerm},
		{models.IncidentGeopolitical, models.HorizonShortTerm},
	}
	for _, c := range cases {
		if got := DetermineTimeHorizon(c.typ); got != c.want {
			t.Fatalf("%s: got %s want %s", c.typ, got, c.want)
		}
	}
}

func TestCategorizeEventDefault(t *testing.T) {
	if got := CategorizeEvent("unheard_of"); got != models.CategoryCompanySpecific {
		t.Fatalf("unexpected default %s", got)
	}
	if got := CategorizeEvent(models.IncidentSupplyChain); got != models.CategorySectorWide {
		t.Fatalf("unexpected category %s", got)
	}
}

func TestAnalyzeImpactUnknownType(t *testing.T) {
	ev := &models.MarketEvent{
		ID:              "ev1",
		Type:            models.IncidentLayoffs,
		ImpactedSymbols: []string{"AAPL"},
		ImpactedSectors: []string{"Technology"},
	}
	imp := AnalyzeImpact(ev)
	if len(imp.CorrelatedSectors) != 0 {
		t.Fatalf("expected no correlated sectors, got %v", imp.CorrelatedSectors)
	}
	if len(imp.DirectSymbols) != 1 || imp.DirectSymbols[0] != "AAPL" {
		t.Fatalf("unexpected direct symbols %v", imp.DirectSymbols)
	}
	// Indirect neighbors of Technology still resolve.
	if len(imp.IndirectSectors) == 0 {
		t.Fatalf("expected indirect sectors from supply chain")
	}
}
