package backtest

import (
	"fmt"
	"math"
	"testing"

	"MarketPulse/internal/domain/models"
)

func mkBars(symbol string, startDay, n int, prices func(i int) float64) []models.EODBar {
	bars := make([]models.EODBar, n)
	for i := 0; i < n; i++ {
		bars[i] = models.EODBar{
			Symbol: symbol,
			Date:   fmt.Sprintf("2026-01-%02d", startDay+i),
			Close:  prices(i),
		}
	}
	return bars
}

func TestForwardReturnsLong(t *testing.T) {
	series := map[string][]models.EODBar{
		"AAPL": mkBars("AAPL", 1, 10, func(i int) float64 { return 100 + float64(i) }),
	}
	sigs := []models.Signal{{
		Symbol: "AAPL", Date: "2026-01-03",
		Direction: models.DirectionLong, IncidentType: models.IncidentEarningsBeat,
	}}
	got := ForwardReturns(sigs, series, []int{1, 5})
	if len(got) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(got))
	}
	// Entry at bar index 2 (price 102), exit at index 3 (103) and 7 (107).
	if math.Abs(got[0].Return-(103.0-102.0)/102.0) > 1e-12 {
		t.Fatalf("unexpected 1d return %v", got[0].Return)
	}
	if math.Abs(got[1].Return-(107.0-102.0)/102.0) > 1e-12 {
		t.Fatalf("unexpected 5d return %v", got[1].Return)
	}
}

func TestForwardReturnsShortNegated(t *testing.T) {
	series := map[string][]models.EODBar{
		"TSLA": mkBars("TSLA", 1, 5, func(i int) float64 { return 100 - float64(i)*2 }),
	}
	sigs := []models.Signal{{
		Symbol: "TSLA", Date: "2026-01-01",
		Direction: models.DirectionShort, IncidentType: models.IncidentDowngrade,
	}}
	got := ForwardReturns(sigs, series, []int{2})
	if len(got) != 1 {
		t.Fatalf("expected 1 return, got %d", len(got))
	}
	if got[0].Return <= 0 {
		t.Fatalf("falling price must yield positive short return, got %v", got[0].Return)
	}
}

func TestForwardReturnsEntryAfterSignalDate(t *testing.T) {
	// Signal dated on a weekend: entry snaps to the next bar.
	series := map[string][]models.EODBar{
		"MSFT": {
			{Symbol: "MSFT", Date: "2026-01-02", Close: 100},
			{Symbol: "MSFT", Date: "2026-01-05", Close: 110},
			{Symbol: "MSFT", Date: "2026-01-06", Close: 121},
		},
	}
	sigs := []models.Signal{{Symbol: "MSFT", Date: "2026-01-03", Direction: models.DirectionLong}}
	got := ForwardReturns(sigs, series, []int{1})
	if len(got) != 1 {
		t.Fatalf("expected 1 return, got %d", len(got))
	}
	if math.Abs(got[0].Return-0.1) > 1e-12 {
		t.Fatalf("expected 10%% off the 2026-01-05 entry, got %v", got[0].Return)
	}
}

func TestForwardReturnsWindowByBarIndex(t *testing.T) {
	// 70 bars, signal at the first bar: windows 1..60 fit, longer ones skip.
	series := map[string][]models.EODBar{
		"NVDA": mkBars2("NVDA", 70),
	}
	sigs := []models.Signal{{Symbol: "NVDA", Date: "d000", Direction: models.DirectionLong}}
	got := ForwardReturns(sigs, series, []int{60, 69, 70, 120})
	if len(got) != 2 {
		t.Fatalf("expected windows 60 and 69 only, got %d", len(got))
	}
	if got[0].FwdDays != 60 || got[1].FwdDays != 69 {
		t.Fatalf("unexpected windows %v %v", got[0].FwdDays, got[1].FwdDays)
	}
}

func mkBars2(symbol string, n int) []models.EODBar {
	bars := make([]models.EODBar, n)
	for i := 0; i < n; i++ {
		bars[i] = models.EODBar{Symbol: symbol, Date: fmt.Sprintf("d%03d", i), Close: 100 + float64(i)}
	}
	return bars
}

func TestForwardReturnsSkipsZeroPriceAndMissingSeries(t *testing.T) {
	series := map[string][]models.EODBar{
		"BAD":  {{Symbol: "BAD", Date: "2026-01-01", Close: 0}, {Symbol: "BAD", Date: "2026-01-02", Close: 10}},
		"HALT": {{Symbol: "HALT", Date: "2026-01-01", Close: 100}, {Symbol: "HALT", Date: "2026-01-02", Close: 0}},
	}
	sigs := []models.Signal{
		{Symbol: "BAD", Date: "2026-01-01", Direction: models.DirectionLong},
		{Symbol: "HALT", Date: "2026-01-01", Direction: models.DirectionLong},
		{Symbol: "NONE", Date: "2026-01-01", Direction: models.DirectionLong},
	}
	if got := ForwardReturns(sigs, series, []int{1}); len(got) != 0 {
		t.Fatalf("expected no returns, got %d", len(got))
	}
}

func TestForwardReturnsZeroExitOnlySkipsThatWindow(t *testing.T) {
	series := map[string][]models.EODBar{
		"MIX": {
			{Symbol: "MIX", Date: "2026-01-01", Close: 100},
			{Symbol: "MIX", Date: "2026-01-02", Close: 0},
			{Symbol: "MIX", Date: "2026-01-03", Close: 110},
		},
	}
	sigs := []models.Signal{{Symbol: "MIX", Date: "2026-01-01", Direction: models.DirectionLong}}
	got := ForwardReturns(sigs, series, []int{1, 2})
	if len(got) != 1 {
		t.Fatalf("expected only the window with a valid exit, got %d", len(got))
	}
	if got[0].FwdDays != 2 || math.Abs(got[0].Return-0.10) > 1e-12 {
		t.Fatalf("got window %d return %v", got[0].FwdDays, got[0].Return)
	}
}

func TestForwardReturnsPrefersAdjClose(t *testing.T) {
	series := map[string][]models.EODBar{
		"AAPL": {
			{Symbol: "AAPL", Date: "2026-01-01", Close: 200, AdjClose: 100},
			{Symbol: "AAPL", Date: "2026-01-02", Close: 220, AdjClose: 105},
		},
	}
	sigs := []models.Signal{{Symbol: "AAPL", Date: "2026-01-01", Direction: models.DirectionLong}}
	got := ForwardReturns(sigs, series, []int{1})
	if len(got) != 1 {
		t.Fatalf("expected 1 return")
	}
	if math.Abs(got[0].Return-0.05) > 1e-12 {
		t.Fatalf("expected adjusted-close return 0.05, got %v", got[0].Return)
	}
}

func TestAggregate(t *testing.T) {
	rets := []models.ForwardReturn{
		{FwdDays: 5, Return: 0.05},
		{FwdDays: 5, Return: -0.02},
		{FwdDays: 5, Return: 0.03},
		{FwdDays: 20, Return: 0.5}, // other window, ignored
	}
	m := Aggregate(5, rets)
	if m.Count != 3 {
		t.Fatalf("unexpected count %d", m.Count)
	}
	if math.Abs(m.HitRate-2.0/3.0) > 1e-12 {
		t.Fatalf("unexpected hit rate %v", m.HitRate)
	}
	if math.Abs(m.AvgReturn-0.02) > 1e-12 {
		t.Fatalf("unexpected mean %v", m.AvgReturn)
	}
	// Population std of [0.05, -0.02, 0.03].
	wantStd := math.Sqrt((0.03*0.03 + 0.04*0.04 + 0.01*0.01) / 3)
	if math.Abs(m.StdReturn-wantStd) > 1e-12 {
		t.Fatalf("unexpected std %v", m.StdReturn)
	}
	if math.Abs(m.SharpeProxy-0.02/wantStd) > 1e-12 {
		t.Fatalf("unexpected sharpe %v", m.SharpeProxy)
	}
}

func TestAggregateDegenerate(t *testing.T) {
	m := Aggregate(5, nil)
	if m.Count != 0 || m.HitRate != 0 || m.SharpeProxy != 0 {
		t.Fatalf("unexpected empty metrics %+v", m)
	}
	m = Aggregate(5, []models.ForwardReturn{{FwdDays: 5, Return: 0.01}, {FwdDays: 5, Return: 0.01}})
	if m.StdReturn != 0 || m.SharpeProxy != 0 {
		t.Fatalf("zero dispersion must yield zero sharpe, got %+v", m)
	}
}

func TestConfusionByIncident(t *testing.T) {
	rets := []models.ForwardReturn{
		{IncidentType: models.IncidentEarningsBeat, Return: 0.02},
		{IncidentType: models.IncidentEarningsBeat, Return: -0.01},
		{IncidentType: models.IncidentEarningsBeat, Return: 0},
		{IncidentType: models.IncidentDowngrade, Return: 0.03},
	}
	rows := ConfusionByIncident(rets)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Sorted by type: downgrade before earnings_beat.
	if rows[0].IncidentType != models.IncidentDowngrade || rows[0].Positive != 1 || rows[0].Negative != 0 {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if rows[1].Positive != 1 || rows[1].Negative != 2 {
		t.Fatalf("zero return counts as negative: %+v", rows[1])
	}
}
