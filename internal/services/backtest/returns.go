package backtest

import (
	"MarketPulse/internal/domain/models"
)

// ForwardReturns computes the realized forward return of each signal over
// each window, measured in bar positions rather than calendar days so
// weekends and halts do not misalign exits.
//
// Entry is the first bar at or after the signal date; the exit bar sits
// window positions later in the series. Signals whose entry or exit falls
// outside the series are skipped, as is any window where either end has a
// zero price. Short signals negate the return.
func ForwardReturns(signals []models.Signal, series map[string][]models.EODBar, windows []int) []models.ForwardReturn {
	out := make([]models.ForwardReturn, 0, len(signals)*len(windows))
	for _, sig := range signals {
		bars := series[sig.Symbol]
		if len(bars) == 0 {
			continue
		}
		entry := entryIndex(bars, sig.Date)
		if entry < 0 {
			continue
		}
		entryPrice := bars[entry].Price()
		if entryPrice == 0 {
			continue
		}
		for _, w := range windows {
			exit := entry + w
			if exit >= len(bars) {
				continue
			}
			exitPrice := bars[exit].Price()
			if exitPrice == 0 {
				continue
			}
			ret := (exitPrice - entryPrice) / entryPrice
			if sig.Direction == models.DirectionShort {
				ret = -ret
			}
			out = append(out, models.ForwardReturn{
				Symbol:       sig.Symbol,
				SignalDate:   sig.Date,
				FwdDays:      w,
				Return:       ret,
				IncidentType: sig.IncidentType,
			})
		}
	}
	return out
}

// entryIndex finds the first bar dated at or after date. Bars are
// date-ascending ISO strings, so plain string comparison orders correctly.
func entryIndex(bars []models.EODBar, date string) int {
	for i := range bars {
		if bars[i].Date >= date {
			return i
		}
	}
	return -1
}
