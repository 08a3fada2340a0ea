package backtest

import (
	"math"
	"sort"

	"MarketPulse/internal/domain/models"
)

// Aggregate reduces the forward returns of one window to summary metrics.
// Standard deviation is the population form; the Sharpe proxy is mean/std
// with no risk-free adjustment and zero when dispersion is zero.
func Aggregate(window int, returns []models.ForwardReturn) models.BacktestMetrics {
	m := models.BacktestMetrics{WindowDays: window}
	var vals []float64
	for _, r := range returns {
		if r.FwdDays == window {
			vals = append(vals, r.Return)
		}
	}
	m.Count = len(vals)
	if m.Count == 0 {
		return m
	}

	var sum float64
	hits := 0
	for _, v := range vals {
		sum += v
		if v > 0 {
			hits++
		}
	}
	mean := sum / float64(len(vals))

	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(vals)))

	m.HitRate = float64(hits) / float64(len(vals))
	m.AvgReturn = mean
	m.StdReturn = std
	if std > 0 {
		m.SharpeProxy = mean / std
	}
	return m
}

// ConfusionByIncident counts positive vs non-positive returns per incident
// type across all windows. Rows are sorted by incident type for stable
// output.
func ConfusionByIncident(returns []models.ForwardReturn) []models.ConfusionRow {
	byType := make(map[models.IncidentType]*models.ConfusionRow)
	for _, r := range returns {
		row, ok := byType[r.IncidentType]
		if !ok {
			row = &models.ConfusionRow{IncidentType: r.IncidentType}
			byType[r.IncidentType] = row
		}
		if r.Return > 0 {
			row.Positive++
		} else {
			row.Negative++
		}
	}
	rows := make([]models.ConfusionRow, 0, len(byType))
	for _, row := range byType {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].IncidentType < rows[j].IncidentType })
	return rows
}
