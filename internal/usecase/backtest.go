package usecase

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/services/backtest"
	applogger "MarketPulse/pkg/logger"
)

// DefaultBacktestWindows are the forward-return horizons evaluated when a
// request names none.
var DefaultBacktestWindows = []int{20, 60}

// BacktestUseCase evaluates stored signals against stored EOD series.
// It is read-only: nothing derived here is persisted.
type BacktestUseCase struct {
	signalStore drepo.SignalStore
	barStore    drepo.BarStore
	metrics     drepo.Metrics
	l           *applogger.Logger
}

func NewBacktestUseCase(
	signalStore drepo.SignalStore,
	barStore drepo.BarStore,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *BacktestUseCase {
	return &BacktestUseCase{
		signalStore: signalStore,
		barStore:    barStore,
		metrics:     metrics,
		l:           l,
	}
}

type BacktestParams struct {
	Windows []int
	Limit   int
}

type WindowReport struct {
	Metrics   models.BacktestMetrics `json:"metrics"`
	Confusion []models.ConfusionRow  `json:"confusion"`
}

type BacktestResult struct {
	Signals   int                  `json:"signals"`
	Symbols   int                  `json:"symbols"`
	Evaluated int                  `json:"evaluated"`
	Windows   map[int]WindowReport `json:"windows"`
}

func (uc *BacktestUseCase) Run(ctx context.Context, p BacktestParams) (*BacktestResult, error) {
	if len(p.Windows) == 0 {
		p.Windows = DefaultBacktestWindows
	}
	if p.Limit <= 0 {
		p.Limit = 1000
	}
	start := time.Now()

	signals, err := uc.signalStore.List(ctx, drepo.ListOptions{Limit: p.Limit})
	if err != nil {
		return nil, err
	}

	// One series fetch per distinct symbol; symbols with no bars simply
	// produce no returns.
	series := make(map[string][]models.EODBar)
	for i := range signals {
		symbol := signals[i].Symbol
		if _, ok := series[symbol]; ok {
			continue
		}
		bars, err := uc.barStore.GetSeries(ctx, symbol)
		if err != nil {
			return nil, err
		}
		series[symbol] = bars
	}

	returns := backtest.ForwardReturns(signals, series, p.Windows)

	res := &BacktestResult{
		Signals:   len(signals),
		Symbols:   len(series),
		Evaluated: len(returns),
		Windows:   make(map[int]WindowReport, len(p.Windows)),
	}
	for _, w := range p.Windows {
		windowed := make([]models.ForwardReturn, 0, len(returns))
		for _, r := range returns {
			if r.FwdDays == w {
				windowed = append(windowed, r)
			}
		}
		res.Windows[w] = WindowReport{
			Metrics:   backtest.Aggregate(w, windowed),
			Confusion: backtest.ConfusionByIncident(windowed),
		}
	}

	uc.metrics.RecordLatency("backtest", time.Since(start).Seconds())
	if uc.l != nil {
		uc.l.Info("backtest complete",
			applogger.Int("signals", res.Signals),
			applogger.Int("symbols", res.Symbols),
			applogger.Int("evaluated", res.Evaluated),
			applogger.Duration("took", time.Since(start)),
		)
	}
	return res, nil
}
