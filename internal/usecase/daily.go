package usecase

import (
	"context"
	"fmt"
	"time"

	applogger "MarketPulse/pkg/logger"

	"github.com/google/uuid"
)

// dailyWatchlist is the broad-coverage ticker set for the scheduled run,
// grouped by theme so sector rotation shows up in the signal base.
var dailyWatchlist = []string{
	// tech giants
	"AAPL", "MSFT", "GOOGL", "META", "AMZN",
	// semiconductors
	"NVDA", "AMD", "INTC", "TSM", "AVGO", "QCOM",
	// cloud/saas
	"CRM", "NOW", "SNOW", "DDOG", "NET",
	// defense
	"LMT", "RTX", "BA", "NOC", "GD",
	// energy
	"XOM", "CVX", "COP", "SLB", "HAL",
	// commodities/materials
	"FCX", "NEM", "GOLD", "CLF", "X",
	// banks
	"JPM", "BAC", "GS", "MS", "WFC",
	// evs & clean energy
	"TSLA", "RIVN", "NEE", "ENPH", "SEDG",
	// healthcare/pharma
	"JNJ", "PFE", "UNH", "LLY", "MRNA",
	// consumer defensive
	"WMT", "PG", "KO", "PEP", "COST",
	// reits
	"SPG", "O", "AMT", "PLD",
	// logistics
	"FDX", "UPS", "UBER", "DASH",
}

const dailyLockTTL = 30 * time.Minute

// runLocker guards against overlapping scheduled runs.
type runLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// DailyUseCase runs the whole pipeline in order: ingest, enrich, signals,
// opportunities. Each stage failure is recorded but later stages still run;
// a stage is only as fresh as what the earlier ones managed to store.
type DailyUseCase struct {
	ingest        *IngestUseCase
	enrich        *EnrichUseCase
	signals       *SignalsUseCase
	opportunities *OpportunitiesUseCase
	locker        runLocker
	l             *applogger.Logger
}

func NewDailyUseCase(
	ingest *IngestUseCase,
	enrich *EnrichUseCase,
	signals *SignalsUseCase,
	opportunities *OpportunitiesUseCase,
	locker runLocker,
	l *applogger.Logger,
) *DailyUseCase {
	return &DailyUseCase{
		ingest:        ingest,
		enrich:        enrich,
		signals:       signals,
		opportunities: opportunities,
		locker:        locker,
		l:             l,
	}
}

type DailyResult struct {
	RunID         string               `json:"runId"`
	Ingest        *IngestResult        `json:"ingest,omitempty"`
	Enrich        *EnrichResult        `json:"enrich,omitempty"`
	Signals       *SignalsResult       `json:"signals,omitempty"`
	Opportunities *OpportunitiesResult `json:"opportunities,omitempty"`
	Errors        map[string]string    `json:"errors,omitempty"`
	TookSeconds   float64              `json:"tookSeconds"`
}

// ErrDailyRunning is returned when a scheduled run is already in flight.
var ErrDailyRunning = fmt.Errorf("daily pipeline already running")

func (uc *DailyUseCase) Run(ctx context.Context) (*DailyResult, error) {
	if uc.locker != nil {
		ok, err := uc.locker.TryLock(ctx, "daily_pipeline", dailyLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDailyRunning
		}
		defer func() {
			if err := uc.locker.Unlock(context.WithoutCancel(ctx), "daily_pipeline"); err != nil && uc.l != nil {
				uc.l.Warn("daily unlock failed", applogger.Error(err))
			}
		}()
	}

	start := time.Now()
	res := &DailyResult{
		RunID:  uuid.NewString(),
		Errors: make(map[string]string),
	}
	if uc.l != nil {
		uc.l.Info("daily pipeline starting", applogger.String("run_id", res.RunID))
	}

	var err error
	res.Ingest, err = uc.ingest.Run(ctx, IngestParams{
		Tickers:  dailyWatchlist,
		DaysBack: 3,
		Limit:    100,
	})
	if err != nil {
		res.Errors["ingest"] = err.Error()
	}

	res.Enrich, err = uc.enrich.Run(ctx, 200)
	if err != nil {
		res.Errors["enrich"] = err.Error()
	}

	res.Signals, err = uc.signals.Run(ctx, 100)
	if err != nil {
		res.Errors["signals"] = err.Error()
	}

	res.Opportunities, err = uc.opportunities.Run(ctx, OpportunitiesParams{
		DaysBack:        7,
		MinConfidence:   0.65,
		IncludeIndirect: true,
	})
	if err != nil {
		res.Errors["opportunities"] = err.Error()
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	res.TookSeconds = time.Since(start).Seconds()

	if uc.l != nil {
		uc.l.Info("daily pipeline finished",
			applogger.String("run_id", res.RunID),
			applogger.Int("failed_stages", len(res.Errors)),
			applogger.Duration("took", time.Since(start)),
		)
	}
	return res, nil
}
