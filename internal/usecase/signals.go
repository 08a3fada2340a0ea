package usecase

import (
	"context"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"
)

// directionForType maps an incident type to a trade direction. Anything not
// listed defaults long: ambiguous macro events historically resolve upward
// more often than not at the horizons traded here.
var directionForType = map[models.IncidentType]models.Direction{
	models.IncidentEarningsBeat:   models.DirectionLong,
	models.IncidentUpgrade:        models.DirectionLong,
	models.IncidentGuidanceRaise:  models.DirectionLong,
	models.IncidentMNA:            models.DirectionLong,
	models.IncidentEarningsMiss:   models.DirectionShort,
	models.IncidentDowngrade:      models.DirectionShort,
	models.IncidentGuidanceCut:    models.DirectionShort,
	models.IncidentLawsuit:        models.DirectionShort,
	models.IncidentRegulatory:     models.DirectionShort,
	models.IncidentProductRecall:  models.DirectionShort,
	models.IncidentLayoffs:        models.DirectionShort,
	models.IncidentSecurityBreach: models.DirectionShort,
}

// DirectionFor returns the trade direction for an incident type.
func DirectionFor(t models.IncidentType) models.Direction {
	if d, ok := directionForType[t]; ok {
		return d
	}
	return models.DirectionLong
}

// SignalsUseCase derives one directional signal per (symbol, date) from
// stored incidents. Signal ids are symbol_date, so reruns are no-ops.
type SignalsUseCase struct {
	incidentStore drepo.IncidentStore
	signalStore   drepo.SignalStore
	metrics       drepo.Metrics
	l             *applogger.Logger
}

func NewSignalsUseCase(
	incidentStore drepo.IncidentStore,
	signalStore drepo.SignalStore,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *SignalsUseCase {
	return &SignalsUseCase{
		incidentStore: incidentStore,
		signalStore:   signalStore,
		metrics:       metrics,
		l:             l,
	}
}

type SignalsResult struct {
	Incidents int `json:"incidents"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}

func (uc *SignalsUseCase) Run(ctx context.Context, limit int) (*SignalsResult, error) {
	if limit <= 0 {
		limit = 500
	}
	incidents, err := uc.incidentStore.List(ctx, drepo.ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	res := &SignalsResult{Incidents: len(incidents)}
	for i := range incidents {
		inc := &incidents[i]
		for _, symbol := range inc.Symbols {
			sig := &models.Signal{
				ID:           symbol + "_" + inc.Date,
				Symbol:       symbol,
				Date:         inc.Date,
				IncidentType: inc.Type,
				Direction:    DirectionFor(inc.Type),
				Strength:     inc.Score,
			}
			created, err := uc.signalStore.Create(ctx, sig)
			if err != nil {
				return nil, err
			}
			if !created {
				res.Skipped++
				continue
			}
			res.Created++
			uc.metrics.RecordSignalCreated(symbol)
		}
	}

	if uc.l != nil {
		uc.l.Info("signals complete",
			applogger.Int("incidents", res.Incidents),
			applogger.Int("created", res.Created),
			applogger.Int("skipped", res.Skipped),
		)
	}
	return res, nil
}
