package usecase

import (
	"context"

	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/queue"
)

// Queue message types for pipeline stages.
const (
	MsgTypeIngest        = "pipeline.ingest"
	MsgTypeEnrich        = "pipeline.enrich"
	MsgTypeSignals       = "pipeline.signals"
	MsgTypeOpportunities = "pipeline.opportunities"
	MsgTypeDaily         = "pipeline.daily"
)

// IngestJobPayload parameterizes a queued ingest run.
type IngestJobPayload struct {
	Tickers  []string `json:"tickers,omitempty"`
	DaysBack int      `json:"daysBack,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

// LimitJobPayload parameterizes stages bounded only by a document limit.
type LimitJobPayload struct {
	Limit int `json:"limit,omitempty"`
}

// OpportunitiesJobPayload parameterizes a queued opportunities run.
type OpportunitiesJobPayload struct {
	DaysBack        int     `json:"daysBack,omitempty"`
	MinConfidence   float64 `json:"minConfidence,omitempty"`
	IncludeIndirect *bool   `json:"includeIndirect,omitempty"`
}

// IngestJob runs news and EOD ingestion off the queue.
type IngestJob struct {
	uc *IngestUseCase
	l  *applogger.Logger
}

func NewIngestJob(uc *IngestUseCase, l *applogger.Logger) *IngestJob {
	return &IngestJob{uc: uc, l: l}
}

func (j *IngestJob) Name() string { return "ingest_job" }
func (j *IngestJob) Type() string { return MsgTypeIngest }

func (j *IngestJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[IngestJobPayload](payload)
	if err != nil {
		return err
	}
	res, err := j.uc.Run(ctx, IngestParams{
		Tickers:  p.Tickers,
		DaysBack: p.DaysBack,
		Limit:    p.Limit,
	})
	if err != nil {
		return err
	}
	j.l.Info("queued ingest done",
		applogger.Int("news", res.News),
		applogger.Int("tickers", res.Tickers))
	return nil
}

// EnrichJob runs classification off the queue.
type EnrichJob struct {
	uc *EnrichUseCase
	l  *applogger.Logger
}

func NewEnrichJob(uc *EnrichUseCase, l *applogger.Logger) *EnrichJob {
	return &EnrichJob{uc: uc, l: l}
}

func (j *EnrichJob) Name() string { return "enrich_job" }
func (j *EnrichJob) Type() string { return MsgTypeEnrich }

func (j *EnrichJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[LimitJobPayload](payload)
	if err != nil {
		return err
	}
	res, err := j.uc.Run(ctx, p.Limit)
	if err != nil {
		return err
	}
	j.l.Info("queued enrich done",
		applogger.Int("incidents", res.Incidents),
		applogger.Int("events", res.Events))
	return nil
}

// SignalsJob runs signal derivation off the queue.
type SignalsJob struct {
	uc *SignalsUseCase
	l  *applogger.Logger
}

func NewSignalsJob(uc *SignalsUseCase, l *applogger.Logger) *SignalsJob {
	return &SignalsJob{uc: uc, l: l}
}

func (j *SignalsJob) Name() string { return "signals_job" }
func (j *SignalsJob) Type() string { return MsgTypeSignals }

func (j *SignalsJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[LimitJobPayload](payload)
	if err != nil {
		return err
	}
	res, err := j.uc.Run(ctx, p.Limit)
	if err != nil {
		return err
	}
	j.l.Info("queued signals done", applogger.Int("created", res.Created))
	return nil
}

// OpportunitiesJob runs opportunity synthesis off the queue.
type OpportunitiesJob struct {
	uc *OpportunitiesUseCase
	l  *applogger.Logger
}

func NewOpportunitiesJob(uc *OpportunitiesUseCase, l *applogger.Logger) *OpportunitiesJob {
	return &OpportunitiesJob{uc: uc, l: l}
}

func (j *OpportunitiesJob) Name() string { return "opportunities_job" }
func (j *OpportunitiesJob) Type() string { return MsgTypeOpportunities }

func (j *OpportunitiesJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[OpportunitiesJobPayload](payload)
	if err != nil {
		return err
	}
	params := OpportunitiesParams{
		DaysBack:        p.DaysBack,
		MinConfidence:   p.MinConfidence,
		IncludeIndirect: true,
	}
	if p.IncludeIndirect != nil {
		params.IncludeIndirect = *p.IncludeIndirect
	}
	res, err := j.uc.Run(ctx, params)
	if err != nil {
		return err
	}
	j.l.Info("queued opportunities done", applogger.Int("stored", res.Stored))
	return nil
}

// DailyJob runs the full pipeline off the queue.
type DailyJob struct {
	uc *DailyUseCase
	l  *applogger.Logger
}

func NewDailyJob(uc *DailyUseCase, l *applogger.Logger) *DailyJob {
	return &DailyJob{uc: uc, l: l}
}

func (j *DailyJob) Name() string { return "daily_job" }
func (j *DailyJob) Type() string { return MsgTypeDaily }

func (j *DailyJob) Handle(ctx context.Context, payload interface{}) error {
	res, err := j.uc.Run(ctx)
	if err != nil {
		return err
	}
	j.l.Info("queued daily pipeline done",
		applogger.String("run_id", res.RunID),
		applogger.Int("failed_stages", len(res.Errors)))
	return nil
}

var (
	_ queue.Job = (*IngestJob)(nil)
	_ queue.Job = (*EnrichJob)(nil)
	_ queue.Job = (*SignalsJob)(nil)
	_ queue.Job = (*OpportunitiesJob)(nil)
	_ queue.Job = (*DailyJob)(nil)
)
