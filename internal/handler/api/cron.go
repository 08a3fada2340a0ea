package api

import (
	"errors"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/middleware"
	"MarketPulse/internal/service/metrics"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	applogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CronHandler exposes the pipeline stages as secret-guarded endpoints for
// external schedulers. Each stage can also run standalone for reprocessing.
type CronHandler struct {
	logger        *applogger.Logger
	secret        string
	ingest        *usecase.IngestUseCase
	enrich        *usecase.EnrichUseCase
	signals       *usecase.SignalsUseCase
	opportunities *usecase.OpportunitiesUseCase
	daily         *usecase.DailyUseCase
}

func NewCronHandler(
	logger *applogger.Logger,
	secret string,
	ingest *usecase.IngestUseCase,
	enrich *usecase.EnrichUseCase,
	signals *usecase.SignalsUseCase,
	opportunities *usecase.OpportunitiesUseCase,
	daily *usecase.DailyUseCase,
) *CronHandler {
	metrics.Register()
	return &CronHandler{
		logger:        logger,
		secret:        secret,
		ingest:        ingest,
		enrich:        enrich,
		signals:       signals,
		opportunities: opportunities,
		daily:         daily,
	}
}

func (h *CronHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/cron", middleware.CronSecret(h.secret))
	g.POST("/ingest", h.Ingest)
	g.POST("/enrich", h.Enrich)
	g.POST("/signals", h.Signals)
	g.POST("/opportunities", h.Opportunities)
	g.POST("/daily", h.Daily)
}

func (h *CronHandler) Ingest(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues("cron_ingest").Observe(time.Since(start).Seconds()) }()

	req := &models.IngestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.ingest.Run(c.Request().Context(), usecase.IngestParams{
		Tickers:  req.Tickers,
		DaysBack: req.DaysBack,
		Limit:    req.MaxItems,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("cron_ingest").Inc()
		h.logger.Error("cron.ingest error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *CronHandler) Enrich(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues("cron_enrich").Observe(time.Since(start).Seconds()) }()

	req := &models.EnrichRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.enrich.Run(c.Request().Context(), req.Limit)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("cron_enrich").Inc()
		h.logger.Error("cron.enrich error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *CronHandler) Signals(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues("cron_signals").Observe(time.Since(start).Seconds()) }()

	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.signals.Run(c.Request().Context(), req.Limit)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("cron_signals").Inc()
		h.logger.Error("cron.signals error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *CronHandler) Opportunities(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.EndpointLatency.WithLabelValues("cron_opportunities").Observe(time.Since(start).Seconds())
	}()

	req := &models.OpportunitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	params := usecase.OpportunitiesParams{
		DaysBack:        req.DaysBack,
		MinConfidence:   req.MinConfidence,
		IncludeIndirect: true,
	}
	if req.IncludeIndirect != nil {
		params.IncludeIndirect = *req.IncludeIndirect
	}
	res, err := h.opportunities.Run(c.Request().Context(), params)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("cron_opportunities").Inc()
		h.logger.Error("cron.opportunities error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *CronHandler) Daily(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues("cron_daily").Observe(time.Since(start).Seconds()) }()

	res, err := h.daily.Run(c.Request().Context())
	if err != nil {
		if errors.Is(err, usecase.ErrDailyRunning) {
			return xhttp.AppErrorResponse(c, xhttp.ConflictError(err.Error()))
		}
		metrics.EndpointErrors.WithLabelValues("cron_daily").Inc()
		h.logger.Error("cron.daily error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
