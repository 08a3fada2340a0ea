package api

import (
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/service/metrics"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	applogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BacktestHandler runs signal evaluation on demand. The run is synchronous
// and read-only, so it is rate limited harder than the query endpoints.
type BacktestHandler struct {
	uc *usecase.BacktestUseCase
	rl *ratelimit.Limiter
	l  *applogger.Logger
}

func NewBacktestHandler(uc *usecase.BacktestUseCase) *BacktestHandler {
	metrics.Register()
	return &BacktestHandler{uc: uc, rl: ratelimit.New()}
}

// SetLogger injects a structured logger.
func (h *BacktestHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *BacktestHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/backtest/run", h.Run)
}

func (h *BacktestHandler) Run(c echo.Context) error {
	start := time.Now()
	endpoint := "backtest"
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":backtest", 3, 1) {
		if h.l != nil {
			h.l.Warn("backtest.run rate_limited", applogger.String("remote", c.RealIP()))
		}
		return xhttp.TooManyRequestsResponse(c)
	}

	res, err := h.uc.Run(c.Request().Context(), usecase.BacktestParams{
		Windows: req.Windows,
		Limit:   req.Limit,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		if h.l != nil {
			h.l.Error("backtest.run error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
