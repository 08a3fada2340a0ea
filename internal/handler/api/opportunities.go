package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	icache "MarketPulse/internal/service/cache"
	"MarketPulse/internal/service/metrics"
	"MarketPulse/internal/service/ratelimit"
	xhttp "MarketPulse/pkg/http"
	applogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OpportunitiesHandler serves the read side: stored opportunities, filtered
// and cached. Generation happens only through the cron endpoints.
type OpportunitiesHandler struct {
	store domrepo.OpportunityStore
	cache icache.BytesCache
	rl    *ratelimit.Limiter
	l     *applogger.Logger
}

func NewOpportunitiesHandler(store domrepo.OpportunityStore) *OpportunitiesHandler {
	metrics.Register()
	return &OpportunitiesHandler{store: store, rl: ratelimit.New()}
}

func (h *OpportunitiesHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetLogger injects a structured logger.
func (h *OpportunitiesHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *OpportunitiesHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/opportunities", h.List)
}

func (h *OpportunitiesHandler) List(c echo.Context) error {
	start := time.Now()
	endpoint := "opportunities"
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ListOpportunitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":opps", 5, 2) {
		if h.l != nil {
			h.l.Warn("opportunities.list rate_limited", applogger.String("remote", c.RealIP()))
		}
		return xhttp.TooManyRequestsResponse(c)
	}

	cacheKey := "opps:" + req.Status + ":" + strconv.Itoa(req.Limit)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			if h.l != nil {
				h.l.Warn("opportunities.list cache_get_error", applogger.Error(err))
			}
		} else if ok {
			if h.l != nil {
				h.l.Debug("opportunities.list cache_hit", applogger.String("key", cacheKey))
			}
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	opps, err := h.store.List(c.Request().Context(), domrepo.ListOptions{Limit: req.Limit})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		if h.l != nil {
			h.l.Error("opportunities.list error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}
	if req.Status != "" {
		filtered := opps[:0]
		for _, opp := range opps {
			if string(opp.Status) == req.Status {
				filtered = append(filtered, opp)
			}
		}
		opps = filtered
	}

	body := xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    &xhttp.ListDataResponse{Rows: opps, Total: int64(len(opps))},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(cacheKey, b, 30*time.Second); err != nil && h.l != nil {
			h.l.Warn("opportunities.list cache_set_error", applogger.Error(err))
		}
	}
	return c.JSONBlob(http.StatusOK, b)
}
