package api

import (
	"MarketPulse/internal/service/stream"
	applogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StreamHandler upgrades clients onto the opportunity broadcast hub.
type StreamHandler struct {
	hub *stream.Hub
	l   *applogger.Logger
}

func NewStreamHandler(hub *stream.Hub, l *applogger.Logger) *StreamHandler {
	return &StreamHandler{hub: hub, l: l}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/stream", h.Stream)
}

func (h *StreamHandler) Stream(c echo.Context) error {
	if err := h.hub.Serve(c.Response(), c.Request()); err != nil {
		if h.l != nil {
			h.l.Warn("stream upgrade failed", applogger.Error(err))
		}
		return err
	}
	return nil
}
