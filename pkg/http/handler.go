package http

import "github.com/labstack/echo/v4"

// Handler registers its routes on the shared echo instance. The server
// accepts a single Handler; DI fans multiple handlers into one.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
