package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/Yediy/daniacasino-sub001/internal/handler" // handlers implement the floor operations
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring hit this to verify the service is up.
	e.GET("/healthz", handler.Health)
}
