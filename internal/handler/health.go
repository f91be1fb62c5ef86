package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers the load balancer's liveness check.  It deliberately
// touches no dependency: a service with a slow database should stay in
// rotation and surface errors per request, not drop off the balancer.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
