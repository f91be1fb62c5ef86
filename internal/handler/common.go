package handler // handler defines http handlers

import (
	"errors"   // errors provides sentinel comparisons for engine failures
	"net/http" // HTTP status codes
	"strconv"  // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/Yediy/daniacasino-sub001/internal/floor"      // floor holds the engine sentinels
	"github.com/Yediy/daniacasino-sub001/internal/middleware" // middleware defines the role constants
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isFloorStaff reports whether the request carries the FLOOR role.  The
// role is set by the JWT middleware from a verified token claim.
func isFloorStaff(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == middleware.RoleFloor
}

// pathID parses the :id path parameter as a positive uint64.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// engineError maps engine sentinels onto HTTP responses.  Every handler
// funnels failures through here so the status mapping lives in one place.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, floor.ErrValidation),
		errors.Is(err, floor.ErrInsufficientSelection):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, floor.ErrAlreadyInQueue):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already in queue for this list"})
	case errors.Is(err, floor.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat no longer available"})
	case errors.Is(err, floor.ErrHoldExpired):
		return c.JSON(http.StatusGone, echo.Map{"error": "your hold expired"})
	case errors.Is(err, floor.ErrHoldNotOwned):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "hold belongs to another player"})
	case errors.Is(err, floor.ErrEntryNotOwned):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "entry belongs to another player"})
	case errors.Is(err, floor.ErrQueueEntryNotFound),
		errors.Is(err, floor.ErrListNotFound),
		errors.Is(err, floor.ErrSeatNotFound),
		errors.Is(err, floor.ErrHoldNotFound),
		errors.Is(err, floor.ErrTableNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, floor.ErrStoreTimeout):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store timeout, retry shortly"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
