package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/Yediy/daniacasino-sub001/internal/floor" // table state and balancer
)

// FloorHandler exposes table state and the balancing planner.
type FloorHandler struct {
	Store    floor.Store
	Balancer *floor.TableBalancer
}

// NewFloorHandler constructs a FloorHandler.
func NewFloorHandler(store floor.Store, balancer *floor.TableBalancer) *FloorHandler {
	if store == nil || balancer == nil {
		panic("nil dependency passed to NewFloorHandler")
	}
	return &FloorHandler{Store: store, Balancer: balancer}
}

// Tables handles GET /v1/tables.  It returns every table with its live
// player count, for the floor board.
func (h *FloorHandler) Tables(c echo.Context) error {
	tables, err := h.Store.Tables(c.Request().Context(), nil)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// TableSeats handles GET /v1/tables/:id/seats.  It returns the table's
// seat map with per-seat status and occupant.
func (h *FloorHandler) TableSeats(c echo.Context) error {
	tableID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	seats, err := h.Store.TableSeats(c.Request().Context(), tableID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"table_id": tableID, "seats": seats})
}

// Balance handles POST /v1/floor/balance.  A supervisor selects at least
// two tables of the same stakes tier and receives an advisory plan; the
// engine moves no players itself.
func (h *FloorHandler) Balance(c echo.Context) error {
	var body struct {
		TableIDs []uint64 `json:"table_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	plan, err := h.Balancer.Balance(c.Request().Context(), body.TableIDs)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"plan": plan})
}
