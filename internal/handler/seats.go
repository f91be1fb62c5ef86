package handler

import (
	"net/http" // HTTP status codes
	"time"     // TTL override parsing

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/Yediy/daniacasino-sub001/internal/floor" // hold and claim engine
)

// SeatHandler exposes the seat hold lifecycle over HTTP.  Reserve and
// Cancel are staff operations guarded by role middleware; Claim is the
// player's own action and is ownership-checked by the engine.
type SeatHandler struct {
	Holds  *floor.SeatHoldManager
	Claims *floor.SeatClaimCoordinator
}

// NewSeatHandler constructs a SeatHandler.
func NewSeatHandler(holds *floor.SeatHoldManager, claims *floor.SeatClaimCoordinator) *SeatHandler {
	if holds == nil || claims == nil {
		panic("nil dependency passed to NewSeatHandler")
	}
	return &SeatHandler{Holds: holds, Claims: claims}
}

// Reserve handles POST /v1/queue/:id/reserve.  A floor supervisor calls a
// queue entry to an open seat, which starts the hold countdown and fires
// the seat-ready notification.  The body names the seat; an optional
// ttl_minutes overrides the house default.  Hold windows are quoted in
// minutes everywhere a human sets them; only the engine works in
// durations.
func (h *SeatHandler) Reserve(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	var body struct {
		TableID    uint64 `json:"table_id"`
		SeatNo     int    `json:"seat_no"`
		TTLMinutes int    `json:"ttl_minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ttl := time.Duration(body.TTLMinutes) * time.Minute
	hold, err := h.Holds.Reserve(c.Request().Context(), actorID, entryID, body.TableID, body.SeatNo, ttl)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, hold)
}

// Claim handles POST /v1/holds/:id/claim.  The player sits down: the hold
// settles to CLAIMED, the seat becomes occupied and the queue entry is
// removed in the same transaction.
func (h *SeatHandler) Claim(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	holdID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hold id"})
	}
	hold, err := h.Claims.Claim(c.Request().Context(), holdID, userID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, hold)
}

// Cancel handles DELETE /v1/holds/:id.  The seat reopens and the player
// keeps their place in line.
func (h *SeatHandler) Cancel(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	holdID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hold id"})
	}
	if err := h.Holds.Cancel(c.Request().Context(), actorID, holdID); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
