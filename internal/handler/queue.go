package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/Yediy/daniacasino-sub001/internal/floor" // waitlist engine
)

// QueueHandler exposes the waitlist over HTTP.  All methods assume JWT
// authentication has already run; the acting player comes from the token,
// never from the request body, and the ledger rejects a player touching
// someone else's entry.  FLOOR tokens bypass the ownership check so staff
// can remove no-shows and confirm arrivals at the podium.
type QueueHandler struct {
	Ledger *floor.QueueLedger
}

// NewQueueHandler constructs a QueueHandler.
func NewQueueHandler(ledger *floor.QueueLedger) *QueueHandler {
	if ledger == nil {
		panic("nil ledger passed to NewQueueHandler")
	}
	return &QueueHandler{Ledger: ledger}
}

// Lists handles GET /v1/lists.  It returns every game list with its
// current wait count, for the lobby board.
func (h *QueueHandler) Lists(c echo.Context) error {
	lists, err := h.Ledger.Lists(c.Request().Context())
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"lists": lists})
}

// Queue handles GET /v1/lists/:id/queue.  It returns the list's entries
// ordered by position.
func (h *QueueHandler) Queue(c echo.Context) error {
	listID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid list id"})
	}
	entries, err := h.Ledger.Queue(c.Request().Context(), listID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"list_id": listID, "entries": entries})
}

// Join handles POST /v1/lists/:id/join.  The caller is appended to the
// back of the list and receives the created entry with its position.
func (h *QueueHandler) Join(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid list id"})
	}
	entry, err := h.Ledger.Join(c.Request().Context(), listID, userID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// Leave handles DELETE /v1/queue/:id.  Everyone behind the departing
// entry moves up one position.  Players may only remove their own entry;
// FLOOR tokens may remove any.
func (h *QueueHandler) Leave(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	if err := h.Ledger.Leave(c.Request().Context(), entryID, userID, isFloorStaff(c)); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckIn handles POST /v1/queue/:id/checkin.  The entry's status moves
// to ON_SITE; its position is untouched.
func (h *QueueHandler) CheckIn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	entry, err := h.Ledger.CheckIn(c.Request().Context(), entryID, userID, isFloorStaff(c))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}
