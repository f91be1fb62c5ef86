package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Yediy/daniacasino-sub001/internal/floor"
	"github.com/Yediy/daniacasino-sub001/internal/middleware"
)

func newQueueFixture(t *testing.T) (*QueueHandler, *floor.MemStore, *echo.Echo) {
	t.Helper()
	store := floor.NewMemStore()
	store.AddGameList(1, "NLH 2/5", 9)
	log := zap.NewNop().Sugar()
	ledger := floor.NewQueueLedger(store, floor.NopPublisher{}, log)
	return NewQueueHandler(ledger), store, echo.New()
}

func doRequest(e *echo.Echo, method, path string, userID uint64, params map[string]string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	return doRoleRequest(e, method, path, middleware.RolePlayer, userID, params, h)
}

func doRoleRequest(e *echo.Echo, method, path, role string, userID uint64, params map[string]string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(userID)) // JWT claims decode numbers as float64
	c.Set("role", role)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	_ = h(c)
	return rec
}

func TestJoinReturnsCreatedEntry(t *testing.T) {
	h, _, e := newQueueFixture(t)

	rec := doRequest(e, http.MethodPost, "/v1/lists/1/join", 101, map[string]string{"id": "1"}, h.Join)
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var entry struct {
		ID       uint64 `json:"ID"`
		Position int    `json:"Position"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Position != 1 {
		t.Errorf("want position 1, got %d", entry.Position)
	}
}

func TestJoinDuplicateMapsToConflict(t *testing.T) {
	h, _, e := newQueueFixture(t)

	params := map[string]string{"id": "1"}
	doRequest(e, http.MethodPost, "/v1/lists/1/join", 101, params, h.Join)
	rec := doRequest(e, http.MethodPost, "/v1/lists/1/join", 101, params, h.Join)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate join: want 409, got %d", rec.Code)
	}
}

func TestJoinInvalidListID(t *testing.T) {
	h, _, e := newQueueFixture(t)
	rec := doRequest(e, http.MethodPost, "/v1/lists/x/join", 101, map[string]string{"id": "x"}, h.Join)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("want 400, got %d", rec.Code)
	}
}

func TestLeaveUnknownEntryMapsToNotFound(t *testing.T) {
	h, _, e := newQueueFixture(t)
	rec := doRequest(e, http.MethodDelete, "/v1/queue/42", 101, map[string]string{"id": "42"}, h.Leave)
	if rec.Code != http.StatusNotFound {
		t.Errorf("want 404, got %d", rec.Code)
	}
}

// joinEntryID joins the list as userID through the handler and returns
// the created entry's id.
func joinEntryID(t *testing.T, e *echo.Echo, h *QueueHandler, userID uint64) uint64 {
	t.Helper()
	rec := doRequest(e, http.MethodPost, "/v1/lists/1/join", userID, map[string]string{"id": "1"}, h.Join)
	if rec.Code != http.StatusCreated {
		t.Fatalf("join: want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var entry struct {
		ID uint64 `json:"ID"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return entry.ID
}

func TestLeaveForeignEntryForbidden(t *testing.T) {
	h, _, e := newQueueFixture(t)
	entryID := joinEntryID(t, e, h, 101)
	params := map[string]string{"id": strconv.FormatUint(entryID, 10)}

	rec := doRequest(e, http.MethodDelete, "/v1/queue/"+params["id"], 102, params, h.Leave)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign leave: want 403, got %d: %s", rec.Code, rec.Body.String())
	}
	// The owner can still leave afterwards.
	rec = doRequest(e, http.MethodDelete, "/v1/queue/"+params["id"], 101, params, h.Leave)
	if rec.Code != http.StatusNoContent {
		t.Errorf("owner leave: want 204, got %d", rec.Code)
	}
}

func TestFloorRoleMayRemoveAnyEntry(t *testing.T) {
	h, _, e := newQueueFixture(t)
	entryID := joinEntryID(t, e, h, 101)
	params := map[string]string{"id": strconv.FormatUint(entryID, 10)}

	rec := doRoleRequest(e, http.MethodDelete, "/v1/queue/"+params["id"], middleware.RoleFloor, 900, params, h.Leave)
	if rec.Code != http.StatusNoContent {
		t.Errorf("staff leave: want 204, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckInForeignEntryForbidden(t *testing.T) {
	h, _, e := newQueueFixture(t)
	entryID := joinEntryID(t, e, h, 101)
	params := map[string]string{"id": strconv.FormatUint(entryID, 10)}

	rec := doRequest(e, http.MethodPost, "/v1/queue/"+params["id"]+"/checkin", 102, params, h.CheckIn)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign checkin: want 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestQueueListsEntriesInOrder(t *testing.T) {
	h, _, e := newQueueFixture(t)

	for uid := 101; uid <= 103; uid++ {
		doRequest(e, http.MethodPost, "/v1/lists/1/join", uint64(uid), map[string]string{"id": "1"}, h.Join)
	}
	rec := doRequest(e, http.MethodGet, "/v1/lists/1/queue", 101, map[string]string{"id": "1"}, h.Queue)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var body struct {
		Entries []struct {
			UserID   uint64 `json:"UserID"`
			Position int    `json:"Position"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(body.Entries))
	}
	for i, entry := range body.Entries {
		if entry.Position != i+1 {
			t.Errorf("entry %d: want position %d, got %d", i, i+1, entry.Position)
		}
	}
}

func TestMissingIdentityIsUnauthorized(t *testing.T) {
	h, _, e := newQueueFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/lists/1/join", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	_ = h.Join(c)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("want 401 without user_id, got %d", rec.Code)
	}
}
