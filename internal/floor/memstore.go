package floor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

type seatKey struct {
	tableID uint64
	seatNo  int
}

// MemStore is an in-memory Store guarded by a single mutex, so every
// method is the same atomic transaction the MySQL store provides.  It
// backs the engine test-suite and the local floor simulator; it is not
// meant for production use.
type MemStore struct {
	mu      sync.Mutex
	lists   map[uint64]*model.GameList
	entries map[uint64]*model.QueueEntry
	tables  map[uint64]*model.PokerTable
	seats   map[seatKey]*model.Seat
	holds   map[uint64]*model.SeatHold
	audits  []model.AuditRecord

	nextEntryID uint64
	nextHoldID  uint64
}

// NewMemStore returns an empty MemStore.  Seed it with AddGameList and
// AddTable before use.
func NewMemStore() *MemStore {
	return &MemStore{
		lists:   make(map[uint64]*model.GameList),
		entries: make(map[uint64]*model.QueueEntry),
		tables:  make(map[uint64]*model.PokerTable),
		seats:   make(map[seatKey]*model.Seat),
		holds:   make(map[uint64]*model.SeatHold),
	}
}

// AddGameList seeds an open game list.
func (s *MemStore) AddGameList(id uint64, label string, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[id] = &model.GameList{
		ID:        id,
		GameLabel: label,
		Capacity:  capacity,
		Status:    model.ListOpen,
		CreatedAt: time.Now().UTC(),
	}
}

// CloseGameList flips a seeded list to CLOSED.
func (s *MemStore) CloseGameList(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.lists[id]; ok {
		l.Status = model.ListClosed
	}
}

// AddTable seeds a table with maxSeats open seats numbered from 1.
func (s *MemStore) AddTable(id uint64, name, game, stakes, zone string, maxSeats int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[id] = &model.PokerTable{
		ID:        id,
		Name:      name,
		Game:      game,
		Stakes:    stakes,
		MaxSeats:  maxSeats,
		FloorZone: zone,
	}
	for no := 1; no <= maxSeats; no++ {
		s.seats[seatKey{id, no}] = &model.Seat{TableID: id, SeatNo: no, Status: model.SeatOpen}
	}
}

// SeatPlayer seeds an occupied seat directly, bypassing the hold flow.
func (s *MemStore) SeatPlayer(tableID uint64, seatNo int, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[seatKey{tableID, seatNo}]
	if !ok {
		return ErrSeatNotFound
	}
	if seat.Status != model.SeatOpen {
		return ErrSeatUnavailable
	}
	uid := userID
	seat.Status = model.SeatOccupied
	seat.OccupantID = &uid
	s.tables[tableID].PlayersCount++
	return nil
}

// Audits returns a copy of the audit trail, oldest first.
func (s *MemStore) Audits() []model.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AuditRecord, len(s.audits))
	copy(out, s.audits)
	return out
}

// AppendQueueEntry implements Store.
func (s *MemStore) AppendQueueEntry(_ context.Context, listID, userID uint64) (*model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[listID]
	if !ok {
		return nil, ErrListNotFound
	}
	if list.Status != model.ListOpen {
		return nil, fmt.Errorf("%w: game list is closed", ErrValidation)
	}
	for _, e := range s.entries {
		if e.ListID == listID && e.UserID == userID {
			return nil, ErrAlreadyInQueue
		}
	}
	s.nextEntryID++
	entry := &model.QueueEntry{
		ID:            s.nextEntryID,
		ListID:        listID,
		UserID:        userID,
		Position:      list.WaitCount + 1,
		CheckinStatus: model.CheckinRemote,
		CreatedAt:     time.Now().UTC(),
	}
	s.entries[entry.ID] = entry
	list.WaitCount++
	return copyEntry(entry), nil
}

// RemoveQueueEntry implements Store.
func (s *MemStore) RemoveQueueEntry(_ context.Context, entryID uint64) (*model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, ErrQueueEntryNotFound
	}
	s.removeEntryLocked(entry)
	return copyEntry(entry), nil
}

// removeEntryLocked deletes the entry, renumbers later entries and
// decrements the wait count.  Caller holds the mutex.
func (s *MemStore) removeEntryLocked(entry *model.QueueEntry) {
	delete(s.entries, entry.ID)
	for _, e := range s.entries {
		if e.ListID == entry.ListID && e.Position > entry.Position {
			e.Position--
		}
	}
	if list, ok := s.lists[entry.ListID]; ok && list.WaitCount > 0 {
		list.WaitCount--
	}
}

// MarkCheckedIn implements Store.
func (s *MemStore) MarkCheckedIn(_ context.Context, entryID uint64) (*model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, ErrQueueEntryNotFound
	}
	if entry.CheckinStatus == model.CheckinOnSite {
		return copyEntry(entry), nil
	}
	if !entry.CheckinStatus.CanTransition(model.CheckinOnSite) {
		return nil, fmt.Errorf("%w: cannot check in from %s", ErrValidation, entry.CheckinStatus)
	}
	now := time.Now().UTC()
	entry.CheckedInAt = &now
	if entry.CheckinStatus != model.CheckinCalled {
		entry.CheckinStatus = model.CheckinOnSite
	}
	return copyEntry(entry), nil
}

// QueueEntry implements Store.
func (s *MemStore) QueueEntry(_ context.Context, entryID uint64) (*model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, ErrQueueEntryNotFound
	}
	return copyEntry(entry), nil
}

// ListQueue implements Store.
func (s *MemStore) ListQueue(_ context.Context, listID uint64) ([]model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[listID]; !ok {
		return nil, ErrListNotFound
	}
	var out []model.QueueEntry
	for _, e := range s.entries {
		if e.ListID == listID {
			out = append(out, *copyEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// GameLists implements Store.
func (s *MemStore) GameLists(_ context.Context) ([]model.GameList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.GameList, 0, len(s.lists))
	for _, l := range s.lists {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ReserveSeat implements Store.
func (s *MemStore) ReserveSeat(_ context.Context, entryID, tableID uint64, seatNo int, token string, expiresAt time.Time) (*model.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, ErrQueueEntryNotFound
	}
	seat, ok := s.seats[seatKey{tableID, seatNo}]
	if !ok {
		return nil, ErrSeatNotFound
	}
	if seat.Status != model.SeatOpen {
		return nil, ErrSeatUnavailable
	}
	if !entry.CheckinStatus.CanTransition(model.CheckinCalled) {
		return nil, fmt.Errorf("%w: entry already called", ErrValidation)
	}
	uid := entry.UserID
	seat.Status = model.SeatHeld
	seat.OccupantID = &uid
	entry.CheckinStatus = model.CheckinCalled
	s.nextHoldID++
	hold := &model.SeatHold{
		ID:        s.nextHoldID,
		EntryID:   entry.ID,
		UserID:    entry.UserID,
		TableID:   tableID,
		SeatNo:    seatNo,
		Token:     token,
		Status:    model.HoldActive,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	s.holds[hold.ID] = hold
	return copyHold(hold), nil
}

// ClaimSeat implements Store.
func (s *MemStore) ClaimSeat(_ context.Context, holdID uint64) (*model.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hold, ok := s.holds[holdID]
	if !ok {
		return nil, ErrHoldNotFound
	}
	if hold.Status != model.HoldActive {
		return nil, ErrSeatUnavailable
	}
	seat, ok := s.seats[seatKey{hold.TableID, hold.SeatNo}]
	if !ok || seat.Status != model.SeatHeld || seat.OccupantID == nil || *seat.OccupantID != hold.UserID {
		return nil, ErrSeatUnavailable
	}
	hold.Status = model.HoldClaimed
	seat.Status = model.SeatOccupied
	s.tables[hold.TableID].PlayersCount++
	if entry, ok := s.entries[hold.EntryID]; ok {
		s.removeEntryLocked(entry)
	}
	return copyHold(hold), nil
}

// ReleaseHold implements Store.
func (s *MemStore) ReleaseHold(_ context.Context, holdID uint64, to model.HoldStatus) (*model.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if to != model.HoldExpired && to != model.HoldCancelled {
		return nil, fmt.Errorf("%w: release status must be EXPIRED or CANCELLED", ErrValidation)
	}
	hold, ok := s.holds[holdID]
	if !ok {
		return nil, ErrHoldNotFound
	}
	if !hold.Status.CanTransition(to) {
		return nil, ErrSeatUnavailable
	}
	hold.Status = to
	seat := s.seats[seatKey{hold.TableID, hold.SeatNo}]
	if seat != nil && seat.Status == model.SeatHeld && seat.OccupantID != nil && *seat.OccupantID == hold.UserID {
		seat.Status = model.SeatOpen
		seat.OccupantID = nil
	}
	if entry, ok := s.entries[hold.EntryID]; ok && entry.CheckinStatus == model.CheckinCalled {
		entry.CheckinStatus = entry.ReleaseStatus()
	}
	return copyHold(hold), nil
}

// Hold implements Store.
func (s *MemStore) Hold(_ context.Context, holdID uint64) (*model.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hold, ok := s.holds[holdID]
	if !ok {
		return nil, ErrHoldNotFound
	}
	return copyHold(hold), nil
}

// ExpiredHoldIDs implements Store.
func (s *MemStore) ExpiredHoldIDs(_ context.Context, now time.Time) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uint64
	for id, h := range s.holds {
		if h.Status == model.HoldActive && !h.ExpiresAt.After(now) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Tables implements Store.
func (s *MemStore) Tables(_ context.Context, ids []uint64) ([]model.PokerTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ids == nil {
		out := make([]model.PokerTable, 0, len(s.tables))
		for _, t := range s.tables {
			out = append(out, *t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}
	out := make([]model.PokerTable, 0, len(ids))
	for _, id := range ids {
		t, ok := s.tables[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrTableNotFound, id)
		}
		out = append(out, *t)
	}
	return out, nil
}

// TableSeats implements Store.
func (s *MemStore) TableSeats(_ context.Context, tableID uint64) ([]model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[tableID]; !ok {
		return nil, fmt.Errorf("%w: id %d", ErrTableNotFound, tableID)
	}
	var out []model.Seat
	for key, seat := range s.seats {
		if key.tableID != tableID {
			continue
		}
		cp := *seat
		if seat.OccupantID != nil {
			uid := *seat.OccupantID
			cp.OccupantID = &uid
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNo < out[j].SeatNo })
	return out, nil
}

// AppendAudit implements Store.
func (s *MemStore) AppendAudit(_ context.Context, rec model.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, rec)
	return nil
}

func copyEntry(e *model.QueueEntry) *model.QueueEntry {
	cp := *e
	if e.CheckedInAt != nil {
		at := *e.CheckedInAt
		cp.CheckedInAt = &at
	}
	return &cp
}

func copyHold(h *model.SeatHold) *model.SeatHold {
	cp := *h
	return &cp
}
