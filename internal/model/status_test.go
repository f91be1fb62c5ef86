package model

import (
	"testing"
	"time"
)

func TestCheckinTransitions(t *testing.T) {
	cases := []struct {
		from, to CheckinStatus
		ok       bool
	}{
		{CheckinRemote, CheckinOnSite, true},
		{CheckinRemote, CheckinCalled, true},
		{CheckinWaiting, CheckinCalled, true},
		{CheckinCalled, CheckinWaiting, true},
		{CheckinCalled, CheckinOnSite, true},
		{CheckinOnSite, CheckinCalled, true},
		{CheckinOnSite, CheckinRemote, false},
		{CheckinWaiting, CheckinRemote, false},
		{CheckinCalled, CheckinRemote, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.ok {
			t.Errorf("%s -> %s: want %v, got %v", c.from, c.to, c.ok, got)
		}
	}
}

func TestHoldStatesAreFinalExceptActive(t *testing.T) {
	finals := []HoldStatus{HoldClaimed, HoldExpired, HoldCancelled}
	all := []HoldStatus{HoldActive, HoldClaimed, HoldExpired, HoldCancelled}
	for _, from := range finals {
		for _, to := range all {
			if from.CanTransition(to) {
				t.Errorf("%s must be final, allows -> %s", from, to)
			}
		}
	}
	for _, to := range finals {
		if !HoldActive.CanTransition(to) {
			t.Errorf("ACTIVE must allow -> %s", to)
		}
	}
	if HoldActive.CanTransition(HoldActive) {
		t.Error("ACTIVE -> ACTIVE must be rejected")
	}
}

func TestSeatTransitions(t *testing.T) {
	cases := []struct {
		from, to SeatStatus
		ok       bool
	}{
		{SeatOpen, SeatHeld, true},
		{SeatHeld, SeatOccupied, true},
		{SeatHeld, SeatOpen, true},
		{SeatOccupied, SeatOpen, true},
		{SeatOpen, SeatOccupied, false},
		{SeatOccupied, SeatHeld, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.ok {
			t.Errorf("%s -> %s: want %v, got %v", c.from, c.to, c.ok, got)
		}
	}
}

func TestStatusValidity(t *testing.T) {
	if CheckinStatus("SEATED").Valid() {
		t.Error("unknown checkin status accepted")
	}
	if HoldStatus("PENDING").Valid() {
		t.Error("unknown hold status accepted")
	}
	if !CheckinOnSite.Valid() || !HoldCancelled.Valid() {
		t.Error("member of the closed set rejected")
	}
}

func TestReleaseStatusDependsOnCheckIn(t *testing.T) {
	e := &QueueEntry{CheckinStatus: CheckinCalled}
	if got := e.ReleaseStatus(); got != CheckinWaiting {
		t.Errorf("no check-in: want WAITING, got %s", got)
	}
	now := time.Now().UTC()
	e.CheckedInAt = &now
	if got := e.ReleaseStatus(); got != CheckinOnSite {
		t.Errorf("checked in: want ON_SITE, got %s", got)
	}
}

func TestHoldExpiredBoundary(t *testing.T) {
	at := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	h := &SeatHold{ExpiresAt: at}
	if h.Expired(at) {
		t.Error("hold is not expired at the exact deadline")
	}
	if !h.Expired(at.Add(time.Nanosecond)) {
		t.Error("hold must be expired past the deadline")
	}
}
