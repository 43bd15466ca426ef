package model

import (
	"fmt"
	"time"

	"go-sales-tracker/internal/apperror"
)

// Actor is the already-authenticated identity a request runs as.
// AgentID is only meaningful for collaborators.
type Actor struct {
	UserID  uint `json:"user_id"`
	Role    Role `json:"role"`
	AgentID uint `json:"agent_id,omitempty"`
}

// DateRange is an inclusive [Start, End] filter. A zero bound is open.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

func (r DateRange) Validate() error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return fmt.Errorf("start %s after end %s: %w",
			r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), apperror.ErrInvalidArgument)
	}
	return nil
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// Key is a comparable form of the range, stable across time.Location values.
func (r DateRange) Key() [2]int64 {
	var k [2]int64
	if !r.Start.IsZero() {
		k[0] = r.Start.UnixNano()
	}
	if !r.End.IsZero() {
		k[1] = r.End.UnixNano()
	}
	return k
}

// RangeFromKey rebuilds a UTC range from Key.
func RangeFromKey(k [2]int64) DateRange {
	var r DateRange
	if k[0] != 0 {
		r.Start = time.Unix(0, k[0]).UTC()
	}
	if k[1] != 0 {
		r.End = time.Unix(0, k[1]).UTC()
	}
	return r
}
