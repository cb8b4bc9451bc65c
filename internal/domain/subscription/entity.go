// internal/domain/subscription/entity.go
package subscription

import (
	"database/sql"
	"time"
)

type State string

const (
	StatePending    State = "pending"
	StateActive     State = "active"
	StateGrace      State = "grace"
	StateExpired    State = "expired"
	StateCancelled  State = "cancelled"
	StateSuperseded State = "superseded"
)

// IsTerminal reports whether a state admits no further transitions.
func (s State) IsTerminal() bool {
	switch s {
	case StateExpired, StateCancelled, StateSuperseded:
		return true
	}
	return false
}

// validTransitions is the adjacency table of the lifecycle state machine.
// Anything not listed here is an illegal transition.
var validTransitions = map[State][]State{
	StatePending: {StateActive, StateCancelled},
	StateActive:  {StateGrace, StateCancelled, StateSuperseded},
	StateGrace:   {StateExpired, StateCancelled, StateSuperseded},
}

// CanTransition checks the adjacency table.
func CanTransition(from, to State) bool {
	for _, t := range validTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Subscription is one vendor's paid-tier record. Records are never deleted;
// they move to a terminal state instead. At most one non-terminal record per
// vendor exists at a time.
type Subscription struct {
	ID       string `json:"id" db:"id"`
	VendorID string `json:"vendor_id" db:"vendor_id"`
	TierID   string `json:"tier_id" db:"tier_id"`

	StartAt time.Time `json:"start_at" db:"start_at"`
	EndAt   time.Time `json:"end_at" db:"end_at"`

	State     State `json:"state" db:"state"`
	AutoRenew bool  `json:"auto_renew" db:"auto_renew"`

	// SupersededBy links a superseded record to the renewal that replaced it.
	SupersededBy sql.NullString `json:"superseded_by,omitempty" db:"superseded_by"`

	CancelledAt sql.NullTime `json:"cancelled_at,omitempty" db:"cancelled_at"`

	// Version guards per-record compare-and-set writes.
	Version   int64     `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Phase is the time-derived standing of a subscription, independent of the
// stored state (which the scheduler may not have caught up to yet).
type Phase string

const (
	PhasePending Phase = "pending"
	PhaseActive  Phase = "active"
	PhaseGrace   Phase = "grace"
	PhaseExpired Phase = "expired"
)

// PhaseAt derives the standing of the record at the given instant from its
// timestamps alone. Boundaries: asOf == EndAt is still Active; asOf ==
// EndAt+graceWindow is already Expired.
func (s *Subscription) PhaseAt(asOf time.Time, graceWindow time.Duration) Phase {
	if asOf.Before(s.StartAt) {
		return PhasePending
	}
	if !asOf.After(s.EndAt) {
		return PhaseActive
	}
	if asOf.Before(s.EndAt.Add(graceWindow)) {
		return PhaseGrace
	}
	return PhaseExpired
}

// lifecycleChain is the scheduler-driven progression. Renewal and
// cancellation are event-driven and sit outside of it.
var lifecycleChain = map[State]State{
	StatePending: StateActive,
	StateActive:  StateGrace,
	StateGrace:   StateExpired,
}

// phaseState maps a time-derived phase to the stored state it calls for.
var phaseState = map[Phase]State{
	PhasePending: StatePending,
	PhaseActive:  StateActive,
	PhaseGrace:   StateGrace,
	PhaseExpired: StateExpired,
}

// chainRank orders the scheduler-driven states for catch-up comparisons.
var chainRank = map[State]int{
	StatePending: 0,
	StateActive:  1,
	StateGrace:   2,
	StateExpired: 3,
}

// DueStateAt returns the next stored state the scheduler should apply at the
// given instant, or "" when the record is already caught up. A record that
// missed a cycle advances one legal step per evaluation, never skipping a
// state.
func (s *Subscription) DueStateAt(asOf time.Time, graceWindow time.Duration) State {
	if s.State.IsTerminal() {
		return ""
	}
	target := phaseState[s.PhaseAt(asOf, graceWindow)]
	if chainRank[target] <= chainRank[s.State] {
		return ""
	}
	return lifecycleChain[s.State]
}
