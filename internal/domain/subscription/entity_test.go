package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	t0          = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	graceWindow = 14 * 24 * time.Hour
)

func testSub(state State) *Subscription {
	return &Subscription{
		ID:       "01HSUB",
		VendorID: "vendor-1",
		TierID:   "premium",
		StartAt:  t0.Add(-30 * 24 * time.Hour),
		EndAt:    t0,
		State:    state,
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		want bool
	}{
		{"pending to active", StatePending, StateActive, true},
		{"pending to cancelled", StatePending, StateCancelled, true},
		{"active to grace", StateActive, StateGrace, true},
		{"active to cancelled", StateActive, StateCancelled, true},
		{"active to superseded", StateActive, StateSuperseded, true},
		{"grace to expired", StateGrace, StateExpired, true},
		{"grace to cancelled", StateGrace, StateCancelled, true},
		{"grace to superseded", StateGrace, StateSuperseded, true},
		{"active to expired skips grace", StateActive, StateExpired, false},
		{"pending to grace skips active", StatePending, StateGrace, false},
		{"expired to active", StateExpired, StateActive, false},
		{"cancelled to active", StateCancelled, StateActive, false},
		{"superseded to active", StateSuperseded, StateActive, false},
		{"expired to grace", StateExpired, StateGrace, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StateExpired.IsTerminal())
	assert.True(t, StateCancelled.IsTerminal())
	assert.True(t, StateSuperseded.IsTerminal())
	assert.False(t, StatePending.IsTerminal())
	assert.False(t, StateActive.IsTerminal())
	assert.False(t, StateGrace.IsTerminal())
}

func TestPhaseAtBoundaries(t *testing.T) {
	sub := testSub(StateActive)

	tests := []struct {
		name string
		asOf time.Time
		want Phase
	}{
		{"before start", sub.StartAt.Add(-time.Second), PhasePending},
		{"at start", sub.StartAt, PhaseActive},
		{"mid period", t0.Add(-time.Hour), PhaseActive},
		{"exactly at end still active", t0, PhaseActive},
		{"just past end", t0.Add(time.Second), PhaseGrace},
		{"last instant of grace", t0.Add(graceWindow - time.Second), PhaseGrace},
		{"exactly at grace boundary", t0.Add(graceWindow), PhaseExpired},
		{"long past grace", t0.Add(2 * graceWindow), PhaseExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sub.PhaseAt(tt.asOf, graceWindow))
		})
	}
}

func TestDueStateAt(t *testing.T) {
	t.Run("caught up record is not due", func(t *testing.T) {
		sub := testSub(StateActive)
		assert.Equal(t, State(""), sub.DueStateAt(t0.Add(-time.Hour), graceWindow))
	})

	t.Run("active past end is due for grace", func(t *testing.T) {
		sub := testSub(StateActive)
		assert.Equal(t, StateGrace, sub.DueStateAt(t0.Add(time.Hour), graceWindow))
	})

	t.Run("grace past window is due for expiry", func(t *testing.T) {
		sub := testSub(StateGrace)
		assert.Equal(t, StateExpired, sub.DueStateAt(t0.Add(graceWindow), graceWindow))
	})

	t.Run("pending past start is due for activation", func(t *testing.T) {
		sub := testSub(StatePending)
		assert.Equal(t, StateActive, sub.DueStateAt(t0.Add(-time.Hour), graceWindow))
	})

	t.Run("missed cycles advance one step at a time", func(t *testing.T) {
		// Record still Active although its grace window has fully elapsed:
		// the next step is Grace, never a jump straight to Expired.
		sub := testSub(StateActive)
		assert.Equal(t, StateGrace, sub.DueStateAt(t0.Add(2*graceWindow), graceWindow))
	})

	t.Run("terminal states are never due", func(t *testing.T) {
		for _, state := range []State{StateExpired, StateCancelled, StateSuperseded} {
			sub := testSub(state)
			assert.Equal(t, State(""), sub.DueStateAt(t0.Add(2*graceWindow), graceWindow))
		}
	})
}

func TestEventFor(t *testing.T) {
	assert.Equal(t, EventVisibilityGranted, EventFor(StateActive))
	assert.Equal(t, EventVisibilityLost, EventFor(StateExpired))
	assert.Equal(t, EventVisibilityLost, EventFor(StateCancelled))
	assert.Equal(t, EventType(""), EventFor(StateGrace))
	assert.Equal(t, EventType(""), EventFor(StateSuperseded))
}
