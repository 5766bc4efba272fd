package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		deadline   time.Time
		wantStatus Standing
		wantDelta  string
	}{
		{
			name:       "past deadline is breached",
			deadline:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			wantStatus: StandingBreached,
			wantDelta:  "1h 0min",
		},
		{
			name:       "inside the hour window is near",
			deadline:   time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
			wantStatus: StandingNear,
			wantDelta:  "30min",
		},
		{
			name:       "next day is ok",
			deadline:   time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
			wantStatus: StandingOK,
			wantDelta:  "24h 0min",
		},
		{
			name:       "breached by hours and minutes",
			deadline:   time.Date(2024, 1, 1, 7, 45, 0, 0, time.UTC),
			wantStatus: StandingBreached,
			wantDelta:  "2h 15min",
		},
		{
			name:       "exactly one hour out is near",
			deadline:   time.Date(2024, 1, 1, 10, 59, 59, 0, time.UTC),
			wantStatus: StandingNear,
			wantDelta:  "59min",
		},
		{
			name:       "exactly at deadline counts as near",
			deadline:   now,
			wantStatus: StandingNear,
			wantDelta:  "0min",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.deadline, now)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, tc.wantDelta, got.Delta)
		})
	}
}

func TestEvaluateDeadlinesIndependently(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	response := Evaluate(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), now)
	resolution := Evaluate(time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), now)

	assert.Equal(t, StandingBreached, response.Status)
	assert.Equal(t, StandingOK, resolution.Status)
}
