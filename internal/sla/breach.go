package sla

import (
	"fmt"
	"time"
)

// Standing classifies a deadline at query time. It is derived, never stored.
type Standing string

const (
	StandingOK       Standing = "ok"
	StandingNear     Standing = "near"
	StandingBreached Standing = "breached"
)

// nearWindow is how close to a deadline a ticket must be to count as near-due.
const nearWindow = time.Hour

// Evaluation is the breach verdict for one deadline. Delta is the absolute
// distance to the deadline formatted in whole hours and minutes, e.g.
// "2h 15min" for rendering "breached 2h 15min ago" or "due in 45min".
type Evaluation struct {
	Status Standing `json:"status"`
	Delta  string   `json:"delta"`
}

// Evaluate classifies a single deadline against now. The response and
// resolution deadlines are evaluated independently; a ticket can be ok on one
// and breached on the other.
func Evaluate(deadline, now time.Time) Evaluation {
	remaining := deadline.Sub(now)
	status := StandingOK
	switch {
	case remaining < 0:
		status = StandingBreached
	case remaining < nearWindow:
		status = StandingNear
	}
	return Evaluation{Status: status, Delta: formatDelta(remaining)}
}

func formatDelta(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	if hours == 0 {
		return fmt.Sprintf("%dmin", minutes)
	}
	return fmt.Sprintf("%dh %dmin", hours, minutes)
}
