package domain

import "time"

// Plan is a client's subscription tier. It is the sole determinant of which
// SLA policy row applies to a ticket.
type Plan string

const (
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

// ValidPlan reports whether the value is a known plan.
func ValidPlan(p Plan) bool {
	return p == PlanBasic || p == PlanPremium
}

// SLAPolicy maps (plan, priority) to the contractual response and resolution
// windows in hours. Unique per (plan, priority).
type SLAPolicy struct {
	ID              string
	Plan            Plan
	Priority        TicketPriority
	ResponseHours   int
	ResolutionHours int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
