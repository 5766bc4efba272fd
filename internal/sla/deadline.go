package sla

import (
	"time"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

// Deadlines holds the two absolute SLA timestamps for a ticket.
type Deadlines struct {
	Response   time.Time
	Resolution time.Time
}

// ComputeDeadlines derives both SLA deadlines from a policy row and a
// reference instant. Pure and deterministic: every code path that needs the
// deadlines for the same policy and instant must get bit-identical results.
func ComputeDeadlines(policy domain.SLAPolicy, ref time.Time) (Deadlines, error) {
	if policy.ResponseHours <= 0 || policy.ResolutionHours <= 0 {
		return Deadlines{}, apperrors.NewInvalidPolicy(string(policy.Plan), string(policy.Priority))
	}
	return Deadlines{
		Response:   ref.Add(time.Duration(policy.ResponseHours) * time.Hour),
		Resolution: ref.Add(time.Duration(policy.ResolutionHours) * time.Hour),
	}, nil
}
