package dto

import (
	"time"

	"github.com/helpdesk-kit/sla-service/internal/domain"
)

// SLAPolicyRequest is one row of an upsert payload.
type SLAPolicyRequest struct {
	Plan            string `json:"plan"`
	Priority        string `json:"priority"`
	ResponseHours   int    `json:"response_hours"`
	ResolutionHours int    `json:"resolution_hours"`
}

// SLAPolicyResponse is a configured policy row.
type SLAPolicyResponse struct {
	ID              string                `json:"id"`
	Plan            domain.Plan           `json:"plan"`
	Priority        domain.TicketPriority `json:"priority"`
	ResponseHours   int                   `json:"response_hours"`
	ResolutionHours int                   `json:"resolution_hours"`
	UpdatedAt       time.Time             `json:"updated_at"`
}
