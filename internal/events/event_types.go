package events

import (
	"time"

	"github.com/helpdesk-kit/sla-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketUpdated      EventType = "ticket_updated"
	EventTicketClosed       EventType = "ticket_closed"
	EventSLAPolicyUpserted  EventType = "sla_policy_upserted"
	EventTicketCommentAdded EventType = "ticket_comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	TicketID  string       `json:"ticket_id,omitempty"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ClientID           string                `json:"client_id"`
	Priority           domain.TicketPriority `json:"priority"`
	Category           domain.TicketCategory `json:"category"`
	Title              string                `json:"title"`
	ResponseDeadline   time.Time             `json:"response_deadline"`
	ResolutionDeadline time.Time             `json:"resolution_deadline"`
}

// TicketUpdatedPayload payload. Changes carries the audit messages emitted by
// the state machine for this update.
type TicketUpdatedPayload struct {
	Status  domain.TicketStatus `json:"status"`
	Changes []string            `json:"changes"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	TotalTimeSpent *int `json:"total_time_spent,omitempty"`
}

// SLAPolicyUpsertedPayload payload.
type SLAPolicyUpsertedPayload struct {
	Plan            domain.Plan           `json:"plan"`
	Priority        domain.TicketPriority `json:"priority"`
	ResponseHours   int                   `json:"response_hours"`
	ResolutionHours int                   `json:"resolution_hours"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}
