package domain

import "time"

// AuditLogEntry is an immutable, append-only record of exactly one change to
// a ticket. ActorID is nil for system-generated entries. Entries are cascade
// deleted with their ticket and never mutated.
type AuditLogEntry struct {
	ID        string
	TicketID  string
	ActorID   *string
	Message   string
	CreatedAt time.Time
}
