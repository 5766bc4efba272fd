package domain

import "time"

// Comment captures human conversation on a ticket thread. Comments reference
// tickets but do not participate in the state machine.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  *string
	Message   string
	CreatedAt time.Time
}

// Attachment stores metadata for a file referenced by a ticket. Physical
// storage lives outside this service.
type Attachment struct {
	ID         string
	TicketID   string
	FileName   string
	StorageKey string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
