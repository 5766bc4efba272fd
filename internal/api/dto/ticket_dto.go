package dto

import (
	"time"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/sla"
)

// CreateTicketRequest payload. Status is never accepted: tickets start open.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
	ClientID    string  `json:"client_id"`
	AssigneeID  *string `json:"assigned_to"`
}

// UpdateTicketRequest payload. Absent fields are left untouched.
type UpdateTicketRequest struct {
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
	AssigneeID  *string `json:"assigned_to"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// SLAStatusResponse carries the derived standing for both deadlines.
type SLAStatusResponse struct {
	Response   sla.Evaluation `json:"response"`
	Resolution sla.Evaluation `json:"resolution"`
}

// TicketSummary response.
type TicketSummary struct {
	ID                    string                `json:"id"`
	ExternalKey           string                `json:"external_key"`
	Title                 string                `json:"title"`
	Status                domain.TicketStatus   `json:"status"`
	Priority              domain.TicketPriority `json:"priority"`
	Category              domain.TicketCategory `json:"category"`
	SLAResponseDeadline   time.Time             `json:"sla_response_deadline"`
	SLAResolutionDeadline time.Time             `json:"sla_resolution_deadline"`
	ClientID              string                `json:"client_id"`
	AssigneeID            *string               `json:"assigned_to"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info including the derived SLA
// standing, the audit trail and the comment thread.
type TicketDetailResponse struct {
	ID                    string                `json:"id"`
	ExternalKey           string                `json:"external_key"`
	Title                 string                `json:"title"`
	Description           string                `json:"description"`
	Status                domain.TicketStatus   `json:"status"`
	Priority              domain.TicketPriority `json:"priority"`
	Category              domain.TicketCategory `json:"category"`
	StartedAt             *time.Time            `json:"started_at"`
	TotalTimeSpent        *int                  `json:"total_time_spent"`
	SLAResponseDeadline   time.Time             `json:"sla_response_deadline"`
	SLAResolutionDeadline time.Time             `json:"sla_resolution_deadline"`
	SLAStatus             SLAStatusResponse     `json:"sla_status"`
	CreatorID             *string               `json:"creator_id"`
	AssigneeID            *string               `json:"assigned_to"`
	ClientID              string                `json:"client_id"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
	AuditTrail            []AuditLogResponse    `json:"audit_trail"`
	Comments              []CommentResponse     `json:"comments"`
	Attachments           []AttachmentResponse  `json:"attachments"`
}

// AuditLogResponse represents one immutable audit entry.
type AuditLogResponse struct {
	ID        string    `json:"id"`
	ActorID   *string   `json:"actor_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Message string `json:"message"`
}

// CommentResponse represents a thread comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  *string   `json:"author_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AttachmentRequest describes attachment metadata input.
type AttachmentRequest struct {
	FileName   string `json:"file_name"`
	StorageKey string `json:"storage_key"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
