package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/events"
	"github.com/helpdesk-kit/sla-service/internal/repository"
	"github.com/helpdesk-kit/sla-service/internal/sla"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

// TicketService orchestrates the ticket lifecycle: SLA deadline computation at
// creation, the state machine on updates, and the derived SLA standing on
// reads.
type TicketService struct {
	tickets     repository.TicketRepository
	auditLogs   repository.AuditLogRepository
	clients     repository.ClientRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	policies    *PolicyService
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	AuditLogRepo   repository.AuditLogRepository
	ClientRepo     repository.ClientRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	Policies       *PolicyService
	Dispatcher     events.Dispatcher
	Now            func() time.Time
}

// TicketCreateInput describes ticket creation payload. Status is never part
// of the input: tickets always start open.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    string
	Category    string
	ClientID    string
	AssigneeID  *string
}

// TicketDetail is the full read model for one ticket, including the derived
// SLA standing for both deadlines.
type TicketDetail struct {
	Ticket      *domain.Ticket
	Response    sla.Evaluation
	Resolution  sla.Evaluation
	AuditTrail  []domain.AuditLogEntry
	Comments    []domain.Comment
	Attachments []domain.Attachment
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		auditLogs:   deps.AuditLogRepo,
		clients:     deps.ClientRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		policies:    deps.Policies,
		dispatcher:  deps.Dispatcher,
		now:         now,
	}
}

// Create validates the input, resolves the client's plan, derives both SLA
// deadlines from the policy table and persists the ticket in state open with
// a single creation audit entry.
func (s *TicketService) Create(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if missing := missingCreateFields(input); len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"missing": missing})
	}

	priority := domain.TicketPriority(NormalizeKey(input.Priority))
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	category := domain.TicketCategory(NormalizeKey(input.Category))
	if !domain.ValidCategory(category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}

	plan, err := s.clients.GetPlan(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": input.ClientID})
		}
		return nil, err
	}

	policy, err := s.policies.Lookup(ctx, string(plan), string(priority))
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	deadlines, err := sla.ComputeDeadlines(*policy, createdAt)
	if err != nil {
		return nil, err
	}

	creatorID := actor.ID
	ticket := &domain.Ticket{
		ExternalKey:           generateTicketKey(),
		Title:                 strings.TrimSpace(input.Title),
		Description:           strings.TrimSpace(input.Description),
		Status:                domain.TicketStatusOpen,
		Priority:              priority,
		Category:              category,
		SLAResponseDeadline:   deadlines.Response,
		SLAResolutionDeadline: deadlines.Resolution,
		CreatorID:             &creatorID,
		AssigneeID:            input.AssigneeID,
		ClientID:              input.ClientID,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	entry := &domain.AuditLogEntry{
		TicketID: ticket.ID,
		ActorID:  &creatorID,
		Message:  "ticket created by " + actor.Name,
	}
	if err := s.auditLogs.Append(ctx, entry); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketCreatedPayload{
			ClientID:           ticket.ClientID,
			Priority:           ticket.Priority,
			Category:           ticket.Category,
			Title:              ticket.Title,
			ResponseDeadline:   ticket.SLAResponseDeadline,
			ResolutionDeadline: ticket.SLAResolutionDeadline,
		},
	})
	return ticket, nil
}

// Update loads the ticket and delegates to the state machine under a single
// read-modify-write transaction. Persistence-level races surface as a
// retryable conflict.
func (s *TicketService) Update(ctx context.Context, actor domain.Actor, ticketID string, fields UpdateFields) (*domain.Ticket, error) {
	var changes []string
	ticket, err := s.tickets.UpdateWithLogs(ctx, ticketID, func(ticket *domain.Ticket) ([]domain.AuditLogEntry, error) {
		entries, err := applyUpdate(ticket, fields, actor, s.now())
		if err != nil {
			return nil, err
		}
		changes = changes[:0]
		for _, entry := range entries {
			changes = append(changes, entry.Message)
		}
		return entries, nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}

	eventType := events.EventTicketUpdated
	var payload any = events.TicketUpdatedPayload{Status: ticket.Status, Changes: changes}
	if ticket.Status == domain.TicketStatusClosed {
		eventType = events.EventTicketClosed
		payload = events.TicketClosedPayload{TotalTimeSpent: ticket.TotalTimeSpent}
	}
	s.publish(ctx, events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  payload,
	})
	return ticket, nil
}

// Get returns the ticket with its audit trail, comments, attachments and the
// SLA standing of both deadlines evaluated against the current instant.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}

	trail, err := s.auditLogs.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &TicketDetail{
		Ticket:      ticket,
		Response:    sla.Evaluate(ticket.SLAResponseDeadline, now),
		Resolution:  sla.Evaluate(ticket.SLAResolutionDeadline, now),
		AuditTrail:  trail,
		Comments:    comments,
		Attachments: attachments,
	}, nil
}

// List returns tickets matching the filter.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, filter)
}

// AddComment appends a comment to a ticket thread.
func (s *TicketService) AddComment(ctx context.Context, actor domain.Actor, ticketID, message string) (*domain.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}

	authorID := actor.ID
	comment := &domain.Comment{
		TicketID: ticketID,
		AuthorID: &authorID,
		Message:  message,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticketID,
		Actor:    actor,
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			BodyPreview: stringPreview(comment.Message, 120),
		},
	})
	return comment, nil
}

// AddAttachment records attachment metadata for a ticket.
func (s *TicketService) AddAttachment(ctx context.Context, actor domain.Actor, ticketID string, attachment *domain.Attachment) error {
	if strings.TrimSpace(attachment.FileName) == "" || strings.TrimSpace(attachment.StorageKey) == "" {
		return apperrors.NewValidationError("file_name and storage_key required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return err
	}
	attachment.TicketID = ticketID
	return s.attachments.Create(ctx, attachment)
}

func missingCreateFields(input TicketCreateInput) []string {
	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(input.Priority) == "" {
		missing = append(missing, "priority")
	}
	if strings.TrimSpace(input.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(input.ClientID) == "" {
		missing = append(missing, "clientId")
	}
	return missing
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
