package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/sla-service/internal/api/dto"
	"github.com/helpdesk-kit/sla-service/internal/auth"
	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/repository"
	"github.com/helpdesk-kit/sla-service/internal/service"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.Context(), actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		ClientID:    req.ClientID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	detail, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	fields, err := parseUpdateFields(req)
	if err != nil {
		return err
	}

	ticket, err := h.service.Update(c.Context(), actor, c.Params("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.Context(), actor, c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// AddAttachment POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	attachment := &domain.Attachment{
		FileName:   req.FileName,
		StorageKey: req.StorageKey,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
	}
	if err := h.service.AddAttachment(c.Context(), actor, c.Params("id"), attachment); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

// parseUpdateFields validates enum values at the boundary so invalid values
// never reach the state machine.
func parseUpdateFields(req dto.UpdateTicketRequest) (service.UpdateFields, error) {
	var fields service.UpdateFields
	if req.Status != nil {
		status := domain.TicketStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		if !domain.ValidStatus(status) {
			return fields, apperrors.NewValidationError("unknown status", map[string]any{"status": *req.Status})
		}
		fields.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TicketPriority(strings.ToLower(strings.TrimSpace(*req.Priority)))
		if !domain.ValidPriority(priority) {
			return fields, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *req.Priority})
		}
		fields.Priority = &priority
	}
	if req.Category != nil {
		category := domain.TicketCategory(strings.ToLower(strings.TrimSpace(*req.Category)))
		if !domain.ValidCategory(category) {
			return fields, apperrors.NewValidationError("unknown category", map[string]any{"category": *req.Category})
		}
		fields.Category = &category
	}
	fields.AssigneeID = req.AssigneeID
	fields.Title = req.Title
	fields.Description = req.Description
	return fields, nil
}

func parseTicketQuery(c *fiber.Ctx) (repository.TicketFilter, error) {
	filter := repository.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status := domain.TicketStatus(strings.ToLower(strings.TrimSpace(part)))
			if !domain.ValidStatus(status) {
				return filter, apperrors.NewValidationError("unknown status", map[string]any{"status": part})
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			priority := domain.TicketPriority(strings.ToLower(strings.TrimSpace(part)))
			if !domain.ValidPriority(priority) {
				return filter, apperrors.NewValidationError("unknown priority", map[string]any{"priority": part})
			}
			filter.Priorities = append(filter.Priorities, priority)
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			category := domain.TicketCategory(strings.ToLower(strings.TrimSpace(part)))
			if !domain.ValidCategory(category) {
				return filter, apperrors.NewValidationError("unknown category", map[string]any{"category": part})
			}
			filter.Categories = append(filter.Categories, category)
		}
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	if clientID := c.Query("client_id"); clientID != "" {
		filter.ClientID = &clientID
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:                    ticket.ID,
		ExternalKey:           ticket.ExternalKey,
		Title:                 ticket.Title,
		Status:                ticket.Status,
		Priority:              ticket.Priority,
		Category:              ticket.Category,
		SLAResponseDeadline:   ticket.SLAResponseDeadline,
		SLAResolutionDeadline: ticket.SLAResolutionDeadline,
		ClientID:              ticket.ClientID,
		AssigneeID:            ticket.AssigneeID,
		CreatedAt:             ticket.CreatedAt,
		UpdatedAt:             ticket.UpdatedAt,
	}
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	ticket := detail.Ticket
	trail := make([]dto.AuditLogResponse, 0, len(detail.AuditTrail))
	for _, entry := range detail.AuditTrail {
		trail = append(trail, dto.AuditLogResponse{
			ID:        entry.ID,
			ActorID:   entry.ActorID,
			Message:   entry.Message,
			CreatedAt: entry.CreatedAt,
		})
	}
	comments := make([]dto.CommentResponse, 0, len(detail.Comments))
	for i := range detail.Comments {
		comments = append(comments, commentResponse(&detail.Comments[i]))
	}
	attachments := make([]dto.AttachmentResponse, 0, len(detail.Attachments))
	for i := range detail.Attachments {
		attachments = append(attachments, attachmentResponse(&detail.Attachments[i]))
	}
	return dto.TicketDetailResponse{
		ID:                    ticket.ID,
		ExternalKey:           ticket.ExternalKey,
		Title:                 ticket.Title,
		Description:           ticket.Description,
		Status:                ticket.Status,
		Priority:              ticket.Priority,
		Category:              ticket.Category,
		StartedAt:             ticket.StartedAt,
		TotalTimeSpent:        ticket.TotalTimeSpent,
		SLAResponseDeadline:   ticket.SLAResponseDeadline,
		SLAResolutionDeadline: ticket.SLAResolutionDeadline,
		SLAStatus: dto.SLAStatusResponse{
			Response:   detail.Response,
			Resolution: detail.Resolution,
		},
		CreatorID:   ticket.CreatorID,
		AssigneeID:  ticket.AssigneeID,
		ClientID:    ticket.ClientID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		AuditTrail:  trail,
		Comments:    comments,
		Attachments: attachments,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		Message:   comment.Message,
		CreatedAt: comment.CreatedAt,
	}
}

func attachmentResponse(attachment *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:        attachment.ID,
		FileName:  attachment.FileName,
		MimeType:  attachment.MimeType,
		SizeBytes: attachment.SizeBytes,
		CreatedAt: attachment.CreatedAt,
	}
}
