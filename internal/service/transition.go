package service

import (
	"fmt"
	"math"
	"time"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

// UpdateFields describes the changes a caller may request on a ticket. Nil
// pointers mean "not requested". Enum values are validated at the API
// boundary before they reach the state machine.
type UpdateFields struct {
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *domain.TicketCategory
	AssigneeID  *string
	Title       *string
	Description *string
}

// isClaimOnly reports whether the request contains nothing but
// status=in_progress: a technician claiming an unassigned ticket, allowed
// regardless of ownership.
func (f UpdateFields) isClaimOnly() bool {
	return f.Status != nil && *f.Status == domain.TicketStatusInProgress &&
		f.Priority == nil && f.Category == nil && f.AssigneeID == nil &&
		f.Title == nil && f.Description == nil
}

// applyUpdate is the ticket state machine. It mutates the ticket in place and
// returns one audit entry per detected change. It runs inside the repository's
// row-locked transaction, so the returned entries and the field mutations
// commit atomically.
//
// Side effects on entering in_progress (both set-once, so re-claiming an
// already started ticket is a no-op): startedAt is stamped and the assignee is
// auto-set to the acting technician. On entering closed, the elapsed minutes
// since startedAt are captured once; a ticket closed without ever starting
// simply records no elapsed time.
func applyUpdate(ticket *domain.Ticket, fields UpdateFields, actor domain.Actor, now time.Time) ([]domain.AuditLogEntry, error) {
	isOwner := ticket.CreatorID != nil && *ticket.CreatorID == actor.ID
	if !isOwner && !actor.IsAdmin() && !fields.isClaimOnly() {
		return nil, apperrors.NewPermissionDenied()
	}

	actorID := actor.ID
	var entries []domain.AuditLogEntry
	logf := func(format string, args ...any) {
		entries = append(entries, domain.AuditLogEntry{
			TicketID: ticket.ID,
			ActorID:  &actorID,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if fields.Status != nil && *fields.Status == domain.TicketStatusInProgress {
		if ticket.StartedAt == nil {
			startedAt := now
			ticket.StartedAt = &startedAt
			logf("attendance started by %s", actor.Name)
		}
		if ticket.AssigneeID == nil {
			assignee := actor.ID
			ticket.AssigneeID = &assignee
			logf("assignee auto-set to %s", actor.Name)
		}
	}

	if fields.Status != nil && *fields.Status == domain.TicketStatusClosed &&
		ticket.StartedAt != nil && ticket.TotalTimeSpent == nil {
		minutes := int(math.Round(now.Sub(*ticket.StartedAt).Minutes()))
		ticket.TotalTimeSpent = &minutes
		logf("ticket closed after %d minutes", minutes)
	}

	if fields.Status != nil && *fields.Status != ticket.Status {
		logf("status changed from '%s' to '%s'", ticket.Status, *fields.Status)
		ticket.Status = *fields.Status
	}
	if fields.Priority != nil && *fields.Priority != ticket.Priority {
		logf("priority changed from '%s' to '%s'", ticket.Priority, *fields.Priority)
		ticket.Priority = *fields.Priority
	}
	if fields.Category != nil && *fields.Category != ticket.Category {
		logf("category changed from '%s' to '%s'", ticket.Category, *fields.Category)
		ticket.Category = *fields.Category
	}
	if fields.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *fields.AssigneeID) {
		logf("assignedTo changed from '%s' to '%s'", renderAssignee(ticket.AssigneeID), *fields.AssigneeID)
		assignee := *fields.AssigneeID
		ticket.AssigneeID = &assignee
	}

	// Untracked fields are applied silently.
	if fields.Title != nil {
		ticket.Title = *fields.Title
	}
	if fields.Description != nil {
		ticket.Description = *fields.Description
	}

	return entries, nil
}

func renderAssignee(id *string) string {
	if id == nil {
		return "none"
	}
	return *id
}
