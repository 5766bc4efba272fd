package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

func statusPtr(s domain.TicketStatus) *domain.TicketStatus       { return &s }
func priorityPtr(p domain.TicketPriority) *domain.TicketPriority { return &p }
func strPtr(s string) *string                                    { return &s }

func openTicket(creatorID string) *domain.Ticket {
	creator := creatorID
	return &domain.Ticket{
		ID:        "ticket-1",
		Title:     "printer offline",
		Status:    domain.TicketStatusOpen,
		Priority:  domain.TicketPriorityMedium,
		Category:  domain.CategorySuporte,
		CreatorID: &creator,
		ClientID:  "client-1",
	}
}

func TestApplyUpdateClaimSetsStartedAtAndAssigneeOnce(t *testing.T) {
	ticket := openTicket("user-1")
	tech := domain.Actor{ID: "tech-1", Name: "Ana", Role: domain.RoleTechnician}
	t0 := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	entries, err := applyUpdate(ticket, UpdateFields{Status: statusPtr(domain.TicketStatusInProgress)}, tech, t0)
	require.NoError(t, err)

	require.NotNil(t, ticket.StartedAt)
	assert.Equal(t, t0, *ticket.StartedAt)
	require.NotNil(t, ticket.AssigneeID)
	assert.Equal(t, "tech-1", *ticket.AssigneeID)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	// started, auto-assigned and the status change itself.
	assert.Len(t, entries, 3)

	// Replaying the same claim later must change nothing.
	later := t0.Add(45 * time.Minute)
	entries, err = applyUpdate(ticket, UpdateFields{Status: statusPtr(domain.TicketStatusInProgress)}, tech, later)
	require.NoError(t, err)

	assert.Empty(t, entries)
	assert.Equal(t, t0, *ticket.StartedAt)
	assert.Equal(t, "tech-1", *ticket.AssigneeID)
}

func TestApplyUpdateClosureCapturesElapsedMinutes(t *testing.T) {
	ticket := openTicket("user-1")
	admin := domain.Actor{ID: "admin-1", Name: "Rui", Role: domain.RoleAdmin}
	t0 := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	_, err := applyUpdate(ticket, UpdateFields{Status: statusPtr(domain.TicketStatusInProgress)}, admin, t0)
	require.NoError(t, err)

	entries, err := applyUpdate(ticket, UpdateFields{Status: statusPtr(domain.TicketStatusClosed)}, admin, t0.Add(95*time.Minute))
	require.NoError(t, err)

	require.NotNil(t, ticket.TotalTimeSpent)
	assert.Equal(t, 95, *ticket.TotalTimeSpent)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	require.Len(t, entries, 2)
	assert.Equal(t, "ticket closed after 95 minutes", entries[0].Message)
	assert.Equal(t, "status changed from 'in_progress' to 'closed'", entries[1].Message)
}

func TestApplyUpdateClosureWithoutStartProceeds(t *testing.T) {
	ticket := openTicket("user-1")
	admin := domain.Actor{ID: "admin-1", Name: "Rui", Role: domain.RoleAdmin}
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	entries, err := applyUpdate(ticket, UpdateFields{Status: statusPtr(domain.TicketStatusClosed)}, admin, now)
	require.NoError(t, err)

	assert.Nil(t, ticket.TotalTimeSpent)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	require.Len(t, entries, 1)
	assert.Equal(t, "status changed from 'open' to 'closed'", entries[0].Message)
}

func TestApplyUpdateDiffsEveryTrackedField(t *testing.T) {
	ticket := openTicket("user-1")
	owner := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	fields := UpdateFields{
		Priority: priorityPtr(domain.TicketPriorityHigh),
		Category: func() *domain.TicketCategory { c := domain.CategoryInfraestrutura; return &c }(),
	}
	entries, err := applyUpdate(ticket, fields, owner, now)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "priority changed from 'medium' to 'high'", entries[0].Message)
	assert.Equal(t, "category changed from 'suporte' to 'infraestrutura'", entries[1].Message)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	assert.Equal(t, domain.CategoryInfraestrutura, ticket.Category)
}

func TestApplyUpdateUnchangedFieldsProduceNoEntries(t *testing.T) {
	ticket := openTicket("user-1")
	owner := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	entries, err := applyUpdate(ticket, UpdateFields{Priority: priorityPtr(domain.TicketPriorityMedium)}, owner, now)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApplyUpdateAssigneeDiffRendersNoneForUnassigned(t *testing.T) {
	ticket := openTicket("user-1")
	admin := domain.Actor{ID: "admin-1", Name: "Rui", Role: domain.RoleAdmin}
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	entries, err := applyUpdate(ticket, UpdateFields{AssigneeID: strPtr("tech-9")}, admin, now)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "assignedTo changed from 'none' to 'tech-9'", entries[0].Message)
	require.NotNil(t, ticket.AssigneeID)
	assert.Equal(t, "tech-9", *ticket.AssigneeID)
}

func TestApplyUpdateAuthorization(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	stranger := domain.Actor{ID: "tech-1", Name: "Ana", Role: domain.RoleTechnician}

	t.Run("non-owner cannot edit fields", func(t *testing.T) {
		ticket := openTicket("user-1")
		_, err := applyUpdate(ticket, UpdateFields{Priority: priorityPtr(domain.TicketPriorityHigh)}, stranger, now)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
		assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	})

	t.Run("non-owner claim combined with other fields is denied", func(t *testing.T) {
		ticket := openTicket("user-1")
		fields := UpdateFields{
			Status:   statusPtr(domain.TicketStatusInProgress),
			Priority: priorityPtr(domain.TicketPriorityHigh),
		}
		_, err := applyUpdate(ticket, fields, stranger, now)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("non-owner claim-only is allowed", func(t *testing.T) {
		ticket := openTicket("user-1")
		_, err := applyUpdate(ticket, UpdateFields{Status: statusPtr(domain.TicketStatusInProgress)}, stranger, now)
		require.NoError(t, err)
	})

	t.Run("owner edits own ticket", func(t *testing.T) {
		ticket := openTicket("user-1")
		owner := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}
		_, err := applyUpdate(ticket, UpdateFields{Title: strPtr("printer still offline")}, owner, now)
		require.NoError(t, err)
		assert.Equal(t, "printer still offline", ticket.Title)
	})

	t.Run("admin edits any ticket", func(t *testing.T) {
		ticket := openTicket("user-1")
		admin := domain.Actor{ID: "admin-1", Name: "Rui", Role: domain.RoleAdmin}
		_, err := applyUpdate(ticket, UpdateFields{Priority: priorityPtr(domain.TicketPriorityLow)}, admin, now)
		require.NoError(t, err)
	})
}
