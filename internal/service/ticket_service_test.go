package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/events"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

type ticketServiceFixture struct {
	service    *TicketService
	tickets    *fakeTicketRepo
	logs       *fakeAuditLogRepo
	clients    *fakeClientRepo
	comments   *fakeCommentRepo
	dispatcher *recordingDispatcher
	now        time.Time
}

func newTicketServiceFixture(policies ...domain.SLAPolicy) *ticketServiceFixture {
	logs := &fakeAuditLogRepo{}
	tickets := newFakeTicketRepo(logs)
	clients := &fakeClientRepo{plans: map[string]domain.Plan{
		"client-basic":   domain.PlanBasic,
		"client-premium": domain.PlanPremium,
	}}
	comments := &fakeCommentRepo{}
	dispatcher := &recordingDispatcher{}
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	fixture := &ticketServiceFixture{
		tickets:    tickets,
		logs:       logs,
		clients:    clients,
		comments:   comments,
		dispatcher: dispatcher,
		now:        now,
	}
	fixture.service = NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		AuditLogRepo:   logs,
		ClientRepo:     clients,
		CommentRepo:    comments,
		AttachmentRepo: &fakeAttachmentRepo{},
		Policies:       NewPolicyService(newFakePolicyRepo(policies...), nil),
		Dispatcher:     dispatcher,
		Now:            func() time.Time { return fixture.now },
	})
	return fixture
}

func validCreateInput(clientID string) TicketCreateInput {
	return TicketCreateInput{
		Title:       "vpn down",
		Description: "branch office lost the tunnel",
		Priority:    "high",
		Category:    "infraestrutura",
		ClientID:    clientID,
	}
}

func TestTicketCreateRejectsMissingFields(t *testing.T) {
	fixture := newTicketServiceFixture()
	actor := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}

	_, err := fixture.service.Create(context.Background(), actor, TicketCreateInput{
		Title:    "  ",
		Priority: "high",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	domainErr := apperrors.ToDomainError(err)
	missing, ok := domainErr.Details["missing"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"title", "description", "category", "clientId"}, missing)
}

func TestTicketCreateUnknownClient(t *testing.T) {
	fixture := newTicketServiceFixture(domain.SLAPolicy{
		Plan: domain.PlanPremium, Priority: domain.TicketPriorityHigh, ResponseHours: 1, ResolutionHours: 4,
	})
	actor := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}

	_, err := fixture.service.Create(context.Background(), actor, validCreateInput("client-missing"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestTicketCreateFailsWhenNoPolicyConfigured(t *testing.T) {
	fixture := newTicketServiceFixture(domain.SLAPolicy{
		Plan: domain.PlanBasic, Priority: domain.TicketPriorityLow, ResponseHours: 24, ResolutionHours: 48,
	})
	actor := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}

	_, err := fixture.service.Create(context.Background(), actor, validCreateInput("client-premium"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "SLA_POLICY_NOT_FOUND"))

	domainErr := apperrors.ToDomainError(err)
	require.Contains(t, domainErr.Details, "available")
}

func TestTicketCreateDerivesDeadlinesAndAuditEntry(t *testing.T) {
	fixture := newTicketServiceFixture(domain.SLAPolicy{
		Plan: domain.PlanPremium, Priority: domain.TicketPriorityHigh, ResponseHours: 1, ResolutionHours: 4,
	})
	actor := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}

	ticket, err := fixture.service.Create(context.Background(), actor, validCreateInput("client-premium"))
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.True(t, ticket.SLAResponseDeadline.Equal(fixture.now.Add(time.Hour)))
	assert.True(t, ticket.SLAResolutionDeadline.Equal(fixture.now.Add(4*time.Hour)))
	require.NotNil(t, ticket.CreatorID)
	assert.Equal(t, "user-1", *ticket.CreatorID)
	assert.NotEmpty(t, ticket.ExternalKey)

	trail, err := fixture.logs.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, "ticket created by Bia", trail[0].Message)

	published := fixture.dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
}

func TestTicketCreateNormalizesPriorityAndCategory(t *testing.T) {
	fixture := newTicketServiceFixture(domain.SLAPolicy{
		Plan: domain.PlanPremium, Priority: domain.TicketPriorityHigh, ResponseHours: 1, ResolutionHours: 4,
	})
	actor := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}

	input := validCreateInput("client-premium")
	input.Priority = "  HIGH  "
	input.Category = " Infraestrutura "

	ticket, err := fixture.service.Create(context.Background(), actor, input)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	assert.Equal(t, domain.CategoryInfraestrutura, ticket.Category)
}

func TestTicketUpdateClaimPersistsSideEffectsAndLogs(t *testing.T) {
	fixture := newTicketServiceFixture(domain.SLAPolicy{
		Plan: domain.PlanPremium, Priority: domain.TicketPriorityHigh, ResponseHours: 1, ResolutionHours: 4,
	})
	owner := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}
	tech := domain.Actor{ID: "tech-1", Name: "Ana", Role: domain.RoleTechnician}

	ticket, err := fixture.service.Create(context.Background(), owner, validCreateInput("client-premium"))
	require.NoError(t, err)

	fixture.now = fixture.now.Add(10 * time.Minute)
	updated, err := fixture.service.Update(context.Background(), tech, ticket.ID,
		UpdateFields{Status: statusPtr(domain.TicketStatusInProgress)})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	require.NotNil(t, updated.StartedAt)
	assert.True(t, updated.StartedAt.Equal(fixture.now))
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, "tech-1", *updated.AssigneeID)

	trail, err := fixture.logs.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	// creation entry plus the three claim entries.
	assert.Len(t, trail, 4)
}

func TestTicketUpdateClosePublishesClosedEvent(t *testing.T) {
	fixture := newTicketServiceFixture(domain.SLAPolicy{
		Plan: domain.PlanPremium, Priority: domain.TicketPriorityHigh, ResponseHours: 1, ResolutionHours: 4,
	})
	owner := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}
	tech := domain.Actor{ID: "tech-1", Name: "Ana", Role: domain.RoleTechnician}

	ticket, err := fixture.service.Create(context.Background(), owner, validCreateInput("client-premium"))
	require.NoError(t, err)

	_, err = fixture.service.Update(context.Background(), tech, ticket.ID,
		UpdateFields{Status: statusPtr(domain.TicketStatusInProgress)})
	require.NoError(t, err)

	fixture.now = fixture.now.Add(95 * time.Minute)
	closed, err := fixture.service.Update(context.Background(), owner, ticket.ID,
		UpdateFields{Status: statusPtr(domain.TicketStatusClosed)})
	require.NoError(t, err)

	require.NotNil(t, closed.TotalTimeSpent)
	assert.Equal(t, 95, *closed.TotalTimeSpent)

	published := fixture.dispatcher.published()
	require.NotEmpty(t, published)
	last := published[len(published)-1]
	assert.Equal(t, events.EventTicketClosed, last.Type)
}

func TestTicketUpdateUnknownTicket(t *testing.T) {
	fixture := newTicketServiceFixture()
	actor := domain.Actor{ID: "admin-1", Name: "Rui", Role: domain.RoleAdmin}

	_, err := fixture.service.Update(context.Background(), actor, "ticket-none",
		UpdateFields{Status: statusPtr(domain.TicketStatusClosed)})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestTicketGetEvaluatesBothDeadlines(t *testing.T) {
	fixture := newTicketServiceFixture(domain.SLAPolicy{
		Plan: domain.PlanPremium, Priority: domain.TicketPriorityHigh, ResponseHours: 1, ResolutionHours: 4,
	})
	actor := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}

	ticket, err := fixture.service.Create(context.Background(), actor, validCreateInput("client-premium"))
	require.NoError(t, err)

	// Two hours later, the response window is blown while resolution holds.
	fixture.now = fixture.now.Add(2 * time.Hour)
	detail, err := fixture.service.Get(context.Background(), ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, "breached", string(detail.Response.Status))
	assert.Equal(t, "1h 0min", detail.Response.Delta)
	assert.Equal(t, "ok", string(detail.Resolution.Status))
	assert.Equal(t, "2h 0min", detail.Resolution.Delta)
	assert.Len(t, detail.AuditTrail, 1)
}

func TestTicketAddComment(t *testing.T) {
	fixture := newTicketServiceFixture(domain.SLAPolicy{
		Plan: domain.PlanPremium, Priority: domain.TicketPriorityHigh, ResponseHours: 1, ResolutionHours: 4,
	})
	actor := domain.Actor{ID: "user-1", Name: "Bia", Role: domain.RoleUser}

	ticket, err := fixture.service.Create(context.Background(), actor, validCreateInput("client-premium"))
	require.NoError(t, err)

	_, err = fixture.service.AddComment(context.Background(), actor, ticket.ID, "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	comment, err := fixture.service.AddComment(context.Background(), actor, ticket.ID, "  any update?  ")
	require.NoError(t, err)
	assert.Equal(t, "any update?", comment.Message)
	require.NotNil(t, comment.AuthorID)
	assert.Equal(t, "user-1", *comment.AuthorID)
}
