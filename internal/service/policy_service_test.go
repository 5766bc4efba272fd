package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/events"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

func TestPolicyLookupNormalizesKeys(t *testing.T) {
	repo := newFakePolicyRepo(domain.SLAPolicy{
		Plan: domain.PlanPremium, Priority: domain.TicketPriorityHigh, ResponseHours: 1, ResolutionHours: 4,
	})
	svc := NewPolicyService(repo, nil)

	policy, err := svc.Lookup(context.Background(), "  Premium ", " HIGH ")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPremium, policy.Plan)
	assert.Equal(t, domain.TicketPriorityHigh, policy.Priority)
	assert.Equal(t, 1, policy.ResponseHours)
	assert.Equal(t, 4, policy.ResolutionHours)
}

func TestPolicyLookupMissingRowCarriesConfiguredTable(t *testing.T) {
	repo := newFakePolicyRepo(domain.SLAPolicy{
		Plan: domain.PlanBasic, Priority: domain.TicketPriorityLow, ResponseHours: 24, ResolutionHours: 48,
	})
	svc := NewPolicyService(repo, nil)

	_, err := svc.Lookup(context.Background(), "premium", "high")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "SLA_POLICY_NOT_FOUND"))

	domainErr := apperrors.ToDomainError(err)
	available, ok := domainErr.Details["available"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, available, 1)
	assert.Equal(t, domain.PlanBasic, available[0]["plan"])
	assert.Equal(t, domain.TicketPriorityLow, available[0]["priority"])
}

func TestPolicyUpsert(t *testing.T) {
	admin := domain.Actor{ID: "admin-1", Name: "Rui", Role: domain.RoleAdmin}

	t.Run("rejects non-admin", func(t *testing.T) {
		svc := NewPolicyService(newFakePolicyRepo(), nil)
		tech := domain.Actor{ID: "tech-1", Name: "Ana", Role: domain.RoleTechnician}
		_, err := svc.Upsert(context.Background(), tech, PolicyInput{
			Plan: "basic", Priority: "low", ResponseHours: 8, ResolutionHours: 16,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("rejects unknown plan", func(t *testing.T) {
		svc := NewPolicyService(newFakePolicyRepo(), nil)
		_, err := svc.Upsert(context.Background(), admin, PolicyInput{
			Plan: "platinum", Priority: "low", ResponseHours: 8, ResolutionHours: 16,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("rejects non-positive hours", func(t *testing.T) {
		svc := NewPolicyService(newFakePolicyRepo(), nil)
		_, err := svc.Upsert(context.Background(), admin, PolicyInput{
			Plan: "basic", Priority: "low", ResponseHours: 0, ResolutionHours: 16,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "INVALID_SLA_POLICY"))
	})

	t.Run("replaces existing row and publishes event", func(t *testing.T) {
		repo := newFakePolicyRepo(domain.SLAPolicy{
			Plan: domain.PlanBasic, Priority: domain.TicketPriorityLow, ResponseHours: 24, ResolutionHours: 48,
		})
		dispatcher := &recordingDispatcher{}
		svc := NewPolicyService(repo, dispatcher)

		policy, err := svc.Upsert(context.Background(), admin, PolicyInput{
			Plan: " BASIC ", Priority: "Low", ResponseHours: 8, ResolutionHours: 16,
		})
		require.NoError(t, err)
		assert.Equal(t, 8, policy.ResponseHours)

		stored, err := svc.Lookup(context.Background(), "basic", "low")
		require.NoError(t, err)
		assert.Equal(t, 8, stored.ResponseHours)
		assert.Equal(t, 16, stored.ResolutionHours)

		published := dispatcher.published()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventSLAPolicyUpserted, published[0].Type)
	})
}
