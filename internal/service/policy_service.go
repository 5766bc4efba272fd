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
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

// PolicyService fronts the SLA policy table: read-heavy lookups with
// case-normalized keys and an admin-only upsert path.
type PolicyService struct {
	policies   repository.SLAPolicyRepository
	dispatcher events.Dispatcher
}

// PolicyInput describes an upsert payload.
type PolicyInput struct {
	Plan            string
	Priority        string
	ResponseHours   int
	ResolutionHours int
}

// NewPolicyService constructs the service.
func NewPolicyService(policies repository.SLAPolicyRepository, dispatcher events.Dispatcher) *PolicyService {
	return &PolicyService{policies: policies, dispatcher: dispatcher}
}

// NormalizeKey trims and lower-cases a policy key component.
func NormalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Lookup resolves the policy row for (plan, priority) after normalization.
// A missing row surfaces as SLA_POLICY_NOT_FOUND carrying the configured
// table, so an operator can see what is configured and fix the gap.
func (s *PolicyService) Lookup(ctx context.Context, plan, priority string) (*domain.SLAPolicy, error) {
	normalizedPlan := domain.Plan(NormalizeKey(plan))
	normalizedPriority := domain.TicketPriority(NormalizeKey(priority))

	policy, err := s.policies.Get(ctx, normalizedPlan, normalizedPriority)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			available, listErr := s.policies.ListAll(ctx)
			if listErr != nil {
				available = nil
			}
			return nil, apperrors.NewSLAPolicyNotFound(string(normalizedPlan), string(normalizedPriority), policyKeys(available))
		}
		return nil, err
	}
	return policy, nil
}

// List returns every configured policy row.
func (s *PolicyService) List(ctx context.Context) ([]domain.SLAPolicy, error) {
	return s.policies.ListAll(ctx)
}

// Upsert replaces the row for (plan, priority). Restricted to administrators.
func (s *PolicyService) Upsert(ctx context.Context, actor domain.Actor, input PolicyInput) (*domain.SLAPolicy, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewPermissionDenied()
	}

	plan := domain.Plan(NormalizeKey(input.Plan))
	priority := domain.TicketPriority(NormalizeKey(input.Priority))
	if !domain.ValidPlan(plan) || !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown plan or priority", map[string]any{
			"plan":     input.Plan,
			"priority": input.Priority,
		})
	}
	if input.ResponseHours <= 0 || input.ResolutionHours <= 0 {
		return nil, apperrors.NewInvalidPolicy(string(plan), string(priority))
	}

	policy := &domain.SLAPolicy{
		Plan:            plan,
		Priority:        priority,
		ResponseHours:   input.ResponseHours,
		ResolutionHours: input.ResolutionHours,
	}
	if err := s.policies.Upsert(ctx, policy); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSLAPolicyUpserted,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.SLAPolicyUpsertedPayload{
				Plan:            policy.Plan,
				Priority:        policy.Priority,
				ResponseHours:   policy.ResponseHours,
				ResolutionHours: policy.ResolutionHours,
			},
		})
	}
	return policy, nil
}

func policyKeys(policies []domain.SLAPolicy) []map[string]any {
	keys := make([]map[string]any, 0, len(policies))
	for _, policy := range policies {
		keys = append(keys, map[string]any{
			"plan":             policy.Plan,
			"priority":         policy.Priority,
			"response_hours":   policy.ResponseHours,
			"resolution_hours": policy.ResolutionHours,
		})
	}
	return keys
}
