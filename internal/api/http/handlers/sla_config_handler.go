package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/sla-service/internal/api/dto"
	"github.com/helpdesk-kit/sla-service/internal/auth"
	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/service"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

// SLAConfigHandler manages the policy table endpoints.
type SLAConfigHandler struct {
	policies *service.PolicyService
}

// NewSLAConfigHandler constructs handler.
func NewSLAConfigHandler(policies *service.PolicyService) *SLAConfigHandler {
	return &SLAConfigHandler{policies: policies}
}

// GetConfig GET /sla-config. With ?plan=&priority= it returns the single
// matching row; without query parameters it returns the whole table.
func (h *SLAConfigHandler) GetConfig(c *fiber.Ctx) error {
	plan := c.Query("plan")
	priority := c.Query("priority")

	if plan != "" && priority != "" {
		policy, err := h.policies.Lookup(c.Context(), plan, priority)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": policyResponse(policy)})
	}

	policies, err := h.policies.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.SLAPolicyResponse, 0, len(policies))
	for i := range policies {
		items = append(items, policyResponse(&policies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// PutConfig PUT /sla-config. Accepts a batch of rows; each is upserted in
// order. Admin-only.
func (h *SLAConfigHandler) PutConfig(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var reqs []dto.SLAPolicyRequest
	if err := c.BodyParser(&reqs); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(reqs) == 0 {
		return apperrors.NewValidationError("empty policy list", nil)
	}

	items := make([]dto.SLAPolicyResponse, 0, len(reqs))
	for _, req := range reqs {
		policy, err := h.policies.Upsert(c.Context(), actor, service.PolicyInput{
			Plan:            req.Plan,
			Priority:        req.Priority,
			ResponseHours:   req.ResponseHours,
			ResolutionHours: req.ResolutionHours,
		})
		if err != nil {
			return err
		}
		items = append(items, policyResponse(policy))
	}
	return c.JSON(fiber.Map{"data": items})
}

func policyResponse(policy *domain.SLAPolicy) dto.SLAPolicyResponse {
	return dto.SLAPolicyResponse{
		ID:              policy.ID,
		Plan:            policy.Plan,
		Priority:        policy.Priority,
		ResponseHours:   policy.ResponseHours,
		ResolutionHours: policy.ResolutionHours,
		UpdatedAt:       policy.UpdatedAt,
	}
}
