package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

// RequireRole ensures the actor holds one of the allowed roles. With no roles
// listed it only requires authentication.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[actor.Role]; !exists {
			return apperrors.NewPermissionDenied()
		}
		return c.Next()
	}
}
