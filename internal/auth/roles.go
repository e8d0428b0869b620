package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-service/internal/domain"
	apperrors "github.com/spec-kit/sla-service/pkg/util/errorutil"
)

// RequireStaffRole ensures the caller is staff and, when roles are given, holds one of them.
func RequireStaffRole(allowed ...domain.StaffRole) fiber.Handler {
	allowedSet := make(map[domain.StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeStaff {
			return apperrors.NewForbidden("staff role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if principal.Role == nil {
			return apperrors.NewForbidden("insufficient role")
		}
		if _, exists := allowedSet[*principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// ParseStaffRoles converts configured role names into staff roles, rejecting unknown names.
func ParseStaffRoles(names []string) ([]domain.StaffRole, error) {
	roles := make([]domain.StaffRole, 0, len(names))
	for _, name := range names {
		role := domain.StaffRole(name)
		switch role {
		case domain.StaffRoleAgent, domain.StaffRoleTeamLead, domain.StaffRoleAdmin:
			roles = append(roles, role)
		default:
			return nil, fmt.Errorf("unknown staff role %q", name)
		}
	}
	return roles, nil
}
