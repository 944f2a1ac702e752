package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bistro_backend/internal/auth"
	"bistro_backend/internal/domain"
	"bistro_backend/internal/logging"
)

const localsClaims = "claims"

// requireAuth verifies the bearer credential and attaches the decoded claims
// to the request for downstream handlers. Missing, malformed, or expired
// tokens all terminate the request with 401.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		claims, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		c.Locals(localsClaims, claims)
		return c.Next()
	}
}

// requireAdmin authorizes admin-only operations. It must run after
// requireAuth; every invocation pays one user lookup.
func (s *Server) requireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(localsClaims).(auth.Claims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		user, err := s.users.GetByEmail(c.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fiber.NewError(fiber.StatusForbidden, msgForbidden)
			}

			s.logger.WithFields(logging.Fields{
				"event": "admin_gate_error",
				"email": claims.Email,
			}).WithError(err).Error("admin gate lookup failed")
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}

		if !user.Role.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, msgForbidden)
		}

		return c.Next()
	}
}

// claimsFromLocals retrieves the claims attached by requireAuth.
func claimsFromLocals(c *fiber.Ctx) (auth.Claims, bool) {
	claims, ok := c.Locals(localsClaims).(auth.Claims)
	return claims, ok
}
