package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_backend/internal/domain"
	"bistro_backend/internal/logging"
)

type tokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) handleIssueToken(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	token, err := s.tokens.Issue(req.Email)
	if err != nil {
		s.logger.WithField("event", "token_issue_error").WithError(err).Error("failed to sign token")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(fiber.Map{"token": token})
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	users, err := s.users.List(c.Context())
	if err != nil {
		s.logger.WithField("event", "list_users_error").WithError(err).Error("failed to list users")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list users")
	}

	return c.JSON(users)
}

type ensureUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) handleEnsureUser(c *fiber.Ctx) error {
	var req ensureUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	created, insertedID, err := s.users.Ensure(c.Context(), req.Email, req.Name)
	if err != nil {
		s.logger.WithFields(logging.Fields{
			"event": "ensure_user_error",
			"email": req.Email,
		}).WithError(err).Error("failed to ensure user")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store user")
	}

	if !created {
		return c.JSON(fiber.Map{"message": "user already exists", "insertedId": nil})
	}

	return c.JSON(fiber.Map{"insertedId": insertedID})
}

func (s *Server) handlePromoteUser(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	modified, err := s.users.PromoteAdmin(c.Context(), id)
	if err != nil {
		s.logger.WithField("event", "promote_user_error").WithError(err).Error("failed to promote user")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update user")
	}

	return c.JSON(fiber.Map{"modifiedCount": modified})
}

// handleCheckAdmin reports whether the authenticated caller is an admin.
// Callers may only ask about themselves.
func (s *Server) handleCheckAdmin(c *fiber.Ctx) error {
	claims, ok := claimsFromLocals(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
	}

	email := c.Params("email")
	if email != claims.Email {
		return fiber.NewError(fiber.StatusForbidden, msgForbidden)
	}

	user, err := s.users.GetByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Absent users are simply not admins.
			return c.JSON(fiber.Map{"admin": false})
		}

		s.logger.WithField("event", "check_admin_error").WithError(err).Error("failed to look up user role")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to check role")
	}

	return c.JSON(fiber.Map{"admin": user.Role.IsAdmin()})
}

func (s *Server) handleDeleteUser(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	deleted, err := s.users.Delete(c.Context(), id)
	if err != nil {
		s.logger.WithField("event", "delete_user_error").WithError(err).Error("failed to delete user")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete user")
	}

	return c.JSON(fiber.Map{"deletedCount": deleted})
}
