package api

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_backend/internal/domain"
)

func (s *Server) handleListCarts(c *fiber.Ctx) error {
	email := c.Query("email")

	items, err := s.carts.ListByEmail(c.Context(), email)
	if err != nil {
		s.logger.WithField("event", "list_carts_error").WithError(err).Error("failed to list cart items")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list cart items")
	}

	return c.JSON(items)
}

func (s *Server) handleCreateCartItem(c *fiber.Ctx) error {
	var item domain.CartItem
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if item.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	insertedID, err := s.carts.Insert(c.Context(), item)
	if err != nil {
		s.logger.WithField("event", "create_cart_error").WithError(err).Error("failed to insert cart item")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store cart item")
	}

	return c.JSON(fiber.Map{"insertedId": insertedID})
}

func (s *Server) handleDeleteCartItem(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart item id")
	}

	deleted, err := s.carts.Delete(c.Context(), id)
	if err != nil {
		s.logger.WithField("event", "delete_cart_error").WithError(err).Error("failed to delete cart item")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete cart item")
	}

	return c.JSON(fiber.Map{"deletedCount": deleted})
}
