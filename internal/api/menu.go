package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_backend/internal/domain"
)

func (s *Server) handleListMenu(c *fiber.Ctx) error {
	items, err := s.menu.List(c.Context())
	if err != nil {
		s.logger.WithField("event", "list_menu_error").WithError(err).Error("failed to list menu")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list menu")
	}

	return c.JSON(items)
}

func (s *Server) handleGetMenuItem(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid menu item id")
	}

	item, err := s.menu.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Absent documents are returned as null, not errors.
			return c.JSON(nil)
		}

		s.logger.WithField("event", "get_menu_error").WithError(err).Error("failed to fetch menu item")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch menu item")
	}

	return c.JSON(item)
}

func (s *Server) handleCreateMenuItem(c *fiber.Ctx) error {
	var item domain.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if item.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if item.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must be positive")
	}

	insertedID, err := s.menu.Insert(c.Context(), item)
	if err != nil {
		s.logger.WithField("event", "create_menu_error").WithError(err).Error("failed to insert menu item")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store menu item")
	}

	return c.JSON(fiber.Map{"insertedId": insertedID})
}

func (s *Server) handleUpdateMenuItem(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid menu item id")
	}

	var item domain.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	modified, err := s.menu.Update(c.Context(), id, item)
	if err != nil {
		s.logger.WithField("event", "update_menu_error").WithError(err).Error("failed to update menu item")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update menu item")
	}

	return c.JSON(fiber.Map{"modifiedCount": modified})
}

func (s *Server) handleDeleteMenuItem(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid menu item id")
	}

	deleted, err := s.menu.Delete(c.Context(), id)
	if err != nil {
		s.logger.WithField("event", "delete_menu_error").WithError(err).Error("failed to delete menu item")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete menu item")
	}

	return c.JSON(fiber.Map{"deletedCount": deleted})
}
