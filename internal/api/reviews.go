package api

import (
	"github.com/gofiber/fiber/v2"

	"bistro_backend/internal/domain"
)

func (s *Server) handleListReviews(c *fiber.Ctx) error {
	reviews, err := s.reviews.List(c.Context())
	if err != nil {
		s.logger.WithField("event", "list_reviews_error").WithError(err).Error("failed to list reviews")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list reviews")
	}

	return c.JSON(reviews)
}

func (s *Server) handleCreateReview(c *fiber.Ctx) error {
	var review domain.Review
	if err := c.BodyParser(&review); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if review.Name == "" || review.Details == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and details are required")
	}

	insertedID, err := s.reviews.Insert(c.Context(), review)
	if err != nil {
		s.logger.WithField("event", "create_review_error").WithError(err).Error("failed to insert review")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store review")
	}

	return c.JSON(fiber.Map{"insertedId": insertedID})
}
