package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleAdminStats(c *fiber.Ctx) error {
	ctx := c.Context()

	users, err := s.stats.CountUsers(ctx)
	if err != nil {
		s.logger.WithField("event", "admin_stats_error").WithError(err).Error("failed to count users")
		return fiber.NewError(fiber.StatusInternalServerError, msgAdminStatsError)
	}

	menuItems, err := s.stats.CountMenuItems(ctx)
	if err != nil {
		s.logger.WithField("event", "admin_stats_error").WithError(err).Error("failed to count menu items")
		return fiber.NewError(fiber.StatusInternalServerError, msgAdminStatsError)
	}

	orders, err := s.stats.CountOrders(ctx)
	if err != nil {
		s.logger.WithField("event", "admin_stats_error").WithError(err).Error("failed to count orders")
		return fiber.NewError(fiber.StatusInternalServerError, msgAdminStatsError)
	}

	revenue, err := s.stats.TotalRevenue(ctx)
	if err != nil {
		s.logger.WithField("event", "admin_stats_error").WithError(err).Error("failed to sum revenue")
		return fiber.NewError(fiber.StatusInternalServerError, msgAdminStatsError)
	}

	return c.JSON(fiber.Map{
		"users":     users,
		"menuItems": menuItems,
		"orders":    orders,
		"revenue":   revenue,
	})
}

func (s *Server) handleOrderStats(c *fiber.Ctx) error {
	stats, err := s.stats.OrderStats(c.Context())
	if err != nil {
		s.logger.WithField("event", "order_stats_error").WithError(err).Error("order statistics pipeline failed")
		return fiber.NewError(fiber.StatusInternalServerError, msgOrderStatsError)
	}

	return c.JSON(stats)
}
