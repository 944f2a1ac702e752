package api

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_backend/internal/domain"
	"bistro_backend/internal/logging"
)

type intentRequest struct {
	Price float64 `json:"price"`
}

func (s *Server) handleCreateIntent(c *fiber.Ctx) error {
	var req intentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must be greater than zero")
	}

	clientSecret, err := s.intents.CreateIntent(c.Context(), req.Price)
	if err != nil {
		s.logger.WithField("event", "payment_intent_error").WithError(err).Error("failed to create payment intent")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create payment intent")
	}

	return c.JSON(fiber.Map{"clientSecret": clientSecret})
}

func (s *Server) handleListPayments(c *fiber.Ctx) error {
	email := c.Params("email")

	claims, ok := claimsFromLocals(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
	}
	if claims.Email != email {
		return fiber.NewError(fiber.StatusForbidden, msgForbidden)
	}

	payments, err := s.payments.ListByEmail(c.Context(), email)
	if err != nil {
		s.logger.WithFields(logging.Fields{
			"event": "list_payments_error",
			"email": email,
		}).WithError(err).Error("failed to list payments")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list payments")
	}

	return c.JSON(payments)
}

// handleRecordPayment inserts the payment and clears the cart items it covers
// in one request, mirroring the checkout flow: the client confirms the intent
// with Stripe, then posts the resulting payment here.
func (s *Server) handleRecordPayment(c *fiber.Ctx) error {
	var payment domain.Payment
	if err := c.BodyParser(&payment); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if payment.Email == "" || payment.TransactionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and transactionId are required")
	}

	cartIDs := make([]primitive.ObjectID, 0, len(payment.CartIDs))
	for _, raw := range payment.CartIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid cart id")
		}
		cartIDs = append(cartIDs, id)
	}

	// The statistics pipeline casts every stored menu-item id with
	// $toObjectId; a single malformed id would fail the whole aggregation.
	for _, raw := range payment.MenuItemIDs {
		if _, err := primitive.ObjectIDFromHex(raw); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid menu item id")
		}
	}

	insertedID, err := s.payments.Insert(c.Context(), payment)
	if err != nil {
		s.logger.WithFields(logging.Fields{
			"event": "record_payment_error",
			"email": payment.Email,
		}).WithError(err).Error("failed to insert payment")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store payment")
	}

	deleted, err := s.carts.DeleteMany(c.Context(), cartIDs)
	if err != nil {
		// The payment is already durable; report the partial result instead
		// of failing the whole request.
		s.logger.WithFields(logging.Fields{
			"event": "clear_cart_error",
			"email": payment.Email,
		}).WithError(err).Error("failed to clear cart after payment")
		deleted = 0
	}

	if s.notifier != nil {
		s.notifier.PaymentRecorded(c.Context(), payment)
	}

	return c.JSON(fiber.Map{"insertedId": insertedID, "deletedCount": deleted})
}
