// Package notify sends payment-receipt notifications to an operations chat.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"bistro_backend/internal/config"
	"bistro_backend/internal/domain"
	"bistro_backend/internal/logging"
)

type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// createBot is overridable for tests.
var createBot = func(token string, options ...bot.Option) (messageSender, error) {
	return bot.New(token, options...)
}

// Notifier posts a short receipt summary to the configured Telegram chat when
// a payment is recorded. It is best-effort: send failures are logged and never
// surfaced to the paying request.
type Notifier struct {
	sender messageSender
	chatID int64
	logger *logrus.Entry
}

// NewNotifier constructs a Notifier from the resolved configuration. It errors
// when notifications are not configured; callers treat a nil Notifier as
// disabled.
func NewNotifier(cfg config.Config, logger *logrus.Entry) (*Notifier, error) {
	if !cfg.NotificationsEnabled() {
		return nil, errors.New("telegram notifications are not configured")
	}
	if logger == nil {
		logger = logging.Logger()
	}

	sender, err := createBot(cfg.TelegramToken, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("init telegram client: %w", err)
	}

	return &Notifier{
		sender: sender,
		chatID: cfg.TelegramOpsChat,
		logger: logger,
	}, nil
}

// PaymentRecorded sends the receipt summary for a freshly recorded payment.
// Calling it on a nil Notifier is a no-op.
func (n *Notifier) PaymentRecorded(ctx context.Context, payment domain.Payment) {
	if n == nil || n.sender == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   formatReceipt(payment),
	})
	if err != nil {
		n.logger.WithFields(logging.Fields{
			"event":          "receipt_notify_error",
			"transaction_id": payment.TransactionID,
		}).WithError(err).Warn("failed to send payment receipt notification")
		return
	}

	n.logger.WithFields(logging.Fields{
		"event":          "receipt_notified",
		"transaction_id": payment.TransactionID,
	}).Debug("sent payment receipt notification")
}

func formatReceipt(payment domain.Payment) string {
	lines := []string{
		"Payment received",
		fmt.Sprintf("Transaction: %s", payment.TransactionID),
		fmt.Sprintf("Amount: $%.2f", payment.Price),
		fmt.Sprintf("Customer: %s", payment.Email),
		fmt.Sprintf("Items: %d", len(payment.MenuItemIDs)),
	}
	if !payment.Date.IsZero() {
		lines = append(lines, fmt.Sprintf("Date: %s", payment.Date.UTC().Format(time.RFC3339)))
	}

	return strings.Join(lines, "\n")
}
