package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"bistro_backend/internal/config"
	"bistro_backend/internal/domain"
)

func TestNewNotifierRequiresConfiguration(t *testing.T) {
	if _, err := NewNotifier(config.Config{}, nil); err == nil {
		t.Fatalf("expected error without telegram settings")
	}
}

func TestNewNotifierBuildsClient(t *testing.T) {
	sender := &stubSender{}
	restore := stubCreateBot(sender, nil)
	t.Cleanup(restore)

	hookLogger, _ := logtest.NewNullLogger()
	notifier, err := NewNotifier(config.Config{
		TelegramToken:   "123:ABC",
		TelegramOpsChat: -100200300,
	}, logrus.NewEntry(hookLogger))
	if err != nil {
		t.Fatalf("expected notifier to initialize, got error: %v", err)
	}

	if notifier.chatID != -100200300 {
		t.Fatalf("expected ops chat -100200300, got %d", notifier.chatID)
	}
}

func TestPaymentRecordedSendsReceipt(t *testing.T) {
	sender := &stubSender{}
	hookLogger, _ := logtest.NewNullLogger()

	notifier := &Notifier{
		sender: sender,
		chatID: 42,
		logger: logrus.NewEntry(hookLogger),
	}

	payment := domain.Payment{
		Email:         "guest@bistro.test",
		Price:         18.5,
		TransactionID: "txn_123",
		Date:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		MenuItemIDs:   []string{"a", "b"},
	}

	notifier.PaymentRecorded(context.Background(), payment)

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}

	params := sender.sent[0]
	if params.ChatID != int64(42) {
		t.Fatalf("expected chat id 42, got %v", params.ChatID)
	}
	for _, want := range []string{"txn_123", "$18.50", "guest@bistro.test", "Items: 2"} {
		if !strings.Contains(params.Text, want) {
			t.Fatalf("expected receipt to contain %q, got %q", want, params.Text)
		}
	}
}

func TestPaymentRecordedLogsSendFailures(t *testing.T) {
	sender := &stubSender{err: errors.New("telegram down")}
	hookLogger, hook := logtest.NewNullLogger()

	notifier := &Notifier{
		sender: sender,
		chatID: 42,
		logger: logrus.NewEntry(hookLogger),
	}

	notifier.PaymentRecorded(context.Background(), domain.Payment{TransactionID: "txn_err"})

	last := hook.LastEntry()
	if last == nil || last.Level != logrus.WarnLevel {
		t.Fatalf("expected warn log on send failure, got %v", last)
	}
	if last.Data["transaction_id"] != "txn_err" {
		t.Fatalf("expected transaction id in log fields, got %v", last.Data)
	}
}

func TestPaymentRecordedIsNoOpOnNilNotifier(t *testing.T) {
	var notifier *Notifier
	notifier.PaymentRecorded(context.Background(), domain.Payment{})
}

type stubSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (s *stubSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	s.sent = append(s.sent, params)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Message{}, nil
}

func stubCreateBot(sender messageSender, err error) func() {
	prev := createBot
	createBot = func(string, ...bot.Option) (messageSender, error) {
		return sender, err
	}

	return func() {
		createBot = prev
	}
}
