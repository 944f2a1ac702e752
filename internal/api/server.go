// Package api hosts the REST surface of the bistro backend: routing,
// authentication middleware, and request handlers.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_backend/internal/auth"
	"bistro_backend/internal/config"
	"bistro_backend/internal/domain"
	"bistro_backend/internal/logging"
)

// User-facing messages shared by the auth gates and statistics endpoints.
const (
	msgUnauthorized    = "unauthorized access"
	msgForbidden       = "forbidden access"
	msgOrderStatsError = "Failed to fetch order statistics."
	msgAdminStatsError = "Failed to fetch admin statistics."
)

// TokenManager issues and verifies bearer tokens.
type TokenManager interface {
	Issue(email string) (string, error)
	Verify(token string) (auth.Claims, error)
}

// UserStore is the user persistence surface the handlers require.
type UserStore interface {
	Ensure(ctx context.Context, email, name string) (bool, primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	PromoteAdmin(ctx context.Context, id primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// MenuStore is the menu persistence surface the handlers require.
type MenuStore interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id primitive.ObjectID) (domain.MenuItem, error)
	Insert(ctx context.Context, item domain.MenuItem) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, item domain.MenuItem) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// CartStore is the cart persistence surface the handlers require.
type CartStore interface {
	ListByEmail(ctx context.Context, email string) ([]domain.CartItem, error)
	Insert(ctx context.Context, item domain.CartItem) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// ReviewStore is the review persistence surface the handlers require.
type ReviewStore interface {
	List(ctx context.Context) ([]domain.Review, error)
	Insert(ctx context.Context, review domain.Review) (primitive.ObjectID, error)
}

// PaymentStore is the payment persistence surface the handlers require.
type PaymentStore interface {
	ListByEmail(ctx context.Context, email string) ([]domain.Payment, error)
	Insert(ctx context.Context, payment domain.Payment) (primitive.ObjectID, error)
}

// StatsSource provides the numbers behind the admin dashboard.
type StatsSource interface {
	CountUsers(ctx context.Context) (int64, error)
	CountMenuItems(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	OrderStats(ctx context.Context) ([]domain.CategoryStat, error)
}

// IntentCreator creates Stripe payment intents.
type IntentCreator interface {
	CreateIntent(ctx context.Context, price float64) (string, error)
}

// ReceiptNotifier is told about freshly recorded payments.
type ReceiptNotifier interface {
	PaymentRecorded(ctx context.Context, payment domain.Payment)
}

// Pinger reports document-store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the Fiber application to its collaborators.
type Server struct {
	app      *fiber.App
	logger   *logrus.Entry
	tokens   TokenManager
	users    UserStore
	menu     MenuStore
	carts    CartStore
	reviews  ReviewStore
	payments PaymentStore
	stats    StatsSource
	intents  IntentCreator
	notifier ReceiptNotifier
	pinger   Pinger
}

// Option customizes Server construction.
type Option func(*Server)

// WithUserStore sets the user persistence backend.
func WithUserStore(users UserStore) Option {
	return func(s *Server) { s.users = users }
}

// WithMenuStore sets the menu persistence backend.
func WithMenuStore(menu MenuStore) Option {
	return func(s *Server) { s.menu = menu }
}

// WithCartStore sets the cart persistence backend.
func WithCartStore(carts CartStore) Option {
	return func(s *Server) { s.carts = carts }
}

// WithReviewStore sets the review persistence backend.
func WithReviewStore(reviews ReviewStore) Option {
	return func(s *Server) { s.reviews = reviews }
}

// WithPaymentStore sets the payment persistence backend.
func WithPaymentStore(payments PaymentStore) Option {
	return func(s *Server) { s.payments = payments }
}

// WithStatsSource sets the statistics backend.
func WithStatsSource(stats StatsSource) Option {
	return func(s *Server) { s.stats = stats }
}

// WithIntentCreator sets the payment-intent backend.
func WithIntentCreator(intents IntentCreator) Option {
	return func(s *Server) { s.intents = intents }
}

// WithReceiptNotifier sets the optional payment-receipt notifier.
func WithReceiptNotifier(notifier ReceiptNotifier) Option {
	return func(s *Server) { s.notifier = notifier }
}

// WithPinger sets the connectivity checker for the health endpoint.
func WithPinger(pinger Pinger) Option {
	return func(s *Server) { s.pinger = pinger }
}

// NewServer builds the Fiber application with all routes registered.
func NewServer(cfg config.Config, tokens TokenManager, logger *logrus.Entry, opts ...Option) (*Server, error) {
	if tokens == nil {
		return nil, errors.New("token manager is required")
	}
	if logger == nil {
		logger = logging.Logger()
	}

	srv := &Server{
		logger: logger,
		tokens: tokens,
	}

	for _, opt := range opts {
		opt(srv)
	}

	missing := srv.missingDependencies()
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing server dependencies: %v", missing)
	}

	srv.app = fiber.New(fiber.Config{
		AppName:               "bistro-backend",
		DisableStartupMessage: !cfg.IsDevelopment(),
		// Email-shaped path params arrive percent-encoded; decode them
		// before the handlers compare against token claims.
		UnescapePath: true,
		ErrorHandler: srv.handleError,
	})

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) missingDependencies() []string {
	missing := make([]string, 0)
	if s.users == nil {
		missing = append(missing, "user store")
	}
	if s.menu == nil {
		missing = append(missing, "menu store")
	}
	if s.carts == nil {
		missing = append(missing, "cart store")
	}
	if s.reviews == nil {
		missing = append(missing, "review store")
	}
	if s.payments == nil {
		missing = append(missing, "payment store")
	}
	if s.stats == nil {
		missing = append(missing, "stats source")
	}
	if s.intents == nil {
		missing = append(missing, "intent creator")
	}
	return missing
}

func (s *Server) registerRoutes() {
	app := s.app

	app.Get("/", s.handleRoot)
	app.Get("/healthz", s.handleHealthz)

	app.Post("/jwt", s.handleIssueToken)

	app.Get("/users", s.requireAuth(), s.requireAdmin(), s.handleListUsers)
	app.Post("/users", s.handleEnsureUser)
	app.Patch("/users/admin/:id", s.requireAuth(), s.requireAdmin(), s.handlePromoteUser)
	app.Get("/users/admin/:email", s.requireAuth(), s.handleCheckAdmin)
	app.Delete("/users/:id", s.requireAuth(), s.requireAdmin(), s.handleDeleteUser)

	app.Get("/menu", s.handleListMenu)
	app.Get("/menu/:id", s.handleGetMenuItem)
	app.Post("/menu", s.requireAuth(), s.requireAdmin(), s.handleCreateMenuItem)
	app.Patch("/menu/:id", s.handleUpdateMenuItem)
	app.Delete("/menu/:id", s.requireAuth(), s.requireAdmin(), s.handleDeleteMenuItem)

	app.Get("/reviews", s.handleListReviews)
	app.Post("/reviews", s.handleCreateReview)

	app.Get("/carts", s.handleListCarts)
	app.Post("/carts", s.handleCreateCartItem)
	app.Delete("/carts/:id", s.handleDeleteCartItem)

	app.Post("/create-payment-intent", s.requireAuth(), s.handleCreateIntent)
	app.Get("/payments/:email", s.requireAuth(), s.handleListPayments)
	app.Post("/payments", s.requireAuth(), s.handleRecordPayment)

	app.Get("/admin-stats", s.requireAuth(), s.requireAdmin(), s.handleAdminStats)
	app.Get("/order-stats", s.requireAuth(), s.requireAdmin(), s.handleOrderStats)
}

// App exposes the underlying Fiber application, primarily for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on the given port until Shutdown is called.
func (s *Server) Listen(port int) error {
	s.logger.WithFields(logging.Fields{
		"event": "http_listen",
		"port":  port,
	}).Info("starting http server")

	if err := s.app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		return fmt.Errorf("http listen: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.app == nil {
		return nil
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	return s.app.ShutdownWithContext(ctx)
}

// handleError renders every failure as a {message} body. Unexpected errors are
// logged in full but reported with a generic message.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	s.logger.WithFields(logging.Fields{
		"event": "request_error",
		"path":  c.Path(),
	}).WithError(err).Error("unhandled request error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.SendString("bistro backend is running")
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	status := "ok"
	mongoStatus := "ok"

	if s.pinger == nil {
		mongoStatus = "error"
	} else if err := s.pinger.Ping(c.Context()); err != nil {
		s.logger.WithField("event", "health_mongo_error").WithError(err).Warn("mongo ping failed during health check")
		mongoStatus = "error"
	}

	if mongoStatus != "ok" {
		status = "degraded"
	}

	return c.JSON(fiber.Map{"status": status, "mongo": mongoStatus})
}
