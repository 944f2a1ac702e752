// Package config defines the configuration contract and handles loading and
// validating environment configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// Canonical environment variable keys.
	KeyMongoURI        = "MONGO_URI"
	KeyMongoDB         = "MONGO_DB"
	KeyTokenSecret     = "ACCESS_TOKEN_SECRET"
	KeyStripeSecret    = "STRIPE_SECRET_KEY"
	KeyAppEnv          = "APP_ENV"
	KeyLogLevel        = "LOG_LEVEL"
	KeyHTTPPort        = "HTTP_PORT"
	KeyTelegramToken   = "TELEGRAM_TOKEN"
	KeyTelegramOpsChat = "TELEGRAM_OPS_CHAT"

	// Allowed environment values.
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// Defaults for optional settings.
	DefaultAppEnv   = EnvProduction
	DefaultLogLevel = "info"
	DefaultHTTPPort = 5000

	// Recommended database names by environment.
	DefaultMongoDBProd = "bistroDb"
	DefaultMongoDBDev  = "bistroDb_dev"
)

// VarSpec describes a single configuration key.
type VarSpec struct {
	Key         string // environment variable name
	Example     string // human-friendly sample value
	Required    bool   // whether the server must refuse to start without this value
	Default     string // default when unset (empty when required)
	Description string // what the variable controls
	Notes       string // extra guidance or policies
}

// Contract enumerates the authoritative configuration keys for the server.
// .env loading is only permitted when APP_ENV=development; production must rely
// on environment variables supplied by the runtime.
var Contract = []VarSpec{
	{
		Key:         KeyMongoURI,
		Example:     "mongodb://localhost:27017",
		Required:    true,
		Description: "MongoDB connection string.",
	},
	{
		Key:         KeyMongoDB,
		Example:     DefaultMongoDBProd + " / " + DefaultMongoDBDev,
		Required:    true,
		Description: "MongoDB database name.",
		Notes:       "Recommended: production=" + DefaultMongoDBProd + ", development=" + DefaultMongoDBDev + ".",
	},
	{
		Key:         KeyTokenSecret,
		Example:     "64 random hex chars",
		Required:    true,
		Description: "HMAC secret used to sign and verify access tokens.",
	},
	{
		Key:         KeyStripeSecret,
		Example:     "sk_test_...",
		Required:    true,
		Description: "Stripe secret API key for payment-intent creation.",
	},
	{
		Key:         KeyAppEnv,
		Example:     EnvDevelopment + " / " + EnvProduction,
		Default:     DefaultAppEnv,
		Description: "Runtime environment; controls log format and dotenv usage.",
		Notes:       "Load .env files only when APP_ENV=" + EnvDevelopment + ".",
	},
	{
		Key:         KeyLogLevel,
		Example:     DefaultLogLevel,
		Default:     DefaultLogLevel,
		Description: "Overrides default log level.",
	},
	{
		Key:         KeyHTTPPort,
		Example:     strconv.Itoa(DefaultHTTPPort),
		Default:     strconv.Itoa(DefaultHTTPPort),
		Description: "HTTP listen port for the REST API.",
	},
	{
		Key:         KeyTelegramToken,
		Example:     "123:ABC",
		Description: "Telegram bot token for payment-receipt notifications; notifications are disabled when unset.",
	},
	{
		Key:         KeyTelegramOpsChat,
		Example:     "-1001234567890",
		Description: "Telegram chat id receiving payment-receipt notifications.",
	},
}

// Config mirrors resolved configuration values after loading.
type Config struct {
	MongoURI        string
	MongoDB         string
	TokenSecret     string
	StripeSecret    string
	AppEnv          string
	LogLevel        string
	HTTPPort        int
	TelegramToken   string
	TelegramOpsChat int64
}

// Load resolves configuration from the environment (with optional dotenv in development).
func Load() (Config, error) {
	appEnv, err := resolveAppEnv()
	if err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(appEnv); err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:        firstNonEmpty(normalizeEnv(os.Getenv(KeyAppEnv)), appEnv),
		MongoURI:      strings.TrimSpace(os.Getenv(KeyMongoURI)),
		MongoDB:       strings.TrimSpace(os.Getenv(KeyMongoDB)),
		TokenSecret:   strings.TrimSpace(os.Getenv(KeyTokenSecret)),
		StripeSecret:  strings.TrimSpace(os.Getenv(KeyStripeSecret)),
		LogLevel:      firstNonEmpty(strings.TrimSpace(os.Getenv(KeyLogLevel)), DefaultLogLevel),
		HTTPPort:      DefaultHTTPPort,
		TelegramToken: strings.TrimSpace(os.Getenv(KeyTelegramToken)),
	}

	if err := validateAppEnv(cfg.AppEnv); err != nil {
		return Config{}, err
	}

	missing := make([]string, 0)

	if cfg.MongoURI == "" {
		missing = append(missing, KeyMongoURI)
	}

	if cfg.MongoDB == "" {
		missing = append(missing, KeyMongoDB)
	}

	if cfg.TokenSecret == "" {
		missing = append(missing, KeyTokenSecret)
	}

	if cfg.StripeSecret == "" {
		missing = append(missing, KeyStripeSecret)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variable(s): %s", strings.Join(missing, ", "))
	}

	httpPortRaw := strings.TrimSpace(os.Getenv(KeyHTTPPort))
	if httpPortRaw != "" {
		port, parseErr := strconv.Atoi(httpPortRaw)
		if parseErr != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", KeyHTTPPort, parseErr)
		}
		if port <= 0 {
			return Config{}, fmt.Errorf("%s must be greater than 0", KeyHTTPPort)
		}
		cfg.HTTPPort = port
	}

	opsChatRaw := strings.TrimSpace(os.Getenv(KeyTelegramOpsChat))
	if opsChatRaw != "" {
		chatID, parseErr := strconv.ParseInt(opsChatRaw, 10, 64)
		if parseErr != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", KeyTelegramOpsChat, parseErr)
		}
		cfg.TelegramOpsChat = chatID
	}

	if cfg.TelegramToken != "" && cfg.TelegramOpsChat == 0 {
		return Config{}, fmt.Errorf("%s is required when %s is set", KeyTelegramOpsChat, KeyTelegramToken)
	}

	return cfg, nil
}

// IsDevelopment reports if APP_ENV is development.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// NotificationsEnabled reports whether payment-receipt notifications are
// configured.
func (c Config) NotificationsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramOpsChat != 0
}

// FormatRedacted renders the resolved configuration for diagnostics with
// secrets masked and Mongo URI credentials stripped.
func FormatRedacted(cfg Config) string {
	lines := []string{
		"mongo_uri: " + redactMongoURI(cfg.MongoURI),
		"mongo_db: " + cfg.MongoDB,
		"access_token_secret: " + maskSecret(cfg.TokenSecret),
		"stripe_secret_key: " + maskSecret(cfg.StripeSecret),
		"app_env: " + cfg.AppEnv,
		"log_level: " + cfg.LogLevel,
		"http_port: " + strconv.Itoa(cfg.HTTPPort),
	}

	if cfg.NotificationsEnabled() {
		lines = append(lines,
			"telegram_token: "+maskSecret(cfg.TelegramToken),
			"telegram_ops_chat: "+strconv.FormatInt(cfg.TelegramOpsChat, 10),
		)
	}

	return strings.Join(lines, "\n")
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "...redacted"
	}
	return value[:4] + "...redacted"
}

func redactMongoURI(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.User == nil {
		return uri
	}
	parsed.User = nil
	return parsed.String()
}

func resolveAppEnv() (string, error) {
	if explicit := normalizeEnv(os.Getenv(KeyAppEnv)); explicit != "" {
		return explicit, nil
	}

	dotEnvValues, err := godotenv.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultAppEnv, nil
		}
		return "", fmt.Errorf("read .env: %w", err)
	}

	if envFromFile := normalizeEnv(dotEnvValues[KeyAppEnv]); envFromFile != "" {
		return envFromFile, nil
	}

	return DefaultAppEnv, nil
}

func loadDotEnv(appEnv string) error {
	if appEnv != EnvDevelopment {
		return nil
	}

	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

func validateAppEnv(appEnv string) error {
	if appEnv == EnvDevelopment || appEnv == EnvProduction {
		return nil
	}

	return fmt.Errorf("invalid %s: must be %q or %q", KeyAppEnv, EnvDevelopment, EnvProduction)
}

func normalizeEnv(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
