package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	awspkg "github.com/caseforge/storefront/pkg/aws"
	"github.com/caseforge/storefront/services/storefront-service/database"
	"github.com/joho/godotenv"
)

const (
	EmailProviderBrevo = "brevo"
	EmailProviderSMTP  = "smtp"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Port     string
	AppEnv   string
	Postgres database.PostgresConfig

	StripeAPIKey        string
	StripeSigningSecret string
	Currency            string
	FrontendURL         string
	ShippingCountries   []string

	EmailProvider      string
	BrevoAPIKey        string
	EmailSenderName    string
	EmailSenderAddress string
	EmailAttempts      int
	SMTPHost           string
	SMTPPort           string
	SMTPUser           string
	SMTPPass           string

	JWTSecret      string
	AdminEmails    []string
	AllowedOrigins string

	RedisURL            string
	UploadBucket        string
	UploadPublicBaseURL string
	OrderSNSTopicARN    string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
}

// LoadConfig reads configuration from the environment (after loading .env
// when present) with optional Secrets Manager override.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		StripeAPIKey:        os.Getenv("STRIPE_API_KEY"),
		StripeSigningSecret: os.Getenv("STRIPE_SIGNING_SECRET"),
		Currency:            getEnv("CHECKOUT_CURRENCY", "usd"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		ShippingCountries:   splitList(getEnv("SHIPPING_COUNTRIES", "US,GB,DE,FR,CA")),
		EmailProvider:       strings.ToLower(getEnv("EMAIL_PROVIDER", EmailProviderBrevo)),
		BrevoAPIKey:         os.Getenv("BREVO_API_KEY"),
		EmailSenderName:     getEnv("EMAIL_SENDER_NAME", "CaseForge"),
		EmailSenderAddress:  os.Getenv("EMAIL_SENDER_ADDRESS"),
		EmailAttempts:       getEnvInt("EMAIL_SEND_ATTEMPTS", 1),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnv("SMTP_PORT", "587"),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPass:            os.Getenv("SMTP_PASS"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AdminEmails:         splitList(os.Getenv("ADMIN_EMAILS")),
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		RedisURL:            os.Getenv("REDIS_URL"),
		UploadBucket:        os.Getenv("UPLOAD_BUCKET"),
		UploadPublicBaseURL: os.Getenv("UPLOAD_PUBLIC_BASE_URL"),
		OrderSNSTopicARN:    os.Getenv("ORDER_SNS_TOPIC_ARN"),
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Storefront"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		ctx := context.Background()
		sm, err := newSecretGetter(ctx)
		if err != nil {
			return nil, fmt.Errorf("AWS_USE_SECRETS is set but secrets manager is unavailable: %w", err)
		}
		applySecrets(ctx, cfg, sm)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var newSecretGetter = func(ctx context.Context) (awspkg.SecretGetter, error) {
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return awspkg.NewSecretsClient(awsCfg), nil
}

// applySecrets overrides credentials with values from Secrets Manager.
// Missing secrets leave the environment values in place.
func applySecrets(ctx context.Context, cfg *Config, sm awspkg.SecretGetter) {
	if m, err := awspkg.GetSecretMap(ctx, sm, "storefront/DB_CREDENTIALS"); err == nil {
		override(&cfg.Postgres.User, m["POSTGRES_USER"])
		override(&cfg.Postgres.Password, m["POSTGRES_PASSWORD"])
		override(&cfg.Postgres.DBName, m["POSTGRES_DB"])
		override(&cfg.Postgres.Host, m["POSTGRES_HOST"])
		override(&cfg.Postgres.Port, m["POSTGRES_PORT"])
	}
	if m, err := awspkg.GetSecretMap(ctx, sm, "storefront/STRIPE"); err == nil {
		override(&cfg.StripeAPIKey, m["STRIPE_API_KEY"])
		override(&cfg.StripeSigningSecret, m["STRIPE_SIGNING_SECRET"])
	}
	if v, err := sm.GetSecret(ctx, "storefront/BREVO_API_KEY"); err == nil {
		override(&cfg.BrevoAPIKey, v)
	}
	if v, err := sm.GetSecret(ctx, "storefront/JWT_SECRET"); err == nil {
		override(&cfg.JWTSecret, v)
	}
}

func (c *Config) validate() error {
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" || c.Postgres.Host == "" {
		return fmt.Errorf("database config incomplete")
	}
	if c.StripeAPIKey == "" {
		return fmt.Errorf("STRIPE_API_KEY not set")
	}
	if c.StripeSigningSecret == "" {
		return fmt.Errorf("STRIPE_SIGNING_SECRET not set")
	}
	switch c.EmailProvider {
	case EmailProviderBrevo:
		if c.BrevoAPIKey == "" {
			return fmt.Errorf("BREVO_API_KEY not set")
		}
	case EmailProviderSMTP:
	default:
		return fmt.Errorf("unknown EMAIL_PROVIDER %q", c.EmailProvider)
	}
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
