package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	AppEnv      string
	FrontendURL string
	EnableDocs  bool
	// Local token issuing
	JWTSecret string
	JWTTTL    time.Duration
	// Federated identity provider (tokens verified against its published key set)
	FederatedJWKSURL  string
	FederatedIssuer   string
	FederatedAudience string
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	// Payment gateway
	PaymentGatewayURL        string
	PaymentGatewayAppID      string
	PaymentGatewaySecret     string
	PaymentGatewayAPIVersion string
	PaymentReturnURL         string
	// Minimum response time for forgot-password, hides whether the email exists
	ForgotPasswordFloor time.Duration
}

func LoadConfig() (*Config, error) {
	// .env only matters locally; in production the file is absent
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		AppEnv:      normalizeEnv(getEnv("APP_ENV", "production")),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		EnableDocs:  getEnvBool("ENABLE_API_DOCS", false),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_MINUTES", 60*24)) * time.Minute,

		FederatedJWKSURL:  getEnv("FEDERATED_JWKS_URL", "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"),
		FederatedIssuer:   getEnv("FEDERATED_ISSUER", ""),
		FederatedAudience: getEnv("FEDERATED_AUDIENCE", ""),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@thekatha.app"),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),

		PaymentGatewayURL:        strings.TrimRight(getEnv("PAYMENT_GATEWAY_URL", "https://sandbox.cashfree.com/pg"), "/"),
		PaymentGatewayAppID:      getEnv("PAYMENT_GATEWAY_APP_ID", ""),
		PaymentGatewaySecret:     getEnv("PAYMENT_GATEWAY_SECRET", ""),
		PaymentGatewayAPIVersion: getEnv("PAYMENT_GATEWAY_API_VERSION", "2023-08-01"),

		ForgotPasswordFloor: time.Duration(getEnvInt("FORGOT_PASSWORD_FLOOR_MS", 1500)) * time.Millisecond,
	}
	cfg.PaymentReturnURL = getEnv("PAYMENT_RETURN_URL", cfg.FrontendURL+"/payment/status?order_id={order_id}")

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// DocsEnabled reports whether swagger should be served; never in production.
func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && !c.IsProduction()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
