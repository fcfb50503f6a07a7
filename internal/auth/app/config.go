package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	StoreDriver     string // Profile store driver (rest, sqlite) (default: rest)
	StoreURL        string // Base URL of the REST profile store (required for rest driver)
	StoreServiceKey string // Service key for the REST profile store (required for rest driver)
	DatabaseFile    string // Path to SQLite database file (sqlite driver) (default: ./authd.db)

	MailDriver   string // Mail driver (rest, smtp) (default: rest)
	MailEndpoint string // Optional: REST mail provider endpoint (default: Resend API)
	MailAPIKey   string // API key for the REST mail provider (required for rest driver)
	MailFrom     string // Required: sender address for outgoing mail

	SMTPHost     string // SMTP relay host (required for smtp driver)
	SMTPPort     int    // SMTP relay port (default: 587)
	SMTPUsername string // Optional: SMTP auth username
	SMTPPassword string // Optional: SMTP auth password

	SessionSecret string // Required: HMAC secret shared with the primary-auth issuer

	CodeTTL         time.Duration // Optional: verification code lifetime (default: 10m)
	OutboundTimeout time.Duration // Optional: per-call deadline for store and mail (default: 10s)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		StoreDriver:     getEnvOrDefault("AUTH_STORE_DRIVER", "rest"),
		StoreURL:        os.Getenv("AUTH_STORE_URL"),
		StoreServiceKey: os.Getenv("AUTH_STORE_SERVICE_KEY"),
		DatabaseFile:    getEnvOrDefault("AUTH_DATABASE_FILE", "authd.db"),

		MailDriver:   getEnvOrDefault("AUTH_MAIL_DRIVER", "rest"),
		MailEndpoint: os.Getenv("AUTH_MAIL_ENDPOINT"), // Optional: driver default applies
		MailAPIKey:   os.Getenv("AUTH_MAIL_API_KEY"),
		MailFrom:     os.Getenv("AUTH_MAIL_FROM"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		SessionSecret: os.Getenv("AUTH_SESSION_SECRET"),

		CodeTTL:         getEnvDurationOrDefault("AUTH_CODE_TTL", 10*time.Minute),
		OutboundTimeout: getEnvDurationOrDefault("AUTH_OUTBOUND_TIMEOUT", 10*time.Second),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate fails fast on a config that would only surface as per-request
// errors later.
func (cfg Config) Validate() error {
	var errs []error

	switch cfg.StoreDriver {
	case "rest":
		if cfg.StoreURL == "" {
			errs = append(errs, errors.New("AUTH_STORE_URL is required for the rest store driver"))
		}
		if cfg.StoreServiceKey == "" {
			errs = append(errs, errors.New("AUTH_STORE_SERVICE_KEY is required for the rest store driver"))
		}
	case "sqlite":
		// DatabaseFile always has a default
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_STORE_DRIVER %q (want rest or sqlite)", cfg.StoreDriver))
	}

	switch cfg.MailDriver {
	case "rest":
		if cfg.MailAPIKey == "" {
			errs = append(errs, errors.New("AUTH_MAIL_API_KEY is required for the rest mail driver"))
		}
	case "smtp":
		if cfg.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp mail driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_MAIL_DRIVER %q (want rest or smtp)", cfg.MailDriver))
	}

	if cfg.MailFrom == "" {
		errs = append(errs, errors.New("AUTH_MAIL_FROM is required"))
	}
	if cfg.SessionSecret == "" {
		errs = append(errs, errors.New("AUTH_SESSION_SECRET is required"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
