package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           int
	WebhookURL     string
	WebhookAuthKey string
	WebhookTimeout time.Duration
	DatabaseURL    string
	DatabaseType   string
	CSRFSecret     string
}

// ParseFlags validates flags with environment fallback
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var timeoutStr string

	fs := flag.NewFlagSet("diagnostico", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.WebhookURL, "webhook-url", "", "n8n webhook URL (prefer env)")
	fs.StringVar(&timeoutStr, "webhook-timeout", "", "Outbound webhook timeout (e.g. 12s)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.WebhookAuthKey, "webhook-key", "", "n8n webhook auth key (prefer env)")
	fs.StringVar(&cfg.CSRFSecret, "csrf-secret", "", "CSRF token secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default, serves both the API and the client
		}
	}

	if timeoutStr == "" {
		timeoutStr = os.Getenv("N8N_WEBHOOK_TIMEOUT")
	}
	if timeoutStr == "" {
		cfg.WebhookTimeout = 12 * time.Second
	} else {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil || timeout <= 0 {
			return Config{}, errors.New("invalid webhook timeout (use a Go duration like 12s)")
		}
		cfg.WebhookTimeout = timeout
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "file:diagnostico.db"
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	// Webhook target and auth key MUST be provided: the server refuses to
	// start misconfigured rather than failing every submission later.
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = os.Getenv("N8N_WEBHOOK_URL")
	}
	if cfg.WebhookURL == "" {
		return Config{}, errors.New("N8N_WEBHOOK_URL required")
	}

	if cfg.WebhookAuthKey == "" {
		cfg.WebhookAuthKey = os.Getenv("N8N_WEBHOOK_AUTH_KEY")
	}
	if cfg.WebhookAuthKey == "" {
		return Config{}, errors.New("N8N_WEBHOOK_AUTH_KEY required")
	}

	if cfg.CSRFSecret == "" {
		cfg.CSRFSecret = os.Getenv("CSRF_TOKEN_SECRET")
	}
	if cfg.CSRFSecret == "" {
		return Config{}, errors.New("CSRF_TOKEN_SECRET required")
	}

	return cfg, nil
}
