package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string
	LoanPeriod  time.Duration
	Admin       AdminAccount
}

// AdminAccount is the optional administrator created at startup.
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether a bootstrap admin was configured.
func (a AdminAccount) Enabled() bool {
	return a.Username != ""
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:   fallback(os.Getenv("JWT_ISSUER"), "library-backend"),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		JWTTTL:      positiveInt(os.Getenv("JWT_TTL_MINUTES"), 60) * time.Minute,
		LoanPeriod:  positiveInt(os.Getenv("LOAN_PERIOD_DAYS"), 14) * 24 * time.Hour,
		Admin: AdminAccount{
			Username: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
			Email:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if a := cfg.Admin; a.Username != "" || a.Email != "" || a.Password != "" {
		if a.Username == "" || a.Email == "" || a.Password == "" {
			return Config{}, errors.New("ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
		}
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(value string, def int) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return time.Duration(n)
	}
	return time.Duration(def)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
