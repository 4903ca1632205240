// internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type Config struct {
	Database struct {
		Host       string `json:"host"`
		Port       string `json:"port"`
		User       string `json:"user"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		SSLMode    string `json:"sslmode"`
		SearchPath string `json:"schema"`
	} `json:"database"`
	Session struct {
		Secret       string        `json:"secret"`
		ExpiryPeriod time.Duration `json:"expiry_period"`
		CookieName   string        `json:"cookie_name"`
		Secure       bool          `json:"secure"`
	} `json:"session"`
	Server struct {
		Port         string        `json:"port"`
		ReadTimeout  time.Duration `json:"read_timeout"`
		WriteTimeout time.Duration `json:"write_timeout"`
	}
	Sendgrid struct {
		APIKey string `json:"api_key"`
		From   string `json:"from"`
	} `json:"sendgrid"`
	SMTP    map[string]SMTPConfig `json:"smtp"`
	BaseURL string                `json:"base_url"`

	// LoginURL is where unauthenticated callers are pointed at.
	// LoginRedirectURL is the post-login default when no ?next= is given.
	LoginURL         string `json:"login_url"`
	LoginRedirectURL string `json:"login_redirect_url"`
}

func Load() *Config {
	// A missing .env is fine; explicit environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{}

	// Database configuration
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "tenancy")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", "public")

	// Session configuration
	cfg.Session.Secret = getEnv("SESSION_SECRET", "your-secret-key")
	cfg.Session.ExpiryPeriod = time.Hour * 24
	cfg.Session.CookieName = getEnv("SESSION_COOKIE", "session")
	cfg.Session.Secure = getEnv("SESSION_SECURE", "") != ""

	// Sendgrid configuration
	cfg.Sendgrid.APIKey = getEnv("SENDGRID_API_KEY", "")
	cfg.Sendgrid.From = getEnv("SENDGRID_FROM", "")

	// SMTP fallback provider
	cfg.SMTP = map[string]SMTPConfig{
		"smtp": {
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     587,
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@harborgate.io"),
		},
	}

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = time.Second * 15
	cfg.Server.WriteTimeout = time.Second * 15

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:8080")
	cfg.LoginURL = getEnv("LOGIN_URL", "/api/auth/login")
	cfg.LoginRedirectURL = getEnv("LOGIN_REDIRECT_URL", "/api/accounts")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
