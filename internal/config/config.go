package config

import (
	"os"
	"strings"
	"time"
)

// Config holds the server configuration. Values come from the environment,
// after main has loaded an optional .env file.
type Config struct {
	Port          string
	DatabaseURL   string
	PublicBaseURL string
	CORSOrigin    string
	AdminToken    string
	LogLevel      string

	EmailJS       EmailJSConfig
	NotifyTimeout time.Duration
}

// EmailJSConfig addresses the transactional email provider.
type EmailJSConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// Enabled reports whether enough is configured to send email.
func (c EmailJSConfig) Enabled() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

const defaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Load reads configuration from environment variables or defaults.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "sqlite://proposal.db"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
		AdminToken:    os.Getenv("X_ADMIN_TOKEN"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EmailJS: EmailJSConfig{
			Endpoint:   getEnv("EMAILJS_ENDPOINT", defaultEmailJSEndpoint),
			ServiceID:  os.Getenv("EMAILJS_SERVICE_ID"),
			TemplateID: os.Getenv("EMAILJS_TEMPLATE_ID"),
			PublicKey:  os.Getenv("EMAILJS_PUBLIC_KEY"),
		},
		NotifyTimeout: getDuration("NOTIFY_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
