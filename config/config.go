package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	// CORS
	AllowedOrigins []string
	// SMTP Configuration
	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string
	FromEmail string
	// Destination mailbox for contact form submissions
	CompanyEmail string
	// Timezone used to render the submission timestamp in the email body
	MailTimezone string
	// Redis Configuration (optional, rate limiting store)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowMinutes int
	RateLimitMaxRequests   int
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally, ignored in production if absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "3000"),
		AllowedOrigins: splitAndTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		// SMTP Configuration
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		EmailUser:    getEnv("EMAIL_USER", ""),
		EmailPass:    getEnv("EMAIL_PASS", ""),
		FromEmail:    getEnv("FROM", ""),
		CompanyEmail: getEnv("COMPANY_EMAIL", ""),
		MailTimezone: getEnv("MAIL_TIMEZONE", "America/Argentina/Buenos_Aires"),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (contact form: 3 requests per 15 minutes)
		RateLimitWindowMinutes: getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15),
		RateLimitMaxRequests:   getEnvInt("RATE_LIMIT_MAX_REQUESTS", 3),
	}

	// FROM defaults to the SMTP login, like most transactional providers expect
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.EmailUser
	}

	if cfg.EmailUser == "" || cfg.EmailPass == "" {
		log.Println("WARNING: EMAIL_USER/EMAIL_PASS not configured. Contact form will be unavailable.")
	}
	if cfg.CompanyEmail == "" {
		log.Println("WARNING: COMPANY_EMAIL not configured. Contact form will be unavailable.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
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

// splitAndTrim splits a comma-separated list, dropping empty entries
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	return out
}
