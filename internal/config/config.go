package config

import (
	"os"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	// Base URL used when composing invitation links
	SiteURL string

	// Local file storage root, served under /uploads
	UploadDir string

	// DeepSeek-compatible chat completion endpoint for invoice extraction
	DeepSeekAPIKey  string
	DeepSeekBaseURL string

	// Resend transactional email
	ResendAPIKey string
	MailFrom     string
}

func Load() *Config {
	return &Config{
		DBDriver:        getEnv("DB_DRIVER", "mysql"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", "financeuser"),
		DBPassword:      getEnv("DB_PASSWORD", "financepassword"),
		DBName:          getEnv("DB_NAME", "construction_finance"),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		SessionSecret:   getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		SiteURL:         getEnv("PUBLIC_SITE_URL", "http://localhost:8080"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		DeepSeekAPIKey:  getEnv("DEEPSEEK_API_KEY", ""),
		DeepSeekBaseURL: getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		MailFrom:        getEnv("MAIL_FROM", "invitations@localhost"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
