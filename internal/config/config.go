package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabaseURL   string
	SessionSecret string
	CookieSecure  bool
	GinMode       string
	LogLevel      string
	Mail          MailConfig
	Redis         RedisConfig
	Sentry        SentryConfig
}

// MailConfig describes the outbound mail collaborator used by the contact form.
// Sender doubles as the recipient: messages are delivered to the site owner.
type MailConfig struct {
	Sender       string
	Password     string
	SMTPHost     string
	SMTPPort     int
	ResendAPIKey string
}

// RedisConfig enables the rendered rich text cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SentryConfig enables error forwarding when DSN is set.
type SentryConfig struct {
	DSN         string
	Environment string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := getEnv("PORT", "8080")

	return AppConfig{
		ListenAddr:    getEnv("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:          port,
		DatabaseURL:   getEnv("DATABASE_URL", "blog.db"),
		SessionSecret: strings.TrimSpace(os.Getenv("SECRET_KEY")),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		GinMode:       getEnv("GIN_MODE", "release"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Mail: MailConfig{
			Sender:       strings.TrimSpace(os.Getenv("EMAIL")),
			Password:     os.Getenv("PASSWORD"),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnvInt("SMTP_PORT", 587),
			ResendAPIKey: strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Sentry: SentryConfig{
			DSN:         strings.TrimSpace(os.Getenv("SENTRY_DSN")),
			Environment: getEnv("SENTRY_ENVIRONMENT", "production"),
		},
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
