package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	StoreDriver     string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	AdminEmails       []string

	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	MailFrom       string
	MailRelayToken string

	// GatewayTimeout bounds every call to the store, the image host and the mailer.
	GatewayTimeout time.Duration
	AllowedOrigins []string
	MaxUploadBytes int64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),

		StoreDriver:     getEnvWithDefault("STORE_DRIVER", StoreMongo),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "scorecraft"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:   os.Getenv("SUPABASE_URL_ANON_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		AdminEmails:       splitList(os.Getenv("ADMIN_EMAILS")),

		SMTPHost:       getEnvWithDefault("SMTP_HOST", "smtp-relay.sendinblue.com"),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		MailFrom:       getEnvWithDefault("MAIL_FROM", "ScoreCraft <no-reply@scorecraft.dev>"),
		MailRelayToken: os.Getenv("MAIL_RELAY_TOKEN"),

		AllowedOrigins: splitList(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}

	var err error
	if cfg.SMTPPort, err = strconv.Atoi(getEnvWithDefault("SMTP_PORT", "587")); err != nil {
		return nil, fmt.Errorf("SMTP_PORT must be a number: %v", err)
	}
	if cfg.GatewayTimeout, err = time.ParseDuration(getEnvWithDefault("GATEWAY_TIMEOUT", "15s")); err != nil {
		return nil, fmt.Errorf("GATEWAY_TIMEOUT must be a duration: %v", err)
	}
	if cfg.MaxUploadBytes, err = strconv.ParseInt(getEnvWithDefault("MAX_UPLOAD_BYTES", "5242880"), 10, 64); err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a number: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (expected mongo or memory)", c.StoreDriver)
	}

	if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
		return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if c.SMTPUser == "" || c.SMTPPass == "" {
		return fmt.Errorf("SMTP_USER and SMTP_PASS are required")
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
