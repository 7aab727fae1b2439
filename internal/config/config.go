package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port        string
	AppEnv      string
	LogLevel    string
	CORSOrigins []string

	// Lead storage
	StorageDriver string
	StorageDir    string
	StorageKey    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDB       string

	// Messaging
	RabbitMQURL string

	// Email
	MailHost   string
	MailPort   int
	MailUser   string
	MailPass   string
	MailFrom   string
	SalesInbox string

	// CRM
	KommoAPIToken string
	KommoBaseURL  string

	// Lead capture
	CatalogPath string
	SubmitDelay time.Duration
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var err error
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverFile)),
		StorageDir:    getEnv("STORAGE_DIR", "./data"),
		StorageKey:    getEnv("STORAGE_KEY", "leads"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "prefab"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		MailHost:      os.Getenv("MAIL_HOST"),
		MailUser:      os.Getenv("MAIL_USER"),
		MailPass:      os.Getenv("MAIL_PASS"),
		MailFrom:      getEnv("MAIL_FROM", "no-reply@prefab.house"),
		SalesInbox:    os.Getenv("SALES_INBOX"),
		KommoAPIToken: os.Getenv("KOMMO_API_TOKEN"),
		KommoBaseURL:  os.Getenv("KOMMO_BASE_URL"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
	}

	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.MailPort, err = getEnvInt("MAIL_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.SubmitDelay, err = getEnvDuration("SUBMIT_DELAY", time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverFile, DriverRedis, DriverMongo, DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.SubmitDelay < 0 {
		return fmt.Errorf("SUBMIT_DELAY must not be negative")
	}
	return nil
}

// MailEnabled reports whether new leads should be mailed to sales.
func (c *Config) MailEnabled() bool {
	return c.MailHost != "" && c.SalesInbox != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
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
