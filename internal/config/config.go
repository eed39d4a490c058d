package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Agent    AgentConfig
}

type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AgentConfig holds edge-agent configuration
type AgentConfig struct {
	ServerURL string
	Token     string
	// QueueStore selects the durable queue backend: sqlite or file.
	QueueStore    string
	QueuePath     string
	FlushInterval time.Duration
	MaxAttempts   int
}

func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the environment.
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fieldsync"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	flushInterval, err := time.ParseDuration(getEnv("AGENT_FLUSH_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid AGENT_FLUSH_INTERVAL: %w", err)
	}
	maxAttempts, err := strconv.Atoi(getEnv("AGENT_MAX_ATTEMPTS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid AGENT_MAX_ATTEMPTS: %w", err)
	}
	config.Agent = AgentConfig{
		ServerURL:     getEnv("AGENT_SERVER_URL", "http://localhost:8080"),
		Token:         getEnv("AGENT_TOKEN", ""),
		QueueStore:    getEnv("AGENT_QUEUE_STORE", "sqlite"),
		QueuePath:     getEnv("AGENT_QUEUE_PATH", defaultQueuePath()),
		FlushInterval: flushInterval,
		MaxAttempts:   maxAttempts,
	}

	return config, nil
}

// DatabaseURL builds the Postgres DSN.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.SSLMode,
	)
}

func defaultQueuePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fieldsync-queue.db"
	}
	return home + "/.fieldsync/queue.db"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
