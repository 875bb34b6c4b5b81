package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the gateway and worker.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Redis       RedisConfig
	Queue       QueueConfig
	Auth        AuthConfig
	Google      GoogleConfig
	SMTP        SMTPConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	URL          string
	RetryDelay   time.Duration
	PingInterval time.Duration
}

type QueueConfig struct {
	Channel string
}

type AuthConfig struct {
	SecretKey string
}

type GoogleConfig struct {
	// CredentialsJSON holds the raw service-account key material, as the
	// platform injects it: a single JSON blob, not a file path.
	CredentialsJSON string
	RequestTimeout  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "conta-provisioner"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("PORT", "3000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Redis: RedisConfig{
			URL:          getString("REDIS_URL", "redis://localhost:6379"),
			RetryDelay:   getDuration("REDIS_RETRY_DELAY", 5*time.Second),
			PingInterval: getDuration("REDIS_PING_INTERVAL", 10*time.Second),
		},
		Queue: QueueConfig{
			Channel: getString("QUEUE_CHANNEL", "fila-de-trabalho"),
		},
		Auth: AuthConfig{
			SecretKey: os.Getenv("SECRET_KEY"),
		},
		Google: GoogleConfig{
			CredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
			RequestTimeout:  getDuration("GOOGLE_REQUEST_TIMEOUT", 10*time.Second),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getString("SMTP_PORT", "587"),
			User:     os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			From:     getString("EMAIL_FROM", "Equipe Pellume"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
	}

	return cfg, nil
}

// ValidateGateway reports the settings the gateway cannot run without.
func (c *Config) ValidateGateway() error {
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is not set")
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is not set")
	}
	return nil
}

// ValidateWorker reports the settings the worker cannot run without.
func (c *Config) ValidateWorker() error {
	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is not set")
	}
	if c.Google.CredentialsJSON == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_JSON is not set")
	}
	if c.SMTP.User == "" {
		return fmt.Errorf("EMAIL_USER is not set")
	}
	return nil
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
