package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Services ServicesConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecret string
}

// AIConfig holds completion-provider configuration
type AIConfig struct {
	Provider       string // "gemini" or "openai"
	GoogleAIAPIKey string
	OpenAIAPIKey   string
	Model          string
	RequestTimeout time.Duration
}

// ServicesConfig holds external service configuration
type ServicesConfig struct {
	WebAppURI string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	// Database configuration
	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	// Auth configuration
	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	// AI configuration
	cfg.AI.Provider = getEnvWithDefault("AI_PROVIDER", ProviderGemini)
	switch cfg.AI.Provider {
	case ProviderGemini:
		if cfg.AI.GoogleAIAPIKey, err = requireEnv("GOOGLE_AI_API_KEY"); err != nil {
			return nil, err
		}
		cfg.AI.Model = getEnvWithDefault("AI_MODEL", "gemini-2.5-flash")
	case ProviderOpenAI:
		if cfg.AI.OpenAIAPIKey, err = requireEnv("OPENAI_API_KEY"); err != nil {
			return nil, err
		}
		cfg.AI.Model = getEnvWithDefault("AI_MODEL", "gpt-4o-mini")
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AI.Provider)
	}

	timeoutSeconds := getEnvWithDefault("AI_REQUEST_TIMEOUT", "120")
	seconds, err := strconv.Atoi(timeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AI_REQUEST_TIMEOUT: %w", err)
	}
	cfg.AI.RequestTimeout = time.Duration(seconds) * time.Second

	// Services configuration
	if cfg.Services.WebAppURI, err = requireEnv("WEBAPP_URI"); err != nil {
		return nil, err
	}

	// Server configuration
	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
