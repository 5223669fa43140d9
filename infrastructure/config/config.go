package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	SnapshotTable string

	// Generator configuration
	OpenAIAPIKey   string
	OpenAIModel    string
	GenTemperature float64
	GenMaxTokens   int

	// Planner configuration
	AutoExpandDelayMillis int
	SynthesisProbability  float64
	PlannerSeed           int64

	// Authentication
	JWTSecret  string
	JWTIssuer  string
	EnableAuth bool

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		SnapshotTable: getEnv("SNAPSHOT_TABLE", "inquiry-complexes"),

		// Generator configuration
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GenTemperature: getEnvFloat("GEN_TEMPERATURE", 0.7),
		GenMaxTokens:   getEnvInt("GEN_MAX_TOKENS", 1024),

		// Planner configuration
		AutoExpandDelayMillis: getEnvInt("AUTO_EXPAND_DELAY_MS", 500),
		SynthesisProbability:  getEnvFloat("SYNTHESIS_PROBABILITY", 0.3),
		PlannerSeed:           int64(getEnvInt("PLANNER_SEED", 0)),

		// Authentication
		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTIssuer:  getEnv("JWT_ISSUER", "inquiry-backend"),
		EnableAuth: getEnvBool("ENABLE_AUTH", false),

		// Logging and features
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required in production")
		}
		if c.EnableAuth && c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when auth is enabled")
		}
		if c.SnapshotTable == "" {
			return fmt.Errorf("SNAPSHOT_TABLE is required")
		}
	}
	if c.SynthesisProbability < 0 || c.SynthesisProbability > 1 {
		return fmt.Errorf("SYNTHESIS_PROBABILITY must be between 0 and 1")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
