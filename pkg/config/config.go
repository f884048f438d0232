package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env     string
	Server  ServerConfig
	Places  PlacesConfig
	Log     LogConfig
	OTEL    OTELConfig
	Metrics MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond float64
	RateLimitBurst     int
	AllowedOrigins     []string
}

// PlacesConfig holds places provider configuration
type PlacesConfig struct {
	Provider    string
	APIKey      string
	GeocodeURL  string
	NearbyURL   string
	DetailsURL  string
	Country     string
	PageDelay   time.Duration
	MaxPages    int
	HTTPTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled bool
}

// Load loads configuration from environment variables. Values from a .env
// file (ENV_FILE, default ".env") fill in variables not already set.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 1),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 5),
			AllowedOrigins:     getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Places: PlacesConfig{
			Provider:    getEnv("PLACES_PROVIDER", "google"),
			APIKey:      getEnv("GOOGLE_PLACES_API_KEY", getEnv("API_KEY", "")),
			GeocodeURL:  getEnv("PLACES_GEOCODE_URL", ""),
			NearbyURL:   getEnv("PLACES_NEARBY_URL", ""),
			DetailsURL:  getEnv("PLACES_DETAILS_URL", ""),
			Country:     getEnv("PLACES_COUNTRY", "Canada"),
			PageDelay:   getEnvAsDuration("PLACES_PAGE_DELAY", 2*time.Second),
			MaxPages:    getEnvAsInt("PLACES_MAX_PAGES", 10),
			HTTPTimeout: getEnvAsDuration("PLACES_HTTP_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "cafoodfinder"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable fallback
func (c *Config) Validate() error {
	switch c.Places.Provider {
	case "google":
		if c.Places.APIKey == "" {
			return fmt.Errorf("GOOGLE_PLACES_API_KEY is required for the google places provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown places provider %q", c.Places.Provider)
	}
	if c.Places.MaxPages <= 0 {
		return fmt.Errorf("PLACES_MAX_PAGES must be positive")
	}
	return nil
}

// ServerAddr returns the HTTP listen address
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
