// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Parser      ParserConfig
	Matching    MatchingConfig
	Anomaly     AnomalyConfig
	Worker      WorkerConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type ParserConfig struct {
	SellTags    []string
	BuyTags     []string
	TradeTags   []string
	ServiceTags []string
	HireTags    []string
}

type MatchingConfig struct {
	// AcceptThreshold and above resolves automatically; between
	// SuggestThreshold and AcceptThreshold the name is queued with a
	// suggestion attached; below it the name is queued cold.
	AcceptThreshold  float64
	SuggestThreshold float64
	CatalogTTL       int // seconds
	ResolveCacheTTL  int // seconds
}

type AnomalyConfig struct {
	ThresholdPercent float64
	WindowDays       int
	MinSamples       int
}

type WorkerConfig struct {
	PollInterval  int // seconds
	BatchSize     int
	Concurrency   int
	RetryAttempts int
	RetryBaseMs   int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "tg_market"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Parser: ParserConfig{
			SellTags:    getEnvAsSlice("PARSER_SELL_TAGS", nil),
			BuyTags:     getEnvAsSlice("PARSER_BUY_TAGS", nil),
			TradeTags:   getEnvAsSlice("PARSER_TRADE_TAGS", nil),
			ServiceTags: getEnvAsSlice("PARSER_SERVICE_TAGS", nil),
			HireTags:    getEnvAsSlice("PARSER_HIRE_TAGS", nil),
		},
		Matching: MatchingConfig{
			AcceptThreshold:  getEnvAsFloat("MATCH_ACCEPT_THRESHOLD", 85),
			SuggestThreshold: getEnvAsFloat("MATCH_SUGGEST_THRESHOLD", 70),
			CatalogTTL:       getEnvAsInt("MATCH_CATALOG_TTL", 60),
			ResolveCacheTTL:  getEnvAsInt("MATCH_RESOLVE_CACHE_TTL", 600),
		},
		Anomaly: AnomalyConfig{
			ThresholdPercent: getEnvAsFloat("ANOMALY_THRESHOLD_PERCENT", 50),
			WindowDays:       getEnvAsInt("ANOMALY_WINDOW_DAYS", 7),
			MinSamples:       getEnvAsInt("ANOMALY_MIN_SAMPLES", 3),
		},
		Worker: WorkerConfig{
			PollInterval:  getEnvAsInt("WORKER_POLL_INTERVAL", 10),
			BatchSize:     getEnvAsInt("WORKER_BATCH_SIZE", 100),
			Concurrency:   getEnvAsInt("WORKER_CONCURRENCY", 4),
			RetryAttempts: getEnvAsInt("WORKER_RETRY_ATTEMPTS", 3),
			RetryBaseMs:   getEnvAsInt("WORKER_RETRY_BASE_MS", 50),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Matching.SuggestThreshold > c.Matching.AcceptThreshold {
		return fmt.Errorf("suggest threshold must not exceed accept threshold")
	}

	if c.Anomaly.MinSamples < 1 {
		return fmt.Errorf("anomaly min samples must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
