// Package config loads service settings from the environment, with an
// optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Flags are the product switches the orchestrator consults on every request.
type Flags struct {
	// BetaMode returns previews to everyone and skips the preview quota.
	BetaMode bool
	// MonetizationEnabled=false returns full reports to everyone.
	MonetizationEnabled bool
	AccessTokens        []string
}

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	// LogFormat is json or text.
	LogFormat string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NATSURL string

	ScrapeTimeout time.Duration
	ScrapeMode    string
	ChromeBin     string

	FreePreviewLimit  int
	FreePreviewWindow time.Duration

	Flags Flags

	OTLPEndpoint string
	CORSOrigins  []string

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// Load reads .env if present, then the process environment.
func Load() *Config {
	loaded := godotenv.Load() == nil
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DB_DSN", "revenue.db"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		NATSURL: getEnv("NATS_URL", ""),

		ScrapeTimeout: getEnvDuration("SCRAPE_TIMEOUT", 10*time.Second),
		ScrapeMode:    getEnv("SCRAPE_MODE", "http"),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		FreePreviewLimit:  getEnvInt("FREE_PREVIEW_LIMIT", 3),
		FreePreviewWindow: getEnvDuration("FREE_PREVIEW_WINDOW", 24*time.Hour),

		Flags: Flags{
			BetaMode:            getEnvBool("BETA_MODE", false),
			MonetizationEnabled: getEnvBool("MONETIZATION_ENABLED", true),
			AccessTokens:        getEnvList("ACCESS_TOKENS"),
		},

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		CORSOrigins:  getEnvList("CORS_ORIGINS"),

		EnvFileLoaded: loaded,
	}
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
