package initializers

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the environment-driven settings for the service.
type Config struct {
	Port        string
	DBDriver    string // "postgres" or "sqlite"
	DBURL       string
	CORSOrigins []string

	// Empty secret leaves the stats pages public.
	ReportJWTSecret string
	RecordDownloads bool
	RateLimitRPS    float64
	RateLimitBurst  int
	ReportCacheTTL  time.Duration

	ArtifactsFile  string
	AWSRegion      string
	AWSBucket      string
	DownloadURLTTL time.Duration
}

// LoadConfig reads the process environment, loading .env first when present.
func LoadConfig() (Config, error) {
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️  Warning: No .env file found. Using system environment variables.")
		}
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:            envOr(getenv, "PORT", "8080"),
		DBDriver:        strings.ToLower(envOr(getenv, "DB_DRIVER", "postgres")),
		DBURL:           getenv("DB_URL"),
		CORSOrigins:     splitList(envOr(getenv, "CORS_ORIGINS", "http://localhost:3000")),
		ReportJWTSecret: getenv("REPORT_JWT_SECRET"),
		ArtifactsFile:   envOr(getenv, "ARTIFACTS_FILE", "artifacts.yaml"),
		AWSRegion:       getenv("AWS_REGION"),
		AWSBucket:       getenv("AWS_BUCKET_NAME"),
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}
	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is not set in environment variables")
	}

	var err error
	if cfg.RecordDownloads, err = parseBool(getenv, "RECORD_DOWNLOADS", false); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = parseFloat(getenv, "RATE_LIMIT_RPS", 1); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = parseInt(getenv, "RATE_LIMIT_BURST", 5); err != nil {
		return Config{}, err
	}
	if cfg.ReportCacheTTL, err = parseDuration(getenv, "REPORT_CACHE_TTL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DownloadURLTTL, err = parseDuration(getenv, "DOWNLOAD_URL_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if cfg.DownloadURLTTL <= 0 {
		return Config{}, fmt.Errorf("DOWNLOAD_URL_TTL must be positive")
	}
	return cfg, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(getenv func(string) string, key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseInt(getenv func(string) string, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseFloat(getenv func(string) string, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseDuration(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return v, nil
}
