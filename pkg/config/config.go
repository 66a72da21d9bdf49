package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream UpstreamConfig
	Grid     GridConfig
	Redis    RedisConfig
	Cache    CacheConfig
	CORS     CORSConfig
	Log      LogConfig
	Reports  ReportsConfig
}

// UpstreamConfig points the gateway at the school API that owns all records.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GridConfig describes the payment grid catalog. Years may be empty, in which
// case the window is seeded from the upstream clock.
type GridConfig struct {
	Years        []int
	MonthLabels  []string
	SpecialTypes []SpecialType
	SessionTTL   time.Duration
	LedgerLimit  int
}

// SpecialType is a non-monthly payment category shown on the grid.
type SpecialType struct {
	ID    string
	Label string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs the optional inventory cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReportsConfig configures asynchronous payment ledger generation.
type ReportsConfig struct {
	Enabled           bool
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	ResultTTL         time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL: strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 10*time.Second),
	}

	years, err := parseYears(v.GetString("GRID_YEARS"))
	if err != nil {
		return nil, err
	}
	specials, err := parseSpecialTypes(v.GetString("GRID_SPECIAL_TYPES"))
	if err != nil {
		return nil, err
	}
	months := splitAndTrim(v.GetString("GRID_MONTH_LABELS"))
	if len(months) != 12 {
		return nil, fmt.Errorf("GRID_MONTH_LABELS must list 12 labels, got %d", len(months))
	}
	cfg.Grid = GridConfig{
		Years:        years,
		MonthLabels:  months,
		SpecialTypes: specials,
		SessionTTL:   parseDuration(v.GetString("GRID_SESSION_TTL"), 30*time.Minute),
		LedgerLimit:  v.GetInt("LEDGER_CONCURRENCY"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Reports = ReportsConfig{
		Enabled:           v.GetBool("ENABLE_REPORTS"),
		StorageDir:        v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		ResultTTL:         parseDuration(v.GetString("REPORTS_RESULT_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("REPORTS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("REPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("REPORTS_WORKER_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:8000")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")

	v.SetDefault("GRID_YEARS", "")
	v.SetDefault("GRID_MONTH_LABELS", "Ene,Feb,Mar,Abr,May,Jun,Jul,Ago,Sep,Oct,Nov,Dic")
	v.SetDefault("GRID_SPECIAL_TYPES", "inscripcion:Inscripción,gastos_varios:Gastos Varios")
	v.SetDefault("GRID_SESSION_TTL", "30m")
	v.SetDefault("LEDGER_CONCURRENCY", 4)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "1m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_REPORTS", false)
	v.SetDefault("REPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("REPORTS_RESULT_TTL", "24h")
	v.SetDefault("REPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("REPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("REPORTS_WORKER_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func parseYears(raw string) ([]int, error) {
	parts := splitAndTrim(raw)
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		year, err := strconv.Atoi(part)
		if err != nil || year <= 0 {
			return nil, fmt.Errorf("invalid GRID_YEARS entry %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}

// parseSpecialTypes reads "id:Label,id2:Label 2". A bare id doubles as its label.
func parseSpecialTypes(raw string) ([]SpecialType, error) {
	parts := splitAndTrim(raw)
	result := make([]SpecialType, 0, len(parts))
	for _, part := range parts {
		id, label, found := strings.Cut(part, ":")
		id = strings.TrimSpace(id)
		label = strings.TrimSpace(label)
		if id == "" {
			return nil, fmt.Errorf("invalid GRID_SPECIAL_TYPES entry %q", part)
		}
		if !found || label == "" {
			label = id
		}
		result = append(result, SpecialType{ID: id, Label: label})
	}
	return result, nil
}
