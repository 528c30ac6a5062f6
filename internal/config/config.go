package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "DASH"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Reports   ReportsConfig   `yaml:"reports" envconfig:"REPORTS"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Archive   ArchiveConfig   `yaml:"archive" envconfig:"ARCHIVE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	ExportTimeout   time.Duration `yaml:"export_timeout" envconfig:"EXPORT_TIMEOUT" default:"2m"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/dashboard.log"`
}

// ReportsConfig describes the upstream report endpoints
type ReportsConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"BASE_URL" default:"http://localhost:5000/api"`
	Token             string        `yaml:"token" envconfig:"TOKEN"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"20s"`
	MaxTrendDays      int           `yaml:"max_trend_days" envconfig:"MAX_TREND_DAYS" default:"30"`
	TopItemsLimit     int           `yaml:"top_items_limit" envconfig:"TOP_ITEMS_LIMIT" default:"10"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" default:"0"`
	// Timezone names the calendar the report dates belong to. Timestamps
	// from the sources are converted into it before they are keyed by day.
	Timezone string `yaml:"timezone" envconfig:"TIMEZONE" default:"Asia/Kolkata"`
}

// Location resolves Timezone, falling back to UTC when unset or unknown
func (c ReportsConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ChartsConfig controls chart rendering
type ChartsConfig struct {
	Width                 int     `yaml:"width" envconfig:"WIDTH" default:"800"`
	Height                int     `yaml:"height" envconfig:"HEIGHT" default:"400"`
	ApproximateItemSeries bool    `yaml:"approximate_item_series" envconfig:"APPROXIMATE_ITEM_SERIES" default:"true"`
	Jitter                float64 `yaml:"jitter" envconfig:"JITTER" default:"0.15"`
	Seed                  uint64  `yaml:"seed" envconfig:"SEED" default:"0"`
	// CacheTTL is how long a published state is reused before a new cycle runs
	CacheTTL time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"5m"`
}

// ExportConfig controls the export engine
type ExportConfig struct {
	PrintRowsPerSection int    `yaml:"print_rows_per_section" envconfig:"PRINT_ROWS_PER_SECTION" default:"50"`
	CurrencySymbol      string `yaml:"currency_symbol" envconfig:"CURRENCY_SYMBOL" default:"₹"`
	Locale              string `yaml:"locale" envconfig:"LOCALE" default:"en-IN"`
	Title               string `yaml:"title" envconfig:"TITLE" default:"Sales Analytics Report"`
	ChromePath          string `yaml:"chrome_path" envconfig:"CHROME_PATH"`
	Headless            bool   `yaml:"headless" envconfig:"HEADLESS" default:"true"`
}

// ArchiveConfig configures the optional S3 archive of exports
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled" envconfig:"ENABLED" default:"false"`
	Bucket    string `yaml:"bucket" envconfig:"BUCKET"`
	Region    string `yaml:"region" envconfig:"REGION" default:"us-east-1"`
	Prefix    string `yaml:"prefix" envconfig:"PREFIX" default:"analytics"`
	Endpoint  string `yaml:"endpoint" envconfig:"ENDPOINT"`
	AccessKey string `yaml:"access_key" envconfig:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"SECRET_KEY"`
}

// TelemetryConfig toggles tracing and metrics
type TelemetryConfig struct {
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING" default:"false"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS" default:"true"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1"`
}

// Load loads configuration from .env, environment variables and an optional
// YAML file. Precedence is environment, then file, then defaults.
func Load() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile decodes a YAML file over base. Keys absent from the file keep
// the value from base.
func loadFromFile(filePath string, base Config) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs returns fileConfig with every field whose environment
// variable is set taken from envConfig.
func mergeConfigs(fileConfig, envConfig Config) Config {
	overlayEnv(reflect.ValueOf(&fileConfig).Elem(), reflect.ValueOf(envConfig), EnvPrefix)
	return fileConfig
}

// overlayEnv walks dst alongside src and builds each variable name from the
// envconfig tags the way envconfig does, PREFIX_SECTION_FIELD.
func overlayEnv(dst, src reflect.Value, prefix string) {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("envconfig")
		if tag == "" || !field.IsExported() {
			continue
		}
		key := strings.ToUpper(prefix + "_" + tag)

		if field.Type.Kind() == reflect.Struct {
			overlayEnv(dst.Field(i), src.Field(i), key)
			continue
		}
		if _, ok := os.LookupEnv(key); ok {
			dst.Field(i).Set(src.Field(i))
		}
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	u, err := url.Parse(c.Reports.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid reports base url: %q", c.Reports.BaseURL)
	}

	if c.Reports.Timezone != "" {
		if _, err := time.LoadLocation(c.Reports.Timezone); err != nil {
			return fmt.Errorf("invalid reports timezone %q: %w", c.Reports.Timezone, err)
		}
	}

	if c.Reports.MaxTrendDays <= 0 {
		return fmt.Errorf("max trend days must be positive")
	}

	if c.Charts.Jitter < 0 || c.Charts.Jitter >= 1 {
		return fmt.Errorf("chart jitter must be in [0,1): %v", c.Charts.Jitter)
	}

	if c.Export.PrintRowsPerSection < 0 {
		return fmt.Errorf("print rows per section cannot be negative")
	}

	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("archive bucket is required when archive is enabled")
	}

	c.Logging.Format = "json"
	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/dashboard.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			ExportTimeout:   2 * time.Minute,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/dashboard.log",
		},
		Reports: ReportsConfig{
			BaseURL:       "http://localhost:5000/api",
			Timeout:       20 * time.Second,
			MaxTrendDays:  30,
			TopItemsLimit: 10,
			Timezone:      "Asia/Kolkata",
		},
		Charts: ChartsConfig{
			Width:                 800,
			Height:                400,
			ApproximateItemSeries: true,
			Jitter:                0.15,
			CacheTTL:              5 * time.Minute,
		},
		Export: ExportConfig{
			PrintRowsPerSection: 50,
			CurrencySymbol:      "₹",
			Locale:              "en-IN",
			Title:               "Sales Analytics Report",
			Headless:            true,
		},
		Archive: ArchiveConfig{
			Region: "us-east-1",
			Prefix: "analytics",
		},
		Telemetry: TelemetryConfig{
			Environment:   "development",
			EnableMetrics: true,
			SampleRatio:   1,
		},
	}
}
