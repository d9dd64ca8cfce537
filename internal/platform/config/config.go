// Package config loads the widget configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults shared by the loader and the components that need a fallback.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	// DefaultClientRetryMaxAttempts is one: a failing provider hands over
	// to the next one rather than being retried.
	DefaultClientRetryMaxAttempts     = 1
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10
	DefaultTransportIdleConnTimeout     = 90 * time.Second

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// DefaultRetryHistoryLimit is the history size below which a repeated
	// quote is fetched once more.
	DefaultRetryHistoryLimit = 10
	// DefaultHistoryCap is the history size past which shown ids are forgotten.
	DefaultHistoryCap = 50

	DefaultFavoritesKey         = "favoriteQuotes"
	DefaultFavoritesRecentLimit = 5

	// DefaultCategoryChangeDelay separates a category switch from the fetch it starts.
	DefaultCategoryChangeDelay = 150 * time.Millisecond
)

// Config is the root configuration structure.
type Config struct {
	App         AppConfig         `koanf:"app"         validate:"required"`
	Server      ServerConfig      `koanf:"server"      validate:"required"`
	Log         LogConfig         `koanf:"log"         validate:"required"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	Client      ClientConfig      `koanf:"client"      validate:"required"`
	Providers   ProvidersConfig   `koanf:"providers"   validate:"required"`
	Acquisition AcquisitionConfig `koanf:"acquisition" validate:"required"`
	Storage     StorageConfig     `koanf:"storage"     validate:"required"`
	Favorites   FavoritesConfig   `koanf:"favorites"   validate:"required"`
	Clipboard   ClipboardConfig   `koanf:"clipboard"`
	Widget      WidgetConfig      `koanf:"widget"      validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,hostname_port"`
	Insecure     bool    `koanf:"insecure"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains HTTP client settings shared by the remote quote providers.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// ProvidersConfig lists the quote sources in priority order.
type ProvidersConfig struct {
	Quotable  ProviderEndpointConfig `koanf:"quotable"  validate:"required"`
	ZenQuotes ProviderEndpointConfig `koanf:"zenquotes" validate:"required"`
	Fallback  FallbackConfig         `koanf:"fallback"`
}

// ProviderEndpointConfig configures one remote quote provider.
type ProviderEndpointConfig struct {
	Enabled bool   `koanf:"enabled"`
	Name    string `koanf:"name"     validate:"required"`
	BaseURL string `koanf:"base_url" validate:"required_if=Enabled true,omitempty,url"`
}

// FallbackConfig configures the static quote list.
// An empty File uses the built-in list.
type FallbackConfig struct {
	File string `koanf:"file"`
}

// AcquisitionConfig controls repeat suppression.
type AcquisitionConfig struct {
	// RetryHistoryLimit of 0 falls back to DefaultRetryHistoryLimit; -1 turns
	// the repeat retry off.
	RetryHistoryLimit int `koanf:"retry_history_limit" validate:"min=-1"`
	HistoryCap        int `koanf:"history_cap"         validate:"required,min=1"`
}

// StorageConfig selects the favorites backend.
type StorageConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=file sqlite memory"`
	Path   string `koanf:"path"   validate:"required_unless=Driver memory"`
}

// FavoritesConfig contains favorites settings.
type FavoritesConfig struct {
	Key         string `koanf:"key"          validate:"required"`
	RecentLimit int    `koanf:"recent_limit" validate:"required,min=1,max=100"`
}

// ClipboardConfig contains clipboard settings.
// An empty Command autodetects pbcopy, wl-copy, xclip or xsel.
type ClipboardConfig struct {
	Command string `koanf:"command"`
	Legacy  bool   `koanf:"legacy"`
}

// WidgetConfig contains session behavior settings.
type WidgetConfig struct {
	DefaultCategory     string        `koanf:"default_category"      validate:"required,oneof=all inspirational life success wisdom"`
	CategoryChangeDelay time.Duration `koanf:"category_change_delay" validate:"min=0"`
	RefreshSchedule     string        `koanf:"refresh_schedule"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quote-widget",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "127.0.0.1",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quote-widget.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quote-widget",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "2s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"providers.quotable.enabled":   true,
		"providers.quotable.name":      "quotable",
		"providers.quotable.base_url":  "https://api.quotable.io",
		"providers.zenquotes.enabled":  true,
		"providers.zenquotes.name":     "zenquotes",
		"providers.zenquotes.base_url": "https://zenquotes.io/api",
		"providers.fallback.file":      "",

		"acquisition.retry_history_limit": DefaultRetryHistoryLimit,
		"acquisition.history_cap":         DefaultHistoryCap,

		"storage.driver": "file",
		"storage.path":   "./data/favorites.json",

		"favorites.key":          DefaultFavoritesKey,
		"favorites.recent_limit": DefaultFavoritesRecentLimit,

		"clipboard.command": "",
		"clipboard.legacy":  true,

		"widget.default_category":      "all",
		"widget.category_change_delay": DefaultCategoryChangeDelay.String(),
		"widget.refresh_schedule":      "",
	}
}

// Load builds the configuration from, lowest precedence first: defaults,
// configs/base.yaml, configs/{profile}.yaml and APP_ environment variables.
// Missing files are skipped.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")
	base := defaults()

	if err := k.Load(confmap.Provider(base, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{"configs/base.yaml"}
	if profile != "" {
		files = append(files, fmt.Sprintf("configs/%s.yaml", profile))
	}

	for _, path := range files {
		if err := loadFileIfExists(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(base)), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

const envPrefix = "APP_"

// envKeyMapper maps APP_ACQUISITION_HISTORY_CAP to acquisition.history_cap.
// Keys with underscores are resolved against the known keys; anything else
// splits on every underscore.
func envKeyMapper(known map[string]any) func(string) string {
	flat := make(map[string]string, len(known))
	for key := range known {
		flat[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key, ok := flat[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
