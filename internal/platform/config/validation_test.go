package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "quote-widget",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1048576,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Providers: ProvidersConfig{
			Quotable: ProviderEndpointConfig{
				Enabled: true,
				Name:    "quotable",
				BaseURL: "https://api.quotable.io",
			},
			ZenQuotes: ProviderEndpointConfig{
				Enabled: true,
				Name:    "zenquotes",
				BaseURL: "https://zenquotes.io/api",
			},
		},
		Acquisition: AcquisitionConfig{
			RetryHistoryLimit: 10,
			HistoryCap:        50,
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   "./data/favorites.json",
		},
		Favorites: FavoritesConfig{
			Key:         "favoriteQuotes",
			RecentLimit: 5,
		},
		Widget: WidgetConfig{
			DefaultCategory:     "all",
			CategoryChangeDelay: 150 * time.Millisecond,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing app name", func(c *Config) { c.App.Name = "" }, "app.name is required"},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" }, "app.environment must be one of"},
		{"port too high", func(c *Config) { c.Server.Port = 65536 }, "server.port must be at most 65535"},
		{"missing host", func(c *Config) { c.Server.Host = "" }, "server.host is required"},
		{"read timeout below 1s", func(c *Config) { c.Server.ReadTimeout = time.Millisecond }, "server.read_timeout must be at least"},
		{"zero request size", func(c *Config) { c.Server.MaxRequestSize = 0 }, "server.max_request_size is required"},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level must be one of"},
		{"log level is case sensitive", func(c *Config) { c.Log.Level = "INFO" }, "log.level must be one of"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format must be one of"},
		{"log file without path", func(c *Config) {
			c.Log.File.Enabled = true
			c.Log.File.Path = ""
		}, "log.file.path is required when"},
		{"log file too large", func(c *Config) {
			c.Log.File.Enabled = true
			c.Log.File.Path = "/var/log/quote-widget.log"
			c.Log.File.MaxSizeMB = 1025
		}, "log.file.max_size must be at most 1024"},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.ServiceName = "quote-widget"
		}, "telemetry.endpoint is required when"},
		{"telemetry endpoint is not host:port", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = "http://collector"
			c.Telemetry.ServiceName = "quote-widget"
		}, "telemetry.endpoint must be host:port"},
		{"telemetry without service name", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = "localhost:4317"
		}, "telemetry.service_name is required when"},
		{"negative sampling rate", func(c *Config) { c.Telemetry.SamplingRate = -0.1 }, "telemetry.sampling_rate must be at least 0"},
		{"sampling rate above one", func(c *Config) { c.Telemetry.SamplingRate = 1.1 }, "telemetry.sampling_rate must be at most 1"},
		{"client timeout too short", func(c *Config) { c.Client.Timeout = 10 * time.Millisecond }, "client.timeout must be at least"},
		{"no attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 0 }, "client.retry.max_attempts is required"},
		{"too many attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 11 }, "client.retry.max_attempts must be at most 10"},
		{"initial interval too short", func(c *Config) { c.Client.Retry.InitialInterval = time.Millisecond }, "client.retry.initial_interval must be at least"},
		{"max interval too short", func(c *Config) { c.Client.Retry.MaxInterval = 10 * time.Millisecond }, "client.retry.max_interval must be at least"},
		{"multiplier too small", func(c *Config) { c.Client.Retry.Multiplier = 1.0 }, "client.retry.multiplier must be at least 1.1"},
		{"jitter above one", func(c *Config) { c.Client.Retry.JitterFactor = 1.5 }, "client.retry.jitter_factor must be at most 1"},
		{"no breaker threshold", func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, "client.circuit_breaker.max_failures is required"},
		{"breaker cooldown too short", func(c *Config) { c.Client.CircuitBreaker.Timeout = time.Millisecond }, "client.circuit_breaker.timeout must be at least"},
		{"no half-open probes", func(c *Config) { c.Client.CircuitBreaker.HalfOpenLimit = 0 }, "client.circuit_breaker.half_open_limit is required"},
		{"enabled provider without url", func(c *Config) { c.Providers.Quotable.BaseURL = "" }, "providers.quotable.base_url is required when"},
		{"provider url malformed", func(c *Config) { c.Providers.ZenQuotes.BaseURL = "not a url" }, "providers.zenquotes.base_url must be a valid URL"},
		{"provider without name", func(c *Config) { c.Providers.Quotable.Name = "" }, "providers.quotable.name is required"},
		{"no history cap", func(c *Config) { c.Acquisition.HistoryCap = 0 }, "acquisition.history_cap is required"},
		{"retry limit below off", func(c *Config) { c.Acquisition.RetryHistoryLimit = -2 }, "acquisition.retry_history_limit must be at least -1"},
		{"file storage without path", func(c *Config) { c.Storage.Path = "" }, "storage.path is required unless"},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "redis" }, "storage.driver must be one of"},
		{"no favorites key", func(c *Config) { c.Favorites.Key = "" }, "favorites.key is required"},
		{"recent limit too high", func(c *Config) { c.Favorites.RecentLimit = 101 }, "favorites.recent_limit must be at most 100"},
		{"unknown default category", func(c *Config) { c.Widget.DefaultCategory = "funny" }, "widget.default_category must be one of"},
		{"negative category delay", func(c *Config) { c.Widget.CategoryChangeDelay = -time.Second }, "widget.category_change_delay must be at least 0"},
		{"bad refresh schedule", func(c *Config) { c.Widget.RefreshSchedule = "every now and then" }, "widget.refresh_schedule is not a valid cron expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Validate_Accepts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"every environment", func(c *Config) { c.App.Environment = "prod" }},
		{"trace logging", func(c *Config) { c.Log.Level = "trace" }},
		{"pretty logs", func(c *Config) { c.Log.Format = "pretty" }},
		{"disabled log file without path", func(c *Config) { c.Log.File = LogFileConfig{} }},
		{"disabled telemetry without endpoint", func(c *Config) { c.Telemetry = TelemetryConfig{} }},
		{"telemetry with collector", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "localhost:4317", Insecure: true, ServiceName: "quote-widget", SamplingRate: 0.5}
		}},
		{"disabled provider without url", func(c *Config) {
			c.Providers.ZenQuotes.Enabled = false
			c.Providers.ZenQuotes.BaseURL = ""
		}},
		{"retries disabled", func(c *Config) { c.Acquisition.RetryHistoryLimit = -1 }},
		{"default retry limit", func(c *Config) { c.Acquisition.RetryHistoryLimit = 0 }},
		{"retry limit above cap", func(c *Config) {
			c.Acquisition.RetryHistoryLimit = 100
			c.Acquisition.HistoryCap = 5
		}},
		{"memory storage without path", func(c *Config) { c.Storage = StorageConfig{Driver: "memory"} }},
		{"sqlite storage", func(c *Config) { c.Storage = StorageConfig{Driver: "sqlite", Path: "favorites.db"} }},
		{"no category delay", func(c *Config) { c.Widget.CategoryChangeDelay = 0 }},
		{"cron refresh schedule", func(c *Config) { c.Widget.RefreshSchedule = "*/5 * * * *" }},
		{"descriptor refresh schedule", func(c *Config) { c.Widget.RefreshSchedule = "@every 5m" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_ListsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Server.Port = 0
	cfg.Widget.RefreshSchedule = "nope"

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "config validation failed:"))
	assert.Contains(t, msg, "app.name")
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, "widget.refresh_schedule")
}

func TestKeyPath(t *testing.T) {
	assert.Equal(t, "server.port", keyPath("Config.server.port"))
	assert.Equal(t, "client.retry.max_attempts", keyPath("Config.client.retry.max_attempts"))
	assert.Equal(t, "Config", keyPath("Config"))
}
