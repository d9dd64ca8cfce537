package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/m-mizutani/masq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	return entry
}

func TestFromContext(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewJSONHandler(io.Discard, nil))

	assert.Equal(t, defaultLogger, FromContext(nil)) //nolint:staticcheck // nil guard
	assert.Equal(t, defaultLogger, FromContext(context.Background()))
	assert.Equal(t, custom, FromContext(WithContext(context.Background(), custom)))

	assert.Equal(t, fallback, FromContextOr(context.Background(), fallback))
	assert.Equal(t, custom, FromContextOr(WithContext(context.Background(), custom), fallback))

	_, ok := Lookup(context.Background())
	assert.False(t, ok)

	got, ok := Lookup(WithContext(context.Background(), custom))
	assert.True(t, ok)
	assert.Equal(t, custom, got)
}

func TestContextIDs(t *testing.T) {
	var buf bytes.Buffer

	ctx := WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithTraceID(ctx, "trace-456")
	ctx = WithCorrelationID(ctx, "corr-789")

	FromContext(ctx).Info("quote fetched")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "trace-456", entry["trace_id"])
	assert.Equal(t, "corr-789", entry["correlation_id"])
}

func TestSetDefault(t *testing.T) {
	previous := defaultLogger
	t.Cleanup(func() { SetDefault(previous) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	SetDefault(logger)

	assert.Equal(t, logger, FromContext(context.Background()))
	assert.Equal(t, logger, slog.Default())
}

func TestNewWithWriter_Formats(t *testing.T) {
	cfg := &Config{Level: "info", Service: "quote-widget", Version: "1.2.3"}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		c := *cfg
		c.Format = "json"

		NewWithWriter(&c, &buf).Info("quote shown", slog.String("provider", "quotable"))

		entry := decodeLine(t, &buf)
		assert.Equal(t, "quote shown", entry["msg"])
		assert.Equal(t, "quotable", entry["provider"])
		assert.Equal(t, "quote-widget", entry["service_name"])
		assert.Equal(t, "1.2.3", entry["service_version"])
	})

	for _, format := range []string{"text", "pretty", ""} {
		t.Run("format "+format, func(t *testing.T) {
			var buf bytes.Buffer
			c := *cfg
			c.Format = format

			NewWithWriter(&c, &buf).Info("quote shown")

			assert.Contains(t, buf.String(), "quote shown")
		})
	}
}

func TestNewWithWriter_RollingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote-widget.log")

	var buf bytes.Buffer
	logger := NewWithWriter(&Config{
		Level:  "info",
		Format: "pretty",
		File:   FileConfig{Enabled: true, Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	}, &buf)

	logger.Info("favorite saved", slog.String("quote_id", "q-1"))

	assert.Contains(t, buf.String(), "favorite saved")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"quote_id":"q-1"`)
}

func TestNewWithWriter_Levels(t *testing.T) {
	tests := []struct {
		level   string
		emitted []slog.Level
		dropped []slog.Level
	}{
		{"trace", []slog.Level{LevelTrace, slog.LevelDebug}, nil},
		{"debug", []slog.Level{slog.LevelDebug}, []slog.Level{LevelTrace}},
		{"warning", []slog.Level{slog.LevelWarn}, []slog.Level{slog.LevelInfo}},
		{"error", []slog.Level{slog.LevelError}, []slog.Level{slog.LevelWarn}},
		{"bogus", []slog.Level{slog.LevelInfo}, []slog.Level{slog.LevelDebug}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&Config{Level: tt.level, Format: "json"}, &buf)

			for _, l := range tt.dropped {
				logger.Log(context.Background(), l, "dropped")
			}
			assert.Empty(t, buf.String())

			for _, l := range tt.emitted {
				logger.Log(context.Background(), l, "emitted")
			}
			assert.Contains(t, buf.String(), "emitted")
		})
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, slogToCharmLevel(LevelTrace))
	assert.Equal(t, log.DebugLevel, slogToCharmLevel(slog.LevelDebug))
	assert.Equal(t, log.InfoLevel, slogToCharmLevel(slog.LevelInfo))
	assert.Equal(t, log.WarnLevel, slogToCharmLevel(slog.LevelWarn))
	assert.Equal(t, log.ErrorLevel, slogToCharmLevel(slog.LevelError))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") } //nolint:gocritic // interface

func TestTee(t *testing.T) {
	var info, debug bytes.Buffer

	h := Tee(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, h.Enabled(context.Background(), LevelTrace))

	logger := slog.New(h).WithGroup("acquire").With(slog.String("category", "life"))
	logger.Debug("fetching")
	logger.Info("shown")

	assert.NotContains(t, info.String(), "fetching")
	assert.Contains(t, info.String(), "shown")
	assert.Contains(t, debug.String(), "fetching")
	assert.Contains(t, debug.String(), `"acquire":{"category":"life"}`)

	var ok bytes.Buffer
	broken := Tee(failingHandler{slog.NewJSONHandler(io.Discard, nil)}, slog.NewJSONHandler(&ok, nil))
	err := broken.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still written", 0))

	require.Error(t, err)
	assert.Contains(t, ok.String(), "still written")
}

func TestNewReplaceAttr(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		redact bool
	}{
		{"api key", "api_key", "k-123", true},
		{"token", "token", "t-123", true},
		{"authorization", "authorization", "Bearer abc123", true},
		{"secret prefix", "secret_value", "s-123", true},
		{"bearer value", "header", "Bearer xyz789", true},
		{"key in query", "url", "https://quotes.example/random?api_key=abcdef", true},
		{"zenquotes key path", "url", "https://zenquotes.io/api/random/0123456789abcdef0123", true},
		{"quote text", "text", "Stay hungry, stay foolish.", false},
		{"plain provider url", "url", "https://api.quotable.io/random?tags=life", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: NewReplaceAttr()}))

			logger.Info("provider request", slog.String(tt.key, tt.value))

			if tt.redact {
				assert.NotContains(t, buf.String(), tt.value)
				assert.Contains(t, buf.String(), tt.key)
			} else {
				assert.Contains(t, buf.String(), tt.value)
			}
		})
	}
}

func TestNewReplaceAttr_Extra(t *testing.T) {
	var buf bytes.Buffer
	replace := NewReplaceAttr(masq.WithFieldName("clipboard_command"))
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: replace}))

	logger.Info("copy", slog.String("clipboard_command", "xclip -selection clipboard"))

	assert.NotContains(t, buf.String(), "xclip")
}

func TestNewWithWriter_PrettyRedacts(t *testing.T) {
	tests := []struct {
		name string
		log  func(*slog.Logger)
		leak string
	}{
		{"record attr", func(l *slog.Logger) { l.Info("provider request", slog.String("api_key", "k-pretty-123")) }, "k-pretty-123"},
		{"bearer value", func(l *slog.Logger) { l.Info("provider request", slog.String("header", "Bearer xyz789")) }, "xyz789"},
		{"with attrs", func(l *slog.Logger) { l.With(slog.String("token", "t-pretty-456")).Info("provider request") }, "t-pretty-456"},
		{"grouped attr", func(l *slog.Logger) {
			l.Info("provider request", slog.Group("request", slog.String("url", "https://quotes.example/random?api_key=abcdef")))
		}, "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWithWriter(&Config{Level: "info", Format: "pretty"}, &buf))

			assert.Contains(t, buf.String(), "provider request")
			assert.NotContains(t, buf.String(), tt.leak)
		})
	}
}

func TestRedact_KeepsPlainAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(Redact(slog.NewJSONHandler(&buf, nil), NewReplaceAttr())).
		WithGroup("quote").
		With(slog.String("author", "Lao Tzu"))

	logger.Info("quote shown", slog.String("text", "A journey of a thousand miles."))

	entry := decodeLine(t, &buf)
	group, ok := entry["quote"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Lao Tzu", group["author"])
	assert.Equal(t, "A journey of a thousand miles.", group["text"])
}
