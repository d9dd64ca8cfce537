package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clients"
	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
)

// cacheBustParam is refreshed on every attempt so intermediaries never serve a stale quote.
const cacheBustParam = "nocache"

// maxErrorBodyBytes bounds how much of an error response is logged.
const maxErrorBodyBytes = 512

// noCacheHeaders are sent with every provider request.
var noCacheHeaders = map[string]string{
	"Cache-Control": "no-cache, no-store, must-revalidate",
	"Pragma":        "no-cache",
	"Accept":        "application/json",
}

// Clock returns the current time. Tests replace it to get stable ids.
type Clock func() time.Time

// IDGenerator returns a random suffix for synthetic quote ids.
type IDGenerator func() string

func defaultClock() time.Time { return time.Now() }

func defaultIDGenerator() string { return uuid.NewString() }

// NewClient builds the resilient HTTP client for one remote provider.
// Every request carries no-cache headers and a fresh cache-busting parameter.
func NewClient(name, baseURL string, cfg *config.ClientConfig, clock Clock, logger *slog.Logger) (*clients.Client, error) {
	if clock == nil {
		clock = defaultClock
	}

	return clients.New(&clients.Config{
		BaseURL:     baseURL,
		ServiceName: name,
		Timeout:     cfg.Timeout,
		Retry:       cfg.Retry,
		Circuit:     cfg.CircuitBreaker,
		Transport:   cfg.Transport,
		Headers:     noCacheHeaders,
		PrepareFunc: func(r *http.Request) {
			q := r.URL.Query()
			q.Set(cacheBustParam, strconv.FormatInt(clock().UnixMilli(), 10))
			r.URL.RawQuery = q.Encode()
		},
		Logger: logger,
	})
}

// BaseAdapter provides the request and error mapping shared by remote providers.
type BaseAdapter struct {
	client *clients.Client
	name   string
	logger *slog.Logger
}

// NewBaseAdapter creates a base adapter. Panics if client is nil.
func NewBaseAdapter(client *clients.Client, name string, logger *slog.Logger) BaseAdapter {
	if client == nil {
		panic("providers: client is required for " + name)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return BaseAdapter{
		client: client,
		name:   name,
		logger: logger.With(slog.String("provider", name)),
	}
}

// Name returns the provider name used in logs, metrics and health checks.
func (a *BaseAdapter) Name() string {
	return a.name
}

// Check reports the provider unhealthy while its circuit breaker is open.
// It never calls the remote API.
func (a *BaseAdapter) Check(_ context.Context) error {
	if state := a.client.CircuitState(); state == clients.CircuitOpen {
		return fmt.Errorf("circuit breaker %s", state)
	}

	return nil
}

// Get performs a GET request and returns the body of a 200 response.
// Any other outcome is mapped to a provider unavailable error.
func (a *BaseAdapter) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.name)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		a.logger.WarnContext(ctx, "provider returned error status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", string(body)),
		)

		return nil, MapHTTPError(resp, nil, a.name)
	}

	return resp.Body, nil
}

// MapHTTPError maps a client error or a non-200 response to a provider error.
func MapHTTPError(resp *http.Response, clientErr error, provider string) error {
	switch {
	case errors.Is(clientErr, clients.ErrCircuitOpen):
		return domain.NewProviderUnavailableError(provider, "circuit breaker open", clientErr)
	case errors.Is(clientErr, clients.ErrRetriesExhausted):
		return domain.NewProviderUnavailableError(provider, "retries exhausted", clientErr)
	case clientErr != nil:
		return domain.NewProviderUnavailableError(provider, "request failed", clientErr)
	case resp == nil:
		return domain.NewProviderUnavailableError(provider, "no response received", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.NewProviderUnavailableError(provider, "rate limit exceeded", nil)
	default:
		return domain.NewProviderUnavailableError(provider, fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// syntheticID builds ids for sources that do not supply one.
func syntheticID(prefix string, now time.Time, newID IDGenerator) string {
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), newID())
}
