// Package clients holds the outbound HTTP client shared by the remote quote providers.
package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-widget/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

const (
	scope = "github.com/jsamuelsen/quote-widget/internal/adapters/clients"

	defaultTimeout = 10 * time.Second
)

// ErrRetriesExhausted wraps the last failure once no attempts are left.
var ErrRetriesExhausted = errors.New("retries exhausted")

var errServerStatus = errors.New("server error")

// Config configures one provider client.
type Config struct {
	BaseURL     string
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// Headers are set on every request.
	Headers map[string]string

	// PrepareFunc runs before every attempt, retries included.
	PrepareFunc func(*http.Request)

	Logger *slog.Logger
}

// Client sends GET requests to one quote provider with retries, a circuit
// breaker and otel spans and metrics around every call.
type Client struct {
	http    *http.Client
	baseURL string
	cfg     *Config
	logger  *slog.Logger
	breaker *Breaker
	tracer  trace.Tracer

	duration metric.Float64Histogram
	requests metric.Int64Counter
}

// New validates cfg and builds a client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("downstream", cfg.ServiceName))

	breaker := NewBreaker(BreakerSettings{
		Threshold: cfg.Circuit.MaxFailures,
		Cooldown:  cfg.Circuit.Timeout,
		Probes:    cfg.Circuit.HalfOpenLimit,
	})
	breaker.Notify(func(from, to Circuit) {
		logger.Warn("provider circuit changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	meter := otel.Meter(scope)

	duration, err := meter.Float64Histogram("quote.provider.request.duration",
		metric.WithDescription("Duration of quote provider requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	requests, err := meter.Int64Counter("quote.provider.requests",
		metric.WithDescription("Quote provider requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg.Transport),
		},
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		cfg:      cfg,
		logger:   logger,
		breaker:  breaker,
		tracer:   otel.Tracer(scope),
		duration: duration,
		requests: requests,
	}, nil
}

// Get sends a GET for path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// Do sends req. Transport errors and 5xx answers are retried; any other
// response is returned to the caller as is. Requests with a body are only
// retried when req.GetBody is set.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.cfg.ServiceName),
		slog.String("path", req.URL.Path),
	)

	if err := c.breaker.Acquire(); err != nil {
		c.observe(ctx, req.Method, 0, start, "circuit_open")
		logger.WarnContext(ctx, "provider skipped, circuit open")
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "GET "+c.cfg.ServiceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.cfg.ServiceName),
		),
	)
	defer span.End()

	c.decorate(ctx, req)

	resp, err := backoff.Retry(ctx,
		func() (*http.Response, error) { return c.attempt(ctx, req) },
		backoff.WithBackOff(c.schedule()),
		backoff.WithMaxTries(uint(c.cfg.Retry.MaxAttempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.DebugContext(ctx, "retrying provider request",
				slog.Duration("backoff", wait),
				slog.Any("error", err),
			)
		}),
	)
	if err != nil {
		c.breaker.Release(false)
		span.SetStatus(codes.Error, err.Error())
		c.observe(ctx, req.Method, 0, start, "error")
		logger.ErrorContext(ctx, "provider request failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
	}

	c.breaker.Release(true)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.observe(ctx, req.Method, resp.StatusCode, start, fmt.Sprintf("%dxx", resp.StatusCode/100))
	logger.DebugContext(ctx, "provider request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

// CircuitState returns the position of the provider's breaker.
func (c *Client) CircuitState() Circuit {
	return c.breaker.Circuit()
}

// attempt sends req once. Errors that retrying cannot fix are marked permanent.
func (c *Client) attempt(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.cfg.PrepareFunc != nil {
		c.cfg.PrepareFunc(req)
	}

	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		if !isRetryableError(err) {
			return nil, backoff.Permanent(err)
		}

		return nil, err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		return nil, fmt.Errorf("%w: %d", errServerStatus, resp.StatusCode)
	}

	return resp, nil
}

// schedule builds the exponential backoff for one call.
func (c *Client) schedule() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.RandomizationFactor = config.DefaultClientRetryJitterFactor

	if c.cfg.Retry.JitterFactor > 0 {
		b.RandomizationFactor = c.cfg.Retry.JitterFactor
	}

	if c.cfg.Retry.InitialInterval > 0 {
		b.InitialInterval = c.cfg.Retry.InitialInterval
	}

	if c.cfg.Retry.MaxInterval > 0 {
		b.MaxInterval = c.cfg.Retry.MaxInterval
	}

	if c.cfg.Retry.Multiplier >= 1 {
		b.Multiplier = c.cfg.Retry.Multiplier
	}

	return b
}

// decorate sets the static headers and forwards the caller's request and
// correlation ids plus the trace context.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	for key, value := range c.cfg.Headers {
		req.Header.Set(key, value)
	}

	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

func (c *Client) observe(ctx context.Context, method string, status int, start time.Time, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.cfg.ServiceName),
		attribute.String("result", result),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	set := metric.WithAttributes(attrs...)
	c.duration.Record(ctx, time.Since(start).Seconds(), set)
	c.requests.Add(ctx, 1, set)
}

// newTransport builds the pooled transport, filling unset values from config defaults.
func newTransport(cfg config.TransportConfig) *http.Transport {
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = config.DefaultTransportMaxIdleConns
	}

	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = config.DefaultTransportMaxIdleConnsPerHost
	}

	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = config.DefaultTransportIdleConnTimeout
	}

	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}
}

// isRetryableError reports whether err is a network failure worth another try.
// Cancellation never is.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
