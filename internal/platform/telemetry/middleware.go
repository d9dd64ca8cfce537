package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

const (
	scope = "github.com/jsamuelsen/quote-widget/internal/platform/telemetry"

	// HeaderTraceID carries the server span's trace id back to the caller.
	HeaderTraceID = "X-Trace-ID"
)

type serverMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	active   metric.Int64UpDownCounter
}

func newServerMetrics() (*serverMetrics, error) {
	meter := otel.Meter(scope)

	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Widget API request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Widget API requests"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Widget API requests in flight"),
	)
	if err != nil {
		return nil, err
	}

	return &serverMetrics{duration: duration, requests: requests, active: active}, nil
}

// Middleware returns the handlers that trace every request with otelgin,
// expose the trace id to the caller and the request logger, and record
// server metrics.
func Middleware(service string) []gin.HandlerFunc {
	handlers := []gin.HandlerFunc{otelgin.Middleware(service), traceID}

	m, err := newServerMetrics()
	if err != nil {
		otel.Handle(err)
		return handlers
	}

	return append(handlers, m.record)
}

func traceID(c *gin.Context) {
	sc := trace.SpanContextFromContext(c.Request.Context())
	if sc.HasTraceID() {
		id := sc.TraceID().String()
		c.Header(HeaderTraceID, id)
		c.Request = c.Request.WithContext(logging.WithTraceID(c.Request.Context(), id))
	}

	c.Next()
}

func (m *serverMetrics) record(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()
	route := metric.WithAttributes(
		attribute.String("http.method", c.Request.Method),
		attribute.String("http.route", c.FullPath()),
	)

	m.active.Add(ctx, 1, route)
	defer m.active.Add(ctx, -1, route)

	c.Next()

	done := metric.WithAttributes(
		attribute.String("http.method", c.Request.Method),
		attribute.String("http.route", c.FullPath()),
		attribute.Int("http.status_code", c.Writer.Status()),
	)
	m.duration.Record(ctx, time.Since(start).Seconds(), done)
	m.requests.Add(ctx, 1, done)
}
