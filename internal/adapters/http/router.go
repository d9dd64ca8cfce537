package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-widget/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-widget/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds every /api/v1 request. It sits above the
// provider client timeout so a slow chain still ends in the fallback.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig is everything SetupRouter wires onto an engine. A nil
// handler leaves its routes out.
type RouterConfig struct {
	Logger        *slog.Logger
	AppConfig     *config.AppConfig
	HealthHandler *handlers.HealthHandler
	WidgetHandler *handlers.WidgetHandler

	// Timeout applies to /api/v1 only. Zero disables it.
	Timeout time.Duration
}

// NewDefaultRouterConfig fills RouterConfig with DefaultRequestTimeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	widgetHandler *handlers.WidgetHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		WidgetHandler: widgetHandler,
		Timeout:       DefaultRequestTimeout,
	}
}

// SetupRouter installs the middleware chain and the routes.
//
// Every request passes recovery, the request and correlation ids, the otel
// span and metrics, then the access log. Probe routes under /-/ stop there.
// /api/v1 adds the request deadline.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	chain := []gin.HandlerFunc{
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	}
	chain = append(chain, telemetry.Middleware(cfg.AppConfig.Name)...)
	chain = append(chain, middleware.Logging(cfg.Logger))

	engine.Use(chain...)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.WidgetHandler == nil {
		return
	}

	api := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		api.Use(middleware.Timeout(cfg.Timeout))
	}

	cfg.WidgetHandler.RegisterRoutes(api)
}
