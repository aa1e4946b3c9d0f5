package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/navarrastar/helpdesk-form/pkg/config"
	"github.com/navarrastar/helpdesk-form/pkg/logging"
	"github.com/navarrastar/helpdesk-form/pkg/metrics"
	"github.com/navarrastar/helpdesk-form/pkg/middleware"
	"github.com/navarrastar/helpdesk-form/pkg/web"
)

// NewRouter builds the gin engine with middleware, pages, assets and routes.
func NewRouter(cfg *config.Config, h *Handlers, m *metrics.Metrics, logger *zap.Logger) (*gin.Engine, error) {
	logger = logging.OrNop(logger)

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.HTTP.TrustedProxies()); err != nil {
		return nil, fmt.Errorf("error setting trusted proxies: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger.Named("http")),
		gin.CustomRecoveryWithWriter(io.Discard, recovery(logger)),
		middleware.SecurityHeaders(cfg.IsProduction()),
		middleware.CORS(cfg.HTTP.Origins()),
		middleware.NewRateLimiter(cfg.HTTP.RateLimitMax, cfg.HTTP.RateLimitWindow).Middleware(),
	)

	static := web.Static()
	router.StaticFileFS("/style.css", "style.css", static)
	router.StaticFileFS("/js/form.js", "js/form.js", static)

	router.GET("/", h.Index)
	router.POST("/submit-help-request", h.SubmitHelpRequest)
	router.POST("/google-login", h.GoogleLogin)
	router.GET("/health", h.HealthCheck)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	return router, nil
}

func recovery(logger *zap.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Error("panic while handling request",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Stack("stack"),
		)
		c.HTML(http.StatusInternalServerError, web.ServerErrorPage, nil)
		c.Abort()
	}
}
