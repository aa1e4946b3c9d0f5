package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/navarrastar/helpdesk-form/pkg/logging"
	"github.com/navarrastar/helpdesk-form/pkg/middleware"
	"github.com/navarrastar/helpdesk-form/pkg/models"
	"github.com/navarrastar/helpdesk-form/pkg/services"
	"github.com/navarrastar/helpdesk-form/pkg/validation"
	"github.com/navarrastar/helpdesk-form/pkg/web"
)

// Messages shown to the client.
const (
	msgCaptchaRejected = "reCAPTCHA verification failed. Please try again."
	msgInvalidBody     = "Invalid request body"
	msgLoginSucceeded  = "Google login successful"
	msgLoginFailed     = "Invalid Google ID token"
)

// PageSettings are the public values rendered into the form page.
type PageSettings struct {
	SiteKey        string
	GoogleClientID string
	Variant        validation.Variant
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissions services.SubmissionService
	identity    services.IdentityService
	page        PageSettings
	logger      *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	submissions services.SubmissionService,
	identity services.IdentityService,
	page PageSettings,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		submissions: submissions,
		identity:    identity,
		page:        page,
		logger:      logging.OrNop(logger).Named("api"),
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Index renders the help form.
func (h *Handlers) Index(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexPage, gin.H{
		"SiteKey":        h.page.SiteKey,
		"GoogleClientID": h.page.GoogleClientID,
		"Extended":       h.page.Variant.Extended,
		"Rules":          validation.ClientRules(h.page.Variant),
	})
}

// SubmitHelpRequest processes a help form posted as JSON or as a form.
func (h *Handlers) SubmitHelpRequest(c *gin.Context) {
	raw, err := readSubmission(c)
	if err != nil {
		h.logger.Info("unreadable submission",
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		renderValidationError(c, msgInvalidBody)
		return
	}

	_, err = h.submissions.ProcessHelpRequest(c.Request.Context(), raw, c.ClientIP())

	var verr *services.ValidationError
	switch {
	case err == nil:
		c.HTML(http.StatusOK, web.SuccessPage, nil)
	case errors.Is(err, services.ErrCaptchaRejected):
		renderValidationError(c, msgCaptchaRejected)
	case errors.As(err, &verr):
		renderValidationError(c, verr.Messages...)
	default:
		// Relay and template failures stay in the server log.
		h.logger.Error("error processing help request",
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, web.ServerErrorPage, nil)
	}
}

// GoogleLogin verifies a Google ID token and echoes its claims.
func (h *Handlers) GoogleLogin(c *gin.Context) {
	var req models.IdentityLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgLoginFailed})
		return
	}

	claims, err := h.identity.Acknowledge(c.Request.Context(), req.IDToken)
	if err != nil {
		h.logger.Info("identity token rejected",
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		c.JSON(http.StatusBadRequest, gin.H{"message": msgLoginFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": msgLoginSucceeded,
		"user":    claims,
	})
}

func renderValidationError(c *gin.Context, messages ...string) {
	c.HTML(http.StatusBadRequest, web.ValidationErrorPage, gin.H{"Messages": messages})
}

// readSubmission decodes a JSON object body, or a urlencoded or multipart
// form where only the first value of each field is kept.
func readSubmission(c *gin.Context) (map[string]any, error) {
	if strings.HasSuffix(c.ContentType(), "json") {
		var raw map[string]any
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, errors.New("empty JSON body")
		}
		return raw, nil
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	raw := make(map[string]any, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			raw[k] = v[0]
		}
	}
	return raw, nil
}
