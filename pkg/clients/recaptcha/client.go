package recaptcha

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/navarrastar/helpdesk-form/pkg/logging"
)

// Client defines the interface for verifying reCAPTCHA response tokens
type Client interface {
	// Verify reports whether the provider accepted token. Any failure to reach
	// or understand the provider is reported as false.
	Verify(ctx context.Context, token, remoteIP string) bool
}

type clientImpl struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new reCAPTCHA client
func NewClient(secret, verifyURL string, timeout time.Duration, logger *zap.Logger) Client {
	return &clientImpl{
		secret:     secret,
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.OrNop(logger).Named("recaptcha"),
	}
}

func (c *clientImpl) Verify(ctx context.Context, token, remoteIP string) bool {
	if strings.TrimSpace(token) == "" {
		c.logger.Info("missing reCAPTCHA token")
		return false
	}

	ok, err := c.siteverify(ctx, token, remoteIP)
	if err != nil {
		c.logger.Error("reCAPTCHA verification failed", zap.Error(err))
		return false
	}
	return ok
}

func (c *clientImpl) siteverify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("error calling siteverify: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return false, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("siteverify returned status %d", resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return false, fmt.Errorf("siteverify returned invalid JSON")
	}

	result := gjson.ParseBytes(body)
	success := result.Get("success").Bool()
	if !success {
		var codes []string
		for _, code := range result.Get("error-codes").Array() {
			codes = append(codes, code.String())
		}
		c.logger.Info("reCAPTCHA token rejected",
			zap.Strings("error_codes", codes),
			zap.String("hostname", result.Get("hostname").String()),
		)
	}
	return success, nil
}
