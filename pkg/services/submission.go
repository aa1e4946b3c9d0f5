package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/navarrastar/helpdesk-form/pkg/clients/recaptcha"
	"github.com/navarrastar/helpdesk-form/pkg/clients/smtp"
	"github.com/navarrastar/helpdesk-form/pkg/logging"
	"github.com/navarrastar/helpdesk-form/pkg/metrics"
	"github.com/navarrastar/helpdesk-form/pkg/models"
	"github.com/navarrastar/helpdesk-form/pkg/utils"
	"github.com/navarrastar/helpdesk-form/pkg/validation"
)

// SubmissionService defines the interface for handling help form submissions
type SubmissionService interface {
	// ProcessHelpRequest verifies, sanitizes, validates and emails a raw
	// submission. It returns the request that was sent.
	ProcessHelpRequest(ctx context.Context, raw map[string]any, remoteIP string) (*models.HelpRequest, error)
}

type submissionServiceImpl struct {
	captcha   recaptcha.Client
	relay     smtp.Client
	composer  *Composer
	validator *validation.Validator
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	captcha recaptcha.Client,
	relay smtp.Client,
	composer *Composer,
	validator *validation.Validator,
	m *metrics.Metrics,
	logger *zap.Logger,
) SubmissionService {
	return &submissionServiceImpl{
		captcha:   captcha,
		relay:     relay,
		composer:  composer,
		validator: validator,
		metrics:   m,
		logger:    logging.OrNop(logger).Named("submission"),
	}
}

// ProcessHelpRequest runs captcha -> sanitize -> validate -> compose -> send.
// The first failing step ends processing.
func (s *submissionServiceImpl) ProcessHelpRequest(ctx context.Context, raw map[string]any, remoteIP string) (*models.HelpRequest, error) {
	token, _ := raw[models.FieldCaptchaToken].(string)
	ok := s.captcha.Verify(ctx, token, remoteIP)
	s.metrics.Captcha(ok)
	if !ok {
		s.metrics.Submission(metrics.OutcomeCaptchaRejected)
		return nil, ErrCaptchaRejected
	}

	fields := utils.SanitizeFields(models.Fields(raw))

	if errs := s.validator.Validate(fields); len(errs) > 0 {
		s.metrics.Submission(metrics.OutcomeInvalid)
		s.logger.Info("help request rejected", zap.Int("violations", len(errs)))
		return nil, &ValidationError{Messages: errs}
	}

	req := models.NewHelpRequest(fields)
	applicant := utils.Fingerprint(req.Email)

	notification, err := s.composer.Compose(req)
	if err != nil {
		s.metrics.Submission(metrics.OutcomeFailed)
		return nil, fmt.Errorf("error composing notification: %w", err)
	}

	if err := s.relay.Verify(ctx); err != nil {
		s.metrics.Notification(false)
		s.metrics.Submission(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %v", ErrRelayUnavailable, err)
	}

	if err := s.relay.Send(ctx, notification); err != nil {
		s.metrics.Notification(false)
		s.metrics.Submission(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailure, err)
	}

	s.metrics.Notification(true)
	s.metrics.Submission(metrics.OutcomeSent)
	s.logger.Info("help request sent",
		zap.String("applicant", applicant),
		zap.String("urgency", req.Urgency),
	)
	return req, nil
}
