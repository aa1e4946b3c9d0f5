package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/navarrastar/helpdesk-form/pkg/clients/googleid"
	"github.com/navarrastar/helpdesk-form/pkg/logging"
	"github.com/navarrastar/helpdesk-form/pkg/metrics"
	"github.com/navarrastar/helpdesk-form/pkg/models"
	"github.com/navarrastar/helpdesk-form/pkg/utils"
)

// IdentityService acknowledges a signed identity token. It establishes no
// session and authorizes nothing.
type IdentityService interface {
	Acknowledge(ctx context.Context, token string) (models.IdentityClaims, error)
}

type identityServiceImpl struct {
	verifier googleid.Client
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(verifier googleid.Client, m *metrics.Metrics, logger *zap.Logger) IdentityService {
	return &identityServiceImpl{
		verifier: verifier,
		metrics:  m,
		logger:   logging.OrNop(logger).Named("identity"),
	}
}

func (s *identityServiceImpl) Acknowledge(ctx context.Context, token string) (models.IdentityClaims, error) {
	claims, err := s.verifier.VerifyIdentity(ctx, token)
	s.metrics.Identity(err == nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityVerification, err)
	}

	sub, _ := claims["sub"].(string)
	s.logger.Info("identity verified", zap.String("subject", utils.Fingerprint(sub)))
	return claims, nil
}
