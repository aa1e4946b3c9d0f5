package googleid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/navarrastar/helpdesk-form/pkg/models"
)

// ErrMalformedToken is returned when the token is not a structurally valid JWT.
var ErrMalformedToken = errors.New("malformed identity token")

// Client defines the interface for verifying Google ID tokens
type Client interface {
	VerifyIdentity(ctx context.Context, token string) (models.IdentityClaims, error)
}

// PayloadValidator is the part of the Google SDK the client depends on.
type PayloadValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

type clientImpl struct {
	validator PayloadValidator
	clientID  string
	parser    *jwt.Parser
}

// NewClient creates a Google ID token client backed by the Google SDK
func NewClient(ctx context.Context, clientID string, timeout time.Duration) (Client, error) {
	v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("error creating ID token validator: %w", err)
	}
	return NewClientWithValidator(v, clientID), nil
}

// NewClientWithValidator creates a client around an existing validator.
func NewClientWithValidator(v PayloadValidator, clientID string) Client {
	return &clientImpl{
		validator: v,
		clientID:  clientID,
		parser:    jwt.NewParser(),
	}
}

func (c *clientImpl) VerifyIdentity(ctx context.Context, token string) (models.IdentityClaims, error) {
	// Reject obviously broken input before the SDK fetches signing keys.
	if _, _, err := c.parser.ParseUnverified(token, jwt.MapClaims{}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	payload, err := c.validator.Validate(ctx, token, c.clientID)
	if err != nil {
		return nil, fmt.Errorf("error validating ID token: %w", err)
	}

	claims := make(models.IdentityClaims, len(payload.Claims)+5)
	for k, v := range payload.Claims {
		claims[k] = v
	}
	claims["iss"] = payload.Issuer
	claims["aud"] = payload.Audience
	claims["sub"] = payload.Subject
	claims["exp"] = payload.Expires
	claims["iat"] = payload.IssuedAt
	return claims, nil
}
