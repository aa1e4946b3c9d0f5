package services

import (
	"errors"
	"strings"
)

var (
	// ErrCaptchaRejected is returned when the CAPTCHA token is missing or the
	// provider did not accept it.
	ErrCaptchaRejected = errors.New("captcha verification failed")
	// ErrRelayUnavailable is returned when the mail relay connection check fails.
	ErrRelayUnavailable = errors.New("mail relay unavailable")
	// ErrDispatchFailure is returned when the relay rejects or fails the send.
	ErrDispatchFailure = errors.New("notification dispatch failed")
	// ErrIdentityVerification is returned for any invalid identity token.
	ErrIdentityVerification = errors.New("identity verification failed")
)

// ValidationError carries every violated rule message, in rule order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
