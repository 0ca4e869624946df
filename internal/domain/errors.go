package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition       = errors.New("invalid transition")
	ErrPayoutNotConfigured     = errors.New("payout not configured")
	ErrProviderDisabled        = errors.New("provider disabled")
	ErrUnsupportedPayoutMethod = errors.New("unsupported payout method")
	ErrUnsupportedAction       = errors.New("unsupported action")
	ErrProviderRejected        = errors.New("provider rejected")
	ErrProviderTimeout         = errors.New("provider timeout")
	ErrNotFound                = errors.New("not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrSignatureInvalid        = errors.New("webhook signature invalid")
	ErrReleaseInProgress       = errors.New("release already in progress")
	ErrDuplicateOpenDispute    = errors.New("open dispute already exists")
)

// Audit error codes. They are stored verbatim in payout_audits.error_code.
const (
	CodePayoutNotConfigured = "PAYOUT_NOT_CONFIGURED"
	CodeProviderDisabled    = "PROVIDER_DISABLED"
	CodeUnsupportedMethod   = "UNSUPPORTED_PAYOUT_METHOD"
	CodeProviderRejected    = "PROVIDER_REJECTED"
	CodeProviderTimeout     = "PROVIDER_TIMEOUT"
	CodeFarmerNotFound      = "FARMER_NOT_FOUND"
	CodeOrderNotEligible    = "ORDER_NOT_ELIGIBLE"
)

// PayoutError carries the classification of a failed payout attempt.
// Response holds the provider body for forensics and must not reach API callers.
type PayoutError struct {
	Kind     error
	Code     string
	Message  string
	Response []byte
}

func (e *PayoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PayoutError) Unwrap() error {
	return e.Kind
}

func NewPayoutError(kind error, code, message string) *PayoutError {
	return &PayoutError{Kind: kind, Code: code, Message: message}
}

// IsConfigurationError reports failures an operator fixes by configuration.
// They leave the order funded and never raise a dispute.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrPayoutNotConfigured) ||
		errors.Is(err, ErrProviderDisabled) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnsupportedPayoutMethod)
}

// IsProviderFailure reports failures where money may or may not have moved on
// the provider side. These move the order to release_failed and escalate.
func IsProviderFailure(err error) bool {
	return errors.Is(err, ErrProviderRejected) || errors.Is(err, ErrProviderTimeout)
}
