package domain

import "errors"

// ErrorKind partitions generation failures for transport mapping and tests.
// All kinds are terminal for the current request; nothing is retried
// automatically.
type ErrorKind string

const (
	ErrKindValidation         ErrorKind = "validation"
	ErrKindQuotaExceeded      ErrorKind = "quota_exceeded"
	ErrKindAuthRequired       ErrorKind = "auth_required"
	ErrKindProviderTransient  ErrorKind = "provider_transient"
	ErrKindProviderPermanent  ErrorKind = "provider_permanent"
	ErrKindProviderUnknown    ErrorKind = "provider_unknown"
	ErrKindNetworkFailure     ErrorKind = "network_failure"
	ErrKindPollingInterrupted ErrorKind = "polling_interrupted"
)

// GenerationError is the single error type surfaced by the lifecycle
// manager. Message is always safe to show to the user.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError builds a classified error wrapping an optional cause.
func NewGenerationError(kind ErrorKind, message string, cause error) *GenerationError {
	return &GenerationError{Kind: kind, Message: message, Err: cause}
}

// ErrorKindOf extracts the classification from err, or ErrKindProviderUnknown
// when err is not a GenerationError.
func ErrorKindOf(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ErrKindProviderUnknown
}

var (
	// ErrNoSubscription signals a request without an authenticated
	// subscription context.
	ErrNoSubscription = errors.New("no active subscription")

	// ErrCouponNotFound signals a lookup for an unknown coupon code.
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponRedeemed signals an attempt to redeem a spent coupon.
	ErrCouponRedeemed = errors.New("coupon already redeemed")

	// ErrHistoryItemNotFound signals a delete for a missing history item.
	ErrHistoryItemNotFound = errors.New("history item not found")
)
