package service

import "errors"

var (
	// ErrAlreadySubscribed is returned when a newsletter email is already enrolled.
	ErrAlreadySubscribed = errors.New("email already subscribed")
	// ErrSubscriptionNotFound is returned for an unknown unsubscribe token.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// ValidationError carries the client-facing reason a request was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}
