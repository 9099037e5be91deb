package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("access denied")
	ErrUpstreamDegraded   = errors.New("upstream unavailable")
	ErrInferenceFailed    = errors.New("prediction failed")
	ErrFeatureUnavailable = errors.New("feature unavailable")
)
