package postmark

import "errors"

// Predefined sentinel errors for common cases. The four error kinds a caller
// can meet are distinguishable with errors.Is / errors.As:
//
//   - configuration errors: ErrMissingServerToken, ErrInvalidConfiguration
//   - validation errors:    *ValidationError, raised before any dispatch
//   - transport/API errors: *APIError (isolated per group in batch sends)
//   - decode errors:        *DecodeError
var (
	// ErrMissingServerToken indicates no server token was configured.
	// It is raised before any network activity.
	ErrMissingServerToken = errors.New("missing server token")

	// ErrInvalidConfiguration indicates invalid configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
