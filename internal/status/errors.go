package status

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a specifically requested client does not
// exist. It is never used for an empty roster.
var ErrNotFound = errors.New("client not found")

// ErrUpstreamUnavailable is returned by stores when the backing service
// could not be reached. Per-client reads degrade to zero values on it; only
// roster-level reads surface it.
var ErrUpstreamUnavailable = errors.New("upstream store unavailable")

// ValidationError reports a caller mistake: a missing identifier or an
// out-of-range value. It stops the request before any batch work starts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
