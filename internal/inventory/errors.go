package inventory

import (
	"errors"

	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

var (
	// ErrAuthExpired is returned when the upstream rejects the bearer
	// token with 401. The caller must renew the credential, not retry it.
	ErrAuthExpired = errors.New("inventory: credential rejected")

	// ErrTimeout is returned when the request exceeds its deadline.
	ErrTimeout = errors.New("inventory: request timed out")

	// ErrUnreachable covers transport failures, non-2xx statuses other
	// than 401, and bodies that are not JSON.
	ErrUnreachable = errors.New("inventory: endpoint unreachable")

	// ErrMalformedResponse is returned for well-formed JSON that does not
	// carry an inventory reading.
	ErrMalformedResponse = errors.New("inventory: malformed response")
)

// Classify maps a Fetch error to its poll outcome. A nil error is a
// success; unknown errors count as unreachable.
func Classify(err error) domain.Outcome {
	switch {
	case err == nil:
		return domain.OutcomeSuccess
	case errors.Is(err, ErrAuthExpired):
		return domain.OutcomeAuthExpired
	case errors.Is(err, ErrTimeout):
		return domain.OutcomeTimeout
	case errors.Is(err, ErrMalformedResponse):
		return domain.OutcomeMalformed
	default:
		return domain.OutcomeUnreachable
	}
}
