package failover

import (
	"errors"
	"strings"
)

// ErrAllProvidersFailed is matched by every ExhaustedError.
var ErrAllProvidersFailed = errors.New("all providers failed")

// ExhaustedError is returned when no provider produced a usable response.
type ExhaustedError struct {
	// StatusCode is 503, or 500 when no provider had a usable credential.
	StatusCode int

	// Messages holds one diagnostic per attempt, in attempt order.
	Messages []string
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	if len(e.Messages) == 0 {
		return ErrAllProvidersFailed.Error()
	}
	return ErrAllProvidersFailed.Error() + ": " + e.Joined()
}

// Joined returns the diagnostics concatenated in attempt order.
func (e *ExhaustedError) Joined() string {
	return strings.Join(e.Messages, "; ")
}

// Is implements error matching for errors.Is().
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}
