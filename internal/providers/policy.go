package providers

import (
	"fmt"
	"net/http"
)

// FailoverPolicy decides which non-success statuses move on to the next
// provider.
type FailoverPolicy string

const (
	// PolicyStrict fails over on any non-2xx status.
	PolicyStrict FailoverPolicy = "strict"
	// PolicyAvailability fails over only on availability errors (401, 403,
	// 429 and 5xx). Other statuses are business errors relayed as-is.
	PolicyAvailability FailoverPolicy = "availability"
)

// ParsePolicy converts a config value into a FailoverPolicy. An empty
// string selects PolicyStrict.
func ParsePolicy(s string) (FailoverPolicy, error) {
	switch FailoverPolicy(s) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyAvailability:
		return PolicyAvailability, nil
	default:
		return "", fmt.Errorf("unknown failover policy %q: must be %q or %q", s, PolicyStrict, PolicyAvailability)
	}
}

// ShouldFailover reports whether a response with the given status must be
// treated as a failure.
func (p FailoverPolicy) ShouldFailover(status int) bool {
	if status >= 200 && status < 300 {
		return false
	}
	if p != PolicyAvailability {
		return true
	}
	switch {
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}
