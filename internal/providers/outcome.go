package providers

import (
	"fmt"
	"io"
	"net/http"
)

// FailureKind classifies why an attempt did not produce a usable response.
type FailureKind string

const (
	// FailureConfiguration means the credential is missing or malformed.
	// No network call was made.
	FailureConfiguration FailureKind = "configuration"
	// FailureTransport covers DNS, connect, TLS and timeout errors.
	FailureTransport FailureKind = "transport"
	// FailureRejection is a non-success status from a reachable provider.
	FailureRejection FailureKind = "rejection"
	// FailureParse means a success response could not be normalized.
	FailureParse FailureKind = "parse"
)

// Outcome is the result of one provider attempt. Exactly one of Usable and
// Failed is set.
type Outcome struct {
	Usable *Usable
	Failed *Failure
}

// Usable is a provider response suitable to relay to the caller. The caller
// owns Body and must close it.
type Usable struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Failure describes an attempt that must trigger failover.
type Failure struct {
	StatusCode int
	Kind       FailureKind
	Message    string
}

// OK reports whether the outcome is usable.
func (o Outcome) OK() bool {
	return o.Usable != nil
}

// Kind returns the failure kind, or "ok" for a usable outcome.
func (o Outcome) Kind() string {
	if o.Failed != nil {
		return string(o.Failed.Kind)
	}
	return "ok"
}

// UsableOutcome wraps a relayable response.
func UsableOutcome(status int, header http.Header, body io.ReadCloser) Outcome {
	return Outcome{Usable: &Usable{StatusCode: status, Header: header, Body: body}}
}

// FailedOutcome builds a failure with a formatted message.
func FailedOutcome(status int, kind FailureKind, format string, args ...any) Outcome {
	return Outcome{Failed: &Failure{
		StatusCode: status,
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
	}}
}
