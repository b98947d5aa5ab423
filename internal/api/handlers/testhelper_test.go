package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hoanghai1803/newsgate/internal/failover"
	"github.com/hoanghai1803/newsgate/internal/models"
	"github.com/hoanghai1803/newsgate/internal/providers"
)

// stubSource is a NewsSource returning a canned result and recording the
// last query.
type stubSource struct {
	success *failover.Success
	err     error
	last    models.Query
	calls   int
}

func (s *stubSource) Handle(_ context.Context, q models.Query) (*failover.Success, error) {
	s.calls++
	s.last = q
	return s.success, s.err
}

// successFrom builds a Success with the given headers and body.
func successFrom(provider string, status int, header http.Header, body string) *failover.Success {
	return &failover.Success{
		Provider:   provider,
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// decodeErrors decodes an {"errors":[{"message":...}]} body.
func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	msgs := make([]string, len(body.Errors))
	for i, e := range body.Errors {
		msgs[i] = e.Message
	}
	return msgs
}

// fakeProvider satisfies providers.Provider for handler tests.
type fakeProvider struct {
	name      string
	available bool
}

func (f fakeProvider) Name() string    { return f.name }
func (f fakeProvider) Available() bool { return f.available }
func (f fakeProvider) Attempt(context.Context, models.Query) providers.Outcome {
	return providers.FailedOutcome(0, providers.FailureConfiguration, "not used")
}
