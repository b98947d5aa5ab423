package providers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// recordingServer is an httptest server that counts calls and keeps the
// last request it saw.
type recordingServer struct {
	*httptest.Server
	calls atomic.Int32

	mu   sync.Mutex
	last *http.Request
}

// lastRequest returns the most recent request received.
func (rs *recordingServer) lastRequest() *http.Request {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.last
}

// newRecordingServer starts a server that answers every request with
// handler. It registers cleanup with t.
func newRecordingServer(t *testing.T, handler http.HandlerFunc) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.calls.Add(1)
		rs.mu.Lock()
		rs.last = r.Clone(r.Context())
		rs.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(rs.Close)
	return rs
}

// testSpec returns a spec of the given kind pointing at baseURL with a
// plausible credential.
func testSpec(kind, baseURL string) Spec {
	spec := DefaultSpec(kind)
	spec.BaseURL = baseURL
	spec.APIKey = "test-key-12345"
	return spec
}

// jsonHandler answers with a fixed status and JSON body.
func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
