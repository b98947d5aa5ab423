package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hoanghai1803/newsgate/internal/config"
	"github.com/hoanghai1803/newsgate/internal/failover"
	"github.com/hoanghai1803/newsgate/internal/metrics"
	"github.com/hoanghai1803/newsgate/internal/providers"
)

// upstream is a fake provider endpoint that counts calls.
type upstream struct {
	*httptest.Server
	calls atomic.Int32
}

func newUpstream(t *testing.T, status int, header http.Header, body string) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		for k, vs := range header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(u.Close)
	return u
}

func newTestRouter(t *testing.T, specs ...providers.Spec) (http.Handler, *prometheus.Registry) {
	t.Helper()
	var ps []providers.Provider
	for _, spec := range specs {
		p, err := providers.New(spec, http.DefaultClient)
		if err != nil {
			t.Fatalf("providers.New(%s): %v", spec.Kind, err)
		}
		ps = append(ps, p)
	}

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	cfg := &config.Config{Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"}}
	return NewRouter(failover.New(ps, failover.WithMetrics(rec)), rec, reg, cfg), reg
}

func spec(kind, baseURL, key string) providers.Spec {
	s := providers.DefaultSpec(kind)
	s.BaseURL = baseURL
	s.APIKey = key
	return s
}

func TestRouter_FailsOverAndRelays(t *testing.T) {
	gnews := newUpstream(t, http.StatusTooManyRequests, nil, `{"errors":["quota exceeded"]}`)
	newsapiHeader := http.Header{}
	newsapiHeader.Set("Content-Type", "application/json")
	newsapiHeader.Set("Access-Control-Allow-Origin", "https://newsapi.org")
	newsapi := newUpstream(t, http.StatusOK, newsapiHeader, `{"status":"ok","totalResults":0,"articles":[]}`)
	bing := newUpstream(t, http.StatusOK, nil, `{}`)

	router, _ := newTestRouter(t,
		spec(providers.KindGNews, gnews.URL, "gnews-key-123"),
		spec(providers.KindNewsAPI, newsapi.URL, "newsapi-key-123"),
		spec(providers.KindBing, bing.URL, "bing-key-123"),
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?country=us&topic=technology", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if w.Body.String() != `{"totalArticles":0,"articles":[]}` {
		t.Errorf("got body %q, want the canonical envelope", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := w.Header().Get("X-News-Provider"); got != "NewsAPI" {
		t.Errorf("X-News-Provider = %q, want NewsAPI", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := w.Header().Get(RequestIDHeader); got == "" {
		t.Error("missing request ID header")
	}
	if gnews.calls.Load() != 1 || newsapi.calls.Load() != 1 || bing.calls.Load() != 0 {
		t.Errorf("calls = %d/%d/%d, want 1/1/0", gnews.calls.Load(), newsapi.calls.Load(), bing.calls.Load())
	}
}

func TestRouter_AllFailed(t *testing.T) {
	gnews := newUpstream(t, http.StatusForbidden, nil, `{"errors":["invalid api key"]}`)
	bing := newUpstream(t, http.StatusInternalServerError, nil, `oops`)

	router, _ := newTestRouter(t,
		spec(providers.KindGNews, gnews.URL, "gnews-key-123"),
		spec(providers.KindNewsAPI, "http://127.0.0.1:1", ""),
		spec(providers.KindBing, bing.URL, "bing-key-123"),
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?q=bitcoin", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	var body struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	if len(body.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(body.Errors))
	}
	msg := body.Errors[0].Message
	gi := strings.Index(msg, "GNews:")
	ni := strings.Index(msg, "NewsAPI: configuration error")
	bi := strings.Index(msg, "Bing News:")
	if gi < 0 || ni < 0 || bi < 0 || !(gi < ni && ni < bi) {
		t.Errorf("message %q does not list every provider in order", msg)
	}
}

func TestRouter_NoCredentials(t *testing.T) {
	router, _ := newTestRouter(t,
		spec(providers.KindGNews, "http://127.0.0.1:1", ""),
		spec(providers.KindBing, "http://127.0.0.1:1", "abc"),
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestRouter_Preflight(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("got status %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, HEAD, POST, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t,
		spec(providers.KindGNews, "http://127.0.0.1:1", "gnews-key-123"),
		spec(providers.KindNewsAPI, "http://127.0.0.1:1", ""),
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status %d, want %d", w.Code, http.StatusOK)
	}
	if body := w.Body.String(); !strings.Contains(body, `"name":"GNews","available":true`) ||
		!strings.Contains(body, `"name":"NewsAPI","available":false`) {
		t.Errorf("healthz body = %s", body)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "newsgate_http_requests_total") {
		t.Error("metrics output missing newsgate_http_requests_total")
	}
}

func TestRouter_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v4/search", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("got status %d, want %d", w.Code, http.StatusNotFound)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRouter_CanonicalShapeAcrossProviders(t *testing.T) {
	newsapiBody := `{"status":"ok","totalResults":1,"articles":[{"source":{"id":null,"name":"Wire"},` +
		`"author":"A","title":"Headline","url":"https://a.example","urlToImage":"https://img",` +
		`"publishedAt":"2026-03-04T10:30:00Z","content":"c"}]}`
	bingBody := `{"value":[{"name":"Headline","url":"https://a.example","datePublished":"2026-03-04T10:30:00Z",` +
		`"provider":[{"name":"Wire"}],"image":{"thumbnail":{"contentUrl":"https://img"}}}]}`

	tests := []struct {
		name string
		kind string
		body string
	}{
		{"newsapi", providers.KindNewsAPI, newsapiBody},
		{"bing", providers.KindBing, bingBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newUpstream(t, http.StatusOK, nil, tt.body)
			router, _ := newTestRouter(t, spec(tt.kind, up.URL, "provider-key-123"))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?q=chips", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
			}

			var got map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if got["totalArticles"] != float64(1) {
				t.Errorf("totalArticles = %v, want 1", got["totalArticles"])
			}
			articles, _ := got["articles"].([]any)
			if len(articles) != 1 {
				t.Fatalf("got %d articles, want 1", len(articles))
			}
			a := articles[0].(map[string]any)
			if a["image"] != "https://img" {
				t.Errorf("image = %v, want https://img", a["image"])
			}
			if _, ok := a["urlToImage"]; ok {
				t.Error("provider-specific urlToImage leaked into the response")
			}
			if a["publishedAt"] != "2026-03-04T10:30:00Z" {
				t.Errorf("publishedAt = %v", a["publishedAt"])
			}
			source, _ := a["source"].(map[string]any)
			if source["name"] != "Wire" {
				t.Errorf("source.name = %v, want Wire", source["name"])
			}
		})
	}
}
