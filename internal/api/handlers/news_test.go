package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoanghai1803/newsgate/internal/failover"
)

func TestGetNews_ParsesQuery(t *testing.T) {
	src := &stubSource{success: successFrom("GNews", http.StatusOK, http.Header{}, "{}")}

	r := httptest.NewRequest(http.MethodGet, "/?country=US&topic=Technology&q=+go+", nil)
	w := httptest.NewRecorder()
	GetNews(src)(w, r)

	if src.calls != 1 {
		t.Fatalf("Handle called %d times, want 1", src.calls)
	}
	if src.last.Country != "us" || src.last.Topic != "technology" || src.last.Text != "go" {
		t.Errorf("query = %+v", src.last)
	}
}

func TestGetNews_RelaysSuccess(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "application/json; charset=utf-8")
	header.Set("Content-Encoding", "gzip")
	header.Set("Content-Length", "9999")
	header.Set("Transfer-Encoding", "chunked")
	header.Set("Connection", "keep-alive")
	header.Set("Access-Control-Allow-Origin", "https://gnews.io")
	header.Set("X-Ratelimit-Remaining", "42")

	body := `{"totalArticles":1,"articles":[{"title":"t"}]}`
	src := &stubSource{success: successFrom("GNews", http.StatusOK, header, body)}

	w := httptest.NewRecorder()
	GetNews(src)(w, httptest.NewRequest(http.MethodGet, "/?q=bitcoin", nil))

	if w.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != body {
		t.Errorf("got body %q, want %q", w.Body.String(), body)
	}

	tests := []struct {
		header string
		want   string
	}{
		{"Content-Encoding", ""},
		{"Content-Length", ""},
		{"Transfer-Encoding", ""},
		{"Connection", ""},
		{"Access-Control-Allow-Origin", "*"},
		{"Access-Control-Allow-Methods", "GET, HEAD, POST, OPTIONS"},
		{"Content-Type", "application/json; charset=utf-8"},
		{"X-Ratelimit-Remaining", "42"},
		{ProviderHeader, "GNews"},
	}
	for _, tt := range tests {
		if got := w.Header().Get(tt.header); got != tt.want {
			t.Errorf("header %q = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestGetNews_RelaysProviderStatus(t *testing.T) {
	src := &stubSource{success: successFrom("GNews", http.StatusNotFound, http.Header{}, `{"errors":["nope"]}`)}

	w := httptest.NewRecorder()
	GetNews(src)(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("got status %d, want %d", w.Code, http.StatusNotFound)
	}
	if w.Body.String() != `{"errors":["nope"]}` {
		t.Errorf("got body %q", w.Body.String())
	}
}

func TestGetNews_Head(t *testing.T) {
	src := &stubSource{success: successFrom("NewsAPI", http.StatusOK, http.Header{}, `{"articles":[]}`)}

	w := httptest.NewRecorder()
	GetNews(src)(w, httptest.NewRequest(http.MethodHead, "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.Len() != 0 {
		t.Errorf("HEAD body = %q, want empty", w.Body.String())
	}
	if got := w.Header().Get(ProviderHeader); got != "NewsAPI" {
		t.Errorf("%s = %q, want NewsAPI", ProviderHeader, got)
	}
}

func TestGetNews_AllFailed(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   string
	}{
		{
			name: "providers unavailable",
			err: &failover.ExhaustedError{
				StatusCode: http.StatusServiceUnavailable,
				Messages:   []string{"GNews: HTTP 429: quota", "Bing News: HTTP 500"},
			},
			status: http.StatusServiceUnavailable,
			want:   "GNews: HTTP 429: quota; Bing News: HTTP 500",
		},
		{
			name: "nothing configured",
			err: &failover.ExhaustedError{
				StatusCode: http.StatusInternalServerError,
				Messages:   []string{"GNews: configuration error: API key is not set"},
			},
			status: http.StatusInternalServerError,
			want:   "GNews: configuration error: API key is not set",
		},
		{
			name:   "unexpected error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			want:   "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			GetNews(&stubSource{err: tt.err})(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != tt.status {
				t.Errorf("got status %d, want %d", w.Code, tt.status)
			}
			msgs := decodeErrors(t, w)
			if len(msgs) != 1 || msgs[0] != tt.want {
				t.Errorf("got errors %q, want [%q]", msgs, tt.want)
			}
		})
	}
}
