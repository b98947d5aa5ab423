package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hoanghai1803/newsgate/internal/failover"
	"github.com/hoanghai1803/newsgate/internal/models"
)

// NewsSource resolves a query to a single provider response.
type NewsSource interface {
	Handle(ctx context.Context, q models.Query) (*failover.Success, error)
}

// ProviderHeader names the provider that answered a request.
const ProviderHeader = "X-News-Provider"

// AllowedMethods is advertised on every relayed response.
const AllowedMethods = "GET, HEAD, POST, OPTIONS"

// droppedHeaders are provider response headers that must not be relayed.
// Framing headers describe the provider's encoding of the body, which is
// re-sent under new framing.
var droppedHeaders = map[string]bool{
	"Content-Encoding":    true,
	"Content-Length":      true,
	"Transfer-Encoding":   true,
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Upgrade":             true,
	"Set-Cookie":          true,
}

// GetNews handles GET / with the optional country, topic and q parameters.
// It relays the status and body of the first usable provider response, or
// a JSON error when every provider failed.
func GetNews(src NewsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		q := models.NewQuery(params.Get("country"), params.Get("topic"), params.Get("q"))

		res, err := src.Handle(r.Context(), q)
		if err != nil {
			var exhausted *failover.ExhaustedError
			if errors.As(err, &exhausted) {
				slog.Error("all news providers failed",
					"country", q.Country,
					"topic", q.Topic,
					"status", exhausted.StatusCode,
					"errors", exhausted.Joined(),
				)
				WriteError(w, exhausted.StatusCode, exhausted.Joined())
				return
			}
			slog.Error("news request failed", "error", err)
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer res.Body.Close()

		copyHeaders(w.Header(), res.Header)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", AllowedMethods)
		w.Header().Set(ProviderHeader, res.Provider)
		w.WriteHeader(res.StatusCode)

		if r.Method == http.MethodHead {
			return
		}
		if _, err := io.Copy(w, res.Body); err != nil {
			slog.Warn("relaying provider response failed",
				"provider", res.Provider,
				"error", err,
			)
		}
	}
}

// copyHeaders copies provider headers into dst, skipping framing, hop-by-hop
// and CORS headers.
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		canonical := http.CanonicalHeaderKey(key)
		if droppedHeaders[canonical] || strings.HasPrefix(canonical, "Access-Control-") {
			continue
		}
		dst.Del(canonical)
		for _, v := range values {
			dst.Add(canonical, v)
		}
	}
}
