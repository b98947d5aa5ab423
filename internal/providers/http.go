package providers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBody caps how much of a rejected response is read for
// diagnostics.
const maxErrorBody = 64 * 1024

// errorExtractor pulls a provider-supplied message out of an error body.
// It returns "" when the body carries nothing useful.
type errorExtractor func(body []byte) string

// call issues a GET against the provider and classifies the response with
// the provider's failover policy. header may be nil.
func call(ctx context.Context, client *http.Client, spec Spec, path string, params url.Values, header http.Header, extract errorExtractor) Outcome {
	endpoint := spec.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return FailedOutcome(http.StatusServiceUnavailable, FailureTransport, "creating request: %v", err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", spec.UserAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	slog.Debug("calling news provider", "provider", spec.Name, "path", path)

	resp, err := client.Do(req)
	if err != nil {
		return FailedOutcome(http.StatusServiceUnavailable, FailureTransport, "request failed: %v", redactURLError(err, spec.APIKey))
	}

	if !spec.Policy.ShouldFailover(resp.StatusCode) {
		return UsableOutcome(resp.StatusCode, resp.Header, resp.Body)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil {
		slog.Debug("reading provider error body failed",
			"provider", spec.Name,
			"status", resp.StatusCode,
			"error", readErr,
		)
	}
	msg := ""
	if extract != nil {
		msg = extract(body)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	if readErr != nil {
		msg += " (error body unreadable)"
	}
	return FailedOutcome(resp.StatusCode, FailureRejection, "HTTP %d: %s", resp.StatusCode, msg)
}

// redactURLError removes the credential from a transport error. *url.Error
// embeds the full request URL, including query-string API keys.
func redactURLError(err error, secret string) string {
	msg := err.Error()
	if secret == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(secret), "REDACTED")
	return strings.ReplaceAll(msg, secret, "REDACTED")
}
