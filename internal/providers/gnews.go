package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/hoanghai1803/newsgate/internal/models"
)

// Compile-time interface check.
var _ Provider = (*GNews)(nil)

// gnewsCategories maps canonical topics onto GNews top-headlines categories.
// The canonical vocabulary is GNews's own, so the mapping is the identity.
var gnewsCategories = map[string]string{
	"general":       "general",
	"world":         "world",
	"nation":        "nation",
	"business":      "business",
	"technology":    "technology",
	"entertainment": "entertainment",
	"sports":        "sports",
	"science":       "science",
	"health":        "health",
}

// GNews implements Provider against the GNews v4 API. Its payload already
// has the canonical shape and is relayed unmodified.
type GNews struct {
	spec   Spec
	client *http.Client
}

// NewGNews creates a GNews adapter.
func NewGNews(spec Spec, client *http.Client) *GNews {
	return &GNews{spec: spec, client: client}
}

// Name returns the display name.
func (p *GNews) Name() string { return p.spec.Name }

// Available reports whether the credential is usable.
func (p *GNews) Available() bool { return p.spec.CredentialOK() }

// Attempt queries /search when free text is present, /top-headlines
// otherwise.
func (p *GNews) Attempt(ctx context.Context, q models.Query) Outcome {
	if out, failed := p.spec.credentialFailure(); failed {
		return out
	}
	path, params := p.buildRequest(q)
	params.Set("apikey", p.spec.APIKey)
	return call(ctx, p.client, p.spec, path, params, nil, gnewsError)
}

// buildRequest maps the query onto a GNews path and parameters, without
// the credential.
func (p *GNews) buildRequest(q models.Query) (string, url.Values) {
	text, category := resolveTopic(q, gnewsCategories)

	// GNews rejects the nation category without a country to scope it.
	if category == "nation" && q.Country == "" {
		category = ""
	}

	params := url.Values{}
	path := "/api/v4/top-headlines"
	if text != "" {
		path = "/api/v4/search"
		params.Set("q", text)
	} else if category != "" {
		params.Set("category", category)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	params.Set("lang", p.spec.language(q.Country))
	params.Set("max", strconv.Itoa(p.spec.MaxResults))
	params.Set("sortby", "publishedAt")
	return path, params
}

// gnewsError extracts the message from a GNews error body. GNews returns
// either {"errors": ["..."]} or {"errors": {"field": "..."}}.
func gnewsError(body []byte) string {
	var list struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &list); err == nil && len(list.Errors) > 0 {
		return strings.Join(list.Errors, ", ")
	}

	var fields struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &fields); err == nil && len(fields.Errors) > 0 {
		msgs := make([]string, 0, len(fields.Errors))
		for k, v := range fields.Errors {
			msgs = append(msgs, k+": "+v)
		}
		sort.Strings(msgs)
		return strings.Join(msgs, ", ")
	}
	return ""
}
