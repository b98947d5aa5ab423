package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hoanghai1803/newsgate/internal/models"
	"github.com/hoanghai1803/newsgate/internal/normalize"
)

// Compile-time interface checks.
var (
	_ Provider   = (*NewsAPI)(nil)
	_ Normalizer = (*NewsAPI)(nil)
)

// newsapiCategories maps canonical topics onto NewsAPI top-headlines
// categories. NewsAPI has no world or nation slot; both read as general.
var newsapiCategories = map[string]string{
	"general":       "general",
	"world":         "general",
	"nation":        "general",
	"business":      "business",
	"technology":    "technology",
	"entertainment": "entertainment",
	"sports":        "sports",
	"science":       "science",
	"health":        "health",
}

// NewsAPI implements Provider against newsapi.org v2. Its payload uses
// totalResults and urlToImage and is reshaped into the canonical list.
type NewsAPI struct {
	spec   Spec
	client *http.Client
}

// NewNewsAPI creates a NewsAPI adapter.
func NewNewsAPI(spec Spec, client *http.Client) *NewsAPI {
	return &NewsAPI{spec: spec, client: client}
}

// Name returns the display name.
func (p *NewsAPI) Name() string { return p.spec.Name }

// Available reports whether the credential is usable.
func (p *NewsAPI) Available() bool { return p.spec.CredentialOK() }

// Attempt queries /everything when free text is present, /top-headlines
// otherwise. The key travels in the X-Api-Key header.
func (p *NewsAPI) Attempt(ctx context.Context, q models.Query) Outcome {
	if out, failed := p.spec.credentialFailure(); failed {
		return out
	}
	path, params := p.buildRequest(q)
	header := http.Header{}
	header.Set("X-Api-Key", p.spec.APIKey)
	return call(ctx, p.client, p.spec, path, params, header, newsapiError)
}

// Normalize reshapes a NewsAPI response into the canonical article list.
func (p *NewsAPI) Normalize(body io.Reader) (*models.ArticleList, error) {
	return normalize.NewsAPI(body)
}

// buildRequest maps the query onto a NewsAPI path and parameters.
//
// /everything accepts neither country nor category, so a country is
// expressed through language there. /top-headlines accepts no language
// and needs at least one filter, so it defaults to the US edition.
func (p *NewsAPI) buildRequest(q models.Query) (string, url.Values) {
	text, category := resolveTopic(q, newsapiCategories)

	params := url.Values{}
	var path string
	if text != "" {
		path = "/v2/everything"
		params.Set("q", text)
		params.Set("language", p.spec.language(q.Country))
	} else {
		path = "/v2/top-headlines"
		country := q.Country
		if country == "" && category == "" {
			country = "us"
		}
		if country != "" {
			params.Set("country", country)
		}
		if category != "" {
			params.Set("category", category)
		}
	}
	params.Set("pageSize", strconv.Itoa(p.spec.MaxResults))
	params.Set("sortBy", "publishedAt")
	return path, params
}

// newsapiError extracts "code: message" from a NewsAPI error body.
func newsapiError(body []byte) string {
	var resp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Message == "" {
		return ""
	}
	if resp.Code == "" {
		return resp.Message
	}
	return resp.Code + ": " + resp.Message
}
