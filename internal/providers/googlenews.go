package providers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hoanghai1803/newsgate/internal/models"
	"github.com/hoanghai1803/newsgate/internal/normalize"
)

// Compile-time interface checks.
var (
	_ Provider   = (*GoogleNews)(nil)
	_ Normalizer = (*GoogleNews)(nil)
)

// googleSections maps canonical topics onto Google News topic sections.
// "general" has no section and reads the front page.
var googleSections = map[string]string{
	"general":       "",
	"world":         "WORLD",
	"nation":        "NATION",
	"business":      "BUSINESS",
	"technology":    "TECHNOLOGY",
	"entertainment": "ENTERTAINMENT",
	"sports":        "SPORTS",
	"science":       "SCIENCE",
	"health":        "HEALTH",
}

// googleScripts picks the Chinese script edition per country.
var googleScripts = map[string]string{
	"cn": "zh-Hans",
	"hk": "zh-Hant",
	"tw": "zh-Hant",
}

// GoogleNews implements Provider against the keyless Google News RSS feeds.
// The RSS payload is reshaped into the canonical article list.
type GoogleNews struct {
	spec   Spec
	client *http.Client
}

// NewGoogleNews creates a Google News RSS adapter.
func NewGoogleNews(spec Spec, client *http.Client) *GoogleNews {
	return &GoogleNews{spec: spec, client: client}
}

// Name returns the display name.
func (p *GoogleNews) Name() string { return p.spec.Name }

// Available always reports true; the feeds need no credential.
func (p *GoogleNews) Available() bool { return p.spec.CredentialOK() }

// Attempt fetches the search feed when free text is present, a topic
// section or the front page otherwise.
func (p *GoogleNews) Attempt(ctx context.Context, q models.Query) Outcome {
	path, params := p.buildRequest(q)
	header := http.Header{}
	header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")
	return call(ctx, p.client, p.spec, path, params, header, nil)
}

// Normalize parses the RSS payload into the canonical article list.
func (p *GoogleNews) Normalize(body io.Reader) (*models.ArticleList, error) {
	return normalize.Feed(body)
}

// buildRequest maps the query onto a feed path and edition parameters.
func (p *GoogleNews) buildRequest(q models.Query) (string, url.Values) {
	text, section := resolveTopic(q, googleSections)

	params := url.Values{}
	path := "/rss"
	if text != "" {
		path = "/rss/search"
		params.Set("q", text)
	} else if section != "" {
		path = "/rss/headlines/section/topic/" + section
	}

	hl, gl, ceid := p.edition(q.Country)
	params.Set("hl", hl)
	params.Set("gl", gl)
	params.Set("ceid", ceid)
	params.Set("scoring", "n")
	return path, params
}

// edition returns the hl, gl and ceid parameters for a country.
func (p *GoogleNews) edition(country string) (hl, gl, ceid string) {
	if country == "" {
		return "en-US", "US", "US:en"
	}
	gl = strings.ToUpper(country)
	lang := p.spec.language(country)
	if script, ok := googleScripts[country]; ok && lang == "zh" {
		return "zh-" + gl, gl, gl + ":" + script
	}
	if lang == "en" {
		return "en-" + gl, gl, gl + ":en"
	}
	return lang, gl, gl + ":" + lang
}
