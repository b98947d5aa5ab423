package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hoanghai1803/newsgate/internal/models"
	"github.com/hoanghai1803/newsgate/internal/normalize"
)

// Compile-time interface checks.
var (
	_ Provider   = (*Bing)(nil)
	_ Normalizer = (*Bing)(nil)
)

// bingMarkets maps country codes onto Bing market codes. Countries missing
// here are sent as a cc country hint without a market.
var bingMarkets = map[string]string{
	"us": "en-US",
	"gb": "en-GB",
	"ca": "en-CA",
	"in": "en-IN",
	"au": "en-AU",
	"nz": "en-NZ",
	"cn": "zh-CN",
	"hk": "zh-HK",
	"tw": "zh-TW",
	"jp": "ja-JP",
	"de": "de-DE",
	"fr": "fr-FR",
	"it": "it-IT",
	"es": "es-ES",
	"br": "pt-BR",
}

// bingCategories maps canonical topics onto Bing news categories. "general"
// reads the uncategorized headlines; "nation" resolves per market through
// bingNationalCategories.
var bingCategories = map[string]string{
	"general":       "",
	"world":         "World",
	"business":      "Business",
	"technology":    "ScienceAndTechnology",
	"science":       "ScienceAndTechnology",
	"entertainment": "Entertainment",
	"sports":        "Sports",
	"health":        "Health",
	"nation":        "nation",
}

var bingNationalCategories = map[string]string{
	"en-US": "US",
	"en-GB": "UK",
	"en-CA": "Canada",
	"en-IN": "India",
	"en-AU": "Australia",
	"zh-CN": "China",
}

// bingMarketCategories lists the categories each market publishes. Bing
// rejects a category the market does not carry.
var bingMarketCategories = map[string]map[string]bool{
	"en-US": set("Business", "Entertainment", "Health", "Politics", "Products", "ScienceAndTechnology", "Sports", "US", "World"),
	"en-GB": set("Business", "Entertainment", "Health", "Politics", "ScienceAndTechnology", "Sports", "UK", "World"),
	"en-CA": set("Business", "Canada", "Entertainment", "LifeStyle", "Politics", "ScienceAndTechnology", "Sports", "World"),
	"en-IN": set("Business", "Entertainment", "India", "LifeStyle", "Politics", "ScienceAndTechnology", "Sports", "World"),
	"en-AU": set("Australia", "Business", "Entertainment", "Politics", "Sports", "World"),
	"zh-CN": set("Auto", "Business", "China", "Education", "Entertainment", "Military", "RealEstate", "ScienceAndTechnology", "Society", "Sports", "World"),
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// Bing implements Provider against the Bing News Search v7 API. Its payload
// is reshaped into the canonical article list.
type Bing struct {
	spec   Spec
	client *http.Client
}

// NewBing creates a Bing News adapter.
func NewBing(spec Spec, client *http.Client) *Bing {
	return &Bing{spec: spec, client: client}
}

// Name returns the display name.
func (p *Bing) Name() string { return p.spec.Name }

// Available reports whether the credential is usable.
func (p *Bing) Available() bool { return p.spec.CredentialOK() }

// Attempt queries /news/search when free text is present, /news otherwise.
// The key travels in the Ocp-Apim-Subscription-Key header.
func (p *Bing) Attempt(ctx context.Context, q models.Query) Outcome {
	if out, failed := p.spec.credentialFailure(); failed {
		return out
	}
	path, params := p.buildRequest(q)
	header := http.Header{}
	header.Set("Ocp-Apim-Subscription-Key", p.spec.APIKey)
	return call(ctx, p.client, p.spec, path, params, header, bingError)
}

// Normalize reshapes a Bing response into the canonical article list.
func (p *Bing) Normalize(body io.Reader) (*models.ArticleList, error) {
	return normalize.Bing(body)
}

// buildRequest maps the query onto a Bing path and parameters.
func (p *Bing) buildRequest(q models.Query) (string, url.Values) {
	text, category := resolveTopic(q, bingCategories)
	market, cc := p.market(q.Country)

	if category == "nation" {
		category = bingNationalCategories[market]
	}
	// Categories only exist in some markets; drop rather than be rejected.
	if category != "" && !bingMarketCategories[market][category] {
		category = ""
	}

	params := url.Values{}
	path := "/v7.0/news"
	if text != "" {
		path = "/v7.0/news/search"
		params.Set("q", text)
	} else if category != "" {
		params.Set("category", category)
	}
	if market != "" {
		params.Set("mkt", market)
	} else {
		params.Set("cc", cc)
	}
	params.Set("count", strconv.Itoa(p.spec.MaxResults))
	params.Set("sortBy", "Date")
	return path, params
}

// market resolves the Bing market for a country. A configured locale, or
// a non-English default such as zh for hk, builds the market from language
// and country. Unknown countries return an empty market and the
// upper-cased cc hint.
func (p *Bing) market(country string) (market, cc string) {
	if country == "" {
		return "en-US", ""
	}
	if lang, ok := p.spec.languageOverride(country); ok {
		return lang + "-" + strings.ToUpper(country), ""
	}
	if lang := p.spec.language(country); lang != "en" {
		return lang + "-" + strings.ToUpper(country), ""
	}
	if m, ok := bingMarkets[country]; ok {
		return m, ""
	}
	return "", strings.ToUpper(country)
}

// bingError extracts the message from a Bing error body. Both the
// Cognitive Services envelope and the ErrorResponse shape are handled.
func bingError(body []byte) string {
	var resp struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Errors []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	if resp.Error != nil && resp.Error.Message != "" {
		return resp.Error.Message
	}
	if len(resp.Errors) > 0 {
		return resp.Errors[0].Message
	}
	return ""
}
