package providers

import (
	"strings"
)

// MinCredentialLength is the shortest API key considered plausible.
const MinCredentialLength = 5

// defaultLanguages maps countries whose country filter alone does not
// guarantee the result language.
var defaultLanguages = map[string]string{
	"cn": "zh",
	"hk": "zh",
}

// Spec is the static configuration of one provider. It is built once at
// startup and never mutated afterwards.
type Spec struct {
	// Kind selects the adapter (see Kinds).
	Kind string
	// Name is the display name used in diagnostics.
	Name string
	// APIKey is the provider credential. Keyless providers ignore it.
	APIKey string
	// BaseURL is the scheme and host of the provider API, without a
	// trailing slash.
	BaseURL string
	// Policy decides which statuses trigger failover.
	Policy FailoverPolicy
	// Languages overrides the result language per country code.
	Languages map[string]string
	// MaxResults caps the number of articles requested.
	MaxResults int
	// UserAgent identifies the proxy to the provider.
	UserAgent string
}

// requiresCredential reports whether the adapter needs an API key.
func (s Spec) requiresCredential() bool {
	return s.Kind != KindGoogleNews
}

// CredentialOK reports whether the provider has a plausible credential.
func (s Spec) CredentialOK() bool {
	if !s.requiresCredential() {
		return true
	}
	return len(strings.TrimSpace(s.APIKey)) >= MinCredentialLength
}

// languageOverride returns the configured language for a country, if any.
func (s Spec) languageOverride(country string) (string, bool) {
	lang, ok := s.Languages[country]
	return lang, ok && lang != ""
}

// language returns the result language for a country, "en" when no
// override applies.
func (s Spec) language(country string) string {
	if lang, ok := s.languageOverride(country); ok {
		return lang
	}
	if lang, ok := defaultLanguages[country]; ok {
		return lang
	}
	return "en"
}

// credentialFailure returns a configuration failure when the credential is
// unusable.
func (s Spec) credentialFailure() (Outcome, bool) {
	if s.CredentialOK() {
		return Outcome{}, false
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return FailedOutcome(0, FailureConfiguration, "configuration error: API key is not set"), true
	}
	return FailedOutcome(0, FailureConfiguration,
		"configuration error: API key is shorter than %d characters", MinCredentialLength), true
}

// DefaultSpec returns the built-in defaults for a provider kind.
func DefaultSpec(kind string) Spec {
	spec := Spec{
		Kind:       kind,
		Policy:     PolicyStrict,
		MaxResults: 10,
		UserAgent:  "newsgate/1.0",
	}
	switch kind {
	case KindGNews:
		spec.Name = "GNews"
		spec.BaseURL = "https://gnews.io"
	case KindNewsAPI:
		spec.Name = "NewsAPI"
		spec.BaseURL = "https://newsapi.org"
	case KindBing:
		spec.Name = "Bing News"
		spec.BaseURL = "https://api.bing.microsoft.com"
	case KindGoogleNews:
		spec.Name = "Google News"
		spec.BaseURL = "https://news.google.com"
	}
	return spec
}
