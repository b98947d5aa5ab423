// Package providers implements one adapter per upstream news API. Each
// adapter translates a canonical query into the provider's native request,
// issues the call and classifies the response as usable or failed.
package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hoanghai1803/newsgate/internal/models"
)

// Provider is the interface every upstream news API adapter implements.
type Provider interface {
	// Name returns the display name used in diagnostics and metrics.
	Name() string

	// Available reports whether the provider passed startup credential
	// validation. Unavailable providers still answer Attempt with a
	// configuration failure.
	Available() bool

	// Attempt performs a single call for the given query. It never returns
	// an error; every failure is folded into a Failed outcome.
	Attempt(ctx context.Context, q models.Query) Outcome
}

// Normalizer is implemented by providers whose native payload differs from
// the canonical article list. Providers without it are relayed byte for byte.
type Normalizer interface {
	Normalize(body io.Reader) (*models.ArticleList, error)
}

// Provider identifiers accepted in configuration.
const (
	KindGNews      = "gnews"
	KindNewsAPI    = "newsapi"
	KindBing       = "bing"
	KindGoogleNews = "googlenews"
)

// Kinds lists every supported provider identifier.
func Kinds() []string {
	return []string{KindGNews, KindNewsAPI, KindBing, KindGoogleNews}
}

// New creates the adapter matching spec.Kind.
func New(spec Spec, client *http.Client) (Provider, error) {
	switch spec.Kind {
	case KindGNews:
		return NewGNews(spec, client), nil
	case KindNewsAPI:
		return NewNewsAPI(spec, client), nil
	case KindBing:
		return NewBing(spec, client), nil
	case KindGoogleNews:
		return NewGoogleNews(spec, client), nil
	default:
		return nil, fmt.Errorf("unsupported news provider: %s", spec.Kind)
	}
}
