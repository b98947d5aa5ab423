// Package failover tries news providers one at a time, in priority order,
// and returns the first usable response.
package failover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hoanghai1803/newsgate/internal/metrics"
	"github.com/hoanghai1803/newsgate/internal/models"
	"github.com/hoanghai1803/newsgate/internal/providers"
)

// Success is the response selected for relay to the caller. The caller owns
// Body and must close it.
type Success struct {
	Provider   string
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Orchestrator holds an immutable, ordered provider list. It keeps no
// per-request state and is safe for concurrent use.
type Orchestrator struct {
	providers []providers.Provider
	metrics   *metrics.Recorder
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics records attempt metrics on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(o *Orchestrator) {
		o.metrics = rec
	}
}

// New creates an Orchestrator over ps, highest priority first. The slice is
// copied.
func New(ps []providers.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{providers: append([]providers.Provider(nil), ps...)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Providers returns the configured providers in priority order.
func (o *Orchestrator) Providers() []providers.Provider {
	return append([]providers.Provider(nil), o.providers...)
}

// Handle attempts each provider in order and returns the first usable
// response, normalized when the provider implements providers.Normalizer.
// When every provider fails it returns an *ExhaustedError carrying each
// diagnostic in attempt order.
func (o *Orchestrator) Handle(ctx context.Context, q models.Query) (*Success, error) {
	var messages []string

	for _, p := range o.providers {
		if err := ctx.Err(); err != nil {
			messages = append(messages, fmt.Sprintf("request canceled: %v", err))
			break
		}
		start := time.Now()
		out := p.Attempt(ctx, q)

		var (
			success *Success
			failure *providers.Failure
		)
		if out.OK() {
			success, failure = o.finish(p, out.Usable)
		} else {
			failure = out.Failed
		}

		kind := "ok"
		if failure != nil {
			kind = string(failure.Kind)
		}
		o.metrics.ObserveAttempt(p.Name(), kind, time.Since(start))

		if failure == nil {
			slog.Info("news provider answered",
				"provider", p.Name(),
				"status", success.StatusCode,
			)
			return success, nil
		}

		slog.Warn("news provider failed, trying next",
			"provider", p.Name(),
			"kind", failure.Kind,
			"status", failure.StatusCode,
			"error", failure.Message,
		)
		messages = append(messages, p.Name()+": "+failure.Message)
	}

	status := http.StatusServiceUnavailable
	if !o.anyAvailable() {
		status = http.StatusInternalServerError
	}
	if len(o.providers) == 0 {
		messages = append(messages, "no news providers configured")
	}
	o.metrics.IncExhausted()
	return nil, &ExhaustedError{StatusCode: status, Messages: messages}
}

// finish turns a usable outcome into a Success. Success responses from
// providers with a foreign schema are normalized and re-encoded; everything
// else is relayed as the provider sent it. A body that fails to normalize
// becomes a parse failure.
func (o *Orchestrator) finish(p providers.Provider, u *providers.Usable) (*Success, *providers.Failure) {
	n, ok := p.(providers.Normalizer)
	if !ok || u.StatusCode < 200 || u.StatusCode >= 300 {
		return &Success{
			Provider:   p.Name(),
			StatusCode: u.StatusCode,
			Header:     u.Header,
			Body:       u.Body,
		}, nil
	}
	defer u.Body.Close()

	list, err := n.Normalize(u.Body)
	if err != nil {
		return nil, &providers.Failure{
			StatusCode: http.StatusBadGateway,
			Kind:       providers.FailureParse,
			Message:    fmt.Sprintf("normalizing response: %v", err),
		}
	}

	data, err := json.Marshal(list)
	if err != nil {
		return nil, &providers.Failure{
			StatusCode: http.StatusInternalServerError,
			Kind:       providers.FailureParse,
			Message:    fmt.Sprintf("encoding normalized response: %v", err),
		}
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json; charset=utf-8")
	return &Success{
		Provider:   p.Name(),
		StatusCode: u.StatusCode,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (o *Orchestrator) anyAvailable() bool {
	for _, p := range o.providers {
		if p.Available() {
			return true
		}
	}
	return false
}
