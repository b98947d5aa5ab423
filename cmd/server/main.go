package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/hoanghai1803/newsgate/internal/api"
	"github.com/hoanghai1803/newsgate/internal/config"
	"github.com/hoanghai1803/newsgate/internal/failover"
	"github.com/hoanghai1803/newsgate/internal/logging"
	"github.com/hoanghai1803/newsgate/internal/metrics"
	"github.com/hoanghai1803/newsgate/internal/providers"
)

const name = "newsgate"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, name, version)

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// run wires the provider chain into the HTTP server and blocks until a
// shutdown signal arrives or the server fails.
func run(cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewRecorder(reg)

	client := newUpstreamClient(cfg.UpstreamTimeout())

	chain, err := buildChain(cfg, client)
	if err != nil {
		return err
	}

	orch := failover.New(chain, failover.WithMetrics(rec))
	srv := newServer(cfg, api.NewRouter(orch, rec, reg, cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr, "version", version, "write_timeout", srv.WriteTimeout.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// buildChain creates the providers in priority order. It runs after the
// logger is configured so credential warnings use the configured handler.
func buildChain(cfg *config.Config, client *http.Client) ([]providers.Provider, error) {
	var chain []providers.Provider
	for _, spec := range cfg.Specs() {
		p, err := providers.New(spec, client)
		if err != nil {
			return nil, fmt.Errorf("creating provider %s: %w", spec.Kind, err)
		}
		chain = append(chain, p)
		slog.Info("news provider configured",
			"provider", p.Name(),
			"position", len(chain),
			"available", p.Available(),
			"failover", spec.Policy,
		)
		if !p.Available() {
			slog.Warn("news provider has no usable API key and will be skipped",
				"provider", p.Name(),
				"env", config.CredentialEnv(spec.Kind),
			)
		}
	}
	return chain, nil
}

// newServer builds the inbound HTTP server. The write timeout covers a full
// pass over the provider chain.
func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout(),
		ReadTimeout:       cfg.ReadTimeout(),
		WriteTimeout:      cfg.WriteTimeout(),
	}
}

// newUpstreamClient returns the HTTP client shared by every provider. It
// holds no per-request state and is safe for concurrent use.
func newUpstreamClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
