package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hoanghai1803/newsgate/internal/providers"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Upstream  UpstreamConfig  `toml:"upstream"`
	Log       LogConfig       `toml:"log"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Providers ProvidersConfig `toml:"providers"`
}

// ServerConfig holds inbound HTTP server settings.
type ServerConfig struct {
	Host                   string `toml:"host"`
	Port                   int    `toml:"port"`
	ReadTimeoutSeconds     int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `toml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// UpstreamConfig holds settings shared by every outbound provider call.
type UpstreamConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxResults     int    `toml:"max_results"`
	UserAgent      string `toml:"user_agent"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig holds Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// ProvidersConfig lists the enabled providers in priority order and holds
// their settings.
type ProvidersConfig struct {
	Order      []string       `toml:"order"`
	GNews      ProviderConfig `toml:"gnews"`
	NewsAPI    ProviderConfig `toml:"newsapi"`
	Bing       ProviderConfig `toml:"bing"`
	GoogleNews ProviderConfig `toml:"googlenews"`
}

// ProviderConfig holds the settings of a single provider.
type ProviderConfig struct {
	APIKey   string            `toml:"api_key"`
	BaseURL  string            `toml:"base_url"`
	Failover string            `toml:"failover"`
	Locales  map[string]string `toml:"locales"`
}

const defaultConfigContent = `[server]
host = ""
port = 8080
read_timeout_seconds = 15
write_timeout_seconds = 30         # Raised to cover every provider timing out in turn
shutdown_timeout_seconds = 10

[upstream]
timeout_seconds = 10
max_results = 10
user_agent = "newsgate/1.0"

[log]
level = "info"                    # debug, info, warn, error (or LOG_LEVEL env var)
format = "json"                   # "json" or "text"

[metrics]
enabled = true
path = "/metrics"

[providers]
# Tried in this order. Add "googlenews" for a keyless last resort.
order = ["gnews", "newsapi", "bing"]

[providers.gnews]
api_key = ""                      # Or set GNEWS_API_KEY env var
failover = "strict"               # "strict" or "availability"

[providers.newsapi]
api_key = ""                      # Or set NEWSAPI_API_KEY env var
failover = "strict"

[providers.bing]
api_key = ""                      # Or set BING_API_KEY env var
failover = "strict"

[providers.googlenews]
failover = "strict"
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Explicit values are checked before defaults fill zero fields, so
	// "port = 0" is an error rather than the default port.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg, md)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file
// and would otherwise be silently replaced by defaults.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	positive := []struct {
		section, key string
		value        int
	}{
		{"server", "read_timeout_seconds", cfg.Server.ReadTimeoutSeconds},
		{"server", "write_timeout_seconds", cfg.Server.WriteTimeoutSeconds},
		{"server", "shutdown_timeout_seconds", cfg.Server.ShutdownTimeoutSeconds},
		{"upstream", "timeout_seconds", cfg.Upstream.TimeoutSeconds},
		{"upstream", "max_results", cfg.Upstream.MaxResults},
	}
	for _, p := range positive {
		if md.IsDefined(p.section, p.key) && p.value < 1 {
			return fmt.Errorf("invalid %s.%s %d: must be >= 1", p.section, p.key, p.value)
		}
	}
	if md.IsDefined("providers", "order") && len(cfg.Providers.Order) == 0 {
		return errors.New("invalid providers.order: at least one provider is required")
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config, md toml.MetaData) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = 10
	}
	if cfg.Upstream.TimeoutSeconds == 0 {
		cfg.Upstream.TimeoutSeconds = 10
	}
	if cfg.Upstream.MaxResults == 0 {
		cfg.Upstream.MaxResults = 10
	}
	if cfg.Upstream.UserAgent == "" {
		cfg.Upstream.UserAgent = "newsgate/1.0"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	// A missing bool decodes as false, so the metrics default only applies
	// when the key is absent.
	if !md.IsDefined("metrics", "enabled") {
		cfg.Metrics.Enabled = true
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if len(cfg.Providers.Order) == 0 {
		cfg.Providers.Order = []string{providers.KindGNews, providers.KindNewsAPI, providers.KindBing}
	}
	for i, name := range cfg.Providers.Order {
		cfg.Providers.Order[i] = strings.ToLower(strings.TrimSpace(name))
	}
}

// envKeys maps provider kinds to the environment variable holding their
// credential.
var envKeys = map[string]string{
	providers.KindGNews:   "GNEWS_API_KEY",
	providers.KindNewsAPI: "NEWSAPI_API_KEY",
	providers.KindBing:    "BING_API_KEY",
}

// CredentialEnv returns the environment variable that overrides the API key
// of a provider kind, or "" for keyless providers.
func CredentialEnv(kind string) string {
	return envKeys[kind]
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
func applyEnvOverrides(cfg *Config) error {
	for kind, env := range envKeys {
		if v := os.Getenv(env); v != "" {
			cfg.Providers.byKind(kind).APIKey = v
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	return nil
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	switch cfg.Log.Format {
	case "json", "text":
		// valid
	default:
		return fmt.Errorf("invalid log.format %q: must be \"json\" or \"text\"", cfg.Log.Format)
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") || cfg.Metrics.Path == "/" {
		return fmt.Errorf("invalid metrics.path %q: must start with \"/\" and not be the root", cfg.Metrics.Path)
	}

	seen := make(map[string]bool, len(cfg.Providers.Order))
	for _, kind := range cfg.Providers.Order {
		pc := cfg.Providers.byKind(kind)
		if pc == nil {
			return fmt.Errorf("invalid providers.order entry %q: must be one of %s",
				kind, strings.Join(providers.Kinds(), ", "))
		}
		if seen[kind] {
			return fmt.Errorf("invalid providers.order: %q is listed more than once", kind)
		}
		seen[kind] = true

		if _, err := providers.ParsePolicy(pc.Failover); err != nil {
			return fmt.Errorf("invalid providers.%s.failover: %w", kind, err)
		}
		if pc.BaseURL != "" {
			u, err := url.Parse(pc.BaseURL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("invalid providers.%s.base_url %q: must be an absolute http(s) URL", kind, pc.BaseURL)
			}
		}
	}

	return nil
}

// byKind returns the settings for a provider kind, or nil if the kind is
// unknown.
func (p *ProvidersConfig) byKind(kind string) *ProviderConfig {
	switch kind {
	case providers.KindGNews:
		return &p.GNews
	case providers.KindNewsAPI:
		return &p.NewsAPI
	case providers.KindBing:
		return &p.Bing
	case providers.KindGoogleNews:
		return &p.GoogleNews
	default:
		return nil
	}
}

// Specs returns the provider specs in priority order. It must only be called
// on a Config returned by Load.
func (c *Config) Specs() []providers.Spec {
	specs := make([]providers.Spec, 0, len(c.Providers.Order))
	for _, kind := range c.Providers.Order {
		pc := c.Providers.byKind(kind)
		if pc == nil {
			continue
		}
		spec := providers.DefaultSpec(kind)
		spec.APIKey = strings.TrimSpace(pc.APIKey)
		if pc.BaseURL != "" {
			spec.BaseURL = strings.TrimRight(pc.BaseURL, "/")
		}
		if policy, err := providers.ParsePolicy(pc.Failover); err == nil {
			spec.Policy = policy
		}
		if len(pc.Locales) > 0 {
			spec.Languages = make(map[string]string, len(pc.Locales))
			for country, lang := range pc.Locales {
				spec.Languages[strings.ToLower(country)] = strings.ToLower(lang)
			}
		}
		spec.MaxResults = c.Upstream.MaxResults
		spec.UserAgent = c.Upstream.UserAgent
		specs = append(specs, spec)
	}
	return specs
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// UpstreamTimeout returns the per-call timeout for provider requests.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// ReadTimeout returns the inbound read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// writeTimeoutMargin is added to a full pass over the provider chain when
// deriving the inbound write timeout.
const writeTimeoutMargin = 5 * time.Second

// ChainTimeout returns the longest a request can spend waiting on providers:
// every provider in order hitting the upstream timeout.
func (c *Config) ChainTimeout() time.Duration {
	return time.Duration(len(c.Providers.Order)) * c.UpstreamTimeout()
}

// WriteTimeout returns the inbound write timeout. It is never shorter than
// ChainTimeout plus a margin, so the exhaustion error is written before the
// connection deadline.
func (c *Config) WriteTimeout() time.Duration {
	configured := time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
	if floor := c.ChainTimeout() + writeTimeoutMargin; configured < floor {
		return floor
	}
	return configured
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}
