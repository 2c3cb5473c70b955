package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/ivrit/internal/store"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// ErrNotConfigured is returned when the environment names no provider and
// holds no vendor API key.
var ErrNotConfigured = errors.New("no LLM provider configured")

type backend struct {
	name string
	// keyEnv is the vendor's own API key variable.
	keyEnv       string
	defaultModel string
	aliases      map[string]string
}

// backends in the order vendor keys are probed.
var backends = []backend{
	{ProviderGemini, "GEMINI_API_KEY", "gemini-flash", map[string]string{
		"gemini-flash": "gemini-2.5-flash",
		"gemini-lite":  "gemini-2.5-flash-lite",
		"gemini-pro":   "gemini-2.5-pro",
	}},
	{ProviderOpenAI, "OPENAI_API_KEY", "gpt-4o-mini", nil},
	{ProviderAnthropic, "ANTHROPIC_API_KEY", "claude-haiku", map[string]string{
		"claude-haiku":  "claude-haiku-4-5-20251001",
		"claude-sonnet": "claude-sonnet-4-5-20250929",
	}},
	{ProviderOpenRouter, "OPENROUTER_API_KEY", "google/gemini-2.5-flash", nil},
}

func lookupBackend(name string) (backend, bool) {
	for _, b := range backends {
		if b.name == name {
			return b, true
		}
	}
	return backend{}, false
}

// Config selects and tunes one provider.
type Config struct {
	Provider string
	// Model is a model id or one of the provider's short aliases. Empty
	// picks the provider default.
	Model   string
	APIKey  string
	BaseURL string
	// Timeout bounds a whole Generate call, retries included.
	Timeout time.Duration
	Retry   RetryPolicy
}

// DefaultConfig has no provider selected.
func DefaultConfig() Config {
	return Config{
		Timeout: 60 * time.Second,
		Retry: RetryPolicy{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
	}
}

// model resolves aliases and defaults to the id sent to the API.
func (c Config) model() string {
	b, _ := lookupBackend(c.Provider)
	m := c.Model
	if m == "" {
		m = b.defaultModel
	}
	if id, ok := b.aliases[m]; ok {
		return id
	}
	return m
}

// EnvPrefix prefixes the provider variables, e.g. IVRIT_LLM_PROVIDER.
const EnvPrefix = "IVRIT_LLM_"

// ConfigFromEnv reads IVRIT_LLM_PROVIDER, _MODEL, _API_KEY and _BASE_URL.
// A missing key falls back to the vendor variable. It reports whether a
// provider was named.
func ConfigFromEnv() (Config, bool) {
	cfg := DefaultConfig()
	cfg.Provider = os.Getenv(EnvPrefix + "PROVIDER")
	if cfg.Provider == "" {
		return cfg, false
	}
	cfg.Model = os.Getenv(EnvPrefix + "MODEL")
	cfg.BaseURL = os.Getenv(EnvPrefix + "BASE_URL")
	cfg.APIKey = apiKeyFor(cfg.Provider)
	return cfg, true
}

func apiKeyFor(provider string) string {
	if k := os.Getenv(EnvPrefix + "API_KEY"); k != "" {
		return k
	}
	if b, ok := lookupBackend(provider); ok {
		return os.Getenv(b.keyEnv)
	}
	return ""
}

// DiscoverConfig picks the first provider whose vendor key is set.
func DiscoverConfig() (Config, bool) {
	for _, b := range backends {
		if k := os.Getenv(b.keyEnv); k != "" {
			cfg := DefaultConfig()
			cfg.Provider, cfg.APIKey = b.name, k
			return cfg, true
		}
	}
	return Config{}, false
}

// ResolveConfig prefers IVRIT_LLM_* settings, then vendor keys.
func ResolveConfig() (Config, error) {
	if cfg, ok := ConfigFromEnv(); ok {
		return cfg, nil
	}
	if cfg, ok := DiscoverConfig(); ok {
		return cfg, nil
	}
	return Config{}, ErrNotConfigured
}

// Override applies the config file's non-empty settings. Switching
// provider drops the model, base URL and key chosen for the old one.
func (c Config) Override(provider, model string, timeout time.Duration) Config {
	if provider != "" && provider != c.Provider {
		c.Provider = provider
		c.Model, c.BaseURL = "", ""
		c.APIKey = apiKeyFor(provider)
	}
	if model != "" {
		c.Model = model
	}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return c
}

// Validate checks the provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	b, ok := lookupBackend(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s provider needs %sAPI_KEY or %s", c.Provider, EnvPrefix, b.keyEnv)
	}
	return nil
}

// NewProvider builds the configured provider wrapped as
// timeout → retry → record → provider. events may be nil to skip the
// event log.
func NewProvider(ctx context.Context, c Config, events store.EventRepo) (Provider, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	switch c.Provider {
	case ProviderMock:
		return NewFake(), nil
	case ProviderAnthropic:
		base = newAnthropic(c)
	case ProviderOpenAI, ProviderOpenRouter:
		base = newOpenAI(c)
	case ProviderGemini:
		g, err := newGemini(ctx, c)
		if err != nil {
			return nil, err
		}
		base = g
	}

	mws := []Middleware{Timeout(c.Timeout), Retry(c.Retry)}
	if events != nil {
		mws = append(mws, Record(events, c.Provider))
	}
	return Chain(base, mws...), nil
}
