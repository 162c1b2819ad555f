// Package config loads fieldtl settings from a YAML file and the environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ZaguanLabs/fieldtl"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = ".fieldtl.yaml"

// Environment variables read by Load.
const (
	EnvAPIKey       = "FIELDTL_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvDeepLAPIKey  = "DEEPL_API_KEY"
	EnvYandexAPIKey = "YANDEX_API_KEY"
	EnvRedisURL     = "FIELDTL_REDIS_URL"
)

// Cache types.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the top-level .fieldtl.yaml structure.
type Config struct {
	// Service is the translation backend: openAI, deepl, deeplFree, yandex or mock.
	Service string `yaml:"service"`
	// APIKey is the backend credential. Usually supplied through the environment.
	APIKey string `yaml:"api_key,omitempty"`
	// BaseURL overrides the backend endpoint.
	BaseURL string `yaml:"base_url,omitempty"`

	// SourceLocale is the locale field values are written in.
	SourceLocale string `yaml:"source_locale,omitempty"`
	// TargetLocales are translated to when no target is given on the command line.
	TargetLocales []string `yaml:"target_locales,omitempty"`
	// Format is the default value format.
	Format string `yaml:"format,omitempty"`
	// MaxDepth bounds sub-document nesting.
	MaxDepth int `yaml:"max_depth,omitempty"`

	OpenAI    OpenAI    `yaml:"openai,omitempty"`
	Cache     Cache     `yaml:"cache,omitempty"`
	Retry     Retry     `yaml:"retry,omitempty"`
	RateLimit RateLimit `yaml:"rate_limit,omitempty"`
}

// OpenAI holds chat-completion parameters.
type OpenAI struct {
	Model       string  `yaml:"model,omitempty"`
	Temperature float32 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	TopP        float32 `yaml:"top_p,omitempty"`
}

// Cache selects where backend results are kept between calls.
type Cache struct {
	Type       string `yaml:"type,omitempty"`
	TTL        int    `yaml:"ttl,omitempty"`         // seconds, 0 = no expiration
	MaxEntries int    `yaml:"max_entries,omitempty"` // memory cache only, 0 = unbounded
	RedisURL   string `yaml:"redis_url,omitempty"`
	KeyPrefix  string `yaml:"key_prefix,omitempty"`
}

// Retry configures retries of failed backend calls.
type Retry struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay,omitempty"`
	MaxDelay   time.Duration `yaml:"max_delay,omitempty"`
}

// RateLimit caps backend usage. Zero disables a budget.
type RateLimit struct {
	RequestsPerMinute   int `yaml:"requests_per_minute,omitempty"`
	BurstSize           int `yaml:"burst_size,omitempty"`
	CharactersPerMinute int `yaml:"characters_per_minute,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	openai := fieldtl.DefaultOpenAIOptions()
	retry := fieldtl.DefaultRetryConfig()

	return &Config{
		Service:      string(fieldtl.ServiceOpenAI),
		SourceLocale: "en",
		Format:       string(fieldtl.FormatPlain),
		MaxDepth:     fieldtl.DefaultMaxDepth,
		OpenAI: OpenAI{
			Model:       openai.Model,
			Temperature: openai.Temperature,
			MaxTokens:   openai.MaxTokens,
			TopP:        openai.TopP,
		},
		Cache: Cache{
			Type:       CacheMemory,
			TTL:        3600,
			MaxEntries: 10000,
		},
		Retry: Retry{
			MaxRetries: retry.MaxRetries,
			BaseDelay:  retry.BaseDelay,
			MaxDelay:   retry.MaxDelay,
		},
	}
}

// Load reads the config file at path over the defaults, then applies the
// environment. An empty path loads FileName if it exists and skips it
// otherwise; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides credentials and the Redis URL from the environment.
// FIELDTL_API_KEY wins over the service-specific variables, which only
// fill an empty key.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.APIKey == "" {
		var name string
		switch fieldtl.Service(c.Service) {
		case fieldtl.ServiceOpenAI:
			name = EnvOpenAIAPIKey
		case fieldtl.ServiceDeepL, fieldtl.ServiceDeepLFree:
			name = EnvDeepLAPIKey
		case fieldtl.ServiceYandex:
			name = EnvYandexAPIKey
		}
		if name != "" {
			c.APIKey = getenv(name)
		}
	}
	if key := getenv(EnvAPIKey); key != "" {
		c.APIKey = key
	}

	if url := getenv(EnvRedisURL); url != "" {
		c.Cache.RedisURL = url
		if c.Cache.Type == "" || c.Cache.Type == CacheMemory {
			c.Cache.Type = CacheRedis
		}
	}
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch fieldtl.Service(c.Service) {
	case fieldtl.ServiceOpenAI, fieldtl.ServiceDeepL, fieldtl.ServiceDeepLFree,
		fieldtl.ServiceYandex, fieldtl.ServiceMock:
	default:
		return fmt.Errorf("unknown service %q", c.Service)
	}

	switch fieldtl.Format(c.Format) {
	case fieldtl.FormatPlain, fieldtl.FormatHTML, fieldtl.FormatMarkdown,
		fieldtl.FormatStructuredText, fieldtl.FormatRichText, fieldtl.FormatSEO, fieldtl.FormatSlug:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}

	switch c.Cache.Type {
	case "", CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New("redis cache needs redis_url")
		}
	default:
		return fmt.Errorf("unknown cache type %q", c.Cache.Type)
	}

	if c.MaxDepth < 0 || c.Cache.MaxEntries < 0 || c.Retry.MaxRetries < 0 || c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.CharactersPerMinute < 0 {
		return errors.New("max_depth, max_entries, max_retries and rate limits must not be negative")
	}
	return nil
}

// Options builds the per-call options for one target locale.
func (c *Config) Options(target string) fieldtl.TranslationOptions {
	return fieldtl.TranslationOptions{
		SourceLocale: c.SourceLocale,
		TargetLocale: target,
		Format:       fieldtl.Format(c.Format),
		Service:      fieldtl.Service(c.Service),
		APIKey:       c.APIKey,
		OpenAI: fieldtl.OpenAIOptions{
			Model:       c.OpenAI.Model,
			Temperature: c.OpenAI.Temperature,
			MaxTokens:   c.OpenAI.MaxTokens,
			TopP:        c.OpenAI.TopP,
		},
	}
}

// RetryConfig converts the retry section.
func (c *Config) RetryConfig() fieldtl.RetryConfig {
	return fieldtl.RetryConfig{
		MaxRetries: c.Retry.MaxRetries,
		BaseDelay:  c.Retry.BaseDelay,
		MaxDelay:   c.Retry.MaxDelay,
	}
}

// RateLimitConfig converts the rate limit section.
func (c *Config) RateLimitConfig() fieldtl.RateLimitConfig {
	return fieldtl.RateLimitConfig{
		RequestsPerMinute:   c.RateLimit.RequestsPerMinute,
		BurstSize:           c.RateLimit.BurstSize,
		CharactersPerMinute: c.RateLimit.CharactersPerMinute,
	}
}
