// Package provider implements fieldtl.Backend for the supported translation
// services.
package provider

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ZaguanLabs/fieldtl"
)

// Config selects and configures one backend.
type Config struct {
	Service fieldtl.Service
	APIKey  string
	BaseURL string       // optional endpoint override
	Client  *http.Client // HTTP services only; default has a 30s timeout
}

// New builds the backend for cfg.Service.
func New(cfg Config) (fieldtl.Backend, error) {
	switch cfg.Service {
	case fieldtl.ServiceOpenAI:
		return NewOpenAI(OpenAIConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL}), nil
	case fieldtl.ServiceDeepL, fieldtl.ServiceDeepLFree:
		return NewDeepL(DeepLConfig{
			APIKey:  cfg.APIKey,
			Free:    cfg.Service == fieldtl.ServiceDeepLFree,
			BaseURL: cfg.BaseURL,
			Client:  cfg.Client,
		}), nil
	case fieldtl.ServiceYandex:
		return NewYandex(YandexConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Client: cfg.Client}), nil
	case fieldtl.ServiceMock:
		return NewMock(), nil
	}
	return nil, fmt.Errorf("provider: unknown service %q", cfg.Service)
}

func defaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 30 * time.Second}
}
