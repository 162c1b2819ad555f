package provider

import (
	"context"
	"net/http"

	"github.com/ZaguanLabs/fieldtl"
)

const yandexURL = "https://translate.api.cloud.yandex.net/translate/v2/translate"

// YandexConfig holds configuration for the Yandex backend.
type YandexConfig struct {
	APIKey  string       // Cloud API key; TranslationOptions.APIKey overrides it per call
	BaseURL string       // Custom endpoint (optional)
	Client  *http.Client // Custom HTTP client (optional)
}

// Yandex implements fieldtl.Backend using Yandex Cloud Translate v2.
type Yandex struct {
	apiKey string
	url    string
	client *http.Client
}

// NewYandex creates a Yandex backend.
func NewYandex(cfg YandexConfig) *Yandex {
	url := yandexURL
	if cfg.BaseURL != "" {
		url = cfg.BaseURL
	}
	return &Yandex{apiKey: cfg.APIKey, url: url, client: defaultClient(cfg.Client)}
}

type yandexRequest struct {
	Texts              []string `json:"texts"`
	TargetLanguageCode string   `json:"targetLanguageCode"`
	SourceLanguageCode string   `json:"sourceLanguageCode,omitempty"`
	Format             string   `json:"format"`
}

type yandexResponse struct {
	Translations []struct {
		Text                 string `json:"text"`
		DetectedLanguageCode string `json:"detectedLanguageCode"`
	} `json:"translations"`
}

// Translate translates one text.
func (y *Yandex) Translate(ctx context.Context, text string, opts fieldtl.TranslationOptions) (string, error) {
	target := fieldtl.ResolveTarget(opts.TargetLocale, fieldtl.ServiceYandex)
	if target == "" {
		return "", &fieldtl.UnsupportedLocaleError{Locale: opts.TargetLocale, Service: fieldtl.ServiceYandex}
	}

	key := y.apiKey
	if opts.APIKey != "" {
		key = opts.APIKey
	}

	var resp yandexResponse
	err := postJSON(ctx, y.client, fieldtl.ServiceYandex, y.url,
		map[string]string{"Authorization": "Api-Key " + key},
		yandexRequest{
			Texts:              []string{text},
			TargetLanguageCode: target,
			SourceLanguageCode: fieldtl.ResolveSource(opts.SourceLocale, fieldtl.ServiceYandex),
			Format:             "PLAIN_TEXT",
		},
		&resp,
	)
	if err != nil {
		return "", err
	}

	if len(resp.Translations) != 1 {
		return "", &fieldtl.BackendError{Service: fieldtl.ServiceYandex, Message: "expected exactly one translation"}
	}
	return resp.Translations[0].Text, nil
}

// Verify Yandex implements Backend
var _ fieldtl.Backend = (*Yandex)(nil)
