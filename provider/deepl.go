package provider

import (
	"context"
	"net/http"

	"github.com/ZaguanLabs/fieldtl"
)

const (
	deeplProURL  = "https://api.deepl.com/v2/translate"
	deeplFreeURL = "https://api-free.deepl.com/v2/translate"
)

// DeepLConfig holds configuration for the DeepL backend.
type DeepLConfig struct {
	APIKey  string       // Auth key; TranslationOptions.APIKey overrides it per call
	Free    bool         // Use the free-tier endpoint
	BaseURL string       // Custom endpoint (optional)
	Client  *http.Client // Custom HTTP client (optional)
}

// DeepL implements fieldtl.Backend using the DeepL v2 API.
type DeepL struct {
	apiKey string
	url    string
	client *http.Client
}

// NewDeepL creates a DeepL backend.
func NewDeepL(cfg DeepLConfig) *DeepL {
	url := deeplProURL
	if cfg.Free {
		url = deeplFreeURL
	}
	if cfg.BaseURL != "" {
		url = cfg.BaseURL
	}
	return &DeepL{apiKey: cfg.APIKey, url: url, client: defaultClient(cfg.Client)}
}

type deeplRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
	SourceLang string   `json:"source_lang,omitempty"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate translates one text. Locales are resolved to DeepL codes; an
// unresolvable source lets DeepL detect it.
func (d *DeepL) Translate(ctx context.Context, text string, opts fieldtl.TranslationOptions) (string, error) {
	target := fieldtl.ResolveTarget(opts.TargetLocale, opts.Service)
	if target == "" {
		return "", &fieldtl.UnsupportedLocaleError{Locale: opts.TargetLocale, Service: opts.Service}
	}

	key := d.apiKey
	if opts.APIKey != "" {
		key = opts.APIKey
	}

	var resp deeplResponse
	err := postJSON(ctx, d.client, opts.Service, d.url,
		map[string]string{"Authorization": "DeepL-Auth-Key " + key},
		deeplRequest{
			Text:       []string{text},
			TargetLang: target,
			SourceLang: fieldtl.ResolveSource(opts.SourceLocale, opts.Service),
		},
		&resp,
	)
	if err != nil {
		return "", err
	}

	if len(resp.Translations) != 1 {
		return "", &fieldtl.BackendError{Service: opts.Service, Message: "expected exactly one translation"}
	}
	return resp.Translations[0].Text, nil
}

// Verify DeepL implements Backend
var _ fieldtl.Backend = (*DeepL)(nil)
