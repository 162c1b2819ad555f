package provider

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ZaguanLabs/fieldtl"
	"github.com/sashabaranov/go-openai"
)

// OpenAI implements fieldtl.Backend with chat completions.
type OpenAI struct {
	client  *openai.Client
	apiKey  string
	baseURL string
}

// OpenAIConfig holds configuration for the OpenAI backend.
type OpenAIConfig struct {
	APIKey  string // OpenAI API key; TranslationOptions.APIKey overrides it per call
	BaseURL string // Custom base URL (optional)
}

// NewOpenAI creates a new OpenAI backend. Model parameters come from
// TranslationOptions.OpenAI on every call.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	return &OpenAI{
		client:  newOpenAIClient(cfg.APIKey, cfg.BaseURL),
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
	}
}

func newOpenAIClient(apiKey, baseURL string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
}

// Translate translates one text.
func (p *OpenAI) Translate(ctx context.Context, text string, opts fieldtl.TranslationOptions) (string, error) {
	client := p.client
	if opts.APIKey != "" && opts.APIKey != p.apiKey {
		client = newOpenAIClient(opts.APIKey, p.baseURL)
	}

	params := opts.OpenAI
	defaults := fieldtl.DefaultOpenAIOptions()
	if params.Model == "" {
		params.Model = defaults.Model
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = defaults.MaxTokens
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(opts)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: nonZero(params.Temperature),
		TopP:        nonZero(params.TopP),
		MaxTokens:   params.MaxTokens,
	})
	if err != nil {
		return "", &fieldtl.BackendError{
			Service:   fieldtl.ServiceOpenAI,
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &fieldtl.BackendError{
			Service:   fieldtl.ServiceOpenAI,
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// nonZero keeps an explicit 0 from being dropped by the request's omitempty
// tags, which would make the API fall back to its own default of 1.
func nonZero(v float32) float32 {
	if v == 0 {
		return math.SmallestNonzeroFloat32
	}
	return v
}

func buildSystemPrompt(opts fieldtl.TranslationOptions) string {
	target := fieldtl.GetLanguageName(opts.TargetLocale)

	source := "the source language"
	if opts.SourceLocale != "" {
		source = fieldtl.GetLanguageName(opts.SourceLocale)
	}

	prompt := fmt.Sprintf(`# Role
You are an expert native translator working on content managed in a CMS.

# Task
Translate the user's message from %s into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase so the text reads naturally to a native speaker.
- **Markup Safety**: Do NOT translate HTML tags, attributes, URLs, email addresses, or content inside backticks.
- **Interpolation**: Do NOT translate variables or placeholders (e.g., {{name}}, {count}, %%s, $1).
- **Formatting**: Preserve leading/trailing whitespace and line breaks.

# Format
Reply with the translation only: no quotes, no explanations, no Markdown code blocks.`, source, target)

	var notes []string
	if fieldtl.IsRTL(opts.TargetLocale) {
		notes = append(notes, "- The target language is written right-to-left; do not add direction marks.")
	}
	if opts.Format == fieldtl.FormatSlug {
		notes = append(notes, "- The text is a URL slug; keep it short.")
	}
	if len(notes) > 0 {
		prompt += "\n\n# Notes\n" + strings.Join(notes, "\n")
	}

	return prompt
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAI implements Backend
var _ fieldtl.Backend = (*OpenAI)(nil)
