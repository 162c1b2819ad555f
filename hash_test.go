package fieldtl

import "testing"

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with surrounding whitespace",
			input:    "  Hello World\n",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if tt.expected != "" && result != tt.expected {
				t.Errorf("HashText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			if len(result) != 64 {
				t.Errorf("HashText(%q) length = %d, want 64", tt.input, len(result))
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	base := TranslationOptions{
		SourceLocale: "en",
		TargetLocale: "de-AT",
		Service:      ServiceDeepL,
		Format:       FormatHTML,
	}

	openAI := func(format Format, model string) TranslationOptions {
		opts := base
		opts.Service = ServiceOpenAI
		opts.Format = format
		opts.OpenAI = DefaultOpenAIOptions()
		opts.OpenAI.Model = model
		return opts
	}

	tests := []struct {
		name string
		opts TranslationOptions
		want string
	}{
		{"deepl", base, "abc123:en:de-AT:deepl:html"},
		{"openai", openAI(FormatSlug, "gpt-4o"), "abc123:en:de-AT:openAI:slug:gpt-4o"},
		{"fine-tuned model", openAI(FormatPlain, "ft:gpt-4o:acme"), "abc123:en:de-AT:openAI:plain:ft:gpt-4o:acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CacheKey("abc123", tt.opts); got != tt.want {
				t.Errorf("CacheKey() = %q, want %q", got, tt.want)
			}
		})
	}

	if CacheKey("abc123", openAI(FormatSlug, "gpt-4o")) == CacheKey("abc123", openAI(FormatPlain, "gpt-4o-mini")) {
		t.Error("slug and plain translations with different models should not share a key")
	}
	if CacheKey("abc123", openAI(FormatPlain, "gpt-4o")) == CacheKey("abc123", openAI(FormatPlain, "gpt-4o-mini")) {
		t.Error("different models should not share a key")
	}
}
