package fieldtl

import "github.com/ZaguanLabs/fieldtl/document"

// Format is the shape of a field value handed to the engine.
type Format string

const (
	FormatPlain          Format = "plain"
	FormatHTML           Format = "html"
	FormatMarkdown       Format = "markdown"
	FormatStructuredText Format = "structured_text"
	FormatRichText       Format = "rich_text"
	FormatSEO            Format = "seo"
	FormatSlug           Format = "slug"
)

// Service identifies a translation backend.
type Service string

const (
	ServiceOpenAI    Service = "openAI"
	ServiceDeepL     Service = "deepl"
	ServiceDeepLFree Service = "deeplFree"
	ServiceYandex    Service = "yandex"
	ServiceMock      Service = "mock"
)

// OpenAIOptions tunes chat-completion backends.
type OpenAIOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// DefaultOpenAIOptions mirrors the plugin defaults.
func DefaultOpenAIOptions() OpenAIOptions {
	return OpenAIOptions{
		Model:       "gpt-4o",
		Temperature: 0,
		MaxTokens:   100,
		TopP:        0,
	}
}

// TranslationOptions is the per-call configuration. It is passed by value and
// shared read-only by every step of one translation.
type TranslationOptions struct {
	SourceLocale string  // e.g. "en" or "en-US"
	TargetLocale string  // e.g. "de" or "pt-BR"
	Format       Format  // shape of the top-level value
	Service      Service // backend to use
	APIKey       string  // backend credential
	OpenAI       OpenAIOptions
}

// Editor is the field editor configured on the hosting platform.
type Editor string

const (
	EditorHTML           Editor = "wysiwyg"
	EditorMarkdown       Editor = "markdown"
	EditorSingleLine     Editor = "single_line"
	EditorStructuredText Editor = "structured_text"
	EditorRichText       Editor = "rich_text"
	EditorTextarea       Editor = "textarea"
	EditorSEO            Editor = "seo"
	EditorSlug           Editor = "slug"
)

var editorFormats = map[Editor]Format{
	EditorHTML:           FormatHTML,
	EditorMarkdown:       FormatMarkdown,
	EditorSingleLine:     FormatPlain,
	EditorStructuredText: FormatStructuredText,
	EditorRichText:       FormatRichText,
	EditorTextarea:       FormatPlain,
	EditorSEO:            FormatSEO,
	EditorSlug:           FormatSlug,
}

// FormatForEditor maps a field editor to the format its values are in.
func FormatForEditor(editor Editor) (Format, bool) {
	f, ok := editorFormats[editor]
	return f, ok
}

// Leaf is one string that reaches the backend during a translation.
type Leaf struct {
	Location string // dotted location, nested formats joined with "/"
	Format   Format // format of the sub-document the leaf lives in
	Text     string // text as sent to the backend
	Hash     string // HashText(Text)
}

// Result is the outcome of Engine.Translate.
type Result struct {
	// Original is an untouched deep copy of the input, identifiers included,
	// for callers that need to merge identifiers back
	// (see document.RestoreIdentifiers).
	Original any
	// Value is the translated value. Identifier fields are not reproduced.
	Value any
	// TranslatedCount is the number of backend calls made.
	TranslatedCount int
	// SkippedCount is the number of blank leaves left as they were.
	SkippedCount int
}

// Tree is a parsed HTML or Markdown document.
type Tree struct {
	// Root holds the ordered top-level nodes under the codec's ChildrenKey.
	Root *document.Object
	// State is codec-private data needed to serialize Root again.
	State interface{}
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}
