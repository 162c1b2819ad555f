package fieldtl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ZaguanLabs/fieldtl/document"
)

// DefaultMaxDepth bounds how many sub-documents may be nested inside each
// other (structured text inside a block inside rich text, and so on).
const DefaultMaxDepth = 32

// Backend is the translation capability: one string in, one string out.
// Implementations may block; they should honour ctx cancellation.
type Backend interface {
	Translate(ctx context.Context, text string, opts TranslationOptions) (string, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, text string, opts TranslationOptions) (string, error)

// Translate calls f.
func (f BackendFunc) Translate(ctx context.Context, text string, opts TranslationOptions) (string, error) {
	return f(ctx, text, opts)
}

// Codec parses a markup format into a Tree and serializes it back.
type Codec interface {
	Parse(src string) (*Tree, error)
	Serialize(tree *Tree) (string, error)
	ContentType() string // "html" or "markdown"
	ChildrenKey() string // key of the ordered child sequence
	TextKey() string     // key of translatable text on leaf nodes
}

// Engine translates field values leaf by leaf, preserving their structure.
// An Engine is safe for concurrent use once built; every Translate call
// works on its own copy of the input.
type Engine struct {
	backends map[Service]Backend
	codecs   map[Format]Codec
	logger   *slog.Logger
	maxDepth int
	leafHook func(Leaf)
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithBackend registers the backend used for service.
func WithBackend(service Service, backend Backend) EngineOption {
	return func(e *Engine) {
		e.backends[service] = backend
	}
}

// WithCodec registers a codec for the format named by its ContentType.
func WithCodec(codec Codec) EngineOption {
	return func(e *Engine) {
		e.codecs[Format(codec.ContentType())] = codec
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxDepth sets the sub-document nesting limit.
func WithMaxDepth(n int) EngineOption {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// WithLeafHook registers a function called with every leaf right before it
// is sent to the backend.
func WithLeafHook(hook func(Leaf)) EngineOption {
	return func(e *Engine) {
		e.leafHook = hook
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		backends: make(map[Service]Backend),
		codecs:   make(map[Format]Codec),
		logger:   slog.Default(),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Translate translates value, interpreted according to opts.Format, from
// opts.SourceLocale to opts.TargetLocale.
//
// The input is never modified. Leaves are translated one at a time in
// document order; the first failure aborts the call and no partial result
// is returned.
func (e *Engine) Translate(ctx context.Context, value any, opts TranslationOptions) (*Result, error) {
	backend, ok := e.backends[opts.Service]
	if !ok || backend == nil {
		return nil, ErrNoBackendConfigured
	}

	if ResolveTarget(opts.TargetLocale, opts.Service) == "" {
		return nil, &UnsupportedLocaleError{Locale: opts.TargetLocale, Service: opts.Service}
	}

	// Validates the input (no cycles, bounded depth) and detaches it from
	// the caller before anything else runs.
	working, err := document.Redact(value)
	if err != nil {
		return nil, err
	}

	r := &run{
		ctx:     ctx,
		engine:  e,
		backend: backend,
		opts:    opts,
	}

	out, err := r.translateValue(opts.Format, working, "", 0)
	if err != nil {
		e.logger.Warn("translation aborted",
			"format", opts.Format,
			"service", opts.Service,
			"target", opts.TargetLocale,
			"translated", r.translated,
			"error", err,
		)
		return nil, err
	}

	e.logger.Debug("translation finished",
		"format", opts.Format,
		"service", opts.Service,
		"target", opts.TargetLocale,
		"translated", r.translated,
		"skipped", r.skipped,
	)

	return &Result{
		Original:        document.Copy(value),
		Value:           out,
		TranslatedCount: r.translated,
		SkippedCount:    r.skipped,
	}, nil
}

// Plan lists the leaves Translate would send to the backend, without calling
// it. Backend availability is not checked.
func (e *Engine) Plan(ctx context.Context, value any, opts TranslationOptions) ([]Leaf, error) {
	var leaves []Leaf

	dry := &Engine{
		backends: map[Service]Backend{
			opts.Service: BackendFunc(func(_ context.Context, text string, _ TranslationOptions) (string, error) {
				return text, nil
			}),
		},
		codecs:   e.codecs,
		logger:   e.logger,
		maxDepth: e.maxDepth,
		leafHook: func(l Leaf) {
			leaves = append(leaves, l)
		},
	}

	if _, err := dry.Translate(ctx, value, opts); err != nil {
		return nil, err
	}
	return leaves, nil
}

// translateValue is the single dispatcher over formats.
func (r *run) translateValue(format Format, value any, scope string, depth int) (any, error) {
	if depth > r.engine.maxDepth {
		return nil, &MalformedDocumentError{Reason: "sub-document nesting exceeds maximum depth"}
	}
	if value == nil {
		return nil, nil
	}

	switch format {
	case FormatPlain:
		s, err := expectString(value, format)
		if err != nil {
			return nil, err
		}
		return r.plain(s, format, scope)
	case FormatSlug:
		s, err := expectString(value, format)
		if err != nil {
			return nil, err
		}
		return r.slug(s, scope)
	case FormatHTML, FormatMarkdown:
		s, err := expectString(value, format)
		if err != nil {
			return nil, err
		}
		return r.markup(format, s, scope, depth)
	case FormatSEO:
		return r.seo(value, scope)
	case FormatStructuredText:
		return r.structuredText(value, scope, depth)
	case FormatRichText:
		return r.richText(value, scope, depth)
	}
	return nil, fmt.Errorf("fieldtl: unsupported format %q", format)
}

func expectString(value any, format Format) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", &MalformedDocumentError{Reason: fmt.Sprintf("%s value must be a string, got %T", format, value)}
	}
	return s, nil
}

// run holds the state of one top-level Translate call.
type run struct {
	ctx     context.Context
	engine  *Engine
	backend Backend
	opts    TranslationOptions

	translated int
	skipped    int
}

func joinScope(scope, loc string) string {
	if scope == "" {
		return loc
	}
	if loc == "" {
		return scope
	}
	return scope + "." + loc
}

func nestScope(scope, loc string) string {
	if scope == "" {
		return "/" + loc
	}
	return scope + "/" + loc
}
