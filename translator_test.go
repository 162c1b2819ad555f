package fieldtl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ZaguanLabs/fieldtl/document"
)

// recordingBackend prefixes every text with "T " and remembers the calls.
// With failOn > 0 the failOn-th call fails.
type recordingBackend struct {
	calls    []string
	failOn   int
	identity bool
}

func (b *recordingBackend) Translate(ctx context.Context, text string, opts TranslationOptions) (string, error) {
	b.calls = append(b.calls, text)
	if b.failOn > 0 && len(b.calls) == b.failOn {
		return "", errors.New("quota exceeded")
	}
	if b.identity {
		return text, nil
	}
	return "T " + text, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(b Backend, opts ...EngineOption) *Engine {
	all := append([]EngineOption{WithBackend(ServiceMock, b), WithLogger(quietLogger())}, opts...)
	return NewEngine(all...)
}

func mockOptions(format Format) TranslationOptions {
	return TranslationOptions{
		SourceLocale: "en",
		TargetLocale: "de",
		Format:       format,
		Service:      ServiceMock,
	}
}

func TestEngine_NoBackendConfigured(t *testing.T) {
	engine := NewEngine(WithLogger(quietLogger()))

	_, err := engine.Translate(context.Background(), "Hello", mockOptions(FormatPlain))
	if !errors.Is(err, ErrNoBackendConfigured) {
		t.Fatalf("Expected ErrNoBackendConfigured, got %v", err)
	}
}

func TestEngine_UnsupportedLocale(t *testing.T) {
	backend := &recordingBackend{}
	engine := newTestEngine(backend)

	opts := mockOptions(FormatPlain)
	opts.TargetLocale = ""

	_, err := engine.Translate(context.Background(), "Hello", opts)
	var localeErr *UnsupportedLocaleError
	if !errors.As(err, &localeErr) {
		t.Fatalf("Expected UnsupportedLocaleError, got %v", err)
	}
	if len(backend.calls) != 0 {
		t.Errorf("Backend should not be called, got %d calls", len(backend.calls))
	}
}

func TestEngine_Plain(t *testing.T) {
	backend := &recordingBackend{}
	engine := newTestEngine(backend)

	res, err := engine.Translate(context.Background(), "Hello", mockOptions(FormatPlain))
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if res.Value != "T Hello" {
		t.Errorf("Value = %v, want %q", res.Value, "T Hello")
	}
	if res.Original != "Hello" {
		t.Errorf("Original = %v, want the input", res.Original)
	}
	if res.TranslatedCount != 1 || res.SkippedCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", res.TranslatedCount, res.SkippedCount)
	}
}

func TestEngine_EmptyLeafSkipped(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		backend := &recordingBackend{}
		engine := newTestEngine(backend)

		res, err := engine.Translate(context.Background(), input, mockOptions(FormatPlain))
		if err != nil {
			t.Fatalf("Translate(%q) failed: %v", input, err)
		}
		if res.Value != input {
			t.Errorf("Translate(%q) = %q, want input unchanged", input, res.Value)
		}
		if len(backend.calls) != 0 {
			t.Errorf("Translate(%q) called the backend", input)
		}
		if res.SkippedCount != 1 {
			t.Errorf("Translate(%q) SkippedCount = %d, want 1", input, res.SkippedCount)
		}
	}
}

func TestEngine_NilValue(t *testing.T) {
	engine := newTestEngine(&recordingBackend{})

	res, err := engine.Translate(context.Background(), nil, mockOptions(FormatHTML))
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Value != nil {
		t.Errorf("Value = %v, want nil", res.Value)
	}
}

func TestEngine_PlainRequiresString(t *testing.T) {
	engine := newTestEngine(&recordingBackend{})

	_, err := engine.Translate(context.Background(), document.ObjectOf("a", "b"), mockOptions(FormatPlain))
	var docErr *MalformedDocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("Expected MalformedDocumentError, got %v", err)
	}
}

func TestEngine_UnknownFormat(t *testing.T) {
	engine := newTestEngine(&recordingBackend{})

	_, err := engine.Translate(context.Background(), "x", mockOptions("wiki"))
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("Expected unsupported format error, got %v", err)
	}
}

func TestEngine_MissingCodec(t *testing.T) {
	engine := newTestEngine(&recordingBackend{})

	_, err := engine.Translate(context.Background(), "<p>Hi</p>", mockOptions(FormatHTML))
	var codecErr *CodecError
	if !errors.As(err, &codecErr) {
		t.Fatalf("Expected CodecError, got %v", err)
	}
}

func TestEngine_SEODefaulting(t *testing.T) {
	backend := &recordingBackend{}
	engine := newTestEngine(backend)

	image := document.ObjectOf("upload_id", "99")
	input := document.ObjectOf(
		"title", nil,
		"description", "Hello",
		"image", image,
		"twitter_card", "summary",
	)

	res, err := engine.Translate(context.Background(), input, mockOptions(FormatSEO))
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	want := document.ObjectOf(
		"title", "",
		"description", "T Hello",
		"image", document.ObjectOf("upload_id", "99"),
		"twitter_card", "summary",
	)
	if !document.Equal(res.Value, want) {
		t.Errorf("Value = %s, want %s", mustJSON(t, res.Value), mustJSON(t, want))
	}
	if len(backend.calls) != 1 {
		t.Errorf("Expected 1 backend call, got %d", len(backend.calls))
	}

	title, _ := input.Get("title")
	if title != nil {
		t.Error("Input should not be modified")
	}
}

func TestEngine_SEOAddsMissingFields(t *testing.T) {
	engine := newTestEngine(&recordingBackend{})

	res, err := engine.Translate(context.Background(), document.ObjectOf("title", "Hi"), mockOptions(FormatSEO))
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	obj := res.Value.(*document.Object)
	if got, _ := obj.String("title"); got != "T Hi" {
		t.Errorf("title = %q", got)
	}
	if got, ok := obj.String("description"); !ok || got != "" {
		t.Errorf("description = %q (present=%v), want empty string", got, ok)
	}
}

func TestEngine_Slug(t *testing.T) {
	backend := &recordingBackend{}
	engine := newTestEngine(backend)

	res, err := engine.Translate(context.Background(), "hello-world", mockOptions(FormatSlug))
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if len(backend.calls) != 1 || backend.calls[0] != "hello world" {
		t.Errorf("backend calls = %q, want slug words", backend.calls)
	}
	if res.Value != "t-hello-world" {
		t.Errorf("Value = %q, want %q", res.Value, "t-hello-world")
	}
}

func dastDocument() *document.Object {
	return document.ObjectOf(
		"schema", "dast",
		"document", document.ObjectOf(
			"type", "root",
			"children", []any{
				document.ObjectOf(
					"type", "heading",
					"id", "h1",
					"level", 2,
					"children", []any{
						document.ObjectOf("type", "span", "value", "Welcome", "marks", []any{"strong"}),
					},
				),
				document.ObjectOf(
					"type", "paragraph",
					"id", "p1",
					"children", []any{
						document.ObjectOf("type", "span", "value", "Hello "),
						document.ObjectOf("type", "link", "url", "https://example.com", "children", []any{
							document.ObjectOf("type", "span", "value", "there"),
						}),
					},
				),
				document.ObjectOf("type", "block", "id", "b1", "item", "42", "caption", "Nice"),
				document.ObjectOf("type", "code", "code", "x := 1", "language", "go"),
			},
		),
	)
}

func TestEngine_StructuredText(t *testing.T) {
	backend := &recordingBackend{}
	engine := newTestEngine(backend)

	res, err := engine.Translate(context.Background(), dastDocument(), mockOptions(FormatStructuredText))
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	wantCalls := []string{"Welcome", "Hello ", "there", "Nice"}
	if strings.Join(backend.calls, "|") != strings.Join(wantCalls, "|") {
		t.Errorf("calls = %q, want %q", backend.calls, wantCalls)
	}

	want := document.ObjectOf(
		"schema", "dast",
		"document", document.ObjectOf(
			"type", "root",
			"children", []any{
				document.ObjectOf(
					"type", "heading",
					"level", 2,
					"children", []any{
						document.ObjectOf("type", "span", "value", "T Welcome", "marks", []any{"strong"}),
					},
				),
				document.ObjectOf(
					"type", "paragraph",
					"children", []any{
						document.ObjectOf("type", "span", "value", "T Hello "),
						document.ObjectOf("type", "link", "url", "https://example.com", "children", []any{
							document.ObjectOf("type", "span", "value", "T there"),
						}),
					},
				),
				document.ObjectOf("type", "block", "item", "42", "caption", "T Nice"),
				document.ObjectOf("type", "code", "code", "x := 1", "language", "go"),
			},
		),
	)
	if !document.Equal(res.Value, want) {
		t.Errorf("Value = %s\nwant %s", mustJSON(t, res.Value), mustJSON(t, want))
	}

	if !document.Equal(res.Original, dastDocument()) {
		t.Error("Original should keep identifiers")
	}
}

func TestEngine_IdentityRoundTrip(t *testing.T) {
	richText := []any{
		document.ObjectOf(
			"itemId", "x1",
			"itemTypeId", "model-7",
			"title", "Hello",
			"published", "2024-05-01",
			"count", 3,
			"seo", document.ObjectOf("title", "T", "description", "D"),
			"content", dastDocument(),
		),
	}

	tests := []struct {
		name   string
		value  any
		format Format
		ids    []string
	}{
		{"structured text", dastDocument(), FormatStructuredText, []string{"id"}},
		{"rich text", richText, FormatRichText, []string{"itemId", "id"}},
		{"title-only block", []any{document.ObjectOf("itemId", "x1", "title", "Hello")}, FormatRichText, []string{"itemId"}},
		{"description-only block", []any{document.ObjectOf("itemId", "x2", "description", "About")}, FormatRichText, []string{"itemId"}},
		{"plain", "Hello", FormatPlain, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(&recordingBackend{identity: true})

			res, err := engine.Translate(context.Background(), tt.value, mockOptions(tt.format))
			if err != nil {
				t.Fatalf("Translate failed: %v", err)
			}

			want, err := document.Redact(tt.value, tt.ids...)
			if err != nil {
				t.Fatalf("Redact failed: %v", err)
			}
			if !document.Equal(res.Value, want) {
				t.Errorf("Value = %s\nwant %s", mustJSON(t, res.Value), mustJSON(t, want))
			}
		})
	}
}

func TestEngine_RichText(t *testing.T) {
	backend := &recordingBackend{}
	engine := newTestEngine(backend)

	input := []any{
		document.ObjectOf(
			"itemId", "x1",
			"title", "Hello",
			"slug", "hello",
			"accent", "#ff0000",
			"seo", document.ObjectOf("title", "Page", "description", "About"),
		),
		document.ObjectOf("itemId", "x2", "lead", "  "),
	}

	res, err := engine.Translate(context.Background(), input, mockOptions(FormatRichText))
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	want := []any{
		document.ObjectOf(
			"title", "T Hello",
			"slug", "hello",
			"accent", "#ff0000",
			"seo", document.ObjectOf("title", "T Page", "description", "T About"),
		),
		document.ObjectOf("lead", "  "),
	}
	if !document.Equal(res.Value, want) {
		t.Errorf("Value = %s\nwant %s", mustJSON(t, res.Value), mustJSON(t, want))
	}
	if res.TranslatedCount != 3 || res.SkippedCount != 1 {
		t.Errorf("counts = %d/%d, want 3/1", res.TranslatedCount, res.SkippedCount)
	}
}

func TestEngine_BlockShapePreserved(t *testing.T) {
	children := []any{
		document.ObjectOf("type", "paragraph", "children", []any{
			document.ObjectOf("type", "span", "value", "Quoted"),
		}),
	}
	input := []any{
		document.ObjectOf(
			"itemId", "x",
			"type", "quote",
			"children", children,
			"body", "Hi",
		),
	}

	backend := &recordingBackend{}
	engine := newTestEngine(backend)

	res, err := engine.Translate(context.Background(), input, mockOptions(FormatRichText))
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	want := []any{
		document.ObjectOf(
			"type", "quote",
			"children", children,
			"body", "T Hi",
		),
	}
	if !document.Equal(res.Value, want) {
		t.Errorf("Value = %s\nwant %s", mustJSON(t, res.Value), mustJSON(t, want))
	}
	// Structural fields never reach the backend.
	if len(backend.calls) != 1 || backend.calls[0] != "Hi" {
		t.Errorf("calls = %q, want only the body", backend.calls)
	}
}

func TestEngine_AbortOnFailure(t *testing.T) {
	backend := &recordingBackend{failOn: 3}
	engine := newTestEngine(backend)

	input := []any{
		document.ObjectOf("headline", "one"),
		document.ObjectOf("headline", "two"),
		document.ObjectOf("headline", "three"),
		document.ObjectOf("headline", "four"),
		document.ObjectOf("headline", "five"),
	}

	res, err := engine.Translate(context.Background(), input, mockOptions(FormatRichText))
	if res != nil {
		t.Error("No partial result should be returned")
	}

	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("Expected BackendError, got %v", err)
	}
	if backendErr.Service != ServiceMock {
		t.Errorf("Service = %q, want mock", backendErr.Service)
	}
	if len(backend.calls) != 3 {
		t.Errorf("Expected translation to stop after 3 calls, got %d", len(backend.calls))
	}

	if got, _ := input[0].(*document.Object).String("headline"); got != "one" {
		t.Error("Input should not be modified")
	}
}

func TestEngine_CycleIsMalformed(t *testing.T) {
	backend := &recordingBackend{}
	engine := newTestEngine(backend)

	obj := document.ObjectOf("title", "Hello")
	obj.Set("self", obj)

	_, err := engine.Translate(context.Background(), obj, mockOptions(FormatRichText))
	var docErr *MalformedDocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("Expected MalformedDocumentError, got %v", err)
	}
	if len(backend.calls) != 0 {
		t.Error("No leaf should be translated for a cyclic document")
	}
}

func TestEngine_MaxDepth(t *testing.T) {
	// Each level nests a structured-text sequence inside the previous one.
	var value any = []any{document.ObjectOf("type", "paragraph", "children", []any{
		document.ObjectOf("type", "span", "value", "deep"),
	})}
	for i := 0; i < 5; i++ {
		value = []any{document.ObjectOf("type", "list", "children", value)}
	}

	engine := newTestEngine(&recordingBackend{}, WithMaxDepth(2))

	_, err := engine.Translate(context.Background(), value, mockOptions(FormatStructuredText))
	var docErr *MalformedDocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("Expected MalformedDocumentError, got %v", err)
	}

	engine = newTestEngine(&recordingBackend{})
	if _, err := engine.Translate(context.Background(), value, mockOptions(FormatStructuredText)); err != nil {
		t.Fatalf("Default depth should allow this document: %v", err)
	}
}

func TestEngine_ContextCancelled(t *testing.T) {
	backend := &recordingBackend{}
	engine := newTestEngine(backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Translate(ctx, "Hello", mockOptions(FormatPlain))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(backend.calls) != 0 {
		t.Error("Backend should not be called after cancellation")
	}
}

func TestEngine_LeafHookAndPlan(t *testing.T) {
	input := []any{
		document.ObjectOf("itemId", "1", "title", "Hello", "lead", ""),
		document.ObjectOf("itemId", "2", "seo", document.ObjectOf("title", "Page", "description", "")),
	}

	var hooked []Leaf
	backend := &recordingBackend{}
	engine := newTestEngine(backend, WithLeafHook(func(l Leaf) { hooked = append(hooked, l) }))

	leaves, err := engine.Plan(context.Background(), input, mockOptions(FormatRichText))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(backend.calls) != 0 {
		t.Error("Plan should not call the backend")
	}
	if len(hooked) != 0 {
		t.Error("Plan should not call the engine's own hook")
	}

	want := []Leaf{
		{Location: "0.title", Format: FormatRichText, Text: "Hello", Hash: HashText("Hello")},
		{Location: "1.seo.title", Format: FormatSEO, Text: "Page", Hash: HashText("Page")},
	}
	if len(leaves) != len(want) {
		t.Fatalf("leaves = %+v, want %+v", leaves, want)
	}
	for i := range want {
		if leaves[i] != want[i] {
			t.Errorf("leaf %d = %+v, want %+v", i, leaves[i], want[i])
		}
	}

	if _, err := engine.Translate(context.Background(), input, mockOptions(FormatRichText)); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(hooked) != 2 {
		t.Errorf("hook saw %d leaves, want 2", len(hooked))
	}
}

func TestEngine_LogsAbort(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	engine := NewEngine(WithBackend(ServiceMock, &recordingBackend{failOn: 1}), WithLogger(logger))

	engine.Translate(context.Background(), "Hello", mockOptions(FormatPlain))

	if !strings.Contains(buf.String(), "translation aborted") {
		t.Errorf("expected abort to be logged, got %q", buf.String())
	}
}

func TestFormatForEditor(t *testing.T) {
	tests := []struct {
		editor Editor
		want   Format
	}{
		{EditorHTML, FormatHTML},
		{EditorMarkdown, FormatMarkdown},
		{EditorSingleLine, FormatPlain},
		{EditorTextarea, FormatPlain},
		{EditorStructuredText, FormatStructuredText},
		{EditorRichText, FormatRichText},
		{EditorSEO, FormatSEO},
		{EditorSlug, FormatSlug},
	}

	for _, tt := range tests {
		got, ok := FormatForEditor(tt.editor)
		if !ok || got != tt.want {
			t.Errorf("FormatForEditor(%s) = %s, %v; want %s", tt.editor, got, ok, tt.want)
		}
	}

	if _, ok := FormatForEditor("color_picker"); ok {
		t.Error("Unknown editors should not map to a format")
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := document.Encode(&buf, v); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.String()
}
