package document

import (
	"encoding/json"
	"regexp"
	"strings"
)

// PathKind is the semantic classification of a location in a document.
type PathKind string

const (
	KindUnknown                  PathKind = ""
	KindText                     PathKind = "text"
	KindHTML                     PathKind = "html"
	KindMarkdown                 PathKind = "markdown"
	KindStructuredText           PathKind = "structured_text"
	KindStructuredTextBlock      PathKind = "structured_text_block"
	KindStructuredTextInlineItem PathKind = "structured_text_inline_item"
	KindStructuredTextCode       PathKind = "structured_text_code"
	KindSEO                      PathKind = "seo"
	KindSlug                     PathKind = "slug"
	KindMedia                    PathKind = "media"
	KindID                       PathKind = "id"
	KindNumber                   PathKind = "number"
	KindDate                     PathKind = "date"
	KindBoolean                  PathKind = "boolean"
	KindColor                    PathKind = "color"
	KindJSON                     PathKind = "json"
	KindMeta                     PathKind = "meta"
)

// AllKinds lists every classification except KindUnknown.
var AllKinds = []PathKind{
	KindText, KindHTML, KindMarkdown, KindStructuredText, KindStructuredTextBlock,
	KindStructuredTextInlineItem, KindStructuredTextCode, KindSEO, KindSlug, KindMedia,
	KindID, KindNumber, KindDate, KindBoolean, KindColor, KindJSON, KindMeta,
}

// Translatable reports whether values of this kind are sent to a backend.
func (k PathKind) Translatable() bool {
	switch k {
	case KindText, KindHTML, KindMarkdown, KindStructuredText, KindStructuredTextBlock, KindSEO:
		return true
	}
	return false
}

// Boundary reports whether a container of this kind is a sub-document that
// the enumerator hands over whole instead of descending into.
func (k PathKind) Boundary() bool {
	return k != KindUnknown
}

// IdentifierKeys are the field names treated as structural identifiers.
var IdentifierKeys = map[string]bool{
	"id":         true,
	"itemId":     true,
	"itemTypeId": true,
	"item":       true,
	"upload_id":  true,
}

// metaKeys hold structural or presentational strings that are never prose.
var metaKeys = map[string]bool{
	"type":         true,
	"style":        true,
	"language":     true,
	"url":          true,
	"href":         true,
	"target":       true,
	"marks":        true,
	"schema":       true,
	"twitter_card": true,
	"mime_type":    true,
	"format":       true,
	"locale":       true,
}

// nodeAttributeKeys are the attributes a structured-text or Markdown node
// carries besides its type and children. A typed object with children and
// any other field is a content block.
var nodeAttributeKeys = map[string]bool{
	"type":        true,
	"children":    true,
	"level":       true,
	"url":         true,
	"meta":        true,
	"style":       true,
	"marks":       true,
	"value":       true,
	"code":        true,
	"language":    true,
	"item":        true,
	"highlight":   true,
	"attribution": true,
	"depth":       true,
	"ordered":     true,
	"position":    true,
	"data":        true,
}

// seoKeys is the full field set of an SEO object.
var seoKeys = map[string]bool{
	"title":        true,
	"description":  true,
	"image":        true,
	"twitter_card": true,
	"no_index":     true,
}

var (
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?)?$`)
	hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	htmlTagRe  = regexp.MustCompile(`(?s)<([a-zA-Z][a-zA-Z0-9]*)\b[^>]*>.*?</([a-zA-Z][a-zA-Z0-9]*)>|<(br|hr|img)\b[^>]*/?>`)
	markdownRe = regexp.MustCompile("(?m)^#{1,6} \\S|^\\s*[-*+] \\S|^\\s*\\d+\\. \\S|^> |\\*\\*[^*\\n]+\\*\\*|__[^_\\n]+__|\\[[^\\]\\n]+\\]\\([^)\\n]+\\)|^```|`[^`\\n]+`")
)

// Classify infers the kind of value stored under key. It is a pure function
// of its arguments and never descends further than one level into value.
func Classify(key string, value any) PathKind {
	if IdentifierKeys[key] {
		switch value.(type) {
		case string, json.Number, float64, int, int64:
			return KindID
		}
	}

	// A list of marks or styles is as structural as a single one.
	if _, ok := value.([]any); ok && metaKeys[key] {
		return KindMeta
	}

	switch v := value.(type) {
	case nil:
		return KindUnknown
	case bool:
		return KindBoolean
	case json.Number, float64, float32, int, int64:
		return KindNumber
	case string:
		return classifyString(key, v)
	case *Object:
		return classifyObject(v)
	case []any:
		return classifySequence(v)
	}
	return KindUnknown
}

func classifyString(key, s string) PathKind {
	switch {
	case key == "slug":
		return KindSlug
	case key == "code":
		return KindStructuredTextCode
	case metaKeys[key]:
		return KindMeta
	}

	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return KindText
	case dateRe.MatchString(trimmed):
		return KindDate
	case hexColorRe.MatchString(trimmed):
		return KindColor
	case looksLikeJSON(trimmed):
		return KindJSON
	case htmlTagRe.MatchString(trimmed):
		return KindHTML
	case markdownRe.MatchString(trimmed):
		return KindMarkdown
	}
	return KindText
}

func looksLikeJSON(s string) bool {
	if len(s) < 2 {
		return false
	}
	if !(s[0] == '{' && s[len(s)-1] == '}') && !(s[0] == '[' && s[len(s)-1] == ']') {
		return false
	}
	return json.Valid([]byte(s))
}

func classifyObject(o *Object) PathKind {
	if typ, ok := o.String("type"); ok {
		switch typ {
		case "block":
			return KindStructuredTextBlock
		case "inlineItem", "itemLink", "inline_item", "inlineBlock":
			return KindStructuredTextInlineItem
		case "code":
			return KindStructuredTextCode
		}
	}

	if isContentBlock(o) {
		return KindStructuredTextBlock
	}

	if schema, ok := o.String("schema"); ok && schema == "dast" && o.Has("document") {
		return KindStructuredText
	}

	if o.Has("upload_id") || (o.Has("url") && (o.Has("mime_type") || o.Has("width") || o.Has("alt"))) {
		return KindMedia
	}

	if o.Has("red") && o.Has("green") && o.Has("blue") {
		return KindColor
	}

	if o.Has("latitude") && o.Has("longitude") {
		return KindMeta
	}

	// An SEO object carries both title and description.
	if o.Has("title") && o.Has("description") {
		seo := true
		for _, k := range o.keys {
			if !seoKeys[k] {
				seo = false
				break
			}
		}
		if seo {
			return KindSEO
		}
	}

	return KindUnknown
}

// isContentBlock reports whether o is a typed block that wraps children and
// also carries content fields of its own.
func isContentBlock(o *Object) bool {
	if _, ok := o.String("type"); !ok || !o.Has("children") {
		return false
	}
	for _, k := range o.keys {
		if !nodeAttributeKeys[k] && !IdentifierKeys[k] {
			return true
		}
	}
	return false
}

// classifySequence recognises block-node sequences as structured text and
// upload sequences as media galleries.
func classifySequence(s []any) PathKind {
	if len(s) == 0 {
		return KindUnknown
	}

	nodes, uploads := 0, 0
	for _, el := range s {
		o, ok := el.(*Object)
		if !ok {
			return KindUnknown
		}
		if o.Has("upload_id") {
			uploads++
			continue
		}
		if isContentBlock(o) {
			return KindUnknown
		}
		if _, ok := o.String("type"); ok {
			if _, hasChildren := o.Get("children"); hasChildren || classifyObject(o) == KindStructuredTextBlock {
				nodes++
			}
		}
	}

	switch {
	case uploads == len(s):
		return KindMedia
	case nodes == len(s):
		return KindStructuredText
	}
	return KindUnknown
}
