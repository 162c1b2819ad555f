package fieldtl

import (
	"github.com/ZaguanLabs/fieldtl/document"
)

// Identifier fields dropped before translating nested content.
const (
	structuredIDKey = "id"
	richItemIDKey   = "itemId"
)

// Keys of a block that belong to the document structure, not to its content.
const (
	blockTypeKey     = "type"
	blockChildrenKey = "children"
)

// structuredText translates the text spans of a structured-text value and
// recurses into nested structured text and blocks. Ids are removed first.
func (r *run) structuredText(value any, scope string, depth int) (any, error) {
	if depth > r.engine.maxDepth {
		return nil, &MalformedDocumentError{Reason: "sub-document nesting exceeds maximum depth"}
	}

	working, err := document.Redact(value, structuredIDKey)
	if err != nil {
		return nil, err
	}
	paths, err := document.Enumerate(working)
	if err != nil {
		return nil, err
	}

	out := working
	for _, p := range paths {
		loc := joinScope(scope, p.Location.String())

		var next any
		switch p.Kind {
		case document.KindText, document.KindHTML, document.KindMarkdown:
			text, ok := p.Value.(string)
			if !ok || !isSpanTextKey(p.Key) {
				continue
			}
			next, err = r.plain(text, FormatStructuredText, loc)
		case document.KindStructuredText:
			next, err = r.structuredText(p.Value, loc, depth+1)
		case document.KindStructuredTextBlock:
			next, err = r.block(p.Value, loc, depth+1)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}

		out, err = document.SetIn(out, p.Location, next)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// isSpanTextKey reports whether key holds span text in structured text.
func isSpanTextKey(key string) bool {
	return key == "text" || key == "value"
}

// richText translates every translatable leaf of a rich-text value. Item ids
// are removed first.
func (r *run) richText(value any, scope string, depth int) (any, error) {
	if depth > r.engine.maxDepth {
		return nil, &MalformedDocumentError{Reason: "sub-document nesting exceeds maximum depth"}
	}

	working, err := document.Redact(value, richItemIDKey)
	if err != nil {
		return nil, err
	}
	paths, err := document.Enumerate(working)
	if err != nil {
		return nil, err
	}

	out := working
	for _, p := range paths {
		loc := joinScope(scope, p.Location.String())

		var next any
		switch p.Kind {
		case document.KindText:
			text, ok := p.Value.(string)
			if !ok {
				continue
			}
			next, err = r.plain(text, FormatRichText, loc)
		case document.KindHTML:
			next, err = r.markupValue(FormatHTML, p.Value, loc, depth)
		case document.KindMarkdown:
			next, err = r.markupValue(FormatMarkdown, p.Value, loc, depth)
		case document.KindStructuredText:
			next, err = r.structuredText(p.Value, loc, depth+1)
		case document.KindStructuredTextBlock:
			next, err = r.block(p.Value, loc, depth+1)
		case document.KindSEO:
			next, err = r.seo(p.Value, loc)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}

		out, err = document.SetIn(out, p.Location, next)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (r *run) markupValue(format Format, value any, scope string, depth int) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	return r.markup(format, s, scope, depth)
}

// block translates the fields of an embedded block. Its type and children
// are structural: they are left out of the translation and put back
// exactly as they were, in their original positions.
func (r *run) block(value any, scope string, depth int) (any, error) {
	obj, ok := value.(*document.Object)
	if !ok {
		return value, nil
	}

	content := obj.Clone()
	content.Delete(blockTypeKey)
	content.Delete(blockChildrenKey)

	translated, err := r.richText(content, scope, depth)
	if err != nil {
		return nil, err
	}
	fields, ok := translated.(*document.Object)
	if !ok {
		return nil, &MalformedDocumentError{Reason: "block content is not an object"}
	}

	out := document.NewObject()
	for _, key := range obj.Keys() {
		switch key {
		case blockTypeKey, blockChildrenKey:
			v, _ := obj.Get(key)
			out.Set(key, v)
		default:
			if v, ok := fields.Get(key); ok {
				out.Set(key, v)
			}
		}
	}
	return out, nil
}
