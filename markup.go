package fieldtl

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/fieldtl/document"
)

// markup translates an HTML or Markdown string through its codec. When no
// text changes the input string is returned as is, so formatting the codec
// would normalise is left alone.
func (r *run) markup(format Format, src string, scope string, depth int) (string, error) {
	if strings.TrimSpace(src) == "" {
		r.skipped++
		return src, nil
	}

	codec, ok := r.engine.codecs[format]
	if !ok {
		return "", &CodecError{Message: "no codec registered", ContentType: string(format)}
	}

	tree, err := codec.Parse(src)
	if err != nil {
		return "", err
	}

	translated, changed, err := r.perPath(tree, codec, format, scope, depth)
	if err != nil {
		return "", err
	}
	if !changed {
		return src, nil
	}

	out, err := codec.Serialize(translated)
	if err != nil {
		return "", err
	}

	if format == FormatHTML && isFullDocument(src) {
		out = setHTMLAttributes(out, r.opts.TargetLocale)
	}
	return out, nil
}

// perPath translates every text leaf of a parsed tree. The child sequences
// are bridged to keyed form so each text node has a stable location.
func (r *run) perPath(tree *Tree, codec Codec, format Format, scope string, depth int) (*Tree, bool, error) {
	if depth+1 > r.engine.maxDepth {
		return nil, false, &MalformedDocumentError{Reason: "sub-document nesting exceeds maximum depth"}
	}

	childrenKey := codec.ChildrenKey()
	textKey := codec.TextKey()

	children, _ := tree.Root.Get(childrenKey)
	seq, ok := children.([]any)
	if !ok {
		return nil, false, &CodecError{Message: "tree root has no child sequence", ContentType: codec.ContentType()}
	}

	keyed := document.ToKeyed(seq, childrenKey)
	paths, err := document.Enumerate(keyed)
	if err != nil {
		return nil, false, err
	}

	var cur any = keyed
	changed := false
	for _, p := range paths {
		if p.Key != textKey {
			continue
		}
		text, ok := p.Value.(string)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}

		translated, err := r.plain(strings.TrimSpace(text), format, nestScope(scope, p.Location.String()))
		if err != nil {
			return nil, false, err
		}
		translated = preserveWhitespace(text, translated)
		if translated == text {
			continue
		}

		cur, err = document.SetIn(cur, p.Location, translated)
		if err != nil {
			return nil, false, err
		}
		changed = true
	}

	if !changed {
		return tree, false, nil
	}

	curObj, ok := cur.(*document.Object)
	if !ok {
		return nil, false, fmt.Errorf("fieldtl: keyed tree lost its root object")
	}
	back, err := document.FromKeyed(curObj, childrenKey)
	if err != nil {
		return nil, false, err
	}

	root := tree.Root.Clone()
	root.Set(childrenKey, back)
	return &Tree{Root: root, State: tree.State}, true, nil
}

func isFullDocument(src string) bool {
	head := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}

// setHTMLAttributes sets lang and dir on the <html> element of a full document.
func setHTMLAttributes(html string, locale string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() > 0 {
		htmlTag.SetAttr("lang", ToHTMLLang(locale))
		htmlTag.SetAttr("dir", GetDirection(locale))
	}

	result, err := doc.Html()
	if err != nil {
		return html
	}

	return result
}
