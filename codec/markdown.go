package codec

import (
	"bytes"
	"encoding/json"
	"unicode"
	"unicode/utf8"

	"github.com/ZaguanLabs/fieldtl"
	"github.com/ZaguanLabs/fieldtl/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown field keys, following mdast naming.
const (
	KeyType     = "type"
	KeyChildren = "children"
	KeyValue    = "value"
	KeyPosition = "position"
)

// MarkdownCodec converts Markdown to and from mdast-shaped document trees.
// Only text literals carry a value; code, HTML and autolinks are kept opaque.
// Serialize writes each text value back over the source span it came from,
// so everything that is not text keeps its exact original spelling.
type MarkdownCodec struct {
	md goldmark.Markdown
}

// markdownState keeps the source the positions refer to.
type markdownState struct {
	source []byte
}

// NewMarkdown creates a CommonMark codec.
func NewMarkdown() *MarkdownCodec {
	return &MarkdownCodec{md: goldmark.New()}
}

// NewMarkdownWith creates a codec using a configured goldmark instance,
// e.g. one with the GFM extension enabled.
func NewMarkdownWith(md goldmark.Markdown) *MarkdownCodec {
	return &MarkdownCodec{md: md}
}

// Parse parses Markdown source.
func (c *MarkdownCodec) Parse(src string) (*fieldtl.Tree, error) {
	source := []byte(src)
	root := c.md.Parser().Parse(text.NewReader(source))

	children := []any{}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		children = append(children, markdownNode(n, source))
	}

	obj := document.ObjectOf(KeyType, "root", KeyChildren, children)
	return &fieldtl.Tree{Root: obj, State: markdownState{source: source}}, nil
}

func markdownNode(n ast.Node, source []byte) *document.Object {
	switch t := n.(type) {
	case *ast.Text:
		seg := t.Segment
		return document.ObjectOf(
			KeyType, "text",
			KeyValue, string(seg.Value(source)),
			KeyPosition, document.ObjectOf("start", seg.Start, "end", seg.Stop),
		)
	case *ast.CodeSpan:
		return document.ObjectOf(KeyType, "inlineCode")
	case *ast.CodeBlock, *ast.FencedCodeBlock:
		return document.ObjectOf(KeyType, "code")
	case *ast.HTMLBlock, *ast.RawHTML:
		return document.ObjectOf(KeyType, "html")
	case *ast.AutoLink:
		return document.ObjectOf(KeyType, "link", "url", string(t.URL(source)))
	}

	obj := document.ObjectOf(KeyType, nodeType(n))
	switch t := n.(type) {
	case *ast.Heading:
		obj.Set("depth", t.Level)
	case *ast.List:
		obj.Set("ordered", t.IsOrdered())
	case *ast.Link:
		obj.Set("url", string(t.Destination))
		if len(t.Title) > 0 {
			obj.Set("data", document.ObjectOf("title", string(t.Title)))
		}
	case *ast.Image:
		obj.Set("url", string(t.Destination))
	}

	children := []any{}
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		children = append(children, markdownNode(ch, source))
	}
	obj.Set(KeyChildren, children)
	return obj
}

func nodeType(n ast.Node) string {
	if e, ok := n.(*ast.Emphasis); ok && e.Level >= 2 {
		return "strong"
	}
	name := n.Kind().String()
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

type span struct {
	start, end int
	value      string
}

// Serialize writes the tree's text values back into the original source.
func (c *MarkdownCodec) Serialize(tree *fieldtl.Tree) (string, error) {
	state, ok := tree.State.(markdownState)
	if !ok {
		return "", &fieldtl.CodecError{Message: "tree was not produced by the markdown codec", ContentType: "markdown"}
	}

	children, ok := tree.Root.Get(KeyChildren)
	if !ok {
		return "", &fieldtl.CodecError{Message: "tree has no children", ContentType: "markdown"}
	}

	var spans []span
	if err := collectSpans(children, &spans); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	last := 0
	for _, s := range spans {
		if s.start < last || s.end > len(state.source) || s.start > s.end {
			return "", &fieldtl.CodecError{Message: "text position out of order", ContentType: "markdown"}
		}
		buf.Write(state.source[last:s.start])
		buf.WriteString(s.value)
		last = s.end
	}
	buf.Write(state.source[last:])
	return buf.String(), nil
}

func collectSpans(v any, out *[]span) error {
	switch t := v.(type) {
	case []any:
		for _, el := range t {
			if err := collectSpans(el, out); err != nil {
				return err
			}
		}
	case *document.Object:
		if typ, _ := t.String(KeyType); typ == "text" {
			value, _ := t.String(KeyValue)
			pos, _ := t.Get(KeyPosition)
			po, ok := pos.(*document.Object)
			if !ok {
				return &fieldtl.CodecError{Message: "text node has no position", ContentType: "markdown"}
			}
			start, ok1 := intField(po, "start")
			end, ok2 := intField(po, "end")
			if !ok1 || !ok2 {
				return &fieldtl.CodecError{Message: "text node has an invalid position", ContentType: "markdown"}
			}
			*out = append(*out, span{start: start, end: end, value: value})
			return nil
		}
		if ch, ok := t.Get(KeyChildren); ok {
			return collectSpans(ch, out)
		}
	}
	return nil
}

func intField(o *document.Object, key string) (int, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	}
	return 0, false
}

// ContentType returns "markdown".
func (c *MarkdownCodec) ContentType() string {
	return "markdown"
}

// ChildrenKey returns the key holding child nodes.
func (c *MarkdownCodec) ChildrenKey() string {
	return KeyChildren
}

// TextKey returns the key holding translatable text.
func (c *MarkdownCodec) TextKey() string {
	return KeyValue
}

// Verify MarkdownCodec implements Codec
var _ fieldtl.Codec = (*MarkdownCodec)(nil)
