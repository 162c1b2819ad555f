package codec

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/ZaguanLabs/fieldtl"
	"github.com/ZaguanLabs/fieldtl/document"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// HTML field keys. Text under an ignored element is stored under KeyRaw so
// it is never addressed as translatable text.
const (
	KeyNode    = "node"
	KeyTag     = "tag"
	KeyAttr    = "attr"
	KeyChild   = "child"
	KeyText    = "text"
	KeyRaw     = "raw"
	KeyComment = "comment"
)

var fullDocumentRe = regexp.MustCompile(`(?i)^\s*(<!doctype|<html[\s>])`)

// HTMLCodec converts HTML to and from html2json-shaped document trees:
//
//	{"node": "element", "tag": "p", "attr": [{"key": "class", "val": "x"}],
//	 "child": [{"node": "text", "text": "Hello"}]}
type HTMLCodec struct {
	ignoredTags map[string]bool
}

// htmlState remembers whether the source was a full document or a fragment.
type htmlState struct {
	full bool
}

// NewHTML creates an HTML codec with the default ignored tags.
func NewHTML() *HTMLCodec {
	return &HTMLCodec{ignoredTags: IgnoredTags}
}

// NewHTMLWithIgnoredTags creates an HTML codec with custom ignored tags.
func NewHTMLWithIgnoredTags(tags []string) *HTMLCodec {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLCodec{ignoredTags: ignored}
}

// Parse parses a fragment or a full document.
func (c *HTMLCodec) Parse(src string) (*fieldtl.Tree, error) {
	full := fullDocumentRe.MatchString(src)

	var nodes []*html.Node
	if full {
		doc, err := html.Parse(strings.NewReader(src))
		if err != nil {
			return nil, &fieldtl.CodecError{Message: "failed to parse HTML", Cause: err, ContentType: "html"}
		}
		for n := doc.FirstChild; n != nil; n = n.NextSibling {
			nodes = append(nodes, n)
		}
	} else {
		body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		frag, err := html.ParseFragment(strings.NewReader(src), body)
		if err != nil {
			return nil, &fieldtl.CodecError{Message: "failed to parse HTML", Cause: err, ContentType: "html"}
		}
		nodes = frag
	}

	children := make([]any, 0, len(nodes))
	for _, n := range nodes {
		if obj := c.toObject(n, false); obj != nil {
			children = append(children, obj)
		}
	}

	root := document.ObjectOf(KeyNode, "root", KeyChild, children)
	return &fieldtl.Tree{Root: root, State: htmlState{full: full}}, nil
}

func (c *HTMLCodec) toObject(n *html.Node, ignored bool) *document.Object {
	switch n.Type {
	case html.TextNode:
		if ignored {
			return document.ObjectOf(KeyNode, "text", KeyRaw, n.Data)
		}
		return document.ObjectOf(KeyNode, "text", KeyText, n.Data)
	case html.CommentNode:
		return document.ObjectOf(KeyNode, "comment", KeyComment, n.Data)
	case html.DoctypeNode:
		return document.ObjectOf(KeyNode, "doctype", KeyTag, n.Data, KeyAttr, attrsToSequence(n.Attr))
	case html.ElementNode:
		if c.ignoredTags[strings.ToLower(n.Data)] {
			ignored = true
		}
		for _, a := range n.Attr {
			if a.Key == "data-no-translate" {
				ignored = true
			}
		}
		obj := document.ObjectOf(KeyNode, "element", KeyTag, n.Data, KeyAttr, attrsToSequence(n.Attr))
		children := []any{}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if co := c.toObject(ch, ignored); co != nil {
				children = append(children, co)
			}
		}
		obj.Set(KeyChild, children)
		return obj
	}
	return nil
}

func attrsToSequence(attrs []html.Attribute) []any {
	out := make([]any, 0, len(attrs))
	for _, a := range attrs {
		o := document.ObjectOf("key", a.Key, "val", a.Val)
		if a.Namespace != "" {
			o.Set("namespace", a.Namespace)
		}
		out = append(out, o)
	}
	return out
}

// Serialize renders the tree back to HTML.
func (c *HTMLCodec) Serialize(tree *fieldtl.Tree) (string, error) {
	state, _ := tree.State.(htmlState)

	children, ok := tree.Root.Get(KeyChild)
	if !ok {
		return "", &fieldtl.CodecError{Message: "tree has no children", ContentType: "html"}
	}
	seq, ok := children.([]any)
	if !ok {
		return "", &fieldtl.CodecError{Message: "children are not a sequence", ContentType: "html"}
	}

	var nodes []*html.Node
	for _, ch := range seq {
		n, err := fromObject(ch)
		if err != nil {
			return "", err
		}
		nodes = append(nodes, n)
	}

	var buf bytes.Buffer
	if state.full {
		doc := &html.Node{Type: html.DocumentNode}
		for _, n := range nodes {
			doc.AppendChild(n)
		}
		if err := html.Render(&buf, doc); err != nil {
			return "", &fieldtl.CodecError{Message: "failed to render HTML", Cause: err, ContentType: "html"}
		}
		return buf.String(), nil
	}

	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", &fieldtl.CodecError{Message: "failed to render HTML", Cause: err, ContentType: "html"}
		}
	}
	return buf.String(), nil
}

func fromObject(v any) (*html.Node, error) {
	obj, ok := v.(*document.Object)
	if !ok {
		return nil, &fieldtl.CodecError{Message: "node is not an object", ContentType: "html"}
	}
	kind, _ := obj.String(KeyNode)

	switch kind {
	case "text":
		if raw, ok := obj.String(KeyRaw); ok {
			return &html.Node{Type: html.TextNode, Data: raw}, nil
		}
		text, _ := obj.String(KeyText)
		return &html.Node{Type: html.TextNode, Data: text}, nil
	case "comment":
		text, _ := obj.String(KeyComment)
		return &html.Node{Type: html.CommentNode, Data: text}, nil
	case "doctype":
		name, _ := obj.String(KeyTag)
		attrs, err := sequenceToAttrs(obj)
		if err != nil {
			return nil, err
		}
		return &html.Node{Type: html.DoctypeNode, Data: name, Attr: attrs}, nil
	case "element":
		tag, _ := obj.String(KeyTag)
		attrs, err := sequenceToAttrs(obj)
		if err != nil {
			return nil, err
		}
		n := &html.Node{
			Type:     html.ElementNode,
			Data:     tag,
			DataAtom: atom.Lookup([]byte(tag)),
			Attr:     attrs,
		}
		children, _ := obj.Get(KeyChild)
		seq, _ := children.([]any)
		for _, ch := range seq {
			cn, err := fromObject(ch)
			if err != nil {
				return nil, err
			}
			n.AppendChild(cn)
		}
		return n, nil
	}
	return nil, &fieldtl.CodecError{Message: "unknown node kind " + kind, ContentType: "html"}
}

func sequenceToAttrs(obj *document.Object) ([]html.Attribute, error) {
	v, ok := obj.Get(KeyAttr)
	if !ok {
		return nil, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, &fieldtl.CodecError{Message: "attributes are not a sequence", ContentType: "html"}
	}
	attrs := make([]html.Attribute, 0, len(seq))
	for _, a := range seq {
		ao, ok := a.(*document.Object)
		if !ok {
			return nil, &fieldtl.CodecError{Message: "attribute is not an object", ContentType: "html"}
		}
		key, _ := ao.String("key")
		val, _ := ao.String("val")
		ns, _ := ao.String("namespace")
		attrs = append(attrs, html.Attribute{Namespace: ns, Key: key, Val: val})
	}
	return attrs, nil
}

// ContentType returns "html".
func (c *HTMLCodec) ContentType() string {
	return "html"
}

// ChildrenKey returns the key holding child nodes.
func (c *HTMLCodec) ChildrenKey() string {
	return KeyChild
}

// TextKey returns the key holding translatable text.
func (c *HTMLCodec) TextKey() string {
	return KeyText
}

// Verify HTMLCodec implements Codec
var _ fieldtl.Codec = (*HTMLCodec)(nil)
