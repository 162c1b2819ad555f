package document

import (
	"strconv"
	"strings"
)

// MaxDepth bounds how deeply Enumerate descends before giving up.
const MaxDepth = 64

// Location addresses a value inside a document. Sequence indices are
// written in decimal.
type Location []string

// String renders the location in dotted form, e.g. "0.body.children.2".
func (l Location) String() string {
	return strings.Join(l, ".")
}

// Child returns a new location extended by step. The receiver is not modified.
func (l Location) Child(step string) Location {
	out := make(Location, len(l), len(l)+1)
	copy(out, l)
	return append(out, step)
}

// Path is one addressable location found by Enumerate.
type Path struct {
	Location Location
	Key      string // terminal key; the index for sequence elements
	Value    any
	Kind     PathKind
}

// Get returns the value at loc.
func Get(doc any, loc Location) (any, bool) {
	cur := doc
	for _, step := range loc {
		switch t := cur.(type) {
		case *Object:
			v, ok := t.Get(step)
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(step)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// SetIn returns a copy of doc with the value at loc replaced by v. Only the
// containers along loc are copied; everything else is shared with doc, which
// is left untouched. loc must already exist.
func SetIn(doc any, loc Location, v any) (any, error) {
	return setIn(doc, loc, 0, v)
}

func setIn(cur any, loc Location, i int, v any) (any, error) {
	if i == len(loc) {
		return v, nil
	}
	step := loc[i]
	switch t := cur.(type) {
	case *Object:
		child, ok := t.Get(step)
		if !ok {
			return nil, &MalformedDocumentError{Reason: "missing key", Location: loc[:i+1]}
		}
		nv, err := setIn(child, loc, i+1, v)
		if err != nil {
			return nil, err
		}
		c := t.Clone()
		c.Set(step, nv)
		return c, nil
	case []any:
		idx, err := strconv.Atoi(step)
		if err != nil || idx < 0 || idx >= len(t) {
			return nil, &MalformedDocumentError{Reason: "index out of range", Location: loc[:i+1]}
		}
		nv, err := setIn(t[idx], loc, i+1, v)
		if err != nil {
			return nil, err
		}
		c := make([]any, len(t))
		copy(c, t)
		c[idx] = nv
		return c, nil
	}
	return nil, &MalformedDocumentError{Reason: "cannot descend into scalar", Location: loc[:i+1]}
}

// Enumerate lists every leaf of doc and every container recognised as a
// sub-document, depth first: sequence elements by index, object fields by
// insertion order. Recognised containers are listed but not descended into.
// The root itself is never listed.
func Enumerate(doc any) ([]Path, error) {
	w := &walker{onStack: make(map[*Object]bool)}
	if err := w.walkChildren(doc, nil, 0); err != nil {
		return nil, err
	}
	return w.paths, nil
}

type walker struct {
	paths   []Path
	onStack map[*Object]bool
}

func (w *walker) walkChildren(v any, loc Location, depth int) error {
	if depth > MaxDepth {
		return &MalformedDocumentError{Reason: "nesting exceeds maximum depth", Location: loc}
	}

	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		if w.onStack[t] {
			return &MalformedDocumentError{Reason: "cycle detected", Location: loc}
		}
		w.onStack[t] = true
		defer delete(w.onStack, t)

		for _, k := range t.keys {
			if err := w.visit(k, t.values[k], loc.Child(k), depth); err != nil {
				return err
			}
		}
	case []any:
		for i, el := range t {
			step := strconv.Itoa(i)
			if err := w.visit(step, el, loc.Child(step), depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) visit(key string, v any, loc Location, depth int) error {
	kind := Classify(key, v)

	switch v.(type) {
	case *Object, []any:
		if kind.Boundary() {
			w.paths = append(w.paths, Path{Location: loc, Key: key, Value: v, Kind: kind})
			return nil
		}
		return w.walkChildren(v, loc, depth+1)
	}

	w.paths = append(w.paths, Path{Location: loc, Key: key, Value: v, Kind: kind})
	return nil
}
