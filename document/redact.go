package document

import "strconv"

// Redact returns a deep copy of doc with every field named in keys removed,
// at any depth. It fails on cycles and on nesting deeper than MaxDepth.
func Redact(doc any, keys ...string) (any, error) {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	r := &redactor{drop: drop, onStack: make(map[*Object]bool)}
	return r.copy(doc, nil, 0)
}

type redactor struct {
	drop    map[string]bool
	onStack map[*Object]bool
}

func (r *redactor) copy(v any, loc Location, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, &MalformedDocumentError{Reason: "nesting exceeds maximum depth", Location: loc}
	}

	switch t := v.(type) {
	case *Object:
		if t == nil {
			return t, nil
		}
		if r.onStack[t] {
			return nil, &MalformedDocumentError{Reason: "cycle detected", Location: loc}
		}
		r.onStack[t] = true
		defer delete(r.onStack, t)

		c := NewObject()
		c.indexed = t.indexed
		for _, k := range t.keys {
			if r.drop[k] {
				continue
			}
			child, err := r.copy(t.values[k], loc.Child(k), depth+1)
			if err != nil {
				return nil, err
			}
			c.Set(k, child)
		}
		return c, nil
	case []any:
		if t == nil {
			return t, nil
		}
		c := make([]any, len(t))
		for i, el := range t {
			child, err := r.copy(el, loc.Child(strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			c[i] = child
		}
		return c, nil
	}
	return v, nil
}

// RestoreIdentifiers copies the fields named in keys from original into
// translated, which must have the shape of original minus those fields.
// Restored fields take their original position. Where the two trees
// disagree in shape, translated is kept as is.
func RestoreIdentifiers(original, translated any, keys ...string) any {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	return restore(original, translated, want)
}

func restore(orig, tr any, want map[string]bool) any {
	switch o := orig.(type) {
	case *Object:
		t, ok := tr.(*Object)
		if !ok {
			return tr
		}
		c := NewObject()
		c.indexed = t.indexed
		for _, k := range o.keys {
			if want[k] {
				if !t.Has(k) {
					c.Set(k, o.values[k])
					continue
				}
			}
			if tv, ok := t.Get(k); ok {
				c.Set(k, restore(o.values[k], tv, want))
			}
		}
		for _, k := range t.keys {
			if !c.Has(k) {
				c.Set(k, t.values[k])
			}
		}
		return c
	case []any:
		t, ok := tr.([]any)
		if !ok || len(t) != len(o) {
			return tr
		}
		c := make([]any, len(t))
		for i := range t {
			c[i] = restore(o[i], t[i], want)
		}
		return c
	}
	return tr
}
