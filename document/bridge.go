package document

import "strconv"

// ToKeyed wraps seq as {arrayKey: {"0": ..., "1": ...}} so elements can be
// addressed by key. Every sequence held under arrayKey further down the tree
// is converted the same way. seq itself is not modified.
func ToKeyed(seq []any, arrayKey string) *Object {
	root := NewObject()
	root.Set(arrayKey, keyedSequence(seq, arrayKey))
	return root
}

// FromKeyed is the inverse of ToKeyed. Element values may have been replaced
// in between, but no elements may have been added or removed.
func FromKeyed(obj *Object, arrayKey string) ([]any, error) {
	v, ok := obj.Get(arrayKey)
	if !ok {
		return nil, &MalformedDocumentError{Reason: "missing keyed sequence", Location: Location{arrayKey}}
	}
	seq, ok := fromKeyedValue(v, arrayKey).([]any)
	if !ok {
		return nil, &MalformedDocumentError{Reason: "value is not a keyed sequence", Location: Location{arrayKey}}
	}
	return seq, nil
}

func keyedSequence(seq []any, arrayKey string) *Object {
	o := NewObject()
	o.indexed = true
	for i, el := range seq {
		o.Set(strconv.Itoa(i), toKeyedValue(el, arrayKey))
	}
	return o
}

func toKeyedValue(v any, arrayKey string) any {
	switch t := v.(type) {
	case *Object:
		c := NewObject()
		c.indexed = t.indexed
		for _, k := range t.keys {
			child := t.values[k]
			if seq, ok := child.([]any); ok && k == arrayKey {
				c.Set(k, keyedSequence(seq, arrayKey))
				continue
			}
			c.Set(k, toKeyedValue(child, arrayKey))
		}
		return c
	case []any:
		c := make([]any, len(t))
		for i, el := range t {
			c[i] = toKeyedValue(el, arrayKey)
		}
		return c
	}
	return v
}

func fromKeyedValue(v any, arrayKey string) any {
	switch t := v.(type) {
	case *Object:
		if t.indexed {
			seq := make([]any, t.Len())
			for i := range seq {
				seq[i] = fromKeyedValue(t.values[strconv.Itoa(i)], arrayKey)
			}
			return seq
		}
		c := NewObject()
		for _, k := range t.keys {
			c.Set(k, fromKeyedValue(t.values[k], arrayKey))
		}
		return c
	case []any:
		c := make([]any, len(t))
		for i, el := range t {
			c[i] = fromKeyedValue(el, arrayKey)
		}
		return c
	}
	return v
}
