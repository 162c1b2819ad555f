package fieldtl

import (
	"fmt"

	"github.com/ZaguanLabs/fieldtl/document"
)

// SEO field keys that are translated. Everything else passes through.
const (
	seoTitle       = "title"
	seoDescription = "description"
)

// seo translates the title and description of an SEO object. A missing or
// empty title or description comes back as "" so the shape is always complete.
func (r *run) seo(value any, scope string) (any, error) {
	obj, ok := value.(*document.Object)
	if !ok {
		return nil, &MalformedDocumentError{Reason: fmt.Sprintf("seo value must be an object, got %T", value)}
	}

	out := obj.Clone()
	for _, key := range []string{seoTitle, seoDescription} {
		text, _ := obj.String(key)
		if text == "" {
			out.Set(key, "")
			continue
		}
		translated, err := r.plain(text, FormatSEO, joinScope(scope, key))
		if err != nil {
			return nil, err
		}
		out.Set(key, translated)
	}

	return out, nil
}
