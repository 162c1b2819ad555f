package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact_RemovesKeysAtAnyDepth(t *testing.T) {
	doc, err := DecodeString(`[
		{"itemId": "1", "title": "A", "content": [{"id": "n1", "type": "paragraph", "children": [{"text": "x"}]}]},
		{"itemId": "2", "gallery": [{"id": "g", "upload_id": "9"}]}
	]`)
	require.NoError(t, err)

	out, err := Redact(doc, "itemId", "id")
	require.NoError(t, err)

	want, err := DecodeString(`[
		{"title": "A", "content": [{"type": "paragraph", "children": [{"text": "x"}]}]},
		{"gallery": [{"upload_id": "9"}]}
	]`)
	require.NoError(t, err)
	assert.True(t, Equal(want, out))

	// input untouched
	first, _ := Get(doc, Location{"0", "itemId"})
	assert.Equal(t, "1", first)
}

func TestRedact_ReturnsIndependentCopy(t *testing.T) {
	doc := ObjectOf("a", ObjectOf("b", "c"))
	out, err := Redact(doc)
	require.NoError(t, err)

	out.(*Object).Set("a", "changed")
	v, _ := Get(doc, Location{"a", "b"})
	assert.Equal(t, "c", v)
}

func TestRedact_Cycle(t *testing.T) {
	a := NewObject()
	a.Set("self", []any{a})

	_, err := Redact(a, "id")
	var malformed *MalformedDocumentError
	assert.True(t, errors.As(err, &malformed))
}

func TestRestoreIdentifiers(t *testing.T) {
	original, err := DecodeString(`[{"itemId": "1", "type": "quote", "body": "Hi", "inner": {"id": "x", "text": "t"}}]`)
	require.NoError(t, err)
	translated, err := DecodeString(`[{"type": "quote", "body": "Hola", "inner": {"text": "T"}}]`)
	require.NoError(t, err)

	merged := RestoreIdentifiers(original, translated, "itemId", "id")

	want, err := DecodeString(`[{"itemId": "1", "type": "quote", "body": "Hola", "inner": {"id": "x", "text": "T"}}]`)
	require.NoError(t, err)
	assert.True(t, Equal(want, merged))
}

func TestRestoreIdentifiers_ShapeMismatchKeepsTranslation(t *testing.T) {
	original := []any{ObjectOf("id", "1")}
	translated := []any{}

	merged := RestoreIdentifiers(original, translated, "id")
	assert.True(t, Equal(translated, merged))
}
