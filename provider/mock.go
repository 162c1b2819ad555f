package provider

import (
	"context"
	"sync"

	"github.com/ZaguanLabs/fieldtl"
)

// Mock is a backend for tests and dry runs. Known texts map to fixed
// translations; anything else comes back as "Translated " + text.
type Mock struct {
	Translations map[string]string // Map of source text to translation
	Err          error             // Returned from every call when set

	mu    sync.Mutex
	calls []string
}

// NewMock creates a mock backend with no fixed translations.
func NewMock() *Mock {
	return &Mock{Translations: map[string]string{}}
}

// Translate returns the mock translation of text.
func (m *Mock) Translate(ctx context.Context, text string, opts fieldtl.TranslationOptions) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return "Translated " + text, nil
}

// Calls returns the texts received so far, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Reset forgets recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Backend
var _ fieldtl.Backend = (*Mock)(nil)
