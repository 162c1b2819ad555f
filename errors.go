package fieldtl

import (
	"errors"
	"fmt"
	"time"

	"github.com/ZaguanLabs/fieldtl/document"
)

// ErrNoBackendConfigured is returned when the requested service has no backend.
var ErrNoBackendConfigured = errors.New("no translation service configured")

// MalformedDocumentError is re-exported from the document package so callers
// only need to import fieldtl to inspect failures.
type MalformedDocumentError = document.MalformedDocumentError

// UnsupportedLocaleError indicates the backend cannot handle the requested locale.
type UnsupportedLocaleError struct {
	Locale  string
	Service Service
}

func (e *UnsupportedLocaleError) Error() string {
	return fmt.Sprintf("locale %q is not supported by %s", e.Locale, e.Service)
}

// BackendError indicates a translation backend failure (API error, quota, etc.).
type BackendError struct {
	Service    Service
	Message    string
	Cause      error
	Retryable  bool          // Whether the operation can be retried
	RetryAfter time.Duration // Delay the service asked for, if any
}

func (e *BackendError) Error() string {
	prefix := "backend error"
	if e.Service != "" {
		prefix = fmt.Sprintf("backend error (%s)", e.Service)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// CodecError indicates an HTML or Markdown parse/serialize failure.
type CodecError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("codec error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("codec error (%s): %s", e.ContentType, e.Message)
}

func (e *CodecError) Unwrap() error {
	return e.Cause
}

// asBackendError wraps err as a BackendError unless it already is one or is
// one of the engine's own error types.
func asBackendError(service Service, err error) error {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return err
	}
	var localeErr *UnsupportedLocaleError
	if errors.As(err, &localeErr) {
		return err
	}
	return &BackendError{Service: service, Message: "translation failed", Cause: err}
}
