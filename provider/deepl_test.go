package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZaguanLabs/fieldtl"
)

func TestDeepL_Translate(t *testing.T) {
	var got deeplRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "DeepL-Auth-Key secret" {
			t.Errorf("Authorization = %q", auth)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"Hallo"}]}`))
	}))
	defer server.Close()

	d := NewDeepL(DeepLConfig{APIKey: "secret", BaseURL: server.URL})

	out, err := d.Translate(context.Background(), "Hello", fieldtl.TranslationOptions{
		SourceLocale: "en-US",
		TargetLocale: "de-AT",
		Service:      fieldtl.ServiceDeepL,
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "Hallo" {
		t.Errorf("Translate = %q, want %q", out, "Hallo")
	}

	if got.TargetLang != "DE" {
		t.Errorf("target_lang = %q, want DE", got.TargetLang)
	}
	if got.SourceLang != "EN" {
		t.Errorf("source_lang = %q, want EN", got.SourceLang)
	}
	if len(got.Text) != 1 || got.Text[0] != "Hello" {
		t.Errorf("text = %v", got.Text)
	}
}

func TestDeepL_FreeEndpoint(t *testing.T) {
	d := NewDeepL(DeepLConfig{Free: true})
	if d.url != deeplFreeURL {
		t.Errorf("url = %q, want free endpoint", d.url)
	}
}

func TestDeepL_Translate_StatusErrors(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusForbidden, false},
		{456, false}, // quota exceeded
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"message":"nope"}`))
		}))

		d := NewDeepL(DeepLConfig{APIKey: "k", BaseURL: server.URL})
		_, err := d.Translate(context.Background(), "Hello", fieldtl.TranslationOptions{
			TargetLocale: "de",
			Service:      fieldtl.ServiceDeepL,
		})
		server.Close()

		var backendErr *fieldtl.BackendError
		if !errors.As(err, &backendErr) {
			t.Fatalf("status %d: expected BackendError, got %v", tt.status, err)
		}
		if backendErr.Retryable != tt.retryable {
			t.Errorf("status %d: Retryable = %v, want %v", tt.status, backendErr.Retryable, tt.retryable)
		}
	}
}

func TestDeepL_Translate_RetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	d := NewDeepL(DeepLConfig{APIKey: "k", BaseURL: server.URL})
	_, err := d.Translate(context.Background(), "Hello", fieldtl.TranslationOptions{
		TargetLocale: "de",
		Service:      fieldtl.ServiceDeepL,
	})

	var backendErr *fieldtl.BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if backendErr.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", backendErr.RetryAfter)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{"-1", 0},
		{"soon", 0},
		{"Mon, 01 Jan 2001 00:00:00 GMT", 0}, // in the past
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.in); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > time.Hour {
		t.Errorf("parseRetryAfter(%q) = %v, want within an hour", future, got)
	}
}

func TestDeepL_Translate_EmptyTarget(t *testing.T) {
	d := NewDeepL(DeepLConfig{APIKey: "k", BaseURL: "http://127.0.0.1:0"})

	_, err := d.Translate(context.Background(), "Hello", fieldtl.TranslationOptions{Service: fieldtl.ServiceDeepL})
	var localeErr *fieldtl.UnsupportedLocaleError
	if !errors.As(err, &localeErr) {
		t.Fatalf("Expected UnsupportedLocaleError, got %v", err)
	}
}
