package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZaguanLabs/fieldtl"
)

func TestYandex_Translate(t *testing.T) {
	var got yandexRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Api-Key call-key" {
			t.Errorf("Authorization = %q", auth)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"translations":[{"text":"Привет"}]}`))
	}))
	defer server.Close()

	y := NewYandex(YandexConfig{APIKey: "config-key", BaseURL: server.URL})

	out, err := y.Translate(context.Background(), "Hello", fieldtl.TranslationOptions{
		SourceLocale: "xx",
		TargetLocale: "ru-RU",
		Service:      fieldtl.ServiceYandex,
		APIKey:       "call-key",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "Привет" {
		t.Errorf("Translate = %q", out)
	}

	if got.TargetLanguageCode != "ru" {
		t.Errorf("targetLanguageCode = %q, want ru", got.TargetLanguageCode)
	}
	if got.SourceLanguageCode != "" {
		t.Errorf("sourceLanguageCode = %q, want empty for unsupported source", got.SourceLanguageCode)
	}
}

func TestYandex_Translate_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	y := NewYandex(YandexConfig{APIKey: "k", BaseURL: server.URL})

	_, err := y.Translate(context.Background(), "Hello", fieldtl.TranslationOptions{TargetLocale: "de"})
	var backendErr *fieldtl.BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("Expected BackendError, got %v", err)
	}
	if backendErr.Retryable {
		t.Error("A malformed body should not be retryable")
	}
}
