package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/valpere/tlumacz/internal/domain"
)

func TestClient_ReviewGrammar(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3.1:8b","response":"{\"issues\":[]}","done":true}`))
	}))
	defer server.Close()

	got, err := New(server.URL, "").ReviewGrammar(context.Background(), "She goes home.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"issues":[]}` {
		t.Errorf("unexpected response %q", got)
	}
	if gotBody["format"] != "json" {
		t.Errorf("expected JSON format, got %v", gotBody["format"])
	}
	if gotBody["model"] != DefaultModel {
		t.Errorf("expected default model, got %v", gotBody["model"])
	}
	if gotBody["stream"] != false {
		t.Errorf("expected non-streaming request, got %v", gotBody["stream"])
	}
}

func TestClient_TranslateText(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"Good morning"}`))
	}))
	defer server.Close()

	got, err := New(server.URL, "gemma2:2b").TranslateText(context.Background(), "Dzień dobry", domain.Polish, domain.English)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Good morning" {
		t.Errorf("unexpected response %q", got)
	}
	if _, ok := gotBody["format"]; ok {
		t.Error("expected no JSON format for plain text")
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	if _, err := New(server.URL, "missing").DetectLanguage(context.Background(), "kot"); err == nil {
		t.Error("expected error for non-OK status")
	}
}

func TestClient_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"llama3.1:8b"}]}`))
	}))
	defer server.Close()

	if err := New(server.URL, "").IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := New(server.URL, "phi4:14b").IsAvailable(context.Background()); err == nil {
		t.Error("expected error for a model that is not pulled")
	}
}
