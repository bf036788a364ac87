package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/valpere/tlumacz/internal/domain"
)

func TestClient_TranslateWord(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"translations\":[]}"}}]}`))
	}))
	defer server.Close()

	c := New(Config{APIKey: "test-key", BaseURL: server.URL + "/", Model: "test-model"})
	got, err := c.TranslateWord(context.Background(), "kot", domain.Polish, domain.English)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"translations":[]}` {
		t.Errorf("unexpected content %q", got)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("expected model test-model, got %v", gotBody["model"])
	}
	rf, _ := gotBody["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Errorf("expected json_object response format, got %v", gotBody["response_format"])
	}
}

func TestClient_TranslateText_PlainText(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Ala has a cat."}}]}`))
	}))
	defer server.Close()

	got, err := New(Config{BaseURL: server.URL}).TranslateText(context.Background(), "Ala ma kota.", domain.Polish, domain.English)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ala has a cat." {
		t.Errorf("unexpected content %q", got)
	}
	if _, ok := gotBody["response_format"]; ok {
		t.Error("expected no response_format for plain text")
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	_, err := New(Config{BaseURL: server.URL}).ReviewGrammar(context.Background(), "She go.")
	if err == nil {
		t.Fatal("expected error for non-OK status")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	if _, err := New(Config{BaseURL: server.URL}).DetectLanguage(context.Background(), "kot"); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestClient_GenerateSpeech(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3\x04audio"))
	}))
	defer server.Close()

	audio, err := New(Config{BaseURL: server.URL, Voice: "nova"}).GenerateSpeech(context.Background(), "lead", domain.Verb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "ID3\x04audio" {
		t.Errorf("unexpected audio %q", audio)
	}
	if gotBody["voice"] != "nova" || gotBody["input"] != "lead" {
		t.Errorf("unexpected request %v", gotBody)
	}
	if s, _ := gotBody["instructions"].(string); !strings.Contains(s, "verb") {
		t.Errorf("expected part of speech in instructions, got %q", s)
	}
}

func TestClient_Name(t *testing.T) {
	if New(Config{}).Name() != "openai" {
		t.Error("expected name openai")
	}
}
