// Package ollama is a client for a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/provider"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.1:8b"
)

type Client struct {
	baseURL string
	model   string
	http    *resty.Client
}

func New(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    resty.New().SetTimeout(120 * time.Second),
	}
}

func (c *Client) Name() string {
	return "ollama"
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) TranslateWord(ctx context.Context, word string, source, target domain.Language) (string, error) {
	return c.generate(ctx, provider.WordPrompt(word, source, target))
}

func (c *Client) TranslateText(ctx context.Context, text string, source, target domain.Language) (string, error) {
	return c.generate(ctx, provider.TextPrompt(text, source, target))
}

func (c *Client) ReviewGrammar(ctx context.Context, text string) (string, error) {
	return c.generate(ctx, provider.GrammarPrompt(text))
}

func (c *Client) DetectLanguage(ctx context.Context, text string) (string, error) {
	return c.generate(ctx, provider.DetectPrompt(text))
}

func (c *Client) generate(ctx context.Context, p provider.Prompt) (string, error) {
	body := map[string]any{
		"model":   c.model,
		"system":  p.System,
		"prompt":  p.User,
		"stream":  false,
		"options": map[string]any{"temperature": 0.2},
	}
	if p.JSON {
		body["format"] = "json"
	}

	var resp struct {
		Response string `json:"response"`
	}
	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(c.baseURL + "/api/generate")
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	if rr.IsError() {
		return "", fmt.Errorf("generate: %s; body: %.200s", rr.Status(), rr.String())
	}
	return resp.Response, nil
}

// IsAvailable checks that the server answers and knows the configured model.
func (c *Client) IsAvailable(ctx context.Context) error {
	var resp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	rr, err := c.http.R().SetContext(ctx).SetResult(&resp).Get(c.baseURL + "/api/tags")
	if err != nil {
		return fmt.Errorf("ollama not available: %w", err)
	}
	if rr.IsError() {
		return fmt.Errorf("ollama returned %s", rr.Status())
	}
	for _, m := range resp.Models {
		if m.Name == c.model {
			return nil
		}
	}
	return fmt.Errorf("ollama model %q is not pulled", c.model)
}
