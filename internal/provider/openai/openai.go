// Package openai is a client for OpenAI-compatible chat completion and speech
// APIs. Any server exposing /chat/completions and /audio/speech works.
package openai

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
	DefaultBaseURL  = "https://api.openai.com/v1"
	DefaultModel    = "gpt-4o-mini"
	DefaultTTSModel = "gpt-4o-mini-tts"
	DefaultVoice    = "alloy"
)

// Config configures a Client. Empty fields take the defaults above.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	TTSModel string
	Voice    string
	Timeout  time.Duration
}

type Client struct {
	apiKey   string
	baseURL  string
	model    string
	ttsModel string
	voice    string
	http     *resty.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.TTSModel == "" {
		cfg.TTSModel = DefaultTTSModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		ttsModel: cfg.TTSModel,
		voice:    cfg.Voice,
		http:     resty.New().SetTimeout(cfg.Timeout),
	}
}

func (c *Client) Name() string {
	return "openai"
}

func (c *Client) TranslateWord(ctx context.Context, word string, source, target domain.Language) (string, error) {
	return c.complete(ctx, provider.WordPrompt(word, source, target))
}

func (c *Client) TranslateText(ctx context.Context, text string, source, target domain.Language) (string, error) {
	return c.complete(ctx, provider.TextPrompt(text, source, target))
}

func (c *Client) ReviewGrammar(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, provider.GrammarPrompt(text))
}

func (c *Client) DetectLanguage(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, provider.DetectPrompt(text))
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, p provider.Prompt) (string, error) {
	body := map[string]any{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		"temperature": 0.2,
	}
	if p.JSON {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	var resp chatResponse
	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if rr.IsError() {
		return "", fmt.Errorf("chat completion: %s; body: %.200s", rr.Status(), rr.String())
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateSpeech returns MP3 audio of text.
func (c *Client) GenerateSpeech(ctx context.Context, text string, pos domain.PartOfSpeech) ([]byte, error) {
	body := map[string]any{
		"model":           c.ttsModel,
		"input":           text,
		"voice":           c.voice,
		"instructions":    provider.SpeechInstructions(pos),
		"response_format": "mp3",
	}

	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "audio/mpeg").
		SetBody(body).
		Post(c.baseURL + "/audio/speech")
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	if rr.IsError() {
		return nil, fmt.Errorf("speech: %s; body: %.200s", rr.Status(), rr.String())
	}
	return rr.Body(), nil
}
