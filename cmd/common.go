/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/valpere/tlumacz/internal/audio"
	"github.com/valpere/tlumacz/internal/config"
	"github.com/valpere/tlumacz/internal/detector"
	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/handler"
	"github.com/valpere/tlumacz/internal/httpapi"
	"github.com/valpere/tlumacz/internal/langresolve"
	"github.com/valpere/tlumacz/internal/logging"
	"github.com/valpere/tlumacz/internal/provider"
	"github.com/valpere/tlumacz/internal/provider/google"
	"github.com/valpere/tlumacz/internal/provider/ollama"
	"github.com/valpere/tlumacz/internal/provider/openai"
	"github.com/valpere/tlumacz/internal/retry"
	"github.com/valpere/tlumacz/internal/store"
	"github.com/valpere/tlumacz/internal/validator"
)

// app holds everything a command needs to run operations.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  *store.Store
	router *provider.Router
	ollama *ollama.Client
	ops    httpapi.Operations

	closers []func() error
}

// loadSettings reads the configuration and applies the command-line
// overrides. It does not validate backend settings, so commands that only
// touch the database work without API keys.
func loadSettings() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	logger, err := logging.New(cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	if cfg.File != "" {
		logger.Debug().Str("path", cfg.File).Msg("loaded config file")
	}
	return cfg, logger, nil
}

// openStore opens the database, creating its directory if needed.
func openStore(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newApp wires configuration, storage, providers and handlers.
func newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := openStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, store: db}
	a.closers = append(a.closers, db.Close)

	llm, tts := a.buildModels()

	var text provider.TextTranslator
	var detect provider.Detector
	if cfg.UsesGoogle() {
		svc, err := google.New(ctx, cfg.Google.Credentials, cfg.Google.ProjectID)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create google translate client: %w", err)
		}
		a.closers = append(a.closers, svc.Close)
		if cfg.Text.Backend == config.BackendGoogle {
			text = svc
		}
		if cfg.Detection.Backend == config.BackendGoogle {
			detect = svc
		}
	}
	if cfg.Detection.Backend == config.BackendLingua {
		detect = detector.New()
	}

	a.router = provider.NewRouter(llm, text, detect)
	logger.Debug().
		Str("llm", a.router.Name()).
		Str("text", a.router.TextBackend()).
		Str("detection", a.router.DetectionBackend()).
		Msg("providers configured")

	policy := retry.Policy{
		Attempts: cfg.Retry.Attempts,
		Delays:   cfg.Retry.Delays,
		OnRetry: func(attempt int, err error) {
			logger.Debug().Err(err).Int("attempt", attempt).Msg("retrying unparseable response")
		},
	}

	h := handler.New(handler.Deps{
		Validator: validator.New(validator.Limits{
			MaxWordLength:   cfg.Limits.Word,
			MaxTextLength:   cfg.Limits.Text,
			MaxHistoryLimit: cfg.Limits.History,
		}),
		Resolver: langresolve.New(a.router, cfg.Detection.MinConfidence),
		LLM:      a.router,
		TTS:      tts,
		Player:   audio.NewExecPlayer(cfg.Audio.Command, cfg.Audio.Args),
		Repo:     db,
	}, handler.Config{
		CacheTTL: cfg.Cache.TTL,
		Retry:    policy,
	})

	a.ops = httpapi.Operations{
		TranslateWord:     handler.Logged(logger, domain.OpTranslateWord, h.TranslateWord),
		TranslateText:     handler.Logged(logger, domain.OpTranslateText, h.TranslateText),
		ReviewGrammar:     handler.Logged(logger, domain.OpReviewGrammar, h.ReviewGrammar),
		PlayPronunciation: handler.Logged(logger, domain.OpPlayPronunciation, h.PlayPronunciation),
		History:           handler.Logged(logger, domain.OpGetHistory, h.History),
	}
	return a, nil
}

// buildModels returns the configured LLM and, when an OpenAI key is present,
// the speech synthesizer.
func (a *app) buildModels() (domain.LanguageModel, domain.SpeechSynthesizer) {
	var speech domain.SpeechSynthesizer
	var oa *openai.Client
	if a.cfg.LLM.OpenAI.APIKey != "" {
		oa = openai.New(openai.Config{
			APIKey:   a.cfg.LLM.OpenAI.APIKey,
			BaseURL:  a.cfg.LLM.OpenAI.BaseURL,
			Model:    a.cfg.LLM.OpenAI.Model,
			TTSModel: a.cfg.TTS.OpenAI.Model,
			Voice:    a.cfg.TTS.OpenAI.Voice,
			Timeout:  a.cfg.Request.Timeout,
		})
		speech = oa
	}

	if a.cfg.LLM.Backend == config.BackendOllama {
		a.ollama = ollama.New(a.cfg.LLM.Ollama.BaseURL, a.cfg.LLM.Ollama.Model)
		return a.ollama, speech
	}
	// Validate requires a key for the openai backend, so oa is set here.
	return oa, speech
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("close failed")
		}
	}
}

// commandContext is cancelled on SIGINT or SIGTERM, or when timeout elapses.
func commandContext(parent context.Context, a *app) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Request.Timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// describeError renders err with a prefix naming its kind.
func describeError(err error) string {
	var ve *domain.ValidationError
	var ext *domain.ExternalServiceError
	switch {
	case errors.As(err, &ve):
		return "validation error: " + ve.Error()
	case errors.As(err, &ext):
		return fmt.Sprintf("%s error: %s", ext.Service, strings.TrimPrefix(ext.Error(), ext.Service+": "))
	case errors.Is(err, context.DeadlineExceeded):
		return "error: request timed out"
	case errors.Is(err, context.Canceled):
		return "error: cancelled"
	default:
		return "error: " + err.Error()
	}
}

// withApp runs fn with a wired app under the command context.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context(), a)
	defer cancel()
	return fn(ctx, a)
}

// inputText joins the positional arguments, or reads stdin when the only
// argument is "-".
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.Join(args, " "), nil
}
