// Package httpapi exposes the translator operations as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/valpere/tlumacz/internal/domain"
)

const defaultHistoryLimit = 20

// Operations are the calls the API serves. Any of them may be wrapped, e.g.
// with handler.Logged, before being handed to the server.
type Operations struct {
	TranslateWord     func(context.Context, domain.TranslateWordRequest) (*domain.TranslationResult, error)
	TranslateText     func(context.Context, domain.TranslateTextRequest) (*domain.TextTranslationResult, error)
	ReviewGrammar     func(context.Context, domain.ReviewGrammarRequest) (*domain.GrammarReviewResult, error)
	PlayPronunciation func(context.Context, domain.PlayPronunciationRequest) (*domain.PronunciationResult, error)
	History           func(context.Context, domain.GetHistoryRequest) ([]domain.HistoryEntry, error)
}

type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// RequestTimeout bounds each operation; zero leaves it unbounded.
	RequestTimeout time.Duration
}

type Server struct {
	ops    Operations
	logger zerolog.Logger
	opts   Options
}

func NewServer(ops Operations, logger zerolog.Logger, opts Options) *Server {
	if strings.TrimSpace(opts.Addr) == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		// Pronunciations block until playback ends.
		opts.WriteTimeout = 2 * time.Minute
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{ops: ops, logger: logger, opts: opts}
}

// Handler builds the routed echo instance.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.logger.Info()
			if v.Error != nil {
				ev = s.logger.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)

	api := e.Group("/api/v1")
	api.POST("/words", s.handleWords)
	api.POST("/texts", s.handleTexts)
	api.POST("/grammar", s.handleGrammar)
	api.POST("/pronunciations", s.handlePronunciations)
	api.GET("/history", s.handleHistory)

	return e
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	e := s.Handler()
	httpServer := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", s.opts.Addr).Msg("tlumacz api started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("tlumacz api stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ve *domain.ValidationError
	var ext *domain.ExternalServiceError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ve):
		_ = fail(c, http.StatusUnprocessableEntity, ve.Error(), map[string]any{
			"violations": ve.Violations,
		})
	case errors.As(err, &ext):
		data := map[string]any{"service": ext.Service}
		if ext.Excerpt != "" {
			data["excerpt"] = ext.Excerpt
		}
		_ = errorWithStatus(c, http.StatusBadGateway, ext.Error(), data)
	case errors.Is(err, context.DeadlineExceeded):
		_ = errorWithStatus(c, http.StatusGatewayTimeout, "Request timed out", nil)
	case errors.As(err, &he):
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && strings.TrimSpace(m) != "" {
			message = m
		}
		if he.Code >= 500 {
			_ = errorWithStatus(c, he.Code, message, nil)
			return
		}
		_ = fail(c, he.Code, message, nil)
	default:
		s.logger.Error().Err(err).Str("uri", c.Request().URL.Path).Msg("unhandled error")
		_ = errorWithStatus(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}

// requestContext applies the per-operation timeout to the request context.
func (s *Server) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	ctx := c.Request().Context()
	if s.opts.RequestTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "tlumacz",
		"time":    time.Now().UTC(),
	})
}

func (s *Server) handleWords(c echo.Context) error {
	req := domain.TranslateWordRequest{UseCache: true}
	return serve(s, c, &req, s.ops.TranslateWord)
}

func (s *Server) handleTexts(c echo.Context) error {
	req := domain.TranslateTextRequest{UseCache: true}
	return serve(s, c, &req, s.ops.TranslateText)
}

func (s *Server) handleGrammar(c echo.Context) error {
	req := domain.ReviewGrammarRequest{UseCache: true}
	return serve(s, c, &req, s.ops.ReviewGrammar)
}

func (s *Server) handlePronunciations(c echo.Context) error {
	req := domain.PlayPronunciationRequest{UseCache: true}
	return serve(s, c, &req, s.ops.PlayPronunciation)
}

func (s *Server) handleHistory(c echo.Context) error {
	req := domain.GetHistoryRequest{Limit: defaultHistoryLimit}
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		req.Limit = n
	}
	return invoke(s, c, req, s.ops.History)
}

// serve binds the JSON body onto req, whose defaults are already set, and
// runs fn with it.
func serve[Req, Res any](s *Server, c echo.Context, req *Req, fn func(context.Context, Req) (Res, error)) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return invoke(s, c, *req, fn)
}

func invoke[Req, Res any](s *Server, c echo.Context, req Req, fn func(context.Context, Req) (Res, error)) error {
	if fn == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "operation not available")
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	res, err := fn(ctx, req)
	if err != nil {
		return err
	}
	return success(c, res)
}
