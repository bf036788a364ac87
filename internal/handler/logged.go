package handler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/valpere/tlumacz/internal/domain"
)

// Logged wraps fn so each call logs its operation, duration and outcome. The
// error is returned unchanged.
func Logged[Req, Res any](logger zerolog.Logger, op domain.Operation, fn func(context.Context, Req) (Res, error)) func(context.Context, Req) (Res, error) {
	return func(ctx context.Context, req Req) (Res, error) {
		start := time.Now()
		res, err := fn(ctx, req)
		elapsed := time.Since(start)

		if err == nil {
			logger.Info().
				Str("operation", string(op)).
				Dur("duration", elapsed).
				Msg("operation completed")
			return res, nil
		}

		ev := logger.Warn()
		kind := ErrorKind(err)
		if kind == "other" {
			ev = logger.Error()
		}
		ev.Err(err).
			Str("operation", string(op)).
			Dur("duration", elapsed).
			Str("error_kind", kind).
			Msg("operation failed")
		return res, err
	}
}

// ErrorKind classifies err as "validation", "external", "canceled" or "other".
func ErrorKind(err error) string {
	var ve *domain.ValidationError
	var ext *domain.ExternalServiceError
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &ext):
		return "external"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
