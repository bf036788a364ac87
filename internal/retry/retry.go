// Package retry re-runs provider calls whose responses could not be parsed.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valpere/tlumacz/internal/domain"
)

// Policy describes how many times a call is attempted and how long to wait
// before each attempt. Delays[i] is slept before attempt i+1; a missing entry
// reuses the last one.
type Policy struct {
	Attempts int
	Delays   []time.Duration
	// OnRetry, if set, is called after a failed attempt that will be retried.
	OnRetry func(attempt int, err error)
}

// Default is three attempts after 0s, 1s and 2s.
func Default() Policy {
	return Policy{
		Attempts: 3,
		Delays:   []time.Duration{0, time.Second, 2 * time.Second},
	}
}

func (p Policy) delay(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if attempt < len(p.Delays) {
		return p.Delays[attempt]
	}
	return p.Delays[len(p.Delays)-1]
}

// Do calls fn until it succeeds, fails with an error that is not a malformed
// response, or the attempts are used up. Exhaustion is reported as an
// ExternalServiceError of service naming the attempt count.
func Do[T any](ctx context.Context, p Policy, service string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := sleep(ctx, p.delay(attempt)); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrMalformedResponse) {
			return zero, err
		}
		lastErr = err
		if attempt+1 < attempts && p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}
	}

	exhausted := &domain.ExternalServiceError{
		Service: service,
		Message: fmt.Sprintf("no valid response after %d attempts", attempts),
		Err:     lastErr,
	}
	var ext *domain.ExternalServiceError
	if errors.As(lastErr, &ext) {
		exhausted.Excerpt = ext.Excerpt
		exhausted.Err = ext.Err
	}
	return zero, exhausted
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
