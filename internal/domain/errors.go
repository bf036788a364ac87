package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks a provider payload that could not be interpreted.
// Parse failures wrap it so retries can tell them apart from transport errors.
var ErrMalformedResponse = errors.New("malformed response")

// ErrNotConfigured marks a capability with no backend behind it.
var ErrNotConfigured = errors.New("not configured")

// Violation is one broken input rule.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError reports every violated rule of a request, or a language
// detection outcome that needs the caller to act.
type ValidationError struct {
	Violations []Violation
}

// NewValidationError builds a ValidationError with a single violation.
func NewValidationError(rule, format string, args ...any) *ValidationError {
	return &ValidationError{Violations: []Violation{{Rule: rule, Message: fmt.Sprintf(format, args...)}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a violation with the given rule is present.
func (e *ValidationError) Has(rule string) bool {
	for _, v := range e.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// ExternalServiceError is a failure of a provider: a transport error, or a
// response that could not be interpreted.
type ExternalServiceError struct {
	Service string
	Message string
	// Excerpt is a bounded prefix of the offending payload, if any.
	Excerpt string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Service)
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if e.Excerpt != "" {
		fmt.Fprintf(&sb, " (response: %q)", e.Excerpt)
	}
	return sb.String()
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// AsExternal wraps err as an ExternalServiceError of service unless it
// already is one.
func AsExternal(service, message string, err error) error {
	if err == nil {
		return nil
	}
	var ext *ExternalServiceError
	if errors.As(err, &ext) {
		return err
	}
	return &ExternalServiceError{Service: service, Message: message, Err: err}
}

// ExcerptLimit bounds the payload prefix carried by parse errors.
const ExcerptLimit = 200

// Excerpt returns at most ExcerptLimit runes of s.
func Excerpt(s string) string {
	r := []rune(s)
	if len(r) <= ExcerptLimit {
		return s
	}
	return string(r[:ExcerptLimit]) + "..."
}
