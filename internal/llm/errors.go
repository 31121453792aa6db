package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrorKind classifies a gateway failure
type ErrorKind string

// Gateway failure kinds
const (
	// KindRateLimited means the provider refused for quota or rate reasons. Not retried.
	KindRateLimited ErrorKind = "rate_limited"
	// KindAuth means the credentials were rejected. Not retried.
	KindAuth ErrorKind = "auth"
	// KindTimeout means the call exceeded its deadline. Retried once with a smaller budget.
	KindTimeout ErrorKind = "timeout"
	// KindGeneric covers every other transport or provider failure. Retried once.
	KindGeneric ErrorKind = "generic"
)

// Error is a classified gateway failure
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("llm error (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the gateway's single internal retry applies.
func (e *Error) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindGeneric
}

// KindOf returns the kind of a gateway error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a gateway error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

var (
	rateLimitMarkers = []string{"quota", "rate limit", "rate_limit", "ratelimit", "too many requests"}
	authMarkers      = []string{"api key", "api_key", "apikey", "authentication", "unauthorized", "unauthenticated", "permission denied"}
	timeoutMarkers   = []string{"timeout", "timed out", "deadline exceeded"}

	// status numbers quoted in error text, matched as whole tokens only
	rateLimitCode = regexp.MustCompile(`\b429\b`)
	authCode      = regexp.MustCompile(`\b40[13]\b`)
)

// Classify turns a raw provider failure into an *Error. Status codes are trusted first;
// matching on the provider's message text is the fallback for SDKs that only return strings.
// Status numbers quoted in the text are consulted only when no status code is known.
func Classify(err error, statusCode int, body string) *Error {
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	msg := body
	if msg == "" && err != nil {
		msg = err.Error()
	}
	out := &Error{Kind: KindGeneric, StatusCode: statusCode, Cause: err, Message: summarize(msg, statusCode)}

	switch statusCode {
	case http.StatusTooManyRequests:
		out.Kind = KindRateLimited
		return out
	case http.StatusUnauthorized, http.StatusForbidden:
		out.Kind = KindAuth
		return out
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		out.Kind = KindTimeout
		return out
	}

	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			out.Kind = KindTimeout
			return out
		}
	}

	lower := strings.ToLower(msg)
	noStatus := statusCode <= 0
	switch {
	case containsAny(lower, rateLimitMarkers), noStatus && rateLimitCode.MatchString(lower):
		out.Kind = KindRateLimited
	case containsAny(lower, authMarkers), noStatus && authCode.MatchString(lower):
		out.Kind = KindAuth
	case containsAny(lower, timeoutMarkers):
		out.Kind = KindTimeout
	}
	return out
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

const maxSummaryRunes = 300

func summarize(msg string, statusCode int) string {
	msg = strings.TrimSpace(msg)
	if utf8.RuneCountInString(msg) > maxSummaryRunes {
		msg = string([]rune(msg)[:maxSummaryRunes]) + "..."
	}
	switch {
	case statusCode > 0 && msg != "":
		return fmt.Sprintf("HTTP %d: %s", statusCode, msg)
	case statusCode > 0:
		return fmt.Sprintf("HTTP %d", statusCode)
	case msg != "":
		return msg
	default:
		return "request failed"
	}
}
