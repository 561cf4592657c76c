// Package scrapererr defines the closed failure taxonomy for source
// implementations. Every error a scraper returns is an *Error carrying one of
// the Kind values below, so callers can classify failures exhaustively
// instead of reflecting on dynamic error types.
package scrapererr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies the failure category. The set is closed: scrapers must map
// every failure onto one of these values (KindGeneric as the last resort).
type Kind int

const (
	KindGeneric Kind = iota
	KindRequestFailed
	KindHTTPStatus
	KindRateLimited
	KindParseFailed
	KindSelectorNotFound
	KindMissingField
	KindInvalidURL
	KindAuthentication
	KindSessionExpired
	KindCaptchaDetected
	KindBotProtection
	KindTimeout
	KindNetwork
	KindInvalidConfig
	KindNoResults
	KindValidation
	KindNotImplemented
)

func (k Kind) String() string {
	switch k {
	case KindRequestFailed:
		return "request failed"
	case KindHTTPStatus:
		return "http status"
	case KindRateLimited:
		return "rate limited"
	case KindParseFailed:
		return "parse failed"
	case KindSelectorNotFound:
		return "selector not found"
	case KindMissingField:
		return "missing field"
	case KindInvalidURL:
		return "invalid url"
	case KindAuthentication:
		return "authentication required"
	case KindSessionExpired:
		return "session expired"
	case KindCaptchaDetected:
		return "captcha detected"
	case KindBotProtection:
		return "bot protection"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network error"
	case KindInvalidConfig:
		return "invalid configuration"
	case KindNoResults:
		return "no results"
	case KindValidation:
		return "validation failed"
	case KindNotImplemented:
		return "not implemented"
	default:
		return "scraper error"
	}
}

// Error is the single error type scrapers return. Only the fields relevant to
// the Kind are set: StatusCode for HTTP failures, Format for parse failures,
// Protection for bot-protection walls. Cause holds the underlying error text
// as an opaque string.
type Error struct {
	Kind       Kind
	Source     string // scraper name
	URL        string // request URL, may carry a query string internally
	Message    string
	StatusCode int
	Format     string
	Protection string
	Cause      string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Kind == KindHTTPStatus || (e.Kind == KindRateLimited && e.StatusCode != 0) {
		fmt.Fprintf(&b, " %d", e.StatusCode)
	}
	if e.Kind == KindParseFailed && e.Format != "" {
		fmt.Fprintf(&b, " (%s)", e.Format)
	}
	if e.Kind == KindBotProtection && e.Protection != "" {
		fmt.Fprintf(&b, " (%s)", e.Protection)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != "" {
		b.WriteString(": ")
		b.WriteString(e.Cause)
	}
	return b.String()
}

// New builds an Error of the given kind with a plain message.
func New(kind Kind, source, message string) *Error {
	return &Error{Kind: kind, Source: source, Message: message}
}

// HTTPStatus reports an unexpected HTTP response code.
func HTTPStatus(source, url string, code int) *Error {
	return &Error{Kind: KindHTTPStatus, Source: source, URL: url, StatusCode: code}
}

// RateLimited reports an HTTP 429 from the remote side.
func RateLimited(source, url string) *Error {
	return &Error{Kind: KindRateLimited, Source: source, URL: url, StatusCode: 429}
}

// ParseFailed reports a response body that could not be decoded. format names
// the expected encoding ("json", "html", ...).
func ParseFailed(source, url, format string, cause error) *Error {
	e := &Error{Kind: KindParseFailed, Source: source, URL: url, Format: format}
	if cause != nil {
		e.Cause = cause.Error()
	}
	return e
}

// Timeout reports a request that exceeded its deadline.
func Timeout(source, url string, cause error) *Error {
	e := &Error{Kind: KindTimeout, Source: source, URL: url}
	if cause != nil {
		e.Cause = cause.Error()
	}
	return e
}

// Network reports a transport-level failure (DNS, connection refused, reset).
func Network(source, url string, cause error) *Error {
	e := &Error{Kind: KindNetwork, Source: source, URL: url}
	if cause != nil {
		e.Cause = cause.Error()
	}
	return e
}

// Authentication reports missing or rejected credentials.
func Authentication(source, url, message string) *Error {
	return &Error{Kind: KindAuthentication, Source: source, URL: url, Message: message}
}

// InvalidConfig reports a source that cannot run as configured.
func InvalidConfig(source, message string) *Error {
	return &Error{Kind: KindInvalidConfig, Source: source, Message: message}
}

// MissingField reports a response record lacking a required field.
func MissingField(source, field string) *Error {
	return &Error{Kind: KindMissingField, Source: source, Message: field}
}

// InvalidURL reports a request URL that could not be built.
func InvalidURL(source, raw string, cause error) *Error {
	e := &Error{Kind: KindInvalidURL, Source: source, URL: raw}
	if cause != nil {
		e.Cause = cause.Error()
	}
	return e
}

// NoResults reports a well-formed but empty response where results were required.
func NoResults(source string) *Error {
	return &Error{Kind: KindNoResults, Source: source}
}

// IsRetryable reports whether the failure is transient: HTTP 5xx, HTTP 429,
// a timeout, or a network-layer failure. Everything else — other 4xx, parse
// failures, and all the human-intervention kinds — is not worth retrying.
// Retryability is advisory only; nothing in this pipeline retries.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindHTTPStatus:
		return e.StatusCode == 429 || (e.StatusCode >= 500 && e.StatusCode <= 599)
	case KindRateLimited, KindTimeout, KindNetwork:
		return true
	default:
		return false
	}
}

// RequiresUserAction reports whether a human has to intervene before the
// source can work again (solve a captcha, refresh credentials, re-login).
func RequiresUserAction(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindCaptchaDetected, KindAuthentication, KindSessionExpired:
		return true
	default:
		return false
	}
}

var urlPattern = regexp.MustCompile(`https?://[^\s"']+`)

// UserMessage renders err for display or logging. Any URL embedded in the
// text has its query string stripped so session tokens and click identifiers
// never leak into logs or UI.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return stripQueries(err.Error())
	}
	msg := e.Error()
	if e.URL != "" {
		msg = fmt.Sprintf("%s (url: %s)", msg, StripQuery(e.URL))
	}
	return stripQueries(msg)
}

// StripQuery removes everything from the first '?' on.
func StripQuery(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}

func stripQueries(s string) string {
	return urlPattern.ReplaceAllStringFunc(s, StripQuery)
}
