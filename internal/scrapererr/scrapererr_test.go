package scrapererr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 503", HTTPStatus("lever", "https://x.com", 503), true},
		{"http 500", HTTPStatus("lever", "https://x.com", 500), true},
		{"http 429", HTTPStatus("lever", "https://x.com", 429), true},
		{"rate limited", RateLimited("lever", "https://x.com"), true},
		{"timeout", Timeout("lever", "https://x.com", nil), true},
		{"network", Network("lever", "https://x.com", errors.New("connection refused")), true},
		{"http 404", HTTPStatus("lever", "https://x.com", 404), false},
		{"http 400", HTTPStatus("lever", "https://x.com", 400), false},
		{"captcha", New(KindCaptchaDetected, "lever", ""), false},
		{"authentication", Authentication("usajobs", "https://x.com", "bad key"), false},
		{"parse failure", ParseFailed("lever", "https://x.com", "json", errors.New("eof")), false},
		{"invalid config", InvalidConfig("usajobs", "api key missing"), false},
		{"nil-ish plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRequiresUserAction(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(KindCaptchaDetected, "board", "solve captcha"), true},
		{Authentication("usajobs", "", "key rejected"), true},
		{New(KindSessionExpired, "board", ""), true},
		{HTTPStatus("board", "", 503), false},
		{Timeout("board", "", nil), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := RequiresUserAction(tt.err); got != tt.want {
			t.Errorf("RequiresUserAction(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestIsRetryable_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("fetching page 2: %w", HTTPStatus("greenhouse", "https://x.com", 502))
	if !IsRetryable(wrapped) {
		t.Error("expected wrapped 502 to be retryable")
	}
}

func TestUserMessage_StripsQueryFromURL(t *testing.T) {
	err := HTTPStatus("lever", "https://jobs.lever.co/acme?token=secret123&sid=abc", 403)
	msg := UserMessage(err)

	if strings.Contains(msg, "secret123") || strings.Contains(msg, "sid=") {
		t.Errorf("user message leaked query string: %q", msg)
	}
	if !strings.Contains(msg, "https://jobs.lever.co/acme") {
		t.Errorf("user message lost the URL path: %q", msg)
	}
}

func TestUserMessage_StripsEmbeddedURLs(t *testing.T) {
	err := errors.New("GET https://api.example.com/v1/search?api_key=hunter2 failed")
	msg := UserMessage(err)

	if strings.Contains(msg, "hunter2") {
		t.Errorf("user message leaked embedded query string: %q", msg)
	}
	if !strings.Contains(msg, "https://api.example.com/v1/search") {
		t.Errorf("user message mangled the URL: %q", msg)
	}
}

func TestError_Rendering(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{HTTPStatus("greenhouse", "", 502), "greenhouse: http status 502"},
		{ParseFailed("lever", "", "json", errors.New("unexpected EOF")), "lever: parse failed (json): unexpected EOF"},
		{&Error{Kind: KindBotProtection, Source: "board", Protection: "cloudflare"}, "board: bot protection (cloudflare)"},
		{InvalidConfig("usajobs", "api key missing"), "usajobs: invalid configuration: api key missing"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
