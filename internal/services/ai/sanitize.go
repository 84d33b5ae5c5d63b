package ai

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// contextKey keeps request metadata keys private to this package so they
// cannot collide with plain string keys elsewhere.
type contextKey string

const (
	userIDContextKey    contextKey = "user_id"
	requestIDContextKey contextKey = "request_id"
)

const (
	// previewLength bounds log previews of prompts and completions.
	previewLength = 200
	// debugPreviewLength applies when full prompt logging is enabled.
	debugPreviewLength = 10000
)

// SanitizePrompt returns a log-safe preview of a prompt. Content is
// truncated and stripped of control characters even with fullLog set,
// since prompts embed user-written item titles.
func SanitizePrompt(prompt string, fullLog bool) string {
	return logPreview(prompt, fullLog)
}

// SanitizeResponse returns a log-safe preview of a model completion.
func SanitizeResponse(response string, fullLog bool) string {
	return logPreview(response, fullLog)
}

func logPreview(s string, fullLog bool) string {
	if s == "" {
		return ""
	}
	maxLen := previewLength
	if fullLog {
		maxLen = debugPreviewLength
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	// Strip control characters so multi-line content cannot forge log lines.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			b.WriteRune(r)
		}
	}
	s = b.String()

	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}

// ExtractRequestID pulls the request ID out of the context, if one was set.
func ExtractRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// ExtractUserID pulls the user ID out of the context. UUIDs and plain
// strings are both accepted.
func ExtractUserID(ctx context.Context) string {
	switch v := ctx.Value(userIDContextKey).(type) {
	case interface{ String() string }:
		return v.String()
	case string:
		return v
	}
	return ""
}
