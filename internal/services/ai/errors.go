package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backoff bounds per failure class. The sync worker re-enqueues a failed
// agenda suggestion with GetRetryDelay, so rate limits back off in minutes
// while exhausted quotas wait hours.
const (
	defaultRetryBase = 5 * time.Second
	defaultRetryMax  = 5 * time.Minute

	rateLimitRetryBase = time.Minute
	rateLimitRetryMax  = 15 * time.Minute

	quotaRetryBase = time.Hour
	quotaRetryMax  = 24 * time.Hour

	// maxBackoffShift bounds the doubling so the shift can never overflow.
	maxBackoffShift = 10
)

// APIError carries the details of a failed agenda provider call. Permanent
// marks quota exhaustion, which no short retry can fix.
type APIError struct {
	Message    string
	Type       string
	Code       string
	StatusCode int
	RetryAfter *time.Duration
	Permanent  bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

// IsRateLimitError reports whether err is a transient rate limit response.
// The OpenAI SDK surfaces HTTP failures as opaque errors, so when no
// APIError is wrapped the message text is sniffed for the usual markers.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 && !apiErr.Permanent
	}

	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

// IsQuotaError reports whether err means the provider's quota is exhausted.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Permanent || apiErr.Code == "insufficient_quota"
	}

	msg := err.Error()
	return strings.Contains(msg, "insufficient_quota") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "billing")
}

// ExtractAPIError parses the details of a 429 response out of an SDK error.
// The SDK embeds the provider's JSON error body in the message; anything
// that doesn't look like a rate limit returns nil.
func ExtractAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if !strings.Contains(msg, "429") {
		return nil
	}

	apiErr := &APIError{
		StatusCode: 429,
		Message:    msg,
		Type:       "rate_limit_error",
	}

	if jsonStart := strings.Index(msg, "{"); jsonStart != -1 {
		body := msg[jsonStart:]
		if jsonEnd := strings.LastIndex(body, "}"); jsonEnd != -1 {
			var detail struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			}
			if json.Unmarshal([]byte(body[:jsonEnd+1]), &detail) == nil {
				apiErr.Message = detail.Message
				apiErr.Type = detail.Type
				apiErr.Code = detail.Code
				apiErr.Permanent = detail.Code == "insufficient_quota"
			}
		}
	}

	retryAfter := rateLimitRetryBase
	if apiErr.Permanent {
		retryAfter = quotaRetryBase
	}
	apiErr.RetryAfter = &retryAfter

	return apiErr
}

// GetRetryDelay picks the delay before the attempt-th retry of a failed
// suggestion: exponential per failure class, never shorter than a
// RetryAfter the provider announced.
func GetRetryDelay(err error, attempt int) time.Duration {
	if IsQuotaError(err) {
		return backoff(quotaRetryBase, quotaRetryMax, attempt)
	}

	if IsRateLimitError(err) {
		delay := backoff(rateLimitRetryBase, rateLimitRetryMax, attempt)
		if apiErr := ExtractAPIError(err); apiErr != nil && apiErr.RetryAfter != nil && *apiErr.RetryAfter > delay {
			delay = *apiErr.RetryAfter
		}
		return delay
	}

	return backoff(defaultRetryBase, defaultRetryMax, attempt)
}

// backoff doubles base attempt times, clamped to max.
func backoff(base, max time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	delay := base * time.Duration(1<<uint(attempt))
	if delay > max {
		delay = max
	}
	return delay
}
