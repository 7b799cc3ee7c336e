// Copyright Neuromechanist Labs, 2025. All rights reserved.

package ocr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the remote-service taxonomy. Callers use
// errors.Is to distinguish fatal conditions from transient ones; the
// provider's response shapes never leak past this package.
var (
	// ErrAuth indicates an invalid or missing API key. Never retried.
	ErrAuth = errors.New("authentication failed: check your Mistral API key")

	// ErrQuota indicates the account quota is exhausted. Never retried.
	ErrQuota = errors.New("API quota exceeded")

	// ErrTooLarge indicates the document exceeds the provider's size
	// limit. Never retried.
	ErrTooLarge = errors.New("document too large for OCR processing")

	// ErrRateLimited indicates rate limiting that persisted through all
	// backoff retries.
	ErrRateLimited = errors.New("rate limit exceeded after retries")
)

// classifyStatus converts an HTTP error status plus response body into
// a descriptive internal error.
func classifyStatus(status int, body string) error {
	body = strings.TrimSpace(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuth
	case status == http.StatusPaymentRequired || containsQuotaSignature(body):
		return ErrQuota
	case status == http.StatusRequestEntityTooLarge:
		return ErrTooLarge
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		if len(body) > 200 {
			body = body[:200]
		}
		return fmt.Errorf("OCR API returned status %d: %s", status, body)
	}
}

// containsQuotaSignature matches known quota-exhaustion error bodies
// supplied by the provider's client surface.
func containsQuotaSignature(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "quota") ||
		strings.Contains(lower, "insufficient credits")
}
