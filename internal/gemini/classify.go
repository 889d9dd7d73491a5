package gemini

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"google.golang.org/genai"
)

// Classify maps a raw generation error to a GenError. Classification is
// two-tier: the upstream HTTP status code decides first; vendor tokens in
// the error text are a best-effort fallback, since their wording is not a
// contract.
func Classify(err error) *GenError {
	if err == nil {
		return nil
	}

	if apiErr, ok := asAPIError(err); ok {
		switch apiErr.Code {
		case 400:
			// The API uses 400 both for bad input and safety blocks;
			// the visitor-facing remedy is the same: rephrase.
			return newGenError(KindContentBlocked, err)
		case 401, 403:
			return newGenError(KindUnauthorized, err)
		case 429:
			return newGenError(KindRateLimited, err)
		}
		if k, ok := sniffTokens(apiErr.Message); ok {
			return newGenError(k, err)
		}
		return newGenError(KindUnknown, err)
	}

	if isTransportError(err) {
		return newGenError(KindNetworkFailure, err)
	}

	if k, ok := sniffTokens(err.Error()); ok {
		return newGenError(k, err)
	}
	return newGenError(KindUnknown, err)
}

// asAPIError unwraps a genai.APIError whether it was returned by value
// or by pointer.
func asAPIError(err error) (genai.APIError, bool) {
	var byValue genai.APIError
	if errors.As(err, &byValue) {
		return byValue, true
	}
	var byPtr *genai.APIError
	if errors.As(err, &byPtr) && byPtr != nil {
		return *byPtr, true
	}
	return genai.APIError{}, false
}

// sniffTokens scans error text for known vendor tokens. Best effort only.
func sniffTokens(msg string) (Kind, bool) {
	switch {
	case strings.Contains(msg, "API_KEY_INVALID"):
		return KindUnauthorized, true
	case strings.Contains(msg, "QUOTA_EXCEEDED"):
		return KindRateLimited, true
	case strings.Contains(msg, "SAFETY"):
		return KindContentBlocked, true
	}
	return KindUnknown, false
}

// isTransportError reports failures where no response reached us at all.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
