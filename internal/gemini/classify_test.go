package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		want Kind
	}{
		{"bad input or content blocked", 400, KindContentBlocked},
		{"invalid credential", 401, KindUnauthorized},
		{"forbidden credential", 403, KindUnauthorized},
		{"quota exceeded", 429, KindRateLimited},
		{"internal error", 500, KindUnknown},
		{"bad gateway", 502, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := genai.APIError{Code: tt.code, Message: "upstream says no"}
			got := Classify(err)
			if got.Kind != tt.want {
				t.Errorf("Kind = %s, want %s", got.Kind, tt.want)
			}
			if got.Message == "" {
				t.Errorf("Expected a displayable message")
			}
		})
	}
}

func TestClassifyInvalidAPIKey(t *testing.T) {
	// The exact wording the upstream route used to surface.
	err := genai.APIError{Code: 401, Message: "Invalid Gemini API key. Please check your API key configuration."}

	got := Classify(err)
	if got.Kind != KindUnauthorized {
		t.Fatalf("Kind = %s, want unauthorized", got.Kind)
	}
	if !strings.Contains(got.Message, "API key configuration") {
		t.Errorf("Message %q must instruct a credential configuration fix", got.Message)
	}
}

// Token sniffing is the best-effort second tier: it pins today's vendor
// wording, not a contract. If the vendor renames these tokens the status
// tier still classifies correctly.
func TestClassifyTokenSniffingFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"api key token on 500", genai.APIError{Code: 500, Message: "API_KEY_INVALID: bad key"}, KindUnauthorized},
		{"quota token on 500", genai.APIError{Code: 500, Message: "QUOTA_EXCEEDED for project"}, KindRateLimited},
		{"safety token on 500", genai.APIError{Code: 500, Message: "blocked due to SAFETY"}, KindContentBlocked},
		{"api key token without status", errors.New("generateContent: API_KEY_INVALID"), KindUnauthorized},
		{"no token without status", errors.New("something odd"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got.Kind != tt.want {
				t.Errorf("Kind = %s, want %s", got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyTransportFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"url error", &url.Error{Op: "Post", URL: "https://generativelanguage.googleapis.com", Err: errors.New("connection refused")}},
		{"net op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("no route to host")}},
		{"deadline", context.DeadlineExceeded},
		{"wrapped deadline", fmt.Errorf("generate: %w", context.DeadlineExceeded)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Kind != KindNetworkFailure {
				t.Errorf("Kind = %s, want network_failure", got.Kind)
			}
			if !strings.Contains(got.Message, "connection") {
				t.Errorf("Message %q must flag connectivity", got.Message)
			}
		})
	}
}

func TestClassifyPointerAPIError(t *testing.T) {
	err := fmt.Errorf("call failed: %w", &genai.APIError{Code: 429, Message: "slow down"})
	if got := Classify(err); got.Kind != KindRateLimited {
		t.Errorf("Kind = %s, want rate_limited", got.Kind)
	}
}

func TestGenErrorUnwrap(t *testing.T) {
	cause := genai.APIError{Code: 401, Message: "nope"}
	genErr := Classify(cause)

	var apiErr genai.APIError
	if !errors.As(genErr, &apiErr) {
		t.Errorf("GenError must unwrap to the underlying APIError")
	}
}
