// Package gemini sends prompts to the Gemini API and normalizes every
// failure mode into a closed set of user-displayable outcomes.
package gemini

// Kind is the closed set of failure categories surfaced to callers.
type Kind int

const (
	// KindUnknown covers internal errors and malformed responses.
	KindUnknown Kind = iota
	// KindUnauthorized means the API credential is missing or invalid.
	KindUnauthorized
	// KindRateLimited means quota or throughput was exceeded.
	KindRateLimited
	// KindContentBlocked means a safety or policy filter tripped.
	KindContentBlocked
	// KindNetworkFailure means the transport failed before any
	// response was received.
	KindNetworkFailure
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindContentBlocked:
		return "content_blocked"
	case KindNetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

// Display messages per kind. These go straight into the chat transcript,
// so they are written for the visitor, not the operator.
const (
	msgUnauthorized = "🔑 **API Key Issue**: Please check your Gemini API key configuration. Make sure you've added a valid API key to your `.env` file."
	msgRateLimited  = "⏰ **Rate Limit**: You've exceeded the API rate limit. Please wait a moment and try again."
	msgBlocked      = "🚫 **Content Filter**: Your message was blocked by safety filters. Please try rephrasing your question."
	msgNetwork      = "🌐 **Network Error**: Unable to connect to the AI service. Please check your internet connection and try again."
	msgUnknown      = "I apologize, but I'm having trouble processing your request right now. Please try again later."
)

func displayMessage(k Kind) string {
	switch k {
	case KindUnauthorized:
		return msgUnauthorized
	case KindRateLimited:
		return msgRateLimited
	case KindContentBlocked:
		return msgBlocked
	case KindNetworkFailure:
		return msgNetwork
	default:
		return msgUnknown
	}
}

// GenError is a classified generation failure. Message is always safe to
// render in the transcript; Err keeps the underlying cause for logs.
type GenError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements error.
func (e *GenError) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

// Unwrap exposes the underlying cause.
func (e *GenError) Unwrap() error {
	return e.Err
}

func newGenError(k Kind, err error) *GenError {
	return &GenError{Kind: k, Message: displayMessage(k), Err: err}
}
