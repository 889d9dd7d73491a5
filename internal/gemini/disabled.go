package gemini

import (
	"context"
	"errors"
)

// Disabled stands in for the real client when no API key is configured.
// Every call settles as an unauthorized failure, so the chat surface
// stays up and tells the visitor what is wrong.
type Disabled struct{}

// Generate always returns the unauthorized display message.
func (Disabled) Generate(context.Context, string) (string, *GenError) {
	return "", newGenError(KindUnauthorized, errors.New("no API key configured"))
}
