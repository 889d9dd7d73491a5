// Package session holds conversation threads and persists them across
// restarts. The Store is an explicit state container: construct one per
// process (or per test), inject it into consumers, mutate it through its
// methods only.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// titleMaxRunes bounds auto-derived session titles. Longer first messages
// are truncated with a trailing ellipsis marker.
const titleMaxRunes = 50

// defaultTitle is the placeholder before the first user message arrives.
const defaultTitle = "New Chat"

var (
	// ErrNoActiveSession is returned by the strict Append when no session
	// is selected. Callers that want lazy creation use AppendOrCreate.
	ErrNoActiveSession = errors.New("session: no active session")

	// ErrNotFound is returned when an operation targets an unknown session id.
	ErrNotFound = errors.New("session: not found")
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newSessionID builds a globally unique id: millisecond timestamp plus a
// random base36 suffix, e.g. "session_1714070520123_k3x9q0a7z".
func newSessionID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

// deriveTitle truncates the first user message to the title bound.
func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes]) + "..."
	}
	return content
}
