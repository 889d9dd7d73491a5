package domain

import (
	"time"
)

// ChatSession is one independent conversation thread with its own
// message history.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MessageCount returns the number of messages in the session.
func (s *ChatSession) MessageCount() int {
	return len(s.Messages)
}

// SessionState is the persisted tuple of all sessions plus the current
// selection. The JSON shape matches the browser-era "chat-storage" blob so
// exported transcripts stay readable by old tooling.
type SessionState struct {
	CurrentSessionID string         `json:"currentSessionId"`
	Sessions         []*ChatSession `json:"sessions"`
}

// Clone returns a deep copy of the state. Persisters serialize clones so
// the in-memory state can keep mutating while a flush is in flight.
func (st *SessionState) Clone() *SessionState {
	out := &SessionState{CurrentSessionID: st.CurrentSessionID}
	if st.Sessions == nil {
		return out
	}
	out.Sessions = make([]*ChatSession, len(st.Sessions))
	for i, s := range st.Sessions {
		cp := *s
		cp.Messages = make([]Message, len(s.Messages))
		copy(cp.Messages, s.Messages)
		out.Sessions[i] = &cp
	}
	return out
}
