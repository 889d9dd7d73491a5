// Package chat orchestrates conversation turns: session mutation, prompt
// construction, generation, and recovery of every failure into a normal
// assistant message.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/folioai/folio/internal/domain"
	"github.com/folioai/folio/internal/gemini"
	"github.com/folioai/folio/internal/prompt"
	"github.com/folioai/folio/internal/session"
)

var (
	// ErrEmptyInput rejects submissions that are empty after trimming.
	// It is a no-op, not a failure turn.
	ErrEmptyInput = errors.New("chat: empty input")

	// ErrBusy rejects a submission while a generation for the same
	// session is still in flight. One turn at a time per conversation.
	ErrBusy = errors.New("chat: generation already in flight")
)

// TurnState is the per-turn lifecycle exposed to the presentation layer.
// The Submitting -> Settled cycle is the sole coordination signal for
// disabling and re-enabling input controls.
type TurnState string

const (
	// StateSubmitting means a generation request is in flight.
	StateSubmitting TurnState = "submitting"
	// StateSettled means the assistant message (or recovered failure)
	// has been appended.
	StateSettled TurnState = "settled"
)

// Generator is the outbound generation boundary.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, *gemini.GenError)
}

// ProfileSource provides the read-only portfolio snapshot for prompts.
type ProfileSource interface {
	Portfolio() *domain.Portfolio
}

// Notifier receives turn-state transitions. The websocket hub implements
// this; tests use fakes.
type Notifier interface {
	Notify(ev TurnEvent)
}

// TurnEvent is one turn-state transition, addressed by session so the
// presentation layer can ignore events for conversations it no longer
// shows.
type TurnEvent struct {
	SessionID string    `json:"session_id"`
	State     TurnState `json:"state"`
	MessageID string    `json:"message_id,omitempty"`
	Intent    Intent    `json:"intent,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
}

// Turn is the result of one completed submission.
type Turn struct {
	SessionID string
	User      domain.Message
	Assistant domain.Message
	Intent    Intent
	// ErrorKind is empty on success, else the gemini kind wire name.
	// The failure text is already in Assistant.Content.
	ErrorKind string
}

// Controller owns the turn-taking protocol for all conversations.
type Controller struct {
	sessions   *session.Store
	profile    ProfileSource
	gen        Generator
	transcript *TranscriptLogger
	notifier   Notifier

	mu       sync.Mutex
	inflight map[string]bool
}

// NewController wires the conversation controller. transcript and
// notifier may be nil.
func NewController(sessions *session.Store, profile ProfileSource, gen Generator, transcript *TranscriptLogger, notifier Notifier) *Controller {
	return &Controller{
		sessions:   sessions,
		profile:    profile,
		gen:        gen,
		transcript: transcript,
		notifier:   notifier,
		inflight:   make(map[string]bool),
	}
}

// Submit runs one turn against the current session, lazily creating one
// when none is selected. Empty input and overlapping submissions are
// rejected as no-ops (ErrEmptyInput, ErrBusy). Every generation outcome,
// success or classified failure, settles as an assistant message, so the
// transcript stays a complete linear record.
func (c *Controller) Submit(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		Content:   text,
		Role:      domain.RoleUser,
		Timestamp: time.Now(),
	}

	// Reserve the turn before appending so a racing submission for the
	// same session is rejected without touching the transcript. The store
	// resolves the target, checks the reservation, and appends under one
	// lock; a concurrent SetCurrent cannot retarget the append after the
	// busy check.
	c.mu.Lock()
	sess, ok := c.sessions.TryAppendOrCreate(userMsg, func(id string) bool {
		return !c.inflight[id]
	})
	if !ok {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	sid := sess.ID
	c.inflight[sid] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, sid)
		c.mu.Unlock()
	}()

	c.notify(TurnEvent{SessionID: sid, State: StateSubmitting, MessageID: userMsg.ID})
	c.transcript.Log(sid, userMsg, "")

	intent := ClassifyIntent(text)
	built := prompt.Build(text, c.profile.Portfolio())

	reply, genErr := c.gen.Generate(ctx, built)

	content := reply
	errorKind := ""
	if genErr != nil {
		content = genErr.Message
		errorKind = genErr.Kind.String()
		slog.Warn("Turn settled with recovered failure",
			"session_id", sid, "kind", errorKind, "error", genErr.Err)
	}

	assistantMsg := domain.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      domain.RoleAssistant,
		Timestamp: time.Now(),
	}

	// The result lands in the session recorded at submit time, even if
	// the user has since switched conversations. If the session was
	// deleted mid-flight the result is dropped, which is the one case
	// where a turn leaves no trace.
	if err := c.sessions.AppendTo(sid, assistantMsg); err != nil {
		slog.Warn("Dropping late result for deleted session", "session_id", sid)
	} else {
		c.transcript.Log(sid, assistantMsg, errorKind)
	}

	c.notify(TurnEvent{
		SessionID: sid,
		State:     StateSettled,
		MessageID: assistantMsg.ID,
		Intent:    intent,
		ErrorKind: errorKind,
	})

	return &Turn{
		SessionID: sid,
		User:      userMsg,
		Assistant: assistantMsg,
		Intent:    intent,
		ErrorKind: errorKind,
	}, nil
}

// Busy reports whether a generation is in flight for the session.
func (c *Controller) Busy(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[sessionID]
}

func (c *Controller) notify(ev TurnEvent) {
	if c.notifier != nil {
		c.notifier.Notify(ev)
	}
}
