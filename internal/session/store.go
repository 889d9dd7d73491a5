package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/folioai/folio/internal/domain"
)

// Store is the in-memory session state container. All mutations are
// synchronous; durable persistence is fired after each mutation and runs
// on a background flusher, so callers never wait on storage.
type Store struct {
	mu    sync.Mutex
	state domain.SessionState
	dirty bool

	persister Persister
	flushCh   chan struct{}
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// New creates a Store backed by the given persister. A nil persister
// yields a purely in-memory store (used by tests).
func New(persister Persister) *Store {
	s := &Store{
		persister: persister,
		flushCh:   make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
	if persister != nil {
		s.wg.Add(1)
		go s.flushLoop()
	}
	return s
}

// Load rehydrates state from the persister. Timestamps come back as real
// time values from their serialized form. A missing blob leaves the store
// empty. A persisted current id that no longer matches any session is
// cleared so the invariant holds.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	state, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = *state
	if s.state.CurrentSessionID != "" && s.findLocked(s.state.CurrentSessionID) == nil {
		s.state.CurrentSessionID = ""
	}
	return nil
}

// NewSession inserts a new empty session at the front, selects it, and
// returns a copy.
func (s *Store) NewSession() domain.ChatSession {
	now := time.Now()
	sess := &domain.ChatSession{
		ID:        newSessionID(),
		Title:     defaultTitle,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.state.Sessions = append([]*domain.ChatSession{sess}, s.state.Sessions...)
	s.state.CurrentSessionID = sess.ID
	cp := cloneSession(sess)
	s.markDirtyLocked()
	s.mu.Unlock()

	return cp
}

// SetCurrent selects a session by id. The id is not validated here: an
// unknown id simply means Current returns nothing until a valid selection
// or a new session is made.
func (s *Store) SetCurrent(id string) {
	s.mu.Lock()
	s.state.CurrentSessionID = id
	s.markDirtyLocked()
	s.mu.Unlock()
}

// Append adds a message to the current session. It fails with
// ErrNoActiveSession when nothing is selected.
func (s *Store) Append(msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(s.state.CurrentSessionID)
	if sess == nil {
		return ErrNoActiveSession
	}
	s.appendLocked(sess, msg)
	return nil
}

// AppendOrCreate adds a message to the current session, lazily creating
// and selecting one first when none exists. It returns a copy of the
// session that received the message.
func (s *Store) AppendOrCreate(msg domain.Message) domain.ChatSession {
	sess, _ := s.TryAppendOrCreate(msg, nil)
	return sess
}

// TryAppendOrCreate is AppendOrCreate with an admission check: accept is
// called with the id of the session about to receive the message, and a
// false return aborts without mutating anything. Target resolution, the
// check, and the append run under one lock, so a concurrent selection
// change cannot retarget the append after the check. A nil accept admits
// everything.
func (s *Store) TryAppendOrCreate(msg domain.Message, accept func(id string) bool) (domain.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(s.state.CurrentSessionID)
	if sess != nil {
		if accept != nil && !accept(sess.ID) {
			return domain.ChatSession{}, false
		}
		s.appendLocked(sess, msg)
		return cloneSession(sess), true
	}

	now := time.Now()
	sess = &domain.ChatSession{
		ID:        newSessionID(),
		Title:     defaultTitle,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if accept != nil && !accept(sess.ID) {
		return domain.ChatSession{}, false
	}
	s.state.Sessions = append([]*domain.ChatSession{sess}, s.state.Sessions...)
	s.state.CurrentSessionID = sess.ID
	s.appendLocked(sess, msg)
	return cloneSession(sess), true
}

// AppendTo adds a message to a specific session regardless of selection.
// Used for results that arrive after the user has navigated elsewhere.
func (s *Store) AppendTo(id string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return ErrNotFound
	}
	s.appendLocked(sess, msg)
	return nil
}

// appendLocked applies the append invariants: append-only message log,
// strictly increasing updatedAt, title derived from the first user message.
func (s *Store) appendLocked(sess *domain.ChatSession, msg domain.Message) {
	if len(sess.Messages) == 0 && msg.Role == domain.RoleUser {
		sess.Title = deriveTitle(msg.Content)
	}
	sess.Messages = append(sess.Messages, msg)

	now := time.Now()
	if !now.After(sess.UpdatedAt) {
		now = sess.UpdatedAt.Add(time.Nanosecond)
	}
	sess.UpdatedAt = now
	s.markDirtyLocked()
}

// Rename sets an explicit title on a session.
func (s *Store) Rename(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return ErrNotFound
	}
	sess.Title = title
	sess.UpdatedAt = time.Now()
	s.markDirtyLocked()
	return nil
}

// Delete removes a session. Deleting the current session selects the new
// front-most remaining session, or nothing if none remain.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sess := range s.state.Sessions {
		if sess.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	s.state.Sessions = append(s.state.Sessions[:idx], s.state.Sessions[idx+1:]...)

	if s.state.CurrentSessionID == id {
		if len(s.state.Sessions) > 0 {
			s.state.CurrentSessionID = s.state.Sessions[0].ID
		} else {
			s.state.CurrentSessionID = ""
		}
	}
	s.markDirtyLocked()
	return nil
}

// ClearAll removes every session and the current selection. Idempotent.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.state.Sessions = nil
	s.state.CurrentSessionID = ""
	s.markDirtyLocked()
	s.mu.Unlock()
}

// Current returns a copy of the selected session, or false when no valid
// selection exists.
func (s *Store) Current() (domain.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(s.state.CurrentSessionID)
	if sess == nil {
		return domain.ChatSession{}, false
	}
	return cloneSession(sess), true
}

// Session returns a copy of the session with the given id.
func (s *Store) Session(id string) (domain.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return domain.ChatSession{}, false
	}
	return cloneSession(sess), true
}

// Messages returns a copy of a session's message log. Unknown ids yield
// an empty slice rather than an error.
func (s *Store) Messages(id string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return []domain.Message{}
	}
	out := make([]domain.Message, len(sess.Messages))
	copy(out, sess.Messages)
	return out
}

// Sessions returns copies of all sessions, most recent first.
func (s *Store) Sessions() []domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatSession, len(s.state.Sessions))
	for i, sess := range s.state.Sessions {
		out[i] = cloneSession(sess)
	}
	return out
}

// CurrentID returns the selected session id, which may be empty or
// reference nothing (see SetCurrent).
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentSessionID
}

// Flush synchronously persists pending state. Mutations do not wait on
// this; it exists for shutdown and tests.
func (s *Store) Flush(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snap := s.state.Clone()
	s.dirty = false
	s.mu.Unlock()

	return s.persister.Save(ctx, snap)
}

// Close drains pending writes, stops the flusher, and closes the persister.
func (s *Store) Close() error {
	if s.persister == nil {
		return nil
	}
	close(s.stopCh)
	s.wg.Wait()
	return s.persister.Close()
}

func (s *Store) findLocked(id string) *domain.ChatSession {
	if id == "" {
		return nil
	}
	for _, sess := range s.state.Sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

func (s *Store) markDirtyLocked() {
	s.dirty = true
	select {
	case s.flushCh <- struct{}{}:
	default:
	}
}

func (s *Store) flushLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.flushCh:
			s.flushOnce()
		case <-s.stopCh:
			s.flushOnce()
			return
		}
	}
}

func (s *Store) flushOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		slog.Warn("Failed to persist session state", "error", err)
	}
}

func cloneSession(sess *domain.ChatSession) domain.ChatSession {
	cp := *sess
	cp.Messages = make([]domain.Message, len(sess.Messages))
	copy(cp.Messages, sess.Messages)
	return cp
}
