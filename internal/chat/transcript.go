package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/folioai/folio/internal/config"
	"github.com/folioai/folio/internal/domain"
)

// TranscriptEntry is one NDJSON line in a transcript file.
type TranscriptEntry struct {
	Timestamp time.Time `json:"ts"`
	SessionID string    `json:"session_id"`
	MessageID string    `json:"message_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ErrorKind string    `json:"error_kind,omitempty"`
}

// TranscriptLogger appends chat turns to per-session NDJSON files, plus an
// optional global stream. Writes go through a bounded queue on a single
// worker; when the queue is full, entries are dropped rather than blocking
// a turn.
type TranscriptLogger struct {
	cfg   config.TranscriptConfig
	queue chan TranscriptEntry
	done  chan struct{}
}

// NewTranscriptLogger creates the log directories and starts the worker.
// Returns nil when transcript logging is disabled; all methods are
// nil-safe.
func NewTranscriptLogger(cfg config.TranscriptConfig) (*TranscriptLogger, error) {
	if !cfg.Enabled && !cfg.GlobalEnabled {
		return nil, nil
	}
	if cfg.Enabled {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create transcript dir: %w", err)
		}
	}
	if cfg.GlobalEnabled {
		if err := os.MkdirAll(filepath.Dir(cfg.GlobalPath), 0755); err != nil {
			return nil, fmt.Errorf("create global transcript dir: %w", err)
		}
	}

	l := &TranscriptLogger{
		cfg:   cfg,
		queue: make(chan TranscriptEntry, cfg.QueueSize),
		done:  make(chan struct{}),
	}
	go l.worker()
	return l, nil
}

// Log enqueues one message. Never blocks the calling turn.
func (l *TranscriptLogger) Log(sessionID string, msg domain.Message, errorKind string) {
	if l == nil {
		return
	}
	entry := TranscriptEntry{
		Timestamp: msg.Timestamp,
		SessionID: sessionID,
		MessageID: msg.ID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		ErrorKind: errorKind,
	}
	select {
	case l.queue <- entry:
	default:
		slog.Warn("Transcript queue full, dropping entry", "session_id", sessionID)
	}
}

// Close drains the queue and stops the worker.
func (l *TranscriptLogger) Close() {
	if l == nil {
		return
	}
	close(l.queue)
	<-l.done
}

func (l *TranscriptLogger) worker() {
	defer close(l.done)
	for entry := range l.queue {
		line, err := json.Marshal(entry)
		if err != nil {
			slog.Warn("Failed to marshal transcript entry", "error", err)
			continue
		}
		line = append(line, '\n')

		if l.cfg.Enabled {
			path := filepath.Join(l.cfg.Dir, sanitizeSessionID(entry.SessionID)+".ndjson")
			appendLine(path, line)
		}
		if l.cfg.GlobalEnabled {
			appendLine(l.cfg.GlobalPath, line)
		}
	}
}

func appendLine(path string, line []byte) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Warn("Failed to open transcript file", "path", path, "error", err)
		return
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		slog.Warn("Failed to write transcript entry", "path", path, "error", err)
	}
}

// sanitizeSessionID keeps transcript filenames safe even if an id ever
// arrives from outside the store.
func sanitizeSessionID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, id)
}
