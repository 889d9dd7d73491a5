package chat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/folioai/folio/internal/config"
	"github.com/folioai/folio/internal/domain"
)

func TestTranscriptWritesPerSessionNDJSON(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewTranscriptLogger(config.TranscriptConfig{
		Enabled:   true,
		Dir:       dir,
		QueueSize: 10,
	})
	if err != nil {
		t.Fatalf("NewTranscriptLogger failed: %v", err)
	}

	msg := domain.Message{ID: "m1", Content: "hello", Role: domain.RoleUser, Timestamp: time.Now()}
	logger.Log("session_1_abc", msg, "")
	logger.Close()

	path := filepath.Join(dir, "session_1_abc.ndjson")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Transcript file not written: %v", err)
	}

	var entry TranscriptEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("Transcript line is not valid JSON: %v", err)
	}
	if entry.SessionID != "session_1_abc" || entry.Role != "user" || entry.Content != "hello" {
		t.Errorf("Unexpected entry %+v", entry)
	}
}

func TestTranscriptGlobalStream(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "all.ndjson")
	logger, err := NewTranscriptLogger(config.TranscriptConfig{
		GlobalEnabled: true,
		GlobalPath:    global,
		QueueSize:     10,
	})
	if err != nil {
		t.Fatalf("NewTranscriptLogger failed: %v", err)
	}

	logger.Log("s1", domain.Message{ID: "m1", Content: "a", Role: domain.RoleUser, Timestamp: time.Now()}, "")
	logger.Log("s2", domain.Message{ID: "m2", Content: "b", Role: domain.RoleAssistant, Timestamp: time.Now()}, "network_failure")
	logger.Close()

	data, err := os.ReadFile(global)
	if err != nil {
		t.Fatalf("Global transcript not written: %v", err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("Expected 2 NDJSON lines, got %d", lines)
	}
}

func TestTranscriptDisabledReturnsNil(t *testing.T) {
	logger, err := NewTranscriptLogger(config.TranscriptConfig{QueueSize: 10})
	if err != nil {
		t.Fatalf("NewTranscriptLogger failed: %v", err)
	}
	if logger != nil {
		t.Fatalf("Expected nil logger when disabled")
	}

	// Nil receivers must be safe.
	logger.Log("s", domain.Message{}, "")
	logger.Close()
}

func TestSanitizeSessionID(t *testing.T) {
	if got := sanitizeSessionID("../../etc/passwd"); got != "------etc-passwd" {
		t.Errorf("sanitizeSessionID = %q", got)
	}
	if got := sanitizeSessionID("session_1_abc"); got != "session_1_abc" {
		t.Errorf("Safe ids must pass through, got %q", got)
	}
}
