package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folioai/folio/internal/api"
	"github.com/folioai/folio/internal/gemini"
	"github.com/folioai/folio/internal/session"
)

// Handler exposes the conversation controller and session store over HTTP.
type Handler struct {
	ctrl     *Controller
	sessions *session.Store
}

// NewHandler creates the chat HTTP handler.
func NewHandler(ctrl *Controller, sessions *session.Store) *Handler {
	return &Handler{ctrl: ctrl, sessions: sessions}
}

// RegisterRoutes mounts the chat and session endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.handleChat)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Delete("/", h.handleClearAll)
		r.Get("/current", h.handleCurrent)
		r.Put("/{id}/select", h.handleSelect)
		r.Put("/{id}/title", h.handleRename)
		r.Delete("/{id}", h.handleDelete)
		r.Get("/{id}/messages", h.handleMessages)
	})
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id"`
	Intent    Intent `json:"intent"`
}

// handleChat runs one conversation turn. Success and recovered failures
// are both part of the transcript; the HTTP status reports the failure
// class so clients can react without parsing prose.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "Message is required and must be a string")
		return
	}

	if req.SessionID != "" {
		h.sessions.SetCurrent(req.SessionID)
	}

	turn, err := h.ctrl.Submit(r.Context(), req.Message)
	switch {
	case errors.Is(err, ErrEmptyInput):
		api.Error(w, http.StatusBadRequest, "Message is required and must be a string")
		return
	case errors.Is(err, ErrBusy):
		api.Error(w, http.StatusTooManyRequests, "A response is already being generated for this conversation")
		return
	case err != nil:
		api.Error(w, http.StatusInternalServerError, "Failed to generate response. Please try again.")
		return
	}

	if turn.ErrorKind != "" {
		api.JSON(w, statusForKind(turn.ErrorKind), map[string]string{
			"error":      turn.Assistant.Content,
			"session_id": turn.SessionID,
		})
		return
	}

	api.JSON(w, http.StatusOK, chatResponse{
		Response:  turn.Assistant.Content,
		SessionID: turn.SessionID,
		MessageID: turn.Assistant.ID,
		Intent:    turn.Intent,
	})
}

// statusForKind maps the closed error taxonomy onto the endpoint's status
// contract: 400 blocked, 401 credential, 429 quota, 500 everything else.
func statusForKind(kind string) int {
	switch kind {
	case gemini.KindContentBlocked.String():
		return http.StatusBadRequest
	case gemini.KindUnauthorized.String():
		return http.StatusUnauthorized
	case gemini.KindRateLimited.String():
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type sessionSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	sessions := h.sessions.Sessions()
	out := make([]sessionSummary, len(sessions))
	for i, s := range sessions {
		out[i] = sessionSummary{
			ID:           s.ID,
			Title:        s.Title,
			MessageCount: s.MessageCount(),
			CreatedAt:    s.CreatedAt.Format(timeLayout),
			UpdatedAt:    s.UpdatedAt.Format(timeLayout),
		}
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"sessions":           out,
		"current_session_id": h.sessions.CurrentID(),
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, _ *http.Request) {
	sess := h.sessions.NewSession()
	api.JSON(w, http.StatusCreated, map[string]string{"id": sess.ID, "title": sess.Title})
}

func (h *Handler) handleClearAll(w http.ResponseWriter, _ *http.Request) {
	h.sessions.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, _ *http.Request) {
	sess, ok := h.sessions.Current()
	if !ok {
		api.Error(w, http.StatusNotFound, "no active session")
		return
	}
	api.JSON(w, http.StatusOK, sess)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	h.sessions.SetCurrent(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

type renameRequest struct {
	Title string `json:"title"`
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := api.Decode(w, r, &req); err != nil || req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if err := h.sessions.Rename(chi.URLParam(r, "id"), req.Title); err != nil {
		api.Error(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		api.Error(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.sessions.Session(id); !ok {
		api.Error(w, http.StatusNotFound, "session not found")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"messages": h.sessions.Messages(id),
	})
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"
