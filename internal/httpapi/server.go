package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"plesir/internal/observability"
	"plesir/internal/service"
	"plesir/internal/session"
)

// Server exposes the chat service over HTTP with server-side per-session
// conversation memory.
type Server struct {
	chat        *service.ChatService
	sessions    *session.Manager
	catalogSize int
	model       string
}

// New creates the API server. catalogSize and model are reported by the
// health endpoint.
func New(chat *service.ChatService, sessions *session.Manager, catalogSize int, model string) *Server {
	return &Server{chat: chat, sessions: sessions, catalogSize: catalogSize, model: model}
}

// Router builds the chi route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, req)
	})
	r.Post("/v1/chat", s.handleChat)
	r.Post("/v1/session/{id}/clear", s.handleClear)
	return r
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	sess := s.sessions.GetOrCreate(req.SessionID)
	reply, err := s.chat.Ask(r.Context(), sess.Transcript, req.Message)
	if err != nil {
		// The reply already carries the user-facing apology; the session
		// stays usable for the next query.
		log.Printf("chat turn failed for session %s: %v", sess.ID, err)
	}
	respondJSON(w, http.StatusOK, chatResponse{SessionID: sess.ID, Reply: reply})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	sess.Transcript.Clear()
	sess.Touch()
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared", "session_id": sess.ID})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"catalog_size": s.catalogSize,
		"model":        s.model,
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
