package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/flightwise/airquery/internal/assistant"
	"github.com/flightwise/airquery/pkg/logger"
)

// AssistantHandler serves the conversational endpoints. Sessions are
// held in memory for the lifetime of the process.
type AssistantHandler struct {
	service  *assistant.Service
	logger   *logger.Logger
	mu       sync.RWMutex
	sessions map[string]*assistant.Session
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(service *assistant.Service, logger *logger.Logger) *AssistantHandler {
	return &AssistantHandler{
		service:  service,
		logger:   logger.Named("api-assistant"),
		sessions: make(map[string]*assistant.Session),
	}
}

type askRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
}

type askResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Ask answers one conversational question, creating a session when the
// request names none.
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeJSON(w, http.StatusBadRequest, askResponse{Error: "question is required"})
		return
	}

	session := h.lookupOrCreate(req.SessionID)

	answer, err := h.service.Ask(r.Context(), session, req.Question)
	if err != nil {
		h.logger.Error("Assistant request failed",
			logger.String("session", session.ID),
			logger.Error(err))
		writeJSON(w, http.StatusBadGateway, askResponse{
			SessionID: session.ID,
			Error:     "assistant request failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{SessionID: session.ID, Answer: answer})
}

func (h *AssistantHandler) lookupOrCreate(id string) *assistant.Session {
	if id != "" {
		h.mu.RLock()
		session, ok := h.sessions[id]
		h.mu.RUnlock()
		if ok {
			return session
		}
	}

	session := h.service.NewSession()
	h.mu.Lock()
	h.sessions[session.ID] = session
	h.mu.Unlock()
	return session
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
