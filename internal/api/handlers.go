package api

import (
	"encoding/json"
	"net/http"

	"github.com/flightwise/airquery/internal/tools"
	"github.com/flightwise/airquery/pkg/logger"
)

// Handler serves the tool API endpoints
type Handler struct {
	dispatcher *tools.Dispatcher
	logger     *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(dispatcher *tools.Dispatcher, logger *logger.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger.Named("api-handler"),
	}
}

// GetHealth returns service health
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if !h.dispatcher.Ready() {
		status = "initializing"
		code = http.StatusServiceUnavailable
	}

	h.writeJSON(w, code, map[string]string{"status": status})
}

// GetToolCatalog returns the function-calling definitions of all tools
func (h *Handler) GetToolCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"tools": tools.Definitions(),
	})
}

// ExecuteTool decodes a tool-call request and runs it through the
// dispatcher. Failures surface as a 200 with a Result error so protocol
// consumers handle one shape; only undecodable bodies get a 400.
func (h *Handler) ExecuteTool(w http.ResponseWriter, r *http.Request) {
	var req tools.ToolCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, tools.Failure(tools.ErrMalformedToolCall))
		return
	}

	result := h.dispatcher.Execute(r.Context(), req)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}
