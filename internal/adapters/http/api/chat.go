package api

import (
	"errors"
	"net/http"

	"github.com/okian/aube/internal/domain/assistant"
)

// ChatHandler serves the assistant.
type ChatHandler struct {
	deps ChatDependencies
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(deps ChatDependencies) *ChatHandler {
	return &ChatHandler{deps: deps}
}

// HandleChat handles GET /api/chat (greeting) and POST /api/chat (question).
// Upstream model failures are answered with 200 and the fixed error text.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	const op = "api.chat"
	switch r.Method {
	case http.MethodGet:
		g, err := h.deps.Greeting(r.Context())
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	case http.MethodPost:
		var req assistant.Request
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
			return
		}
		reply, err := h.deps.Ask(r.Context(), req)
		switch {
		case errors.Is(err, assistant.ErrEmptyMessage), errors.Is(err, assistant.ErrInvalidHistory):
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		case err != nil:
			writeServiceError(w, op, err)
		default:
			writeJSON(w, http.StatusOK, reply)
		}
	default:
		http.NotFound(w, r)
	}
}
