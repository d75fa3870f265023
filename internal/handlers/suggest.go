package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propuesta-web/api/internal/platform/httpx"
	"github.com/propuesta-web/api/internal/services"
)

const maxSuggestBodySize = 32 * 1024

// SuggestHandlers exposes the AI-backed suggestion endpoint.
type SuggestHandlers struct {
	suggestions *services.SuggestionService
}

func NewSuggestHandlers(suggestions *services.SuggestionService) *SuggestHandlers {
	return &SuggestHandlers{suggestions: suggestions}
}

// Routes wires the /suggest endpoints onto the provided router.
func (h *SuggestHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.suggest)
}

func (h *SuggestHandlers) suggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.suggestions == nil {
		httpx.WriteError(ctx, w, httpx.NewError("suggest_service_unavailable", "suggestion service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxSuggestBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		case errors.Is(err, errEmptyBody):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req services.SuggestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "body must be a JSON object", http.StatusBadRequest))
		return
	}
	if req.Pages < 0 || req.Languages < 0 || req.Products < 0 || req.Budget < 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "dimensions must not be negative", http.StatusBadRequest))
		return
	}

	writeJSONResponse(w, http.StatusOK, h.suggestions.Suggest(ctx, req))
}
