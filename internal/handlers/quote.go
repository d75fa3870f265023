package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propuesta-web/api/internal/domain"
	"github.com/propuesta-web/api/internal/platform/httpx"
	"github.com/propuesta-web/api/internal/services"
)

const maxQuoteBodySize = 64 * 1024

// QuoteHandlers exposes the quote-building endpoint.
type QuoteHandlers struct {
	quotes *services.QuoteService
}

func NewQuoteHandlers(quotes *services.QuoteService) *QuoteHandlers {
	return &QuoteHandlers{quotes: quotes}
}

// Routes wires the /quote endpoints onto the provided router.
func (h *QuoteHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.buildQuote)
}

func (h *QuoteHandlers) buildQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.quotes == nil {
		httpx.WriteError(ctx, w, httpx.NewError("quote_service_unavailable", "quote service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxQuoteBodySize)
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

	var req services.QuoteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "body must be a JSON object", http.StatusBadRequest))
		return
	}
	if err := validateQuoteRequest(req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	writeJSONResponse(w, http.StatusOK, h.quotes.Build(ctx, req))
}

func validateQuoteRequest(req services.QuoteRequest) error {
	for _, dim := range []*int{req.Pages, req.Languages, req.Products} {
		if dim != nil && *dim < 0 {
			return errors.New("dimensions must not be negative")
		}
	}
	if req.Modifiers != nil {
		switch req.Modifiers.Urgency {
		case "", domain.UrgencyNormal, domain.UrgencyRush:
		default:
			return errors.New("urgency must be normal or rush")
		}
	}
	for _, cf := range req.CustomFeatures {
		if cf.Title == "" {
			return errors.New("custom features need a title")
		}
		switch cf.Complexity {
		case "", domain.ComplexityLow, domain.ComplexityMed, domain.ComplexityHigh:
		default:
			return errors.New("complexity must be low, med or high")
		}
	}
	return nil
}
