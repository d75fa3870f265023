package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/propuesta-web/api/internal/platform/httpx"
	"github.com/propuesta-web/api/internal/repositories"
)

const maxArchiveBodySize = 128 * 1024

// QuoteArchiveHandlers exposes the persisted-quote endpoints.
type QuoteArchiveHandlers struct {
	archive repositories.QuoteArchive
}

func NewQuoteArchiveHandlers(archive repositories.QuoteArchive) *QuoteArchiveHandlers {
	return &QuoteArchiveHandlers{archive: archive}
}

// Routes wires the /quotes endpoints onto the provided router.
func (h *QuoteArchiveHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.save)
	r.Get("/{quoteId}", h.get)
}

func (h *QuoteArchiveHandlers) save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.archive == nil {
		httpx.WriteError(ctx, w, httpx.NewError("archive_unavailable", "quote archive is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxArchiveBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "a proposal body is required", http.StatusBadRequest))
		}
		return
	}

	if !json.Valid(body) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "body must be a JSON object", http.StatusBadRequest))
		return
	}

	id, err := h.archive.Save(ctx, body)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("archive_failed", "the quote could not be stored", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *QuoteArchiveHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.archive == nil {
		httpx.WriteError(ctx, w, httpx.NewError("archive_unavailable", "quote archive is unavailable", http.StatusServiceUnavailable))
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "quoteId"))
	if id == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "quote id is required", http.StatusBadRequest))
		return
	}

	record, err := h.archive.Get(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("quote_not_found", "no quote with that id", http.StatusNotFound))
		return
	case err != nil:
		httpx.WriteError(ctx, w, httpx.NewError("archive_failed", "the quote could not be loaded", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, record)
}
