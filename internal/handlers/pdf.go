package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/propuesta-web/api/internal/domain"
	"github.com/propuesta-web/api/internal/pdf"
	"github.com/propuesta-web/api/internal/platform/httpx"
	"github.com/propuesta-web/api/internal/platform/requestctx"
)

const maxPDFBodySize = 128 * 1024

// PDFHandlers exposes proposal rendering.
type PDFHandlers struct {
	renderer *pdf.Renderer
}

func NewPDFHandlers(renderer *pdf.Renderer) *PDFHandlers {
	return &PDFHandlers{renderer: renderer}
}

// Routes wires the /pdf endpoints onto the provided router.
func (h *PDFHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.render)
}

type pdfProposal struct {
	Items    []domain.QuoteLine `json:"items"`
	Lines    []domain.QuoteLine `json:"lines"`
	Subtotal int64              `json:"subtotal"`
	IVA      int64              `json:"iva"`
	Total    int64              `json:"total"`
	Notes    string             `json:"notes"`
}

type pdfRequest struct {
	Proposal    pdfProposal `json:"proposal"`
	Client      pdf.Client  `json:"client"`
	Brand       pdf.Brand   `json:"brand"`
	Meta        pdf.Meta    `json:"meta"`
	AnnualMin   int64       `json:"annualMin"`
	AnnualMax   int64       `json:"annualMax"`
	AnnualLabel string      `json:"annualLabel"`
}

func (h *PDFHandlers) render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.renderer == nil {
		httpx.WriteError(ctx, w, httpx.NewError("pdf_service_unavailable", "pdf renderer is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxPDFBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_items", "a proposal with line items is required", http.StatusBadRequest))
		}
		return
	}

	var req pdfRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "body must be a JSON object", http.StatusBadRequest))
		return
	}

	// older clients send "items", newer ones "lines"
	lines := req.Proposal.Items
	if len(lines) == 0 {
		lines = req.Proposal.Lines
	}
	if len(lines) == 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_items", "a proposal with line items is required", http.StatusBadRequest))
		return
	}

	out, err := h.renderer.Render(pdf.Document{
		Brand:       req.Brand,
		Client:      req.Client,
		Meta:        req.Meta,
		Lines:       lines,
		Subtotal:    req.Proposal.Subtotal,
		IVA:         req.Proposal.IVA,
		Total:       req.Proposal.Total,
		AnnualMin:   req.AnnualMin,
		AnnualMax:   req.AnnualMax,
		AnnualLabel: req.AnnualLabel,
		Notes:       req.Proposal.Notes,
	})
	if err != nil {
		requestctx.Logger(ctx).Warn("pdf render failed")
		httpx.WriteError(ctx, w, httpx.NewError("pdf_failed", "the proposal could not be rendered", http.StatusInternalServerError))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="propuesta.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
