package services

import (
	"context"
	"errors"

	"github.com/propuesta-web/api/internal/domain"
)

// Proposal is the quote enriched with the informational annual-cost band.
// The annual fields ride alongside the quote and are never part of Total.
type Proposal struct {
	domain.Quote
	AnnualMin   int64  `json:"annualMin"`
	AnnualMax   int64  `json:"annualMax"`
	AnnualLabel string `json:"annualLabel"`
}

// QuoteRequest is the raw quote input. Dimension and selection fields left
// unset fall back to the embedded suggestion's filled fields.
type QuoteRequest struct {
	Pages          *int                   `json:"pages,omitempty"`
	Languages      *int                   `json:"languages,omitempty"`
	Products       *int                   `json:"products,omitempty"`
	ForcedSkus     []string               `json:"forcedSkus,omitempty"`
	SuggestedSkus  []string               `json:"suggestedSkus,omitempty"`
	CustomFeatures []domain.CustomFeature `json:"customFeatures,omitempty"`
	Modifiers      *QuoteModifiers        `json:"modifiers,omitempty"`
	Suggest        *Suggestion            `json:"suggest,omitempty"`
}

// QuoteModifiers carries the optional quote-wide adjustments.
type QuoteModifiers struct {
	Urgency domain.Urgency `json:"urgency,omitempty"`
}

// QuoteServiceDeps bundles the collaborators of QuoteService.
type QuoteServiceDeps struct {
	Catalog *domain.Catalog
	Engine  *PricingEngine
	Annual  *AnnualEstimator
	Logger  func(ctx context.Context, event string, fields map[string]any)
}

// QuoteService derives a complete priced proposal from a raw quote request,
// filling gaps from an embedded suggestion and attaching the annual band.
type QuoteService struct {
	catalog *domain.Catalog
	engine  *PricingEngine
	annual  *AnnualEstimator
	logger  func(ctx context.Context, event string, fields map[string]any)
}

func NewQuoteService(deps QuoteServiceDeps) (*QuoteService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("quote service: catalog is required")
	}
	if deps.Engine == nil {
		return nil, errors.New("quote service: pricing engine is required")
	}
	if deps.Annual == nil {
		return nil, errors.New("quote service: annual estimator is required")
	}
	if deps.Logger == nil {
		deps.Logger = func(context.Context, string, map[string]any) {}
	}
	return &QuoteService{
		catalog: deps.Catalog,
		engine:  deps.Engine,
		annual:  deps.Annual,
		logger:  deps.Logger,
	}, nil
}

// Build resolves the request into a proposal. Unknown SKU ids are filtered
// out silently; the annual band is computed over the flat forced+suggested
// selection before dependency expansion.
func (s *QuoteService) Build(ctx context.Context, req QuoteRequest) Proposal {
	pages := derivedDim(req.Pages, req.Suggest, func(f FilledFields) int { return f.Pages }, 1)
	languages := derivedDim(req.Languages, req.Suggest, func(f FilledFields) int { return f.Languages }, 1)
	products := derivedDim(req.Products, req.Suggest, func(f FilledFields) int { return f.Products }, 0)

	suggested := req.SuggestedSkus
	if suggested == nil && req.Suggest != nil {
		suggested = req.Suggest.SkusSuggested
	}

	features := append([]domain.CustomFeature(nil), req.CustomFeatures...)
	if req.Suggest != nil {
		features = append(features, req.Suggest.CustomFeatures...)
	}

	urgency := domain.UrgencyNormal
	if req.Modifiers != nil && req.Modifiers.Urgency != "" {
		urgency = req.Modifiers.Urgency
	}

	forced := s.validIDs(req.ForcedSkus)
	suggested = s.validIDs(suggested)

	quote := s.engine.Build(QuoteInput{
		Pages:          pages,
		Languages:      languages,
		Products:       products,
		ForcedSkus:     forced,
		SuggestedSkus:  suggested,
		CustomFeatures: features,
		Urgency:        urgency,
	})

	annual := s.annual.Estimate(AnnualInput{
		Skus:      append(append([]string(nil), forced...), suggested...),
		Pages:     pages,
		Languages: languages,
	})

	s.logger(ctx, "quote.ok", map[string]any{"total": quote.Total, "lines": len(quote.Lines)})

	return Proposal{
		Quote:       quote,
		AnnualMin:   annual.Min,
		AnnualMax:   annual.Max,
		AnnualLabel: annual.Label,
	}
}

func (s *QuoteService) validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.catalog.IsValid(id) {
			out = append(out, id)
		}
	}
	return out
}

func derivedDim(explicit *int, suggest *Suggestion, pick func(FilledFields) int, fallback int) int {
	if explicit != nil {
		return *explicit
	}
	if suggest != nil {
		if v := pick(suggest.FilledFields); v > 0 {
			return v
		}
	}
	return fallback
}
