package services

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/propuesta-web/api/internal/domain"
	"github.com/propuesta-web/api/internal/platform/textutil"
)

const (
	urgencyLineID    = "mod:urgency"
	urgencyLineTitle = "Urgency (20%)"
	customLinePrefix = "custom:"
)

var (
	urgencyRate = decimal.NewFromFloat(0.2)
	ivaRate     = decimal.NewFromFloat(0.21)
)

// QuoteInput is the (already shape-validated) request a quote is built from.
// Every field is optional; zero values fall back to sensible defaults.
type QuoteInput struct {
	Pages          int
	Languages      int
	Products       int
	ForcedSkus     []string
	SuggestedSkus  []string
	CustomFeatures []domain.CustomFeature
	Urgency        domain.Urgency
}

// PricingEngine turns a selected SKU set plus custom features into a priced,
// deduplicated, dependency-resolved quote. Build is a pure function: the same
// input always yields the same quote.
type PricingEngine struct {
	catalog   *domain.Catalog
	estimator *FeatureEstimator
}

// NewPricingEngine constructs the engine over the catalog and estimator.
func NewPricingEngine(catalog *domain.Catalog, estimator *FeatureEstimator) (*PricingEngine, error) {
	if catalog == nil {
		return nil, errors.New("pricing engine: catalog is required")
	}
	if estimator == nil {
		return nil, errors.New("pricing engine: feature estimator is required")
	}
	return &PricingEngine{catalog: catalog, estimator: estimator}, nil
}

// Build resolves the selection and prices it. Unknown SKU ids are silently
// dropped; they are never an error at this layer.
func (e *PricingEngine) Build(input QuoteInput) domain.Quote {
	pages := input.Pages
	if pages < 1 {
		pages = 1
	}
	languages := input.Languages
	if languages < 1 {
		languages = 1
	}
	products := input.Products
	if products < 0 {
		products = 0
	}

	selected := e.resolveSelection(input.ForcedSkus, input.SuggestedSkus)

	lines := make([]domain.QuoteLine, 0, selected.Len()+len(input.CustomFeatures)+1)
	subtotal := int64(0)

	for _, id := range selected.Values() {
		sku, ok := e.catalog.Get(id)
		if !ok {
			continue
		}
		amount := sku.BasePrice
		switch sku.Unit {
		case domain.UnitPerPage:
			amount += int64(pages) * sku.UnitPrice
		case domain.UnitPerLang:
			amount += int64(languages) * sku.UnitPrice
		case domain.UnitPerProduct:
			amount += int64(products) * sku.UnitPrice
		}
		lines = append(lines, domain.QuoteLine{ID: id, Title: sku.Title, Amount: amount, Type: domain.LineCatalog})
		subtotal += amount
	}

	for _, feature := range input.CustomFeatures {
		amount := e.estimator.Estimate(feature)
		lines = append(lines, domain.QuoteLine{
			ID:     customLinePrefix + textutil.Slug(feature.Title),
			Title:  feature.Title,
			Amount: amount,
			Type:   domain.LineCustom,
		})
		subtotal += amount
	}

	if input.Urgency == domain.UrgencyRush {
		rush := decimal.NewFromInt(subtotal).Mul(urgencyRate).Round(0).IntPart()
		lines = append(lines, domain.QuoteLine{ID: urgencyLineID, Title: urgencyLineTitle, Amount: rush, Type: domain.LineCustom})
		subtotal += rush
	}

	iva := decimal.NewFromInt(subtotal).Mul(ivaRate).Round(0).IntPart()
	return domain.Quote{
		Lines:    lines,
		Subtotal: subtotal,
		IVA:      iva,
		Total:    subtotal + iva,
	}
}

// resolveSelection unions forced and suggested ids, closes over requires with
// a worklist, then applies one final exclusion pass. Exclusions win: an id
// removed here is not restored even if something still requires it.
func (e *PricingEngine) resolveSelection(forced, suggested []string) *idSet {
	selected := newIDSet(len(forced) + len(suggested))
	queue := make([]string, 0, len(forced)+len(suggested))
	for _, id := range forced {
		if e.catalog.IsValid(id) && selected.Add(id) {
			queue = append(queue, id)
		}
	}
	for _, id := range suggested {
		if e.catalog.IsValid(id) && selected.Add(id) {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sku, ok := e.catalog.Get(id)
		if !ok {
			continue
		}
		for _, req := range sku.Constraints.Requires {
			if selected.Add(req) {
				queue = append(queue, req)
			}
		}
	}

	for _, id := range selected.Values() {
		if !selected.Has(id) {
			continue
		}
		sku, _ := e.catalog.Get(id)
		for _, excluded := range sku.Constraints.Excludes {
			selected.Delete(excluded)
		}
	}

	return selected
}
