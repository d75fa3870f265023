package services

import (
	"errors"
	"regexp"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/propuesta-web/api/internal/domain"
)

// fallbackAnchor prices a custom feature when the catalog offers no anchor.
const fallbackAnchor = 150

var complexityFactors = map[domain.Complexity]decimal.Decimal{
	domain.ComplexityLow:  decimal.NewFromFloat(0.7),
	domain.ComplexityMed:  decimal.NewFromInt(1),
	domain.ComplexityHigh: decimal.NewFromFloat(1.5),
}

var (
	integrationSignal = regexp.MustCompile(`(?i)api|integra|pasarela|payment gateway|erp|crm`)
	integrationBump   = decimal.NewFromFloat(1.2)
	ten               = decimal.NewFromInt(10)
)

// FeatureEstimator prices bespoke features by analogy to the catalog: the
// median base price of tag-matching SKUs, scaled by complexity and an
// integration surcharge, rounded to a friendly multiple of ten.
type FeatureEstimator struct {
	catalog *domain.Catalog
}

// NewFeatureEstimator constructs the estimator over the given catalog.
func NewFeatureEstimator(catalog *domain.Catalog) (*FeatureEstimator, error) {
	if catalog == nil {
		return nil, errors.New("feature estimator: catalog is required")
	}
	return &FeatureEstimator{catalog: catalog}, nil
}

// Estimate returns the heuristic price for the feature. It is a pure
// function of its input and the static catalog.
func (e *FeatureEstimator) Estimate(feature domain.CustomFeature) int64 {
	anchor := e.anchorPrice(feature)

	factor, ok := complexityFactors[feature.Complexity]
	if !ok {
		factor = complexityFactors[domain.ComplexityMed]
	}

	amount := anchor.Mul(factor)
	if integrationSignal.MatchString(feature.Title) {
		amount = amount.Mul(integrationBump)
	}

	return amount.Div(ten).Round(0).Mul(ten).IntPart()
}

// anchorPrice takes the median base price of SKUs sharing a tag with the
// feature, falling back to the whole-catalog median and finally to a fixed
// constant.
func (e *FeatureEstimator) anchorPrice(feature domain.CustomFeature) decimal.Decimal {
	pool := make([]int64, 0, e.catalog.Len())
	for _, sku := range e.catalog.All() {
		if tagsOverlap(sku.Tags, feature.Tags) {
			pool = append(pool, sku.BasePrice)
		}
	}
	if len(pool) == 0 {
		for _, sku := range e.catalog.All() {
			pool = append(pool, sku.BasePrice)
		}
	}
	if len(pool) == 0 {
		return decimal.NewFromInt(fallbackAnchor)
	}

	sort.Slice(pool, func(i, j int) bool { return pool[i] < pool[j] })
	mid := len(pool) / 2
	var median decimal.Decimal
	if len(pool)%2 == 1 {
		median = decimal.NewFromInt(pool[mid])
	} else {
		median = decimal.NewFromInt(pool[mid-1] + pool[mid]).Div(decimal.NewFromInt(2)).Round(0)
	}
	if median.IsZero() {
		return decimal.NewFromInt(fallbackAnchor)
	}
	return median
}

func tagsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
