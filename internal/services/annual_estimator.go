package services

import "github.com/propuesta-web/api/internal/domain"

// Yearly running-cost bands in euros. The informational band covers
// hosting and maintenance for a brochure-style site; the transactional
// band covers shops and booking flows. A domain registration is added
// on top in every case.
const (
	annualBaseMin         int64 = 180
	annualBaseMax         int64 = 360
	annualTransactionMin int64 = 360
	annualTransactionMax int64 = 720

	annualLangBumpMin int64 = 30
	annualLangBumpMax int64 = 90
	annualPageBumpMin int64 = 30
	annualPageBumpMax int64 = 90

	annualDomainMin int64 = 12
	annualDomainMax int64 = 30

	annualLabel = "Dominio, hosting y mantenimiento"
)

// AnnualInput describes the shape of the site whose running costs are
// being projected. Skus is the flat selection, closure not required.
type AnnualInput struct {
	Skus      []string
	Pages     int
	Languages int
}

// AnnualEstimator projects the recurring yearly cost of operating a
// site. The projection is informational and never folded into totals.
type AnnualEstimator struct{}

func NewAnnualEstimator() *AnnualEstimator {
	return &AnnualEstimator{}
}

// Estimate returns the yearly cost band for the given selection. A
// shop catalog or booking SKU moves the projection to the
// transactional band; extra languages and page counts above five nudge
// both bounds upward.
func (e *AnnualEstimator) Estimate(in AnnualInput) domain.AnnualEstimate {
	transactional := false
	for _, id := range in.Skus {
		if id == domain.SKUEcomCatalog || id == domain.SKUBooking {
			transactional = true
			break
		}
	}

	min, max := annualBaseMin, annualBaseMax
	if transactional {
		min, max = annualTransactionMin, annualTransactionMax
	}

	languages := in.Languages
	if languages < 1 {
		languages = 1
	}
	pages := in.Pages
	if pages < 1 {
		pages = 1
	}

	if languages > 1 {
		min += annualLangBumpMin
		max += annualLangBumpMax
	}
	if pages > 5 {
		min += annualPageBumpMin
		max += annualPageBumpMax
	}

	min += annualDomainMin
	max += annualDomainMax

	return domain.AnnualEstimate{Min: min, Max: max, Label: annualLabel}
}
