package services

import (
	"testing"

	"github.com/propuesta-web/api/internal/domain"
)

func TestAnnualEstimate(t *testing.T) {
	estimator := NewAnnualEstimator()

	cases := []struct {
		name string
		in   AnnualInput
		min  int64
		max  int64
	}{
		{
			name: "informational site",
			in:   AnnualInput{Skus: []string{domain.SKUOnePage}, Pages: 1, Languages: 1},
			min:  192, max: 390,
		},
		{
			name: "empty selection stays informational",
			in:   AnnualInput{},
			min:  192, max: 390,
		},
		{
			name: "shop catalog moves to transactional band",
			in:   AnnualInput{Skus: []string{domain.SKUEcomCatalog}, Pages: 1, Languages: 1},
			min:  372, max: 750,
		},
		{
			name: "booking with many pages and two languages",
			in:   AnnualInput{Skus: []string{domain.SKUBooking}, Pages: 6, Languages: 2},
			min:  432, max: 930,
		},
		{
			name: "six pages bumps informational band",
			in:   AnnualInput{Skus: []string{domain.SKUMultiPage}, Pages: 6, Languages: 1},
			min:  222, max: 480,
		},
		{
			name: "five pages does not bump",
			in:   AnnualInput{Skus: []string{domain.SKUMultiPage}, Pages: 5, Languages: 1},
			min:  192, max: 390,
		},
		{
			name: "zero dimensions behave as one",
			in:   AnnualInput{Skus: []string{domain.SKUOnePage}, Pages: 0, Languages: 0},
			min:  192, max: 390,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := estimator.Estimate(tc.in)
			if got.Min != tc.min || got.Max != tc.max {
				t.Fatalf("expected %d-%d, got %d-%d", tc.min, tc.max, got.Min, got.Max)
			}
			if got.Label != "Dominio, hosting y mantenimiento" {
				t.Fatalf("unexpected label %q", got.Label)
			}
			if got.Min > got.Max {
				t.Fatalf("band inverted: %d > %d", got.Min, got.Max)
			}
		})
	}
}
