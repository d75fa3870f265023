package services

import (
	"testing"

	"github.com/propuesta-web/api/internal/domain"
)

func mustCatalog(t *testing.T, skus []domain.SKU) *domain.Catalog {
	t.Helper()
	catalog, err := domain.NewCatalog(skus)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return catalog
}

func TestNewFeatureEstimator(t *testing.T) {
	if _, err := NewFeatureEstimator(nil); err == nil {
		t.Fatalf("expected error without catalog")
	}
}

func TestEstimateAnchorsOnTagMatches(t *testing.T) {
	// Scenario: "CRM integration" against a catalog where the integrations
	// SKU (120) is the only tag match. 120 x 1.5 x 1.2 = 216, rounded to 220.
	catalog := mustCatalog(t, []domain.SKU{
		{ID: "integrations.gbp", BasePrice: 120, Tags: []string{"integrations"}},
		{ID: "site.onepage", BasePrice: 600, Tags: []string{"landing"}},
		{ID: "design.responsive", BasePrice: 150},
	})
	estimator, err := NewFeatureEstimator(catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := estimator.Estimate(domain.CustomFeature{
		Title:      "CRM integration",
		Tags:       []string{"integrations"},
		Complexity: domain.ComplexityHigh,
	})
	if got != 220 {
		t.Fatalf("expected 220, got %d", got)
	}
}

func TestEstimateComplexityDefaultsToMed(t *testing.T) {
	catalog := mustCatalog(t, []domain.SKU{
		{ID: "a", BasePrice: 100, Tags: []string{"x"}},
	})
	estimator, _ := NewFeatureEstimator(catalog)

	feature := domain.CustomFeature{Title: "Galería de fotos", Tags: []string{"x"}}
	if got := estimator.Estimate(feature); got != 100 {
		t.Fatalf("expected med multiplier by default, got %d", got)
	}

	feature.Complexity = domain.Complexity("weird")
	if got := estimator.Estimate(feature); got != 100 {
		t.Fatalf("unrecognised complexity must fall back to med, got %d", got)
	}

	feature.Complexity = domain.ComplexityLow
	if got := estimator.Estimate(feature); got != 70 {
		t.Fatalf("expected low multiplier 0.7, got %d", got)
	}
}

func TestEstimateFallsBackToCatalogMedian(t *testing.T) {
	catalog := mustCatalog(t, []domain.SKU{
		{ID: "a", BasePrice: 60},
		{ID: "b", BasePrice: 100},
		{ID: "c", BasePrice: 300},
	})
	estimator, _ := NewFeatureEstimator(catalog)

	// No tags anywhere, so the anchor is the whole-catalog median (100).
	if got := estimator.Estimate(domain.CustomFeature{Title: "Chat widget"}); got != 100 {
		t.Fatalf("expected whole-catalog median anchor, got %d", got)
	}
}

func TestEstimateEvenPoolAveragesMiddleValues(t *testing.T) {
	catalog := mustCatalog(t, []domain.SKU{
		{ID: "a", BasePrice: 90, Tags: []string{"x"}},
		{ID: "b", BasePrice: 120, Tags: []string{"x"}},
	})
	estimator, _ := NewFeatureEstimator(catalog)

	// Median of {90,120} is round(105) = 105; rounded to nearest 10 -> 110.
	got := estimator.Estimate(domain.CustomFeature{Title: "Widget", Tags: []string{"x"}})
	if got != 110 {
		t.Fatalf("expected 110, got %d", got)
	}
}

func TestEstimateEmptyCatalogUsesFallbackConstant(t *testing.T) {
	catalog := mustCatalog(t, nil)
	estimator, _ := NewFeatureEstimator(catalog)

	if got := estimator.Estimate(domain.CustomFeature{Title: "Anything"}); got != 150 {
		t.Fatalf("expected fallback anchor 150, got %d", got)
	}
}

func TestEstimateIntegrationSignal(t *testing.T) {
	catalog := mustCatalog(t, []domain.SKU{
		{ID: "a", BasePrice: 100, Tags: []string{"x"}},
	})
	estimator, _ := NewFeatureEstimator(catalog)

	cases := []struct {
		title string
		want  int64
	}{
		{"Pasarela de pago", 120},
		{"Sincronización ERP", 120},
		{"API pública", 120},
		{"Integración con almacén", 120},
		{"Galería de fotos", 100},
	}
	for _, tc := range cases {
		got := estimator.Estimate(domain.CustomFeature{Title: tc.title, Tags: []string{"x"}})
		if got != tc.want {
			t.Errorf("%q: expected %d, got %d", tc.title, tc.want, got)
		}
	}
}
