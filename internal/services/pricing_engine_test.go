package services

import (
	"reflect"
	"testing"

	"github.com/propuesta-web/api/internal/domain"
)

func newEngine(t *testing.T, catalog *domain.Catalog) *PricingEngine {
	t.Helper()
	estimator, err := NewFeatureEstimator(catalog)
	if err != nil {
		t.Fatalf("build estimator: %v", err)
	}
	engine, err := NewPricingEngine(catalog, estimator)
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	return engine
}

func lineAmounts(q domain.Quote) map[string]int64 {
	out := make(map[string]int64, len(q.Lines))
	for _, line := range q.Lines {
		out[line.ID] = line.Amount
	}
	return out
}

func TestBuildEndToEndScenario(t *testing.T) {
	engine := newEngine(t, domain.DefaultCatalog())
	quote := engine.Build(QuoteInput{
		Pages:         1,
		Languages:     1,
		ForcedSkus:    []string{domain.SKUResponsive},
		SuggestedSkus: []string{domain.SKUOnePage, domain.SKUContactForm},
	})

	want := map[string]int64{
		domain.SKUResponsive:  150,
		domain.SKUOnePage:     600,
		domain.SKUContactForm: 120,
	}
	if got := lineAmounts(quote); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected lines: %v", got)
	}
	if quote.Subtotal != 870 {
		t.Fatalf("expected subtotal 870, got %d", quote.Subtotal)
	}
	if quote.IVA != 183 {
		t.Fatalf("expected iva 183, got %d", quote.IVA)
	}
	if quote.Total != 1053 {
		t.Fatalf("expected total 1053, got %d", quote.Total)
	}
}

func TestBuildUnitScaling(t *testing.T) {
	catalog := mustCatalog(t, []domain.SKU{
		{ID: "multi", BasePrice: 800, Unit: domain.UnitPerPage, UnitPrice: 80},
		{ID: "lang", BasePrice: 120, Unit: domain.UnitPerLang, UnitPrice: 80},
		{ID: "shop", BasePrice: 300, Unit: domain.UnitPerProduct, UnitPrice: 5},
	})
	engine := newEngine(t, catalog)

	quote := engine.Build(QuoteInput{
		Pages:      3,
		Languages:  2,
		Products:   40,
		ForcedSkus: []string{"multi", "lang", "shop"},
	})
	amounts := lineAmounts(quote)
	if amounts["multi"] != 800+3*80 {
		t.Fatalf("perPage scaling wrong: %d", amounts["multi"])
	}
	if amounts["lang"] != 120+2*80 {
		t.Fatalf("perLang scaling wrong: %d", amounts["lang"])
	}
	if amounts["shop"] != 300+40*5 {
		t.Fatalf("perProduct scaling wrong: %d", amounts["shop"])
	}
}

func TestBuildDefaults(t *testing.T) {
	catalog := mustCatalog(t, []domain.SKU{
		{ID: "multi", BasePrice: 800, Unit: domain.UnitPerPage, UnitPrice: 80},
		{ID: "shop", BasePrice: 300, Unit: domain.UnitPerProduct, UnitPrice: 5},
	})
	engine := newEngine(t, catalog)

	// pages defaults to 1, products to 0.
	quote := engine.Build(QuoteInput{ForcedSkus: []string{"multi", "shop"}})
	amounts := lineAmounts(quote)
	if amounts["multi"] != 880 {
		t.Fatalf("expected default single page, got %d", amounts["multi"])
	}
	if amounts["shop"] != 300 {
		t.Fatalf("expected zero products by default, got %d", amounts["shop"])
	}
}

func TestBuildDropsUnknownIDsSilently(t *testing.T) {
	engine := newEngine(t, domain.DefaultCatalog())
	quote := engine.Build(QuoteInput{
		ForcedSkus:    []string{"made.up", domain.SKUResponsive},
		SuggestedSkus: []string{"also.fake"},
	})
	if len(quote.Lines) != 1 || quote.Lines[0].ID != domain.SKUResponsive {
		t.Fatalf("unknown ids must be dropped, got %v", quote.Lines)
	}
}

func TestBuildDeduplicatesForcedAndSuggested(t *testing.T) {
	engine := newEngine(t, domain.DefaultCatalog())
	quote := engine.Build(QuoteInput{
		ForcedSkus:    []string{domain.SKUResponsive},
		SuggestedSkus: []string{domain.SKUResponsive},
	})
	if len(quote.Lines) != 1 {
		t.Fatalf("expected one deduplicated line, got %v", quote.Lines)
	}
}

func TestBuildDependencyClosure(t *testing.T) {
	t.Run("direct dependency", func(t *testing.T) {
		engine := newEngine(t, domain.DefaultCatalog())
		quote := engine.Build(QuoteInput{ForcedSkus: []string{domain.SKUBooking}})
		amounts := lineAmounts(quote)
		if _, ok := amounts[domain.SKUBasicNav]; !ok {
			t.Fatalf("booking must pull in navigation, got %v", amounts)
		}
	})

	t.Run("transitive dependencies reach a fixed point", func(t *testing.T) {
		catalog := mustCatalog(t, []domain.SKU{
			{ID: "a", BasePrice: 10, Constraints: domain.Constraints{Requires: []string{"b"}}},
			{ID: "b", BasePrice: 20, Constraints: domain.Constraints{Requires: []string{"c"}}},
			{ID: "c", BasePrice: 30},
		})
		engine := newEngine(t, catalog)
		quote := engine.Build(QuoteInput{ForcedSkus: []string{"a"}})
		if len(quote.Lines) != 3 {
			t.Fatalf("expected full closure a,b,c, got %v", quote.Lines)
		}
	})

	t.Run("requires cycle terminates", func(t *testing.T) {
		catalog := mustCatalog(t, []domain.SKU{
			{ID: "a", BasePrice: 10, Constraints: domain.Constraints{Requires: []string{"b"}}},
			{ID: "b", BasePrice: 20, Constraints: domain.Constraints{Requires: []string{"a"}}},
		})
		engine := newEngine(t, catalog)
		quote := engine.Build(QuoteInput{ForcedSkus: []string{"a"}})
		if len(quote.Lines) != 2 {
			t.Fatalf("expected both cycle members exactly once, got %v", quote.Lines)
		}
	})

	t.Run("closure completeness over default catalog", func(t *testing.T) {
		catalog := domain.DefaultCatalog()
		engine := newEngine(t, catalog)
		seeds := [][]string{
			{domain.SKUBooking},
			{domain.SKUOnePage, domain.SKUBooking, domain.SKUEcomCatalog},
			{domain.SKUMultiPage, domain.SKUSEOLocal},
		}
		for _, seed := range seeds {
			quote := engine.Build(QuoteInput{ForcedSkus: seed})
			present := lineAmounts(quote)
			for id := range present {
				sku, ok := catalog.Get(id)
				if !ok {
					continue
				}
				for _, req := range sku.Constraints.Requires {
					if _, ok := present[req]; !ok {
						t.Fatalf("seed %v: %s requires %s which is missing", seed, id, req)
					}
				}
			}
		}
	})
}

func TestBuildExclusionPruning(t *testing.T) {
	t.Run("excluded SKU is removed", func(t *testing.T) {
		catalog := mustCatalog(t, []domain.SKU{
			{ID: "premium", BasePrice: 100, Constraints: domain.Constraints{Excludes: []string{"basic"}}},
			{ID: "basic", BasePrice: 50},
		})
		engine := newEngine(t, catalog)
		quote := engine.Build(QuoteInput{ForcedSkus: []string{"premium", "basic"}})
		amounts := lineAmounts(quote)
		if _, ok := amounts["basic"]; ok {
			t.Fatalf("basic must be excluded, got %v", amounts)
		}
		if _, ok := amounts["premium"]; !ok {
			t.Fatalf("premium must stay, got %v", amounts)
		}
	})

	t.Run("required-then-excluded id is not restored", func(t *testing.T) {
		// dep is pulled in by needy's requires, then pruned by blocker's
		// excludes; the single-pass semantics must not re-add it.
		catalog := mustCatalog(t, []domain.SKU{
			{ID: "needy", BasePrice: 100, Constraints: domain.Constraints{Requires: []string{"dep"}}},
			{ID: "blocker", BasePrice: 80, Constraints: domain.Constraints{Excludes: []string{"dep"}}},
			{ID: "dep", BasePrice: 40},
		})
		engine := newEngine(t, catalog)
		quote := engine.Build(QuoteInput{ForcedSkus: []string{"needy", "blocker"}})
		amounts := lineAmounts(quote)
		if _, ok := amounts["dep"]; ok {
			t.Fatalf("excluded dependency must not be restored, got %v", amounts)
		}
		if len(quote.Lines) != 2 {
			t.Fatalf("expected needy and blocker only, got %v", quote.Lines)
		}
	})
}

func TestBuildCustomLines(t *testing.T) {
	engine := newEngine(t, domain.DefaultCatalog())
	quote := engine.Build(QuoteInput{
		CustomFeatures: []domain.CustomFeature{
			{Title: "Galería de fotos", Complexity: domain.ComplexityLow, Tags: []string{"galería"}},
		},
	})
	if len(quote.Lines) != 1 {
		t.Fatalf("expected one custom line, got %v", quote.Lines)
	}
	line := quote.Lines[0]
	if line.ID != "custom:galeria-de-fotos" {
		t.Fatalf("unexpected custom line id %q", line.ID)
	}
	if line.Type != domain.LineCustom {
		t.Fatalf("expected custom type, got %q", line.Type)
	}
	if line.Amount <= 0 {
		t.Fatalf("custom line must be priced, got %d", line.Amount)
	}
}

func TestBuildUrgencySurcharge(t *testing.T) {
	engine := newEngine(t, domain.DefaultCatalog())
	quote := engine.Build(QuoteInput{
		Pages:      1,
		ForcedSkus: []string{domain.SKUOnePage},
		Urgency:    domain.UrgencyRush,
	})
	// 600 base, rush = round(600*0.2) = 120, subtotal 720, iva round(151.2)=151.
	var rush *domain.QuoteLine
	for i := range quote.Lines {
		if quote.Lines[i].ID == "mod:urgency" {
			rush = &quote.Lines[i]
		}
	}
	if rush == nil {
		t.Fatalf("expected urgency line, got %v", quote.Lines)
	}
	if rush.Title != "Urgency (20%)" {
		t.Fatalf("unexpected urgency title %q", rush.Title)
	}
	if rush.Amount != 120 {
		t.Fatalf("expected rush 120, got %d", rush.Amount)
	}
	if quote.Subtotal != 720 || quote.IVA != 151 || quote.Total != 871 {
		t.Fatalf("unexpected totals %+v", quote)
	}
}

func TestBuildPricingAdditivity(t *testing.T) {
	engine := newEngine(t, domain.DefaultCatalog())
	inputs := []QuoteInput{
		{},
		{ForcedSkus: []string{domain.SKUOnePage}},
		{Pages: 4, Languages: 2, ForcedSkus: []string{domain.SKUMultiPage, domain.SKUBilingual}},
		{Pages: 2, ForcedSkus: []string{domain.SKUBooking}, Urgency: domain.UrgencyRush},
		{CustomFeatures: []domain.CustomFeature{{Title: "CRM integration", Tags: []string{"integrations"}, Complexity: domain.ComplexityHigh}}},
	}
	for _, input := range inputs {
		quote := engine.Build(input)
		var sum int64
		for _, line := range quote.Lines {
			sum += line.Amount
		}
		if sum != quote.Subtotal {
			t.Fatalf("subtotal %d does not match line sum %d for %+v", quote.Subtotal, sum, input)
		}
		if quote.Total != quote.Subtotal+quote.IVA {
			t.Fatalf("total %d != subtotal %d + iva %d", quote.Total, quote.Subtotal, quote.IVA)
		}
	}
}

func TestBuildTaxDeterminism(t *testing.T) {
	// iva == round(subtotal * 0.21) for the canonical subtotals.
	cases := []struct {
		subtotal int64
		iva      int64
	}{
		{0, 0},
		{1, 0},
		{1000, 210},
		{999999, 210000},
	}
	for _, tc := range cases {
		catalog := mustCatalog(t, []domain.SKU{{ID: "only", BasePrice: tc.subtotal}})
		engine := newEngine(t, catalog)
		quote := engine.Build(QuoteInput{ForcedSkus: []string{"only"}})
		if quote.IVA != tc.iva {
			t.Errorf("subtotal %d: expected iva %d, got %d", tc.subtotal, tc.iva, quote.IVA)
		}
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	engine := newEngine(t, domain.DefaultCatalog())
	input := QuoteInput{
		Pages:          3,
		Languages:      2,
		ForcedSkus:     []string{domain.SKUMultiPage, domain.SKUBooking},
		SuggestedSkus:  []string{domain.SKUSEOLocal},
		CustomFeatures: []domain.CustomFeature{{Title: "Chat en vivo", Tags: []string{"contacto"}}},
		Urgency:        domain.UrgencyRush,
	}
	first := engine.Build(input)
	second := engine.Build(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical input must yield identical quotes:\n%+v\n%+v", first, second)
	}
}
