package domain

import "testing"

func TestNewCatalog(t *testing.T) {
	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := NewCatalog([]SKU{
			{ID: "a", BasePrice: 10},
			{ID: "a", BasePrice: 20},
		})
		if err == nil {
			t.Fatalf("expected error for duplicate id")
		}
	})

	t.Run("rejects unknown requires reference", func(t *testing.T) {
		_, err := NewCatalog([]SKU{
			{ID: "a", Constraints: Constraints{Requires: []string{"ghost"}}},
		})
		if err == nil {
			t.Fatalf("expected error for dangling requires")
		}
	})

	t.Run("rejects unknown excludes reference", func(t *testing.T) {
		_, err := NewCatalog([]SKU{
			{ID: "a", Constraints: Constraints{Excludes: []string{"ghost"}}},
		})
		if err == nil {
			t.Fatalf("expected error for dangling excludes")
		}
	})

	t.Run("rejects empty id", func(t *testing.T) {
		if _, err := NewCatalog([]SKU{{BasePrice: 10}}); err == nil {
			t.Fatalf("expected error for empty id")
		}
	})
}

func TestCatalogLookup(t *testing.T) {
	catalog, err := NewCatalog([]SKU{
		{ID: "a", BasePrice: 10},
		{ID: "b", BasePrice: 20, Constraints: Constraints{Requires: []string{"a"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sku, ok := catalog.Get("b"); !ok || sku.BasePrice != 20 {
		t.Fatalf("expected to find b with base price 20, got %v %v", sku, ok)
	}
	if _, ok := catalog.Get("ghost"); ok {
		t.Fatalf("unknown id must report not found, not an error")
	}
	if !catalog.IsValid("a") || catalog.IsValid("ghost") {
		t.Fatalf("IsValid mismatch")
	}
	if got := len(catalog.All()); got != 2 {
		t.Fatalf("expected 2 SKUs, got %d", got)
	}
}

func TestDefaultCatalogIntegrity(t *testing.T) {
	catalog := DefaultCatalog()
	if catalog.Len() == 0 {
		t.Fatalf("default catalog must not be empty")
	}
	for _, sku := range catalog.All() {
		if sku.BasePrice < 0 {
			t.Errorf("%s: negative base price", sku.ID)
		}
		for _, ref := range sku.Constraints.Requires {
			if !catalog.IsValid(ref) {
				t.Errorf("%s requires unknown SKU %s", sku.ID, ref)
			}
		}
		for _, ref := range sku.Constraints.Excludes {
			if !catalog.IsValid(ref) {
				t.Errorf("%s excludes unknown SKU %s", sku.ID, ref)
			}
		}
	}

	booking, ok := catalog.Get(SKUBooking)
	if !ok {
		t.Fatalf("booking SKU missing")
	}
	if len(booking.Constraints.Requires) != 1 || booking.Constraints.Requires[0] != SKUBasicNav {
		t.Fatalf("booking must require basic navigation, got %v", booking.Constraints.Requires)
	}
}
