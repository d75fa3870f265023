package domain

import "fmt"

// Well-known SKU identifiers referenced by the suggestion policy and the
// annual-cost estimator.
const (
	SKUOnePage      = "site.onepage"
	SKUMultiPage    = "site.multipage"
	SKUResponsive   = "design.responsive"
	SKUContactForm  = "functional.contactForm"
	SKUWhatsApp     = "functional.whatsapp"
	SKUMap          = "functional.map"
	SKUSEOLocal     = "seo.local"
	SKUFAQ          = "content.faq"
	SKUBilingual    = "i18n.bilingual"
	SKUGBP          = "integrations.gbp"
	SKUEcomCatalog  = "ecom.catalog"
	SKUPhotoSession = "media.photosession"
	SKUTestimonials = "content.testimonials"
	SKUBlog         = "content.blog"
	SKUPrivateArea  = "content.privateArea"
	SKUBooking      = "functional.booking"
	SKUBasicNav     = "content.menus.basic"
)

// Catalog is a read-only SKU lookup. It is built once at process start and
// never mutated, so it is safe for concurrent use without locking.
type Catalog struct {
	ordered []SKU
	index   map[string]SKU
}

// NewCatalog builds a catalog from the given SKUs. It rejects duplicate ids
// and constraint references to ids that are not part of the catalog.
func NewCatalog(skus []SKU) (*Catalog, error) {
	index := make(map[string]SKU, len(skus))
	for _, sku := range skus {
		if sku.ID == "" {
			return nil, fmt.Errorf("catalog: SKU without id")
		}
		if _, exists := index[sku.ID]; exists {
			return nil, fmt.Errorf("catalog: duplicate SKU id %q", sku.ID)
		}
		index[sku.ID] = sku
	}
	for _, sku := range skus {
		for _, ref := range sku.Constraints.Requires {
			if _, ok := index[ref]; !ok {
				return nil, fmt.Errorf("catalog: %s requires unknown SKU %q", sku.ID, ref)
			}
		}
		for _, ref := range sku.Constraints.Excludes {
			if _, ok := index[ref]; !ok {
				return nil, fmt.Errorf("catalog: %s excludes unknown SKU %q", sku.ID, ref)
			}
		}
	}
	ordered := make([]SKU, len(skus))
	copy(ordered, skus)
	return &Catalog{ordered: ordered, index: index}, nil
}

// MustNewCatalog is NewCatalog for static catalog data known to be valid.
func MustNewCatalog(skus []SKU) *Catalog {
	catalog, err := NewCatalog(skus)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Get returns the SKU for the given id. An unknown id is not an error at
// this layer; callers decide what an absent SKU means.
func (c *Catalog) Get(id string) (SKU, bool) {
	sku, ok := c.index[id]
	return sku, ok
}

// All returns the SKUs in catalog order. The slice is shared; callers must
// not modify it.
func (c *Catalog) All() []SKU {
	return c.ordered
}

// IDs returns the SKU identifiers in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.ordered))
	for i, sku := range c.ordered {
		ids[i] = sku.ID
	}
	return ids
}

// IsValid reports whether the id names a catalog SKU.
func (c *Catalog) IsValid(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
