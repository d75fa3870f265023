package domain

// Category classifies catalog entries by the kind of work they represent.
type Category string

const (
	CategoryCore         Category = "core"
	CategoryDesign       Category = "design"
	CategorySEO          Category = "seo"
	CategoryContent      Category = "content"
	CategoryFunctional   Category = "functional"
	CategoryIntegrations Category = "integrations"
	CategoryMedia        Category = "media"
)

// Unit selects the dimension a SKU scales with on top of its base price.
type Unit string

const (
	UnitFixed      Unit = "fixed"
	UnitPerPage    Unit = "perPage"
	UnitPerLang    Unit = "perLang"
	UnitPerProduct Unit = "perProduct"
)

// Constraints declares cross-SKU coherence rules resolved by the pricing engine.
type Constraints struct {
	Requires []string
	Excludes []string
}

// SKU is one priced, buildable website feature from the static catalog.
type SKU struct {
	ID          string
	Title       string
	Category    Category
	Description string
	BasePrice   int64
	Unit        Unit
	UnitPrice   int64
	Constraints Constraints
	Tags        []string
}

// Complexity grades a custom feature for the heuristic estimator.
type Complexity string

const (
	ComplexityLow  Complexity = "low"
	ComplexityMed  Complexity = "med"
	ComplexityHigh Complexity = "high"
)

// CustomFeature is a bespoke request with no catalog SKU, priced by analogy.
// It lives only for the duration of a suggest/quote request.
type CustomFeature struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Complexity  Complexity `json:"complexity,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// LineType distinguishes catalog lines from estimated custom lines.
type LineType string

const (
	LineCatalog LineType = "catalog"
	LineCustom  LineType = "custom"
)

// QuoteLine is one resolved entry of an itemised quote.
type QuoteLine struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Amount int64    `json:"amount"`
	Type   LineType `json:"type"`
}

// Quote is the priced, itemised proposal derived from a selected feature set.
type Quote struct {
	Lines    []QuoteLine `json:"lines"`
	Subtotal int64       `json:"subtotal"`
	IVA      int64       `json:"iva"`
	Total    int64       `json:"total"`
}

// AnnualEstimate is the recurring-cost projection attached to quote output.
// It is informational only and never summed into the quote total.
type AnnualEstimate struct {
	Min   int64  `json:"min"`
	Max   int64  `json:"max"`
	Label string `json:"label"`
}

// Urgency modifies the quote with a rush surcharge when set to UrgencyRush.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyRush   Urgency = "rush"
)

// SuggestionContext carries the business context a suggestion is refined
// against. It is never mutated after construction within a request.
type SuggestionContext struct {
	Sector      string
	Description string
	Objective   string
	Pages       int
	Languages   int
	Products    int
	AvoidSkus   []string
}
