package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/propuesta-web/api/internal/domain"
)

var (
	ecommerceObjective = regexp.MustCompile(`(?i)e-?commerce|tienda|productos?`)
	ecommerceGoal      = regexp.MustCompile(`e-?commerce|tienda`)
	leadGoal           = regexp.MustCompile(`lead|contact`)
	bookingGoal        = regexp.MustCompile(`reserva`)
	brandingGoal       = regexp.MustCompile(`branding`)
)

// SuggestionPolicy refines an AI- or user-proposed SKU set against hard
// business rules. It is a fixed pipeline of pure set transformations applied
// in order; not a priority system. Applying it twice yields the same set.
type SuggestionPolicy struct {
	catalog *domain.Catalog
	steps   []policyStep
}

type policyStep struct {
	name  string
	apply func(ctx domain.SuggestionContext, set *idSet)
}

// NewSuggestionPolicy constructs the policy over the given catalog.
func NewSuggestionPolicy(catalog *domain.Catalog) (*SuggestionPolicy, error) {
	if catalog == nil {
		return nil, errors.New("suggestion policy: catalog is required")
	}
	p := &SuggestionPolicy{catalog: catalog}
	p.steps = []policyStep{
		{"veto", p.vetoStep},
		{"single_page_core", p.singlePageCoreStep},
		{"non_ecommerce_objective", p.nonEcommerceObjectiveStep},
		{"bilingual", p.bilingualStep},
		{"goal_augmentation", p.goalAugmentationStep},
		{"booking_coherence", p.bookingCoherenceStep},
		{"single_page_navigation", p.singlePageNavigationStep},
	}
	return p, nil
}

// Apply runs the pipeline over the proposed ids and returns the refined set.
// Unknown ids are dropped before the first step; output order follows
// insertion order but carries no meaning for callers.
func (p *SuggestionPolicy) Apply(ctx domain.SuggestionContext, proposed []string) []string {
	set := newIDSet(len(proposed) + 4)
	for _, id := range proposed {
		if p.catalog.IsValid(id) {
			set.Add(id)
		}
	}
	for _, step := range p.steps {
		step.apply(ctx, set)
	}
	return set.Values()
}

// Hard veto: the user rejected these, nothing later may reintroduce them via
// this step (goal augmentation runs afterwards; see the ordering note in
// goalAugmentationStep).
func (p *SuggestionPolicy) vetoStep(ctx domain.SuggestionContext, set *idSet) {
	for _, id := range ctx.AvoidSkus {
		set.Delete(id)
	}
}

// Single-page sites get the one-page SKU and never the multi-page one.
func (p *SuggestionPolicy) singlePageCoreStep(ctx domain.SuggestionContext, set *idSet) {
	if ctx.Pages != 1 {
		return
	}
	set.Delete(domain.SKUMultiPage)
	set.Add(domain.SKUOnePage)
}

// The e-commerce catalog only belongs in suggestions whose objective
// actually mentions a shop.
func (p *SuggestionPolicy) nonEcommerceObjectiveStep(ctx domain.SuggestionContext, set *idSet) {
	if !ecommerceObjective.MatchString(ctx.Objective) {
		set.Delete(domain.SKUEcomCatalog)
	}
}

func (p *SuggestionPolicy) bilingualStep(ctx domain.SuggestionContext, set *idSet) {
	if ctx.Languages > 1 {
		set.Add(domain.SKUBilingual)
	}
}

// Goal-driven minimum recommendations. Runs after the veto step, so a vetoed
// SKU can reappear here; the documented pipeline order is preserved because
// callers depend on it.
func (p *SuggestionPolicy) goalAugmentationStep(ctx domain.SuggestionContext, set *idSet) {
	goal := strings.ToLower(ctx.Objective)
	if leadGoal.MatchString(goal) {
		set.Add(domain.SKUContactForm)
		set.Add(domain.SKUWhatsApp)
	}
	if bookingGoal.MatchString(goal) {
		set.Add(domain.SKUBooking)
		set.Add(domain.SKUBasicNav)
	}
	if ecommerceGoal.MatchString(goal) {
		set.Add(domain.SKUEcomCatalog)
		set.Add(domain.SKUBasicNav)
	}
	if brandingGoal.MatchString(goal) {
		// Branding sites default to a simple structure.
		set.Delete(domain.SKUMultiPage)
	}
}

// Safety net for step 6: booking always requires navigation.
func (p *SuggestionPolicy) bookingCoherenceStep(_ domain.SuggestionContext, set *idSet) {
	if set.Has(domain.SKUBooking) {
		set.Add(domain.SKUBasicNav)
	}
}

// Runs last so single-page always wins for navigation, even after the goal
// steps re-added it.
func (p *SuggestionPolicy) singlePageNavigationStep(ctx domain.SuggestionContext, set *idSet) {
	if ctx.Pages == 1 {
		set.Delete(domain.SKUBasicNav)
	}
}
