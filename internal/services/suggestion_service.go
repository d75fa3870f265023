package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/propuesta-web/api/internal/ai"
	"github.com/propuesta-web/api/internal/domain"
)

const (
	defaultMaxPromptSize = 12000
	maxCompletionSize    = 50000
)

// FilledFields is the model's best guess at the quantitative shape of the
// site when the user has not stated it explicitly.
type FilledFields struct {
	Pages     int `json:"pages"`
	Languages int `json:"languages"`
	Products  int `json:"products"`
}

// Suggestion is the normalized proposal returned to the caller: catalog ids
// plus bespoke features the catalog cannot cover.
type Suggestion struct {
	SkusSuggested  []string               `json:"skusSuggested"`
	CustomFeatures []domain.CustomFeature `json:"customFeatures"`
	FilledFields   FilledFields           `json:"filledFields"`
	Notes          string                 `json:"notes"`
}

// SuggestRequest is the business context a suggestion is produced for.
type SuggestRequest struct {
	Sector      string   `json:"sector"`
	Description string   `json:"description"`
	Objectives  string   `json:"objectives"`
	Budget      int64    `json:"budget"`
	AvoidSkus   []string `json:"avoidSkus"`
	Pages       int      `json:"pages"`
	Languages   int      `json:"languages"`
	Products    int      `json:"products"`
}

// titleMatchers maps recognisable free-text feature titles back onto catalog
// ids so the model cannot reinvent catalog entries as bespoke work.
var titleMatchers = []struct {
	pattern *regexp.Regexp
	sku     string
}{
	{regexp.MustCompile(`faq|preguntas? frecuentes?`), domain.SKUFAQ},
	{regexp.MustCompile(`whats?app|llamada`), domain.SKUWhatsApp},
	{regexp.MustCompile(`mapa|ubicaci[óo]n|google\s*maps?`), domain.SKUMap},
	{regexp.MustCompile(`blog`), domain.SKUBlog},
	{regexp.MustCompile(`testimoni|opiniones|reviews?`), domain.SKUTestimonials},
	{regexp.MustCompile(`reserva|booking|pago`), domain.SKUBooking},
	{regexp.MustCompile(`biling[üu]e|idioma|multilenguaje`), domain.SKUBilingual},
	{regexp.MustCompile(`responsive|adaptable`), domain.SKUResponsive},
	{regexp.MustCompile(`one[-\s]?page|landing`), domain.SKUOnePage},
	{regexp.MustCompile(`multi[-\s]?p[aá]gina|corporativa`), domain.SKUMultiPage},
	{regexp.MustCompile(`seo\s*local|google business|gbp`), domain.SKUSEOLocal},
}

// vetoTextMatchers removes bespoke features that merely rephrase a vetoed
// catalog id in free text.
var vetoTextMatchers = []struct {
	sku     string
	pattern *regexp.Regexp
}{
	{domain.SKUFAQ, regexp.MustCompile(`faq|preguntas frecuentes`)},
	{domain.SKUWhatsApp, regexp.MustCompile(`whats`)},
	{domain.SKUMap, regexp.MustCompile(`mapa`)},
}

// SuggestionServiceDeps bundles the collaborators of SuggestionService.
type SuggestionServiceDeps struct {
	Chat          ai.Client
	Catalog       *domain.Catalog
	Policy        *SuggestionPolicy
	Model         string
	MaxPromptSize int
	Logger        func(ctx context.Context, event string, fields map[string]any)
}

// SuggestionService obtains a raw proposal from the chat model, normalizes
// it against the catalog and refines it through the policy pipeline. It
// never fails: any upstream problem degrades to a fixed fallback proposal.
type SuggestionService struct {
	chat          ai.Client
	catalog       *domain.Catalog
	policy        *SuggestionPolicy
	model         string
	maxPromptSize int
	logger        func(ctx context.Context, event string, fields map[string]any)
}

func NewSuggestionService(deps SuggestionServiceDeps) (*SuggestionService, error) {
	if deps.Chat == nil {
		return nil, errors.New("suggestion service: chat client is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("suggestion service: catalog is required")
	}
	if deps.Policy == nil {
		return nil, errors.New("suggestion service: policy is required")
	}
	if deps.MaxPromptSize <= 0 {
		deps.MaxPromptSize = defaultMaxPromptSize
	}
	if deps.Logger == nil {
		deps.Logger = func(context.Context, string, map[string]any) {}
	}
	return &SuggestionService{
		chat:          deps.Chat,
		catalog:       deps.Catalog,
		policy:        deps.Policy,
		model:         deps.Model,
		maxPromptSize: deps.MaxPromptSize,
		logger:        deps.Logger,
	}, nil
}

// Fallback is the static proposal substituted whenever the model cannot be
// reached or answers with something unusable.
func Fallback() Suggestion {
	return Suggestion{
		SkusSuggested: []string{domain.SKUOnePage, domain.SKUFAQ},
		CustomFeatures: []domain.CustomFeature{
			{
				Title:       "Galería de fotos",
				Description: "Muestra actividades y el ambiente.",
				Complexity:  domain.ComplexityLow,
				Tags:        []string{"galería", "fotos"},
			},
			{
				Title:       "Mapa con ubicación",
				Description: "Mapa embebido.",
				Complexity:  domain.ComplexityLow,
				Tags:        []string{"mapa", "ubicación"},
			},
		},
		FilledFields: FilledFields{Pages: 3, Languages: 1, Products: 0},
		Notes:        "Propuesta base por contexto incompleto.",
	}
}

// Suggest produces a refined proposal for the given context.
func (s *SuggestionService) Suggest(ctx context.Context, req SuggestRequest) Suggestion {
	prompt := ai.SuggestPrompt(ai.SuggestPromptInput{
		Sector:      req.Sector,
		Description: req.Description,
		Objective:   req.Objectives,
		Budget:      req.Budget,
		Pages:       req.Pages,
		Languages:   req.Languages,
		AvoidSkus:   req.AvoidSkus,
		CatalogIDs:  s.catalog.IDs(),
	})
	if len(prompt) > s.maxPromptSize {
		prompt = prompt[:s.maxPromptSize]
	}

	s.logger(ctx, "suggest.incoming", map[string]any{"avoid": len(req.AvoidSkus)})

	raw, err := s.chat.Chat(ctx, []ai.Message{{Role: ai.RoleUser, Content: prompt}}, ai.ChatOptions{Model: s.model})
	if err != nil {
		s.logger(ctx, "suggest.chat_failed", map[string]any{"error": err.Error()})
		return s.refine(req, Fallback())
	}

	suggestion, ok := s.parseCompletion(raw)
	if !ok {
		s.logger(ctx, "suggest.bad_json", map[string]any{"snippet": snippet(raw, 500)})
		return s.refine(req, Fallback())
	}

	out := s.refine(req, suggestion)
	s.logger(ctx, "suggest.ok", map[string]any{
		"skus":   len(out.SkusSuggested),
		"custom": len(out.CustomFeatures),
	})
	return out
}

func (s *SuggestionService) parseCompletion(raw string) (Suggestion, bool) {
	cleaned := ai.CleanJSONLike(raw)
	if len(cleaned) > maxCompletionSize {
		cleaned = cleaned[:maxCompletionSize]
	}

	var payload struct {
		SkusSuggested  []string               `json:"skusSuggested"`
		CustomFeatures []domain.CustomFeature `json:"customFeatures"`
		FilledFields   *FilledFields          `json:"filledFields"`
		Notes          string                 `json:"notes"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		obj := ai.ExtractObject(cleaned)
		if obj == "" {
			return Suggestion{}, false
		}
		if err := json.Unmarshal([]byte(obj), &payload); err != nil {
			return Suggestion{}, false
		}
	}

	out := Suggestion{
		SkusSuggested:  payload.SkusSuggested,
		CustomFeatures: payload.CustomFeatures,
		FilledFields:   FilledFields{Pages: 3, Languages: 1, Products: 0},
		Notes:          payload.Notes,
	}
	if payload.FilledFields != nil {
		out.FilledFields = *payload.FilledFields
	}
	if out.SkusSuggested == nil {
		out.SkusSuggested = []string{}
	}
	if out.CustomFeatures == nil {
		out.CustomFeatures = []domain.CustomFeature{}
	}
	return out, true
}

// refine applies the deterministic normalization steps to a raw proposal:
// free-text features that name a catalog entry become SKU ids, vetoed ids
// and vetoed free-text features are dropped, and the policy pipeline runs
// over the final SKU set.
func (s *SuggestionService) refine(req SuggestRequest, suggestion Suggestion) Suggestion {
	skus := newIDSet(len(suggestion.SkusSuggested) + 4)
	for _, id := range suggestion.SkusSuggested {
		skus.Add(id)
	}

	kept := make([]domain.CustomFeature, 0, len(suggestion.CustomFeatures))
	for _, cf := range suggestion.CustomFeatures {
		if sku := titleToSku(cf.Title); sku != "" {
			skus.Add(sku)
			continue
		}
		kept = append(kept, cf)
	}

	for _, id := range req.AvoidSkus {
		skus.Delete(id)
	}
	kept = filterVetoedFeatures(kept, req.AvoidSkus)

	suggestion.SkusSuggested = s.policy.Apply(domain.SuggestionContext{
		Sector:      req.Sector,
		Description: req.Description,
		Objective:   req.Objectives,
		Pages:       req.Pages,
		Languages:   req.Languages,
		Products:    req.Products,
		AvoidSkus:   req.AvoidSkus,
	}, skus.Values())
	suggestion.CustomFeatures = kept
	return suggestion
}

func titleToSku(title string) string {
	t := strings.ToLower(title)
	for _, m := range titleMatchers {
		if m.pattern.MatchString(t) {
			return m.sku
		}
	}
	return ""
}

func filterVetoedFeatures(features []domain.CustomFeature, avoid []string) []domain.CustomFeature {
	if len(avoid) == 0 {
		return features
	}
	vetoed := make(map[string]bool, len(avoid))
	for _, id := range avoid {
		vetoed[id] = true
	}
	out := features[:0]
	for _, cf := range features {
		text := strings.ToLower(cf.Title + " " + cf.Description)
		drop := false
		for _, m := range vetoTextMatchers {
			if vetoed[m.sku] && m.pattern.MatchString(text) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, cf)
		}
	}
	return out
}

func snippet(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
