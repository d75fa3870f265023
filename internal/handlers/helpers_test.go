package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/propuesta-web/api/internal/ai"
	"github.com/propuesta-web/api/internal/domain"
	"github.com/propuesta-web/api/internal/services"
)

var errUnready = errors.New("dependency not ready")

type stubChat struct {
	reply string
	err   error
	calls int
}

func (s *stubChat) Chat(context.Context, []ai.Message, ai.ChatOptions) (string, error) {
	s.calls++
	return s.reply, s.err
}

func newTestSuggestionService(t *testing.T, chat ai.Client) *services.SuggestionService {
	t.Helper()
	catalog := domain.DefaultCatalog()
	policy, err := services.NewSuggestionPolicy(catalog)
	if err != nil {
		t.Fatalf("build policy: %v", err)
	}
	svc, err := services.NewSuggestionService(services.SuggestionServiceDeps{
		Chat:    chat,
		Catalog: catalog,
		Policy:  policy,
	})
	if err != nil {
		t.Fatalf("build suggestion service: %v", err)
	}
	return svc
}

func newTestQuoteService(t *testing.T) *services.QuoteService {
	t.Helper()
	catalog := domain.DefaultCatalog()
	estimator, err := services.NewFeatureEstimator(catalog)
	if err != nil {
		t.Fatalf("build estimator: %v", err)
	}
	engine, err := services.NewPricingEngine(catalog, estimator)
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	svc, err := services.NewQuoteService(services.QuoteServiceDeps{
		Catalog: catalog,
		Engine:  engine,
		Annual:  services.NewAnnualEstimator(),
	})
	if err != nil {
		t.Fatalf("build quote service: %v", err)
	}
	return svc
}

func newTestAgentService(t *testing.T, chat ai.Client) *services.AgentService {
	t.Helper()
	svc, err := services.NewAgentService(services.AgentServiceDeps{
		Chat:    chat,
		Catalog: domain.DefaultCatalog(),
		Drift:   services.NewDriftTracker(0, nil),
	})
	if err != nil {
		t.Fatalf("build agent service: %v", err)
	}
	return svc
}
