package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/propuesta-web/api/internal/ai"
	"github.com/propuesta-web/api/internal/domain"
	"github.com/propuesta-web/api/internal/handlers"
	"github.com/propuesta-web/api/internal/pdf"
	"github.com/propuesta-web/api/internal/platform/config"
	"github.com/propuesta-web/api/internal/platform/observability"
	filestore "github.com/propuesta-web/api/internal/repositories/file"
	"github.com/propuesta-web/api/internal/services"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	catalog := domain.DefaultCatalog()

	chatClient, err := ai.NewOllamaClient(ai.OllamaConfig{
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		logger.Fatal("failed to initialise chat client", zap.Error(err))
	}

	estimator, err := services.NewFeatureEstimator(catalog)
	if err != nil {
		logger.Fatal("failed to initialise feature estimator", zap.Error(err))
	}
	engine, err := services.NewPricingEngine(catalog, estimator)
	if err != nil {
		logger.Fatal("failed to initialise pricing engine", zap.Error(err))
	}
	policy, err := services.NewSuggestionPolicy(catalog)
	if err != nil {
		logger.Fatal("failed to initialise suggestion policy", zap.Error(err))
	}

	suggestionService, err := services.NewSuggestionService(services.SuggestionServiceDeps{
		Chat:          chatClient,
		Catalog:       catalog,
		Policy:        policy,
		Model:         cfg.AI.Model,
		MaxPromptSize: cfg.AI.MaxPromptSize,
		Logger:        observability.EventLogger(logger.Named("suggest")),
	})
	if err != nil {
		logger.Fatal("failed to initialise suggestion service", zap.Error(err))
	}

	quoteService, err := services.NewQuoteService(services.QuoteServiceDeps{
		Catalog: catalog,
		Engine:  engine,
		Annual:  services.NewAnnualEstimator(),
		Logger:  observability.EventLogger(logger.Named("quote")),
	})
	if err != nil {
		logger.Fatal("failed to initialise quote service", zap.Error(err))
	}

	agentService, err := services.NewAgentService(services.AgentServiceDeps{
		Chat:        chatClient,
		Catalog:     catalog,
		Drift:       services.NewDriftTracker(cfg.Agent.DriftEntryTTL, time.Now),
		Model:       cfg.AI.AgentModel,
		DriftCutoff: cfg.Agent.DriftCutoff,
		Logger:      observability.EventLogger(logger.Named("agent")),
	})
	if err != nil {
		logger.Fatal("failed to initialise agent service", zap.Error(err))
	}

	quoteStore, err := filestore.NewQuoteStore(cfg.Store.QuotesPath)
	if err != nil {
		logger.Fatal("failed to open quote archive", zap.Error(err))
	}

	renderer := pdf.NewRenderer(pdf.Brand{Name: cfg.Proposal.BrandName})

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	suggestHandlers := handlers.NewSuggestHandlers(suggestionService)
	quoteHandlers := handlers.NewQuoteHandlers(quoteService)
	agentHandlers := handlers.NewAgentHandlers(agentService, cfg.RateLimits.AgentPerMinute)
	pdfHandlers := handlers.NewPDFHandlers(renderer)
	archiveHandlers := handlers.NewQuoteArchiveHandlers(quoteStore)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithSuggestRoutes(suggestHandlers.Routes),
		handlers.WithQuoteRoutes(quoteHandlers.Routes),
		handlers.WithAgentRoutes(agentHandlers.Routes),
		handlers.WithPDFRoutes(pdfHandlers.Routes),
		handlers.WithQuoteArchiveRoutes(archiveHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("propuesta-web api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
