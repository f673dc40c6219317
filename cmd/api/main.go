// Package main is the entry point for the ordering API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/config"
	"github.com/devburger/ordering-agent/internal/events"
	"github.com/devburger/ordering-agent/internal/handler"
	"github.com/devburger/ordering-agent/internal/llm"
	"github.com/devburger/ordering-agent/internal/middleware"
	"github.com/devburger/ordering-agent/internal/service"
	"github.com/devburger/ordering-agent/internal/session"
	"github.com/devburger/ordering-agent/internal/store"
	"github.com/devburger/ordering-agent/internal/tool"
	"github.com/devburger/ordering-agent/pkg/logger"
	"github.com/devburger/ordering-agent/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting ordering agent")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "ordering-agent", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open the database and seed the catalog
	db, err := store.Open(cfg.DBPath, log)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Seed(ctx); err != nil {
		log.Error("failed to seed catalog", zap.Error(err))
		os.Exit(1)
	}

	// Connect to NATS when configured; the publisher is nil-safe so the
	// rest of the wiring does not care whether events are enabled.
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.Connect(ctx, events.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer publisher.Close()
	}

	// Initialize the model client
	apiKey := cfg.OpenAIAPIKey
	if llm.Provider(cfg.DefaultLLM) == llm.ProviderAnthropic {
		apiKey = cfg.AnthropicAPIKey
	}
	llmClient, err := llm.NewClient(llm.Provider(cfg.DefaultLLM), apiKey)
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}

	// Initialize the conversation loop
	sessions := session.NewStore(service.SystemPrompt)
	tools := tool.NewRegistry(db, db, publisher, log)
	agent := service.NewOrchestrator(llmClient, cfg.LLMModel, sessions, tools, publisher, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	twilioHandler := handler.NewTwilioHandler(agent, log)
	chatHandler := handler.NewChatHandler(agent, log)
	menuHandler := handler.NewMenuHandler(db, log)
	orderHandler := handler.NewOrderHandler(db, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Webhook route, rate limited per customer
	r.Group(func(r chi.Router) {
		r.Use(middleware.CustomerRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/webhook/twilio", twilioHandler.Webhook)
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/chat", chatHandler.Chat)
		r.Get("/menu", menuHandler.List)
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Get("/{id}", orderHandler.Get)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
