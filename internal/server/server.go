// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects the database, service,
// handlers and middleware, and decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on every request
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config.Server and passes it to New, which builds
//
//	sqldb.DB → ShoppingService → ShoppingHandler / tools.Catalog → ToolsHandler
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/routes) rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/sakif/shopping-list/internal/config"
	"github.com/sakif/shopping-list/internal/handler"
	"github.com/sakif/shopping-list/internal/middleware"
	"github.com/sakif/shopping-list/internal/repository/sqldb"
	"github.com/sakif/shopping-list/internal/service"
	"github.com/sakif/shopping-list/internal/tools"
	"github.com/sakif/shopping-list/internal/validation"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database handle. Start closes it after the HTTP
// server has drained, so in-flight requests never see a closed pool.
type Server struct {
	router   *chi.Mux
	config   config.Server
	logger   *slog.Logger
	db       *sqldb.DB
	registry *prometheus.Registry
}

// New opens the database (running migrations) and wires every route.
func New(ctx context.Context, cfg config.Server, logger *slog.Logger) (*Server, error) {
	db, err := sqldb.New(ctx, sqldb.Options{
		URL:             cfg.DB.URL,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	version, err := db.SchemaVersion()
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("reading schema version: %w", err), db.Close())
	}
	logger.Info("database ready",
		slog.String("dialect", string(db.Dialect())),
		slog.Int64("schema_version", version),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: registry,
	}
	s.routes()

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST   /shopping-lists/               → Create list (201)
// GET    /shopping-lists/               → List lists (?skip, ?limit)
// GET    /shopping-lists/{id}           → Get list with items
// PUT    /shopping-lists/{id}           → Partial update
// DELETE /shopping-lists/{id}           → Delete list and its items
// POST   /shopping-items/               → Create item (201)
// GET    /shopping-items/               → List items (?skip, ?limit, ?shopping_list_id)
// GET    /shopping-items/{id}           → Get item
// PUT    /shopping-items/{id}           → Partial update
// DELETE /shopping-items/{id}           → Delete item
// PATCH  /shopping-items/{id}/toggle    → Flip is_completed
// GET    /tools, POST /tools/{name}     → Tool catalog for the agent
// GET    /healthz, GET /metrics         → Operations
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns a unique ID to each request (logged by Logger)
// 2. RealIP: extracts the client IP from proxy headers
// 3. Metrics, Logger: observe the finished request
// 4. Recoverer: turns panics into 500s below the observers, so they are counted
func (s *Server) routes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Metrics(middleware.NewHTTPMetrics(s.registry)))
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// DEPENDENCY CHAIN:
	//   s.db → ListStore / ItemStore (repository interfaces)
	//   ShoppingService receives the repositories
	//   handlers and the tool catalog receive the service
	v := validation.New()
	svc := service.NewShoppingService(s.db.Lists(), s.db.Items(), v, s.logger)
	shopping := handler.NewShoppingHandler(svc, s.logger)
	toolsHandler := handler.NewToolsHandler(tools.NewCatalog(svc, v), s.logger)
	health := handler.NewHealthHandler(s.db, s.logger)

	// Both "/shopping-lists" and "/shopping-lists/" reach the collection routes.
	s.router.Route("/shopping-lists", func(r chi.Router) {
		r.Post("/", shopping.HandleCreateList)
		r.Get("/", shopping.HandleListLists)
		r.Get("/{id}", shopping.HandleGetList)
		r.Put("/{id}", shopping.HandleUpdateList)
		r.Delete("/{id}", shopping.HandleDeleteList)
	})
	s.router.Route("/shopping-items", func(r chi.Router) {
		r.Post("/", shopping.HandleCreateItem)
		r.Get("/", shopping.HandleListItems)
		r.Get("/{id}", shopping.HandleGetItem)
		r.Put("/{id}", shopping.HandleUpdateItem)
		r.Delete("/{id}", shopping.HandleDeleteItem)
		r.Patch("/{id}/toggle", shopping.HandleToggleItem)
	})

	s.router.Get("/tools", toolsHandler.HandleList)
	s.router.Post("/tools/{name}", toolsHandler.HandleInvoke)

	s.router.Get("/healthz", health.HandleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM or a
// listener failure.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (ShutdownTimeout)
// 3. Close the database pool
//
// Errors from steps 2 and 3 are combined so neither hides the other.
func (s *Server) Start() (err error) {
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("dialect", string(s.db.Dialect())),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
