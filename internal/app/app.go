package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/mediseek/medisearch-backend/internal/adapter/provider/kcd"
	"github.com/mediseek/medisearch-backend/internal/config"
	"github.com/mediseek/medisearch-backend/internal/service/search"
	"github.com/mediseek/medisearch-backend/internal/transport/middleware"
	"github.com/mediseek/medisearch-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, initializes
// the logger, wires the upstream provider into the search service, and
// serves the REST API until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("upstream", cfg.Upstream.Endpoint),
	)

	provider := kcd.NewProvider(cfg.Upstream, logger)
	searchSvc := search.NewService(logger, provider)

	searchHandler := rest.NewSearchHandler(searchSvc)
	healthHandler := rest.NewHealthHandler(BuildVersion())

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	defer limiter.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/diseases/search", searchHandler.Diseases)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.HandleFunc("GET /health", healthHandler.Health)

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
