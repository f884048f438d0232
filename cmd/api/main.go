package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/zatekoja/cafoodfinder/internal/adapters/providers/places"
	"github.com/zatekoja/cafoodfinder/internal/api/handlers"
	"github.com/zatekoja/cafoodfinder/internal/api/middleware"
	"github.com/zatekoja/cafoodfinder/internal/api/routes"
	"github.com/zatekoja/cafoodfinder/internal/application/services"
	"github.com/zatekoja/cafoodfinder/internal/infrastructure/observability"
	"github.com/zatekoja/cafoodfinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.Log.Level)
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics(nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	provider, err := places.NewFromConfig(cfg.Places)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize places provider")
	}
	logger.Info().Str("provider", cfg.Places.Provider).Msg("places provider initialized")

	searchService := services.NewFoodSearchServiceFromProvider(provider)
	searchHandler := handlers.NewSearchHandler(searchService)

	router := routes.NewRouter(
		searchHandler,
		middleware.NewLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst),
		metrics,
		routes.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			MetricsEnabled: cfg.Metrics.Enabled,
		},
	)

	// WriteTimeout must cover a full search including pagination delays
	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("server shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
	}

	logger.Info().Msg("server stopped")
}
