package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	_ "github.com/tair/storefront/docs"
	"github.com/tair/storefront/internal/catalog/client"
	catalogHTTP "github.com/tair/storefront/internal/catalog/delivery/http"
	"github.com/tair/storefront/internal/config"
	"github.com/tair/storefront/internal/favorites"
	favoritesHTTP "github.com/tair/storefront/internal/favorites/delivery/http"
	"github.com/tair/storefront/internal/favorites/slot"
	"github.com/tair/storefront/internal/favorites/store"
	"github.com/tair/storefront/internal/favorites/usecase/command"
	"github.com/tair/storefront/internal/session"
	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/metrics"
	"github.com/tair/storefront/pkg/ratelimit"
	"github.com/tair/storefront/pkg/tracing"
)

const serviceVersion = "1.0.0"

func main() {
	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting storefront service")

	if err := run(cfg); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Storefront service stopped with error")
	}

	logger.Logger.Info().Msg("Storefront service stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.ServiceName, serviceVersion, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
				}
			}()
		}
	}

	// Open the favorites slot
	favSlot, err := slot.Open(ctx, cfg.Slot)
	if err != nil {
		return err
	}
	defer func() {
		if err := favSlot.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close favorites slot")
		}
	}()

	logger.Logger.Info().
		Str("slot", cfg.Slot.Kind).
		Msg("Favorites slot opened")

	favStore := store.New(favSlot)
	defer favStore.Close()

	publisher := newPublisher(cfg.KafkaBrokers)
	defer publisher.Close()

	httpMetrics := metrics.NewHTTPMetrics("storefront", prometheus.DefaultRegisterer)

	// Initialize favorites handlers with Wire DI
	favHandlers, err := favorites.InitializeHandlers(favStore, publisher, httpMetrics, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	catalogClient, err := client.NewClient(client.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
	})
	if err != nil {
		return err
	}
	catalogHandler := catalogHTTP.NewCatalogHandler(catalogClient, favHandlers.ListFavorites, httpMetrics)

	loginHandler := session.NewLoginHandler(
		session.NewAuthenticator(cfg.Login.Email, cfg.Login.Password),
		httpMetrics,
	)

	router := mux.NewRouter()
	favoritesHTTP.RegisterMiddlewares(router, favoritesHTTP.MiddlewareConfig{
		EnableLogging: true,
		EnableTracing: cfg.Tracing.Enabled,
	})

	if cfg.RateLimit.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
		defer redisClient.Close()

		router.Use(apiOnly(ratelimit.New(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window).Middleware))
		logger.Logger.Info().
			Int("max_requests", cfg.RateLimit.MaxRequests).
			Dur("window", cfg.RateLimit.Window).
			Msg("API rate limiting enabled")
	}

	favHandlers.HTTP.RegisterRoutes(router)
	favHandlers.HTTP.RegisterHealthCheck(router)
	catalogHandler.RegisterRoutes(router)
	loginHandler.RegisterRoutes(router)
	favoritesHTTP.RegisterSwaggerDocs(router, httpSwagger.WrapHandler)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Logger.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// apiOnly applies mw to /api/ routes only
func apiOnly(mw mux.MiddlewareFunc) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// eventPublisher is a favorites event publisher that must be closed on shutdown
type eventPublisher interface {
	command.EventPublisher
	Close() error
}

func newPublisher(brokers []string) eventPublisher {
	if len(brokers) == 0 {
		logger.Logger.Info().Msg("Kafka brokers not configured, favorite events disabled")
		return kafka.NopPublisher{}
	}

	publisher, err := kafka.NewPublisher(brokers)
	if err != nil {
		logger.Logger.Warn().Err(err).Strs("brokers", brokers).Msg("Failed to create Kafka publisher, favorite events disabled")
		return kafka.NopPublisher{}
	}

	logger.Logger.Info().Strs("brokers", brokers).Msg("Kafka publisher initialized")
	return publisher
}
