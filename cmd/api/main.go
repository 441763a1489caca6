package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/engineers-ent/backend-nirman/internal/analytics"
	"github.com/engineers-ent/backend-nirman/internal/auth"
	"github.com/engineers-ent/backend-nirman/internal/catalog"
	"github.com/engineers-ent/backend-nirman/internal/common"
	"github.com/engineers-ent/backend-nirman/internal/config"
	"github.com/engineers-ent/backend-nirman/internal/content"
	"github.com/engineers-ent/backend-nirman/internal/customer"
	"github.com/engineers-ent/backend-nirman/internal/events"
	"github.com/engineers-ent/backend-nirman/internal/health"
	"github.com/engineers-ent/backend-nirman/internal/invoice"
	"github.com/engineers-ent/backend-nirman/internal/notify"
	"github.com/engineers-ent/backend-nirman/internal/obs"
	"github.com/engineers-ent/backend-nirman/internal/order"
	"github.com/engineers-ent/backend-nirman/internal/queue"
	"github.com/engineers-ent/backend-nirman/internal/ratelimit"
	"github.com/engineers-ent/backend-nirman/internal/store"
)

func main() {
	cfg := config.MustLoad()

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	obs.MustRegisterDomainMetrics("nirman", nil)
	httpMetrics := obs.NewHTTPMetrics("nirman", obs.ParseBucketsCSV(cfg.MetricsBuckets), nil)

	tracingEnabled := cfg.TracingEnabled
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "nirman-api",
			Endpoint:      cfg.TracingEndpoint,
			SamplingRatio: cfg.TracingSampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	if cfg.RunMigrations {
		if err := store.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()
	if err := db.Pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis metrics")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	taskClient, err := queue.NewClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("init task queue")
	}
	defer taskClient.Close()

	validate := validator.New()

	bus := &events.Bus{
		Store: db,
		Notifiers: []events.Notifier{
			&notify.Scheduler{Client: taskClient, Enabled: cfg.WebhookEnabled},
		},
	}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Store:  db,
		Cache:  catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		Events: bus,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := &catalog.Handler{Svc: catalogSvc}
	catalogAdmin := &catalog.AdminHandler{Svc: catalogSvc, Validate: validate}

	customerSvc := &customer.Service{Store: db, Events: bus}
	customerHandler := &customer.Handler{Svc: customerSvc, Validate: validate}

	orderSvc := &order.Service{
		Products:  db,
		Customers: db,
		Store:     db,
		Events:    bus,
		Logger:    &logger,
	}
	orderAdmin := &order.AdminHandler{Svc: orderSvc, Validate: validate}

	contentSvc := &content.Service{Store: db}
	contentHandler := &content.Handler{Svc: contentSvc}
	contentAdmin := &content.AdminHandler{Svc: contentSvc, Validate: validate}

	invoiceSvc := &invoice.Service{
		Orders:    orderSvc,
		Customers: customerSvc,
		Products:  db,
		Settings:  contentSvc,
	}
	invoiceHandler := &invoice.Handler{Svc: invoiceSvc}

	authSvc := &auth.Service{
		Store:  db,
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.AccessTokenTTL,
	}
	authHandler := &auth.Handler{Svc: authSvc, Validate: validate}

	analyticsSvc := &analytics.Service{Q: db, R: redisClient, TTL: time.Minute, DefaultRange: 30}
	analyticsHandler := &analytics.Handler{Svc: analyticsSvc}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	publicLimiter, err := ratelimit.Middleware(redisClient, cfg.RateLimitPublic)
	if err != nil {
		logger.Fatal().Err(err).Msg("init rate limiter")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.Handler{Checker: store.Health{Pool: db.Pool, Redis: redisClient}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Group(func(pub chi.Router) {
			pub.Use(publicLimiter)
			pub.Get("/categories", catalogHandler.Categories)
			pub.Get("/products", catalogHandler.Products)
			pub.Get("/products/{productId}", catalogHandler.ProductDetail)
			pub.Get("/products/{productId}/quote", catalogHandler.Quote)
			pub.Get("/blog", contentHandler.Posts)
			pub.Get("/blog/{id}", contentHandler.Post)
			pub.Get("/settings", contentHandler.PublicSettings)
			pub.Post("/auth/login", authHandler.Login)
		})

		v.Route("/admin", func(admin chi.Router) {
			admin.Use(authSvc.RequireAuth)

			admin.Get("/me", authHandler.Me)

			admin.Get("/products", catalogAdmin.List)
			admin.Post("/products", catalogAdmin.Create)
			admin.Get("/products/{productId}", catalogAdmin.Get)
			admin.Put("/products/{productId}", catalogAdmin.Update)
			admin.Delete("/products/{productId}", catalogAdmin.Delete)

			admin.Get("/customers", customerHandler.List)
			admin.Post("/customers", customerHandler.Create)
			admin.Get("/customers/{customerId}", customerHandler.Get)
			admin.Put("/customers/{customerId}", customerHandler.Update)
			admin.Delete("/customers/{customerId}", customerHandler.Delete)

			admin.With(idem.Middleware).Post("/orders", orderAdmin.Create)
			admin.Get("/orders", orderAdmin.List)
			admin.Get("/orders/{orderId}", orderAdmin.Get)
			admin.Patch("/orders/{orderId}/status", orderAdmin.PatchStatus)
			admin.Delete("/orders/{orderId}", orderAdmin.Delete)

			admin.Get("/invoices/{orderID}", invoiceHandler.Get)

			admin.Get("/blog", contentAdmin.ListPosts)
			admin.Post("/blog", contentAdmin.CreatePost)
			admin.Put("/blog/{id}", contentAdmin.UpdatePost)
			admin.Delete("/blog/{id}", contentAdmin.DeletePost)

			admin.Group(func(owner chi.Router) {
				owner.Use(auth.RequireAdmin)
				owner.Get("/settings", contentAdmin.Settings)
				owner.Put("/settings", contentAdmin.UpdateSettings)
				owner.Get("/analytics/overview", analyticsHandler.Overview)
				owner.Get("/analytics/sales", analyticsHandler.Sales)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
