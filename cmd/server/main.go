package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foundry/internal/events"
	"foundry/internal/identity"
	"foundry/internal/job"
	jwttoken "foundry/internal/jwt_token"
	"foundry/internal/media"
	"foundry/internal/platform/config"
	"foundry/internal/platform/httpserver"
	"foundry/internal/platform/logger"
	"foundry/internal/platform/metrics"
	"foundry/internal/platform/postgres"
	platformredis "foundry/internal/platform/redis"
	"foundry/internal/ratelimit"
	"foundry/internal/review"
	startuphandler "foundry/internal/startup/handler"
	startupservice "foundry/internal/startup/service"
	categorystore "foundry/internal/startup/store/category"
	startupstore "foundry/internal/startup/store/startup"
	"foundry/internal/stats"
	httptransport "foundry/internal/transport/http"
	"foundry/internal/view"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal domain packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Domain events go to Kafka when brokers are configured, otherwise to
	// an in-process sink. Services see the same Publisher either way.
	var publisher events.Publisher = events.NewInMemoryPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err := events.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaPub.Close()

		async, worker := events.NewAsyncPair(kafkaPub, 256)
		publisher = async
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("event worker stopped", "error", err)
			}
		}()
		log.Info("kafka event publisher enabled", "topic", cfg.Kafka.Topic)
	}

	// Store selection: Postgres when DATABASE_URL is set, in-memory
	// otherwise so the binary runs standalone in development.
	var (
		userStore     identity.Store
		startupStore  startupservice.StartupStore
		categoryStore startupservice.CategoryStore
		reviewStore   review.Store
		viewStore     view.Store
		jobStore      job.Store
		statsStore    stats.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		userStore = identity.NewPostgres(db)
		startupStore = startupstore.NewPostgres(db)
		categoryStore = categorystore.NewPostgres(db)
		reviewStore = review.NewPostgres(db)
		viewStore = view.NewPostgres(db)
		jobStore = job.NewPostgres(db)
		statsStore = stats.NewPostgres(db)
		log.Info("postgres storage enabled")
	} else {
		users := identity.NewInMemoryStore()
		startups := startupstore.NewInMemoryStore()
		categories := categorystore.NewInMemoryStore()
		reviews := review.NewInMemoryStore(users)
		viewRows := view.NewInMemoryStore()
		jobs := job.NewInMemoryStore()

		userStore = users
		startupStore = startups
		categoryStore = categories
		reviewStore = reviews
		viewStore = viewRows
		jobStore = jobs
		statsStore = stats.NewInMemoryStore(reviews, viewRows, users, startups, jobs)
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Optional Redis marker store strengthens view dedup across
	// instances; without it dedup falls back to cookies plus row checks.
	var markerStore view.MarkerStore
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		markerStore = view.NewRedisMarkerStore(redisClient)
		log.Info("redis view markers enabled")
	}

	// Credential endpoints are throttled per IP. The counter lives in
	// Redis when available so the limit holds across instances.
	var limitStore ratelimit.Store = ratelimit.NewInMemoryStore()
	if redisClient != nil {
		limitStore = ratelimit.NewRedisStore(redisClient)
	}
	authLimiter := ratelimit.NewMiddleware(
		ratelimit.New(limitStore, ratelimit.DefaultLimit, ratelimit.DefaultWindow), log)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.TokenTTL)
	validator := jwttoken.NewJWTServiceAdapter(jwtService)

	identityService := identity.NewService(userStore, jwtService, publisher, m, log)
	startupService := startupservice.New(startupStore, categoryStore, publisher, m, log)
	reviewService := review.NewService(reviewStore, startupStore, review.NewVaderClassifier(), publisher, m, log)
	viewService := view.NewService(viewStore, markerStore, startupStore, publisher, m, log)
	jobService := job.NewService(jobStore, startupStore, log)
	statsService := stats.NewService(statsStore, startupStore, log)

	handlers := httptransport.Handlers{
		Identity: identity.NewHandler(identityService, log),
		Startup:  startuphandler.New(startupService, log),
		Review:   review.NewHandler(reviewService, log),
		View:     view.NewHandler(viewService, log),
		Job:      job.NewHandler(jobService, log),
		Stats:    stats.NewHandler(statsService, log),
	}

	if signer, err := media.NewSigner(media.Config{
		CloudName: cfg.Media.CloudName,
		APIKey:    cfg.Media.APIKey,
		APISecret: cfg.Media.APISecret,
	}); err == nil {
		handlers.Media = media.NewHandler(signer, log)
		log.Info("media upload signing enabled")
	} else {
		log.Warn("media upload signing disabled", "reason", err)
	}

	router := httptransport.NewRouter(handlers, validator, authLimiter, log)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
