package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/inngest/inngestgo"
	"github.com/liubai-app/liubai/internal/config"
	"github.com/liubai-app/liubai/internal/handler"
	inngestfn "github.com/liubai-app/liubai/internal/inngest"
	"github.com/liubai-app/liubai/internal/logging"
	"github.com/liubai-app/liubai/internal/metrics"
	"github.com/liubai-app/liubai/internal/middleware"
	"github.com/liubai-app/liubai/internal/question"
	"github.com/liubai-app/liubai/internal/repository"
	"github.com/liubai-app/liubai/internal/service"
	"github.com/liubai-app/liubai/internal/timeutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	db, err := repository.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()
	if err := repository.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := service.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	cache := service.NewJSONCache(rdb, cfg.Redis.Prefix)
	var locker service.DayLocker = service.NewLocalDayLocker()
	if rdb != nil {
		defer rdb.Close()
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		}
		locker = service.NewRedisDayLocker(rdb, cfg.Redis.Prefix)
	} else {
		logger.Info("redis not configured, using in-process cache and day lock")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	inngestClient, err := inngestgo.NewClient(inngestgo.ClientOpts{AppID: cfg.Inngest.AppID})
	if err != nil {
		return fmt.Errorf("inngest client: %w", err)
	}

	gen, err := service.NewLLMGenerator(cfg.LLM)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepo(db)
	checkInRepo := repository.NewCheckInRepo(db)
	summaryRepo := repository.NewDailySummaryRepo(db)
	coachRepo := repository.NewCoachMessageRepo(db)

	zone := timeutil.NewZone(nil)
	engine := service.NewSummaryEngine(checkInRepo, summaryRepo, userRepo, locker, cache, logger.Named("summary"))
	checkIns := service.NewCheckInService(checkInRepo, engine, gen, cfg.LLM, logger.Named("checkin"),
		service.WithZone(zone),
		service.WithSelector(question.NewSelector(nil)),
		service.WithMetrics(m),
		service.WithEvents(service.NewEventPublisher(inngestClient)),
	)

	var mailer service.WeeklyReviewMailer
	if resend := service.NewResendClient(cfg.Resend, logger.Named("resend")); resend.Enabled() {
		mailer = resend
	}
	coach := service.NewCoachService(coachRepo, summaryRepo, userRepo, gen, mailer, logger.Named("coach"))
	jobs := inngestfn.NewJobs(userRepo, coach, inngestClient, zone, logger.Named("jobs"))
	inngestHandler, err := inngestfn.NewHandler(inngestClient, jobs)
	if err != nil {
		return err
	}

	internalH := handler.NewInternalHandler(userRepo)
	checkInH := handler.NewCheckInHandler(checkIns, logger.Named("http"))
	trendsH := handler.NewTrendsHandler(engine, zone, logger.Named("http"))
	settingsH := handler.NewSettingsHandler(userRepo)
	coachH := handler.NewCoachMessageHandler(coachRepo)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Mount("/api/inngest", inngestHandler)

	r.With(middleware.InternalSecret(cfg.Auth.InternalSecret)).
		Post("/api/internal/users/upsert", internalH.UpsertUser)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth))

		r.Route("/checkins", func(r chi.Router) {
			r.Get("/today", checkInH.Today)
			r.Post("/", checkInH.Create)
		})
		r.Get("/trends", trendsH.List)
		r.Get("/settings", settingsH.Get)
		r.Put("/settings", settingsH.Update)
		r.Put("/timezone", handler.SetTimezone)
		r.Get("/coach-messages", coachH.List)
	})

	logger.Info("api listening", zap.String("port", cfg.Server.Port))
	return http.ListenAndServe(":"+cfg.Server.Port, r)
}
