package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"debt-planner/config"
	"debt-planner/events"
	httpLayer "debt-planner/http"
	"debt-planner/recorder"
	"debt-planner/repository"
	"debt-planner/scheduler"
	"debt-planner/service"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Variables de entorno locales si hay un .env
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] .env cargado")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Repositorio de planes: PostgreSQL si hay DSN, memoria si no
	var planRepo repository.PlanRepository
	if cfg.Storage.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatalf("[FATAL] open postgres: %v", err)
		}
		defer db.Close()

		pgRepo, err := repository.NewPostgresPlanRepository(db)
		if err != nil {
			log.Fatalf("[FATAL] init postgres repository: %v", err)
		}
		planRepo = pgRepo
		log.Println("[INFO] plan repository: postgres")
	} else {
		planRepo = repository.NewPlanRepositoryMemory()
		log.Println("[INFO] plan repository: memory")
	}

	// Caché de planes: Redis si hay dirección configurada
	var cache repository.CacheRepository
	if cfg.Cache.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.Cache.RedisAddr)
		log.Printf("[INFO] plan cache: redis at %s", cfg.Cache.RedisAddr)
	} else {
		cache = repository.NewMockCache()
		log.Println("[INFO] plan cache: in-memory")
	}

	// Historial de corridas y snapshots de progreso
	var rec recorder.Recorder
	if cfg.Storage.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Publicador de eventos de planes generados
	var publisher events.Publisher
	if len(cfg.Events.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.Topic)
		publisher = kp
		defer kp.Close()
		log.Printf("[INFO] event publisher: kafka topic %s", cfg.Events.Topic)
	} else {
		publisher = events.NewNoopPublisher()
	}

	payoffService := service.NewPayoffService(planRepo, cache, rec, publisher)
	loanService := service.NewLoanService()
	extraPaymentService := service.NewExtraPaymentService()

	payoffHandler := httpLayer.NewPayoffHandler(payoffService)
	planHandler := httpLayer.NewPlanHandler(payoffService)
	loanHandler := httpLayer.NewLoanHandler(loanService)
	extraPaymentHandler := httpLayer.NewExtraPaymentHandler(extraPaymentService)

	sched := scheduler.NewScheduler(planRepo, rec, cfg.Schedule.RetentionDays)
	if err := sched.RegisterAll(cfg.Schedule.PurgeCron, cfg.Schedule.ProgressCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	rateLimiter := httpLayer.NewRateLimiter(
		cfg.Server.RateLimitRequests,
		time.Duration(cfg.Server.RateLimitWindow)*time.Second,
	)
	defer rateLimiter.Stop()

	mux := http.NewServeMux()
	mux.Handle(
		"POST /payoff/plan",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(payoffHandler.CalculatePayoffPlan),
		),
	)

	mux.Handle(
		"POST /payoff/compare",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(payoffHandler.ComparePayoffStrategies),
		),
	)

	mux.Handle(
		"POST /payoff/recommend-extra",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(extraPaymentHandler.RecommendExtraPayment),
		),
	)

	mux.Handle(
		"POST /loan/calculate",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(loanHandler.CalculateLoan),
		),
	)

	mux.HandleFunc("GET /payoff/plan", planHandler.GetPlan)
	mux.HandleFunc("GET /payoff/plans", planHandler.ListPlans)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 API corriendo en http://localhost%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
}
