package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sixpillars/internal/cache"
	"sixpillars/internal/catalog"
	"sixpillars/internal/config"
	"sixpillars/internal/db"
	"sixpillars/internal/handlers"
	"sixpillars/internal/logging"
	mw "sixpillars/internal/middleware"
	"sixpillars/internal/services"
	"sixpillars/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logging.New(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	dbConn, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open db", zap.Error(err))
		os.Exit(1)
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		logger.Error("failed to ping db", zap.Error(err))
		os.Exit(1)
	}
	if err := db.RunMigrations(dbConn); err != nil {
		logger.Error("failed migrations", zap.Error(err))
		os.Exit(1)
	}

	cat, err := catalog.Load(dbConn)
	if err != nil {
		logger.Error("failed to load category catalog", zap.Error(err))
		os.Exit(1)
	}

	st := store.New(dbConn)
	statsCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)

	streakEngine := services.NewStreakEngine(dbConn, st, st, logger)
	statsSvc := services.NewStatsService(st, st, statsCache, cfg.StatsCacheTTL, logger)
	checkinSvc := services.NewCheckinService(dbConn, cat, st, streakEngine, statsSvc, st, logger)
	dashboardSvc := services.NewDashboardService(st, st)
	reconciler := services.NewReconciler(st, streakEngine, cfg.ReconcileInterval, cfg.ReconcileBatch, logger)

	authHandler := handlers.NewAuthHandler(dbConn, []byte(cfg.JWTSecret))
	userHandler := handlers.NewUserHandler(dbConn)
	checkinHandler := handlers.NewCheckinHandler(checkinSvc, cat)
	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc)
	statsHandler := handlers.NewStatsHandler(statsSvc, st)
	categoriesHandler := handlers.NewCategoriesHandler(cat)
	authMW := mw.NewAuthMiddleware([]byte(cfg.JWTSecret))
	limiter := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.ZapRequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(limiter.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbConn.PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/me", userHandler.GetMe)
			pr.Put("/me", userHandler.UpdateMe)
			pr.Get("/categories", categoriesHandler.List)
			pr.Put("/checkins", checkinHandler.Upsert)
			pr.Delete("/checkins/{categorySlug}/{day}", checkinHandler.Delete)
			pr.Get("/dashboard", dashboardHandler.Get)
			pr.Get("/stats/daily", statsHandler.GetDaily)
		})
	})

	bgCtx, bgCancel := context.WithCancel(context.Background())
	go reconciler.Run(bgCtx)
	go limiter.Sweep(bgCtx)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	bgCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("server stopped")
}
