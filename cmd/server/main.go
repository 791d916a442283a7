package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dcastano/cobranza-engine/internal/config"
	"github.com/dcastano/cobranza-engine/internal/handler"
	"github.com/dcastano/cobranza-engine/internal/mailer"
	"github.com/dcastano/cobranza-engine/internal/repository"
	"github.com/dcastano/cobranza-engine/internal/service"
	"github.com/dcastano/cobranza-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Initialize repositories
	debtRepo := repository.NewDebtRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	promiseRepo := repository.NewPromiseRepository(db)
	personRepo := repository.NewPersonRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	outboundRepo := repository.NewOutboundRepository(db)

	// Initialize services
	debtService := service.NewDebtService(debtRepo, paymentRepo, promiseRepo, personRepo, logger)
	alertService := service.NewAlertService(debtRepo, paymentRepo, promiseRepo, personRepo, logger)
	guard := service.NewDedupGuard(outboundRepo, redisClient, logger)
	sender := mailer.New(cfg.SMTP, logger)
	digestService := service.NewDigestService(alertService, templateRepo, settingsRepo, outboundRepo, guard, sender, logger)

	debtHandler := handler.NewDebtHandler(debtService)
	alertHandler := handler.NewAlertHandler(alertService)
	digestHandler := handler.NewDigestHandler(digestService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(debtHandler, alertHandler, digestHandler, healthHandler, logger)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func setupRoutes(
	debtHandler *handler.DebtHandler,
	alertHandler *handler.AlertHandler,
	digestHandler *handler.DigestHandler,
	healthHandler *handler.HealthHandler,
	logger *logrus.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1/workspaces/{workspaceId}").Subrouter()

	api.HandleFunc("/debts", debtHandler.Create).Methods("POST")
	api.HandleFunc("/debts", debtHandler.List).Methods("GET")
	api.HandleFunc("/debts/{debtId}", debtHandler.Get).Methods("GET")
	api.HandleFunc("/debts/{debtId}", debtHandler.Update).Methods("PUT")
	api.HandleFunc("/debts/{debtId}", debtHandler.Delete).Methods("DELETE")
	api.HandleFunc("/debts/{debtId}/payments", debtHandler.AddPayment).Methods("POST")
	api.HandleFunc("/debts/{debtId}/payments", debtHandler.ListPayments).Methods("GET")
	api.HandleFunc("/debts/{debtId}/promises", debtHandler.AddPromise).Methods("POST")

	api.HandleFunc("/alerts", alertHandler.Get).Methods("GET")

	api.HandleFunc("/digests/daily/run", digestHandler.RunDaily).Methods("POST")
	api.HandleFunc("/digests/weekly/run", digestHandler.RunWeekly).Methods("POST")
	api.HandleFunc("/digests/test", digestHandler.SendTest).Methods("POST")

	return router
}
