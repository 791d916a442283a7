package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/dcastano/cobranza-engine/internal/config"
	"github.com/dcastano/cobranza-engine/internal/mailer"
	"github.com/dcastano/cobranza-engine/internal/repository"
	"github.com/dcastano/cobranza-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.Info("Starting digest scheduler...")

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

	debtRepo := repository.NewDebtRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	promiseRepo := repository.NewPromiseRepository(db)
	personRepo := repository.NewPersonRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	outboundRepo := repository.NewOutboundRepository(db)

	alertService := service.NewAlertService(debtRepo, paymentRepo, promiseRepo, personRepo, logger)
	guard := service.NewDedupGuard(outboundRepo, redisClient, logger)
	sender := mailer.New(cfg.SMTP, logger)
	digestService := service.NewDigestService(alertService, templateRepo, settingsRepo, outboundRepo, guard, sender, logger)

	runner := &digestRunner{
		digests:  digestService,
		settings: settingsRepo,
		logger:   logger,
	}

	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc(cfg.Digest.DailyCron, runner.runDaily); err != nil {
		logger.Fatalf("Error scheduling daily digest job: %v", err)
	}
	if _, err := c.AddFunc(cfg.Digest.WeeklyCron, runner.runWeekly); err != nil {
		logger.Fatalf("Error scheduling weekly digest job: %v", err)
	}

	c.Start()
	logger.Info("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logger.Info("Scheduler stopped")
}

type digestRunner struct {
	digests  *service.DigestService
	settings repository.SettingsRepository
	logger   *logrus.Logger
}

// runDaily runs the daily digest for every workspace. A failing workspace is
// logged and the loop continues.
func (r *digestRunner) runDaily() {
	r.runAll("daily", func(ctx context.Context, workspaceID uuid.UUID) error {
		result, err := r.digests.RunDaily(ctx, workspaceID, time.Now())
		if err != nil {
			return err
		}
		sent, skipped, failed := result.Counts()
		r.logger.WithFields(logrus.Fields{
			"workspace_id": workspaceID,
			"sent":         sent,
			"skipped":      skipped,
			"failed":       failed,
		}).Info("daily digest run finished")
		return nil
	})
}

// runWeekly runs the weekly digest for every workspace.
func (r *digestRunner) runWeekly() {
	r.runAll("weekly", func(ctx context.Context, workspaceID uuid.UUID) error {
		result, err := r.digests.RunWeekly(ctx, workspaceID, time.Now())
		if err != nil {
			return err
		}
		sent, skipped, failed := result.Counts()
		r.logger.WithFields(logrus.Fields{
			"workspace_id": workspaceID,
			"sent":         sent,
			"skipped":      skipped,
			"failed":       failed,
		}).Info("weekly digest run finished")
		return nil
	})
}

func (r *digestRunner) runAll(name string, run func(context.Context, uuid.UUID) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	workspaceIDs, err := r.settings.ListWorkspaceIDs(ctx)
	if err != nil {
		r.logger.WithError(err).Errorf("listing workspaces for %s digest failed", name)
		return
	}

	for _, workspaceID := range workspaceIDs {
		if err := run(ctx, workspaceID); err != nil {
			r.logger.WithError(err).WithField("workspace_id", workspaceID).
				Errorf("%s digest run failed", name)
		}
	}
}
