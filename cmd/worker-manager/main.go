// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"portfolio-scoring-workers/internal/common/aws"
	"portfolio-scoring-workers/internal/common/camunda"
	"portfolio-scoring-workers/internal/common/config"
	"portfolio-scoring-workers/internal/common/database"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/observability"
	"portfolio-scoring-workers/internal/common/zoho"
	"portfolio-scoring-workers/pkg/registry"

	// Lead Workers (3)
	clp "portfolio-scoring-workers/internal/workers/leads/check-lead-priority"
	cls "portfolio-scoring-workers/internal/workers/leads/crm-lead-sync"
	sps "portfolio-scoring-workers/internal/workers/leads/send-portfolio-summary"

	// Portfolio Workers (4)
	ipc "portfolio-scoring-workers/internal/workers/portfolio/index-portfolio-candidates"
	pps "portfolio-scoring-workers/internal/workers/portfolio/persist-portfolio-score"
	sp "portfolio-scoring-workers/internal/workers/portfolio/score-portfolio"
	vpi "portfolio-scoring-workers/internal/workers/portfolio/validate-portfolio-items"
)

var infraRetry = &camunda.RetryConfig{
	MaxAttempts: 15,
	BaseDelay:   2 * time.Second,
	MaxDelay:    30 * time.Second,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := camunda.Retry(ctx, infraRetry, "postgres connection", log, pg.Ping); err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch init failed", zap.Error(err))
	}
	if err := camunda.Retry(ctx, infraRetry, "elasticsearch connection", log, esClient.Ping); err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if err := esClient.EnsureIndex(ctx, cfg.Scoring.CandidateIndex, database.CandidateIndexMapping); err != nil {
		zapLog.Fatal("elasticsearch index setup failed", zap.Error(err), zap.String("index", cfg.Scoring.CandidateIndex))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	redis := database.NewRedis(cfg.Database.Redis)
	defer redis.Close()
	if err := camunda.Retry(ctx, infraRetry, "redis connection", log, redis.Ping); err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("Redis connected successfully")

	// --- External Service Clients ---
	zohoClient := zoho.NewCRMClient(
		cfg.Integrations.Zoho.APIURL,
		cfg.Integrations.Zoho.AuthToken,
		config.GetDuration(cfg.Integrations.Zoho.Timeout),
	)
	if !zohoClient.Configured() {
		zapLog.Warn("Zoho CRM credentials missing, crm-lead-sync jobs will fail with CRM_NOT_CONFIGURED")
	}

	emailSender, smsSender := notificationSenders(ctx, cfg, zapLog)

	zapLog.Info("All external service clients initialized")

	// --- Register Workers ---
	registrar := camunda.NewRegistrar(zeebe.Zeebe(), obs, log)
	var crmHandler *cls.Handler

	// --- 1. Portfolio Workers (4) ---
	if config.IsWorkerEnabled(cfg, vpi.TaskType) {
		handler := vpi.NewHandler(vpi.LoadConfig(cfg), log)
		registrar.Register(vpi.TaskType, config.GetWorkerConfig(cfg, vpi.TaskType), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, sp.TaskType) {
		handler := sp.NewHandler(sp.LoadConfig(cfg), log)
		registrar.Register(sp.TaskType, config.GetWorkerConfig(cfg, sp.TaskType), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, pps.TaskType) {
		handler := pps.NewHandler(pps.LoadConfig(cfg), pg.DB, redis.Client, log)
		registrar.Register(pps.TaskType, config.GetWorkerConfig(cfg, pps.TaskType), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, ipc.TaskType) {
		handler := ipc.NewHandler(ipc.LoadConfig(cfg), esClient.Client, log)
		registrar.Register(ipc.TaskType, config.GetWorkerConfig(cfg, ipc.TaskType), handler.Handle)
	}

	// --- 2. Lead Workers (3) ---
	if config.IsWorkerEnabled(cfg, clp.TaskType) {
		handler := clp.NewHandler(clp.LoadConfig(cfg), log)
		registrar.Register(clp.TaskType, config.GetWorkerConfig(cfg, clp.TaskType), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, cls.TaskType) {
		handler, err := cls.NewHandler(cls.HandlerOptions{
			AppConfig: cfg,
			Zoho:      zohoClient,
			Redis:     redis.Client,
			Logger:    log,
		})
		if err != nil {
			zapLog.Fatal("failed to create crm-lead-sync handler", zap.Error(err))
		}
		crmHandler = handler
		registrar.Register(cls.TaskType, config.GetWorkerConfig(cfg, cls.TaskType), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, sps.TaskType) {
		handler, err := sps.NewHandler(sps.HandlerOptions{
			AppConfig: cfg,
			Email:     emailSender,
			SMS:       smsSender,
			Logger:    log,
		})
		if err != nil {
			zapLog.Fatal("failed to create send-portfolio-summary handler", zap.Error(err))
		}
		registrar.Register(sps.TaskType, config.GetWorkerConfig(cfg, sps.TaskType), handler.Handle)
	}

	started := registrar.Started()
	zapLog.Info("Workers registered", zap.Int("count", len(started)), zap.Strings("taskTypes", started))
	checkRegistry(cfg, started, zapLog)

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr: cfg.App.HTTPAddress,
		Handler: newServeMux(readinessChecks{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"elasticsearch": esClient.Ping,
			"redis":         redis.Ping,
		}, crmHandler, started),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	registrar.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping meter provider", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

func workerTimeout(cfg *config.Config, taskType string) time.Duration {
	return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
}

// notificationSenders builds the SES and SNS clients the summary worker
// needs. A channel whose client cannot be built is left nil and skipped.
func notificationSenders(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (sps.EmailSender, sps.SMSSender) {
	awsCfg := cfg.Integrations.AWS
	if !awsCfg.SES.Enabled && !awsCfg.SNS.Enabled {
		return nil, nil
	}

	sdkCfg, err := aws.LoadConfig(ctx, awsCfg.Region)
	if err != nil {
		zapLog.Warn("AWS config unavailable, notifications disabled", zap.Error(err))
		return nil, nil
	}

	var email sps.EmailSender
	var sms sps.SMSSender
	if awsCfg.SES.Enabled {
		from := cfg.Notifications.Email.FromEmail
		if from == "" {
			from = awsCfg.SES.FromEmail
		}
		email = aws.NewSESClient(sdkCfg, from)
	}
	if awsCfg.SNS.Enabled {
		sms = aws.NewSNSClient(sdkCfg, awsCfg.SNS.DefaultSMSSenderID)
	}
	return email, sms
}

func checkRegistry(cfg *config.Config, started []string, zapLog *zap.Logger) {
	path := cfg.Registry.Path
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		zapLog.Warn("Activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		zapLog.Warn("Activity registry invalid", zap.String("path", path), zap.Error(err))
	}
	if missing := reg.Missing(started); len(missing) > 0 {
		zapLog.Warn("Workers missing from activity registry", zap.Strings("taskTypes", missing))
	}
	for _, taskType := range started {
		activity, ok := reg.FindByTaskType(taskType)
		if !ok {
			continue
		}
		want, err := activity.TimeoutDuration()
		if err != nil || want == 0 {
			continue
		}
		if got := workerTimeout(cfg, taskType); got != want {
			zapLog.Warn("Worker timeout differs from activity registry",
				zap.String("taskType", taskType),
				zap.Duration("configured", got),
				zap.Duration("registry", want),
			)
		}
	}
}
