package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/caseyos/caseyos/config"
	"github.com/caseyos/caseyos/internal/database"
	"github.com/caseyos/caseyos/internal/domain"
	httpHandler "github.com/caseyos/caseyos/internal/http"
	"github.com/caseyos/caseyos/internal/http/middleware"
	"github.com/caseyos/caseyos/internal/repository"
	"github.com/caseyos/caseyos/internal/service"
	"github.com/caseyos/caseyos/pkg/cache"
	"github.com/caseyos/caseyos/pkg/logger"
	"github.com/caseyos/caseyos/pkg/ratelimiter"
)

// App wires configuration, storage, connectors, services, and handlers into
// one process. The same wiring serves the API and the worker; the worker
// just never calls Start.
type App struct {
	config *config.Config
	logger logger.Logger

	db     *sql.DB
	broker *ratelimiter.RedisCounterStore
	store  ratelimiter.CounterStore
	server *http.Server
	mux    *http.ServeMux

	connectors *domain.ConnectorRegistry

	taskService         *service.TaskService
	ingestService       *service.IngestService
	outcomeService      *service.OutcomeService
	approvalService     *service.ApprovalService
	orchestratorService *service.OrchestratorService
	executorService     *service.ExecutorService
	monitorService      *service.MonitorService
	notificationService *service.NotificationService
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config: cfg,
		logger: log,
		mux:    http.NewServeMux(),
	}
}

// Initialize connects storage, builds the connector registry, and wires
// every repository, service, and handler.
func (a *App) Initialize() error {
	if err := database.EnsureDatabaseExists(&a.config.Database); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	db, err := database.Connect(&a.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db

	if err := database.InitializeDatabase(db); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if a.config.Redis.BrokerURL != "" {
		broker, err := ratelimiter.NewRedisCounterStore(a.config.Redis.BrokerURL)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		a.broker = broker
		a.store = broker
	} else {
		a.logger.Warn("No BROKER_URL configured, using in-process counters")
		a.store = ratelimiter.NewMemoryCounterStore()
	}

	a.connectors = buildConnectors(&a.config.Connectors)

	// repositories
	taskRepo := repository.NewTaskRepository(db)
	signalRepo := repository.NewSignalRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	contactRepo := repository.NewContactRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	sendRecordRepo := repository.NewSendRecordRepository(db)
	queueRepo := repository.NewCommandQueueRepository(db)
	ruleRepo := repository.NewApprovalRuleRepository(db)
	recipientRepo := repository.NewApprovedRecipientRepository(db)
	approvalLogRepo := repository.NewApprovalLogRepository(db)
	outcomeRepo := repository.NewOutcomeRepository(db)
	failedTaskRepo := repository.NewFailedTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// seed the runtime gates from config so operators see one source of truth
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.seedGates(ctx, settingRepo); err != nil {
		return fmt.Errorf("failed to seed gate settings: %w", err)
	}

	statsCache := cache.NewInMemoryCache(time.Minute)

	limiter := ratelimiter.NewSendLimiter(a.store, ratelimiter.Policy{
		PerRecipientWeek: a.config.Sending.PerRecipientWeek,
		GlobalDay:        a.config.Sending.GlobalDay,
		WarmupDays:       a.config.Sending.WarmupDays,
		WarmupFactor:     a.config.Sending.WarmupFactor,
		WarmupStartAt:    a.config.Sending.WarmupStartAt,
	})

	// services
	a.outcomeService = service.NewOutcomeService(a.logger, outcomeRepo, contactRepo, recipientRepo, sendRecordRepo, statsCache)
	a.ingestService = service.NewIngestService(
		a.logger, signalRepo, workflowRepo, taskRepo, queueRepo, a.outcomeService,
		a.config.Security.WebhookSigningSecrets, a.config.Worker.BackpressureThreshold)
	a.approvalService = service.NewApprovalService(
		a.logger, ruleRepo, recipientRepo, approvalLogRepo, contactRepo, companyRepo, draftRepo, settingRepo,
		limiter, a.config.Sending.AllowRealSends)
	a.orchestratorService = service.NewOrchestratorService(
		a.logger, workflowRepo, signalRepo, contactRepo, companyRepo, draftRepo, queueRepo,
		settingRepo, outcomeRepo, a.connectors, a.approvalService)
	a.executorService = service.NewExecutorService(
		a.logger, draftRepo, sendRecordRepo, queueRepo, contactRepo, settingRepo, auditRepo, failedTaskRepo,
		a.connectors, limiter, a.store, a.config.Sending.AllowRealSends)
	a.monitorService = service.NewMonitorService(a.logger, queueRepo, workflowRepo, outcomeRepo, notificationRepo)
	a.notificationService = service.NewNotificationService(a.logger, notificationRepo)

	a.taskService = service.NewTaskService(a.logger, taskRepo, failedTaskRepo)
	a.taskService.RegisterProcessor(service.NewWorkflowTaskProcessor(a.orchestratorService))
	a.taskService.RegisterProcessor(service.NewSignalTaskProcessor(a.ingestService))
	a.taskService.RegisterProcessor(service.NewMonitorTaskProcessor(a.monitorService))
	a.taskService.RegisterProcessor(service.NewOutcomeDetectProcessor(a.outcomeService))
	a.taskService.RegisterProcessor(service.NewActionTaskProcessor(a.executorService, a.approvalService, queueRepo, draftRepo))

	// handlers
	auth := middleware.NewAdminAuth(a.config.Security.AdminToken)
	csrf := middleware.NewCSRF(a.config.Security.CSRFSecret)

	httpHandler.NewWebhookHandler(a.ingestService, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewHealthHandler(a.db, a.broker, a.connectors, a.logger).RegisterRoutes(a.mux)

	protected := http.NewServeMux()
	httpHandler.NewQueueHandler(queueRepo, a.executorService, auth, a.logger).RegisterRoutes(protected)
	httpHandler.NewDraftHandler(draftRepo, a.approvalService, a.executorService, auth, a.logger).RegisterRoutes(protected)
	httpHandler.NewOutcomeHandler(a.outcomeService, auth, a.logger).RegisterRoutes(protected)
	httpHandler.NewRuleHandler(ruleRepo, recipientRepo, auth, a.logger).RegisterRoutes(protected)
	httpHandler.NewAdminHandler(settingRepo, workflowRepo, auditRepo, auth, a.logger).RegisterRoutes(protected)
	httpHandler.NewNotificationHandler(a.notificationService, auth, a.logger).RegisterRoutes(protected)
	httpHandler.NewFailedTaskHandler(failedTaskRepo, a.taskService, auth, a.logger).RegisterRoutes(protected)
	httpHandler.NewAuditHandler(auditRepo, auth, a.logger).RegisterRoutes(protected)
	httpHandler.NewCSRFHandler(csrf, auth).RegisterRoutes(protected)

	a.mux.Handle("/api/", csrf.Protect()(protected))

	return nil
}

// seedGates writes the config-derived gate values only when the settings
// are absent, so runtime toggles survive restarts.
func (a *App) seedGates(ctx context.Context, settingRepo domain.SettingRepository) error {
	gates := map[string]bool{
		domain.SettingAutoApproveEnabled: a.config.Sending.AutoApproveEnabled,
		domain.SettingModeDraftOnly:      a.config.Sending.ModeDraftOnly,
		domain.SettingAllowRealSends:     a.config.Sending.AllowRealSends,
	}
	for key, value := range gates {
		if _, err := settingRepo.Get(ctx, key); err == nil {
			continue
		}
		if err := settingRepo.SetBool(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// buildConnectors assembles the registry from config. Unconfigured
// connectors still get a client; their calls fail with classified errors
// that surface on /health/dependencies.
func buildConnectors(cfg *config.ConnectorsConfig) *domain.ConnectorRegistry {
	var email domain.EmailConnector
	switch cfg.EmailProvider {
	case "smtp":
		email = domain.NewSMTPEmailConnector(domain.SMTPSettings{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			UseTLS:    cfg.SMTPUseTLS,
			FromEmail: cfg.SMTPFromEmail,
			FromName:  cfg.SMTPFromName,
		})
	case "ses":
		sesConnector, err := domain.NewSESEmailConnector(domain.SESSettings{
			Region:    cfg.SESRegion,
			AccessKey: cfg.SESAccessKey,
			SecretKey: cfg.SESSecretKey,
			FromEmail: cfg.SESFromEmail,
		})
		if err != nil {
			// fall back to the mailbox API client; health reporting will
			// show the misconfiguration on first use
			email = domain.NewHTTPEmailConnector(cfg.EmailAPIURL, cfg.EmailAPIKey)
		} else {
			email = sesConnector
		}
	default:
		email = domain.NewHTTPEmailConnector(cfg.EmailAPIURL, cfg.EmailAPIKey)
	}

	return domain.NewConnectorRegistry(
		email,
		domain.NewHTTPCRMConnector(cfg.CRMAPIURL, cfg.CRMAPIKey),
		domain.NewHTTPCalendarConnector(cfg.CalendarAPIURL, cfg.CalendarAPIKey, cfg.CalendarIDs),
		domain.NewHTTPAssetConnector(cfg.AssetsAPIURL, cfg.AssetsAPIKey),
		domain.NewAnthropicConnector(cfg.AnthropicAPIKey),
	)
}

// Start serves the API until the context is cancelled, then shuts down
// gracefully.
func (a *App) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      a.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("addr", addr).Info("API server listening")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	}
}

// RunWorker polls the tasks table and fires the periodic beats: the monitor
// scan and outcome detection every minute, dead letter retries every five.
func (a *App) RunWorker(ctx context.Context) error {
	poll := time.NewTicker(a.config.Worker.PollInterval)
	beat := time.NewTicker(time.Minute)
	dlqBeat := time.NewTicker(5 * time.Minute)
	defer poll.Stop()
	defer beat.Stop()
	defer dlqBeat.Stop()

	a.logger.WithField("poll_interval", a.config.Worker.PollInterval.String()).Info("Worker started")

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Worker stopping")
			return nil

		case <-poll.C:
			if err := a.taskService.ExecutePendingTasks(ctx, a.config.Worker.BatchSize); err != nil {
				a.logger.WithField("error", err.Error()).Error("Task batch execution failed")
			}

		case <-beat.C:
			if _, err := a.taskService.Enqueue(ctx, domain.TaskMonitorScan, nil); err != nil {
				a.logger.WithField("error", err.Error()).Error("Failed to enqueue monitor scan")
			}
			if _, err := a.taskService.Enqueue(ctx, domain.TaskDetectOutcomes, nil); err != nil {
				a.logger.WithField("error", err.Error()).Error("Failed to enqueue outcome detection")
			}

		case <-dlqBeat.C:
			if err := a.taskService.RetryFailedTasks(ctx, time.Now().UTC(), 20); err != nil {
				a.logger.WithField("error", err.Error()).Error("Dead letter retry sweep failed")
			}
		}
	}
}

// Shutdown stops the HTTP server and closes storage connections.
func (a *App) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return err
		}
	}
	a.logger.Info("Shutdown complete")
	return nil
}

// Mux exposes the router for tests.
func (a *App) Mux() *http.ServeMux {
	return a.mux
}
