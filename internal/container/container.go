// Package container wires the application's components together with
// ordered initialization and reverse-order teardown.
package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/avenford/workflow-backend/internal/application/port"
	"github.com/avenford/workflow-backend/internal/application/service"
	"github.com/avenford/workflow-backend/internal/config"
	"github.com/avenford/workflow-backend/internal/infrastructure/email"
	"github.com/avenford/workflow-backend/internal/infrastructure/persistence/repository"
	"github.com/avenford/workflow-backend/internal/infrastructure/persistence/sqlite"
	"github.com/avenford/workflow-backend/internal/infrastructure/storage"
	"github.com/avenford/workflow-backend/internal/infrastructure/worker"
	httpserver "github.com/avenford/workflow-backend/internal/interfaces/http"
	"github.com/avenford/workflow-backend/pkg/database"
)

// Container manages all application dependencies and lifecycle.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure - Data
	db             *database.DB
	transactionMgr *sqlite.DB
	submissionRepo port.SubmissionRepository

	// Infrastructure - External
	objectStore port.ObjectStore
	emailSender port.EmailSender

	// Application
	notificationService service.NotificationService
	submissionService   service.SubmissionService
	workflowService     service.WorkflowService
	exportService       service.ExportService

	// Workers
	notificationWorker *worker.NotificationWorker
	workers            *worker.Manager

	// Interfaces
	httpServer *httpserver.Server

	// Lifecycle
	mu     sync.Mutex
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// NewContainer creates a new container from configuration.
// It does not initialize components; call Start to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and begins processing.
// Components are initialized in dependency order:
// 1. Database and repository
// 2. Object storage and email transport
// 3. Application services
// 4. Workers
// 5. HTTP server
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	var runCtx context.Context
	runCtx, c.cancel = context.WithCancel(ctx)

	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	if err := c.initExternal(runCtx); err != nil {
		return fmt.Errorf("failed to initialize external clients: %w", err)
	}
	c.logger.Info("Storage and email transport initialized")

	c.initServices()
	c.logger.Info("Application services initialized")

	if err := c.initWorkers(runCtx); err != nil {
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized and started")

	c.initHTTPServer()

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Stop(); err != nil {
			c.logger.Error("Failed to stop HTTP server", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop http server: %w", err))
		}
	}

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
	}

	if c.cancel != nil {
		c.cancel()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// HTTPServer returns the container's HTTP server.
func (c *Container) HTTPServer() *httpserver.Server {
	return c.httpServer
}

func (c *Container) initDatabase() error {
	db, err := database.New(database.Config{
		Path:            c.config.Database.Path,
		MaxOpenConns:    c.config.Database.MaxOpenConns,
		MaxIdleConns:    c.config.Database.MaxIdleConns,
		ConnMaxLifetime: c.config.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return err
	}
	c.db = db

	migrator := database.NewMigrator(db, c.logger)
	if err := migrator.RunMigrations(c.config.Database.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	c.transactionMgr = sqlite.NewDB(db.DB, c.logger)
	c.submissionRepo = repository.NewSubmissionRepository(db.DB, c.logger)
	return nil
}

func (c *Container) initExternal(ctx context.Context) error {
	switch c.config.Storage.Backend {
	case "s3":
		store, err := storage.NewS3Store(ctx, c.config.Storage.Bucket, c.config.Storage.BaseURL, c.logger)
		if err != nil {
			return fmt.Errorf("init s3 store: %w", err)
		}
		c.objectStore = store
	default:
		c.objectStore = storage.NewLocalStore(c.config.Storage.LocalDir, c.config.Storage.BaseURL, c.logger)
	}

	sender, err := email.NewSESSender(ctx, c.config.Email.SenderAddress, c.logger)
	if err != nil {
		return fmt.Errorf("init email sender: %w", err)
	}
	c.emailSender = sender
	return nil
}

func (c *Container) initServices() {
	serviceLogger := &zapLoggerAdapter{logger: c.logger}

	c.notificationService = service.NewNotificationService(
		c.emailSender,
		c.config.Email.SenderName,
		serviceLogger,
	)

	c.notificationWorker = worker.NewNotificationWorker(
		c.notificationService,
		c.config.Notifications.QueueSize,
		c.config.Notifications.SendTimeout,
		c.logger,
	)

	c.submissionService = service.NewSubmissionService(c.submissionRepo, c.objectStore, serviceLogger)
	c.workflowService = service.NewWorkflowService(
		c.submissionRepo,
		c.transactionMgr,
		c.notificationWorker,
		c.config.Workflow.StrictTransitions,
		serviceLogger,
	)
	c.exportService = service.NewExportService(c.submissionRepo, serviceLogger)
}

func (c *Container) initWorkers(ctx context.Context) error {
	c.workers = worker.NewManager(c.logger)
	c.workers.Register(c.notificationWorker)
	return c.workers.StartAll(ctx)
}

func (c *Container) initHTTPServer() {
	c.httpServer = httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         c.config.Server.Host,
			Port:         c.config.Server.Port,
			ReadTimeout:  c.config.Server.ReadTimeout,
			WriteTimeout: c.config.Server.WriteTimeout,
		},
		c.submissionService,
		c.workflowService,
		c.exportService,
		&zapLoggerAdapter{logger: c.logger},
	)
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
