// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/alerting"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/config"
	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
	cryptoService "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/service"
	cryptoUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/usecase"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/database"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/http"
	integrityService "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/service"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/isolation"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/metrics"
	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
	tenantUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Crypto
	kmsService   cryptoService.KMSService
	masterSecret *cryptoDomain.MasterSecret
	aeadManager  cryptoService.AEADManager
	keyDeriver   cryptoService.KeyDeriver
	cipherCache  cryptoService.CipherCache
	encryptor    cryptoService.Encryptor

	// Tenant
	saltRepository tenantUsecase.SaltRepository
	saltUseCase    tenantUsecase.SaltUseCase

	// Integrity and recovery
	isolationRegistry *isolation.Registry
	alerter           *alerting.SlogAlerter
	detector          *integrityService.CorruptionDetector
	integrityChecker  integrityService.IntegrityChecker
	backupService     recoveryUsecase.BackupService
	tenantStorage     recoveryUsecase.StorageHandle
	recoveryUseCase   recoveryUsecase.RecoveryUseCase

	// Use cases and servers
	cryptoUseCase cryptoUsecase.TenantCryptoUseCase
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	kmsServiceInit        sync.Once
	masterSecretInit      sync.Once
	aeadManagerInit       sync.Once
	keyDeriverInit        sync.Once
	cipherCacheInit       sync.Once
	encryptorInit         sync.Once
	saltRepositoryInit    sync.Once
	saltUseCaseInit       sync.Once
	isolationRegistryInit sync.Once
	alerterInit           sync.Once
	detectorInit          sync.Once
	integrityCheckerInit  sync.Once
	backupServiceInit     sync.Once
	tenantStorageInit     sync.Once
	recoveryUseCaseInit   sync.Once
	cryptoUseCaseInit     sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// IsolationRegistry returns the process-wide tenant isolation registry.
func (c *Container) IsolationRegistry() *isolation.Registry {
	c.isolationRegistryInit.Do(func() {
		c.isolationRegistry = isolation.NewRegistry(c.Logger())
	})
	return c.isolationRegistry
}

// Alerter returns the slog-backed alerter.
func (c *Container) Alerter() *alerting.SlogAlerter {
	c.alerterInit.Do(func() {
		c.alerter = alerting.NewSlogAlerter(c.Logger())
	})
	return c.alerter
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.masterSecret != nil {
		c.masterSecret.Close()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}
