package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	cryptoHTTP "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/http"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/http"
	integrityHTTP "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/http"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/metrics"
	tenantHTTP "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/http"
)

// HTTPServer returns the operational API server with all handlers mounted.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// initHTTPServer creates the HTTP server with middleware and handlers.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.EnableCORS(c.config.CORSEnabled, c.config.CORSAllowOrigins)

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		if provider != nil {
			server.Use(metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace))
		}
	}

	if c.config.RateLimitEnabled {
		server.Use(http.RateLimitMiddleware(
			c.config.RateLimitRequestsPerSec,
			c.config.RateLimitBurst,
			logger,
		))
	}

	cryptoUseCase, err := c.CryptoUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto use case for http server: %w", err)
	}

	saltUseCase, err := c.SaltUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get salt use case for http server: %w", err)
	}

	recoveryUseCase, err := c.RecoveryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get recovery use case for http server: %w", err)
	}

	storage, err := c.TenantStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant storage for http server: %w", err)
	}

	checker, err := c.IntegrityChecker()
	if err != nil {
		return nil, fmt.Errorf("failed to get integrity checker for http server: %w", err)
	}

	// Isolation refusal guards the data plane only. The operator surface
	// (isolation release, recovery trigger and continue) must stay reachable
	// while a tenant is isolated.
	server.RegisterGuardedRoutes(
		[]gin.HandlerFunc{http.TenantIsolationMiddleware(c.IsolationRegistry(), logger)},
		cryptoHTTP.NewCryptoHandler(cryptoUseCase, logger),
		tenantHTTP.NewTenantHandler(saltUseCase, logger),
	)
	server.RegisterRoutes(
		integrityHTTP.NewIntegrityHandler(
			c.IsolationRegistry(),
			recoveryUseCase,
			storage,
			c.CorruptionDetector(),
			checker,
			c.config.RecoveryAutoEnabled,
			logger,
		),
	)

	return server, nil
}
