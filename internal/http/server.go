// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RouteRegistrar attaches a handler's routes to a router group.
type RouteRegistrar interface {
	RegisterRoutes(group *gin.RouterGroup)
}

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server with the base middleware stack.
// Handlers are attached afterwards through RegisterRoutes.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	server := &Server{
		router: router,
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	router.GET("/health", server.healthHandler)
	router.GET("/ready", server.readinessHandler)

	return server
}

// EnableCORS attaches the CORS middleware when enabled and origins are
// configured. Must be called before RegisterRoutes.
func (s *Server) EnableCORS(enabled bool, allowOrigins string) {
	if m := createCORSMiddleware(enabled, allowOrigins, s.logger); m != nil {
		s.router.Use(m)
	}
}

// Use appends middleware to the router. Must be called before RegisterRoutes.
func (s *Server) Use(middleware ...gin.HandlerFunc) {
	for _, m := range middleware {
		if m != nil {
			s.router.Use(m)
		}
	}
}

// RegisterRoutes mounts handlers under the versioned API prefix.
func (s *Server) RegisterRoutes(registrars ...RouteRegistrar) {
	s.RegisterGuardedRoutes(nil, registrars...)
}

// RegisterGuardedRoutes mounts handlers under the versioned API prefix with
// middleware that applies only to those handlers' routes. Routes registered
// through a separate RegisterRoutes call are not affected, so operator
// surfaces can stay outside guards that fence the data plane.
func (s *Server) RegisterGuardedRoutes(middleware []gin.HandlerFunc, registrars ...RouteRegistrar) {
	group := s.router.Group("/v1")
	for _, m := range middleware {
		if m != nil {
			group.Use(m)
		}
	}
	for _, registrar := range registrars {
		registrar.RegisterRoutes(group)
	}
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness including database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK
	overall := "ready"

	if s.db == nil {
		components["database"] = "error"
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		components["database"] = "error"
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	} else {
		components["database"] = "ok"
	}

	c.JSON(status, gin.H{"status": overall, "components": components})
}
