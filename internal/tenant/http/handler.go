// Package http provides HTTP handlers for tenant salt lifecycle operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/httputil"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/http/dto"
	tenantUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/usecase"
	customValidation "github.com/MASITH-developpement/Azalscore-sub013/internal/validation"
)

// TenantHandler handles HTTP requests for tenant provisioning and salt rotation.
type TenantHandler struct {
	saltUseCase tenantUsecase.SaltUseCase
	logger      *slog.Logger
}

// NewTenantHandler creates a new tenant handler with required dependencies.
func NewTenantHandler(saltUseCase tenantUsecase.SaltUseCase, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{
		saltUseCase: saltUseCase,
		logger:      logger,
	}
}

// RegisterRoutes mounts the tenant routes on the given group.
func (h *TenantHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/tenants", h.ListTenantsHandler)
	group.POST("/tenants", h.CreateTenantHandler)
	group.POST("/tenants/:tenant_id/salt/rotate", h.RotateSaltHandler)
}

// ListTenantsHandler enumerates all tenants with a provisioned salt.
// GET /v1/tenants
func (h *TenantHandler) ListTenantsHandler(c *gin.Context) {
	tenantIDs, err := h.saltUseCase.ListTenantIDs(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if tenantIDs == nil {
		tenantIDs = []string{}
	}

	c.JSON(http.StatusOK, dto.TenantListResponse{
		TenantIDs: tenantIDs,
		Count:     len(tenantIDs),
	})
}

// CreateTenantHandler provisions a fresh key-derivation salt for a new tenant.
// POST /v1/tenants
func (h *TenantHandler) CreateTenantHandler(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	salt, err := h.saltUseCase.CreateTenant(c.Request.Context(), req.TenantID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTenantResponse(salt))
}

// RotateSaltHandler rotates the tenant's salt. Existing ciphertext must be
// re-encrypted through the crypto rotate-key endpoint afterwards.
// POST /v1/tenants/:tenant_id/salt/rotate
func (h *TenantHandler) RotateSaltHandler(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	if err := customValidation.TenantID.Validate(tenantID); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid tenant_id: %w", err), h.logger)
		return
	}

	if _, _, err := h.saltUseCase.RotateSalt(c.Request.Context(), tenantID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RotateSaltResponse{
		TenantID:  tenantID,
		RotatedAt: time.Now().UTC(),
	})
}
