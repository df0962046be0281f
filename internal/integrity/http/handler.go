// Package http provides HTTP handlers for tenant isolation and recovery operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	apperrors "github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/httputil"
	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/http/dto"
	integrityService "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/service"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/isolation"
	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
	customValidation "github.com/MASITH-developpement/Azalscore-sub013/internal/validation"
)

// IntegrityHandler exposes the operator surface for isolation inspection,
// on-demand integrity checks, and recovery triggering.
type IntegrityHandler struct {
	registry        *isolation.Registry
	recoveryUseCase recoveryUsecase.RecoveryUseCase
	storage         recoveryUsecase.StorageHandle
	detector        *integrityService.CorruptionDetector
	checker         integrityService.IntegrityChecker
	autoRecover     bool
	logger          *slog.Logger
}

// NewIntegrityHandler creates a new integrity handler with required dependencies.
func NewIntegrityHandler(
	registry *isolation.Registry,
	recoveryUseCase recoveryUsecase.RecoveryUseCase,
	storage recoveryUsecase.StorageHandle,
	detector *integrityService.CorruptionDetector,
	checker integrityService.IntegrityChecker,
	autoRecover bool,
	logger *slog.Logger,
) *IntegrityHandler {
	return &IntegrityHandler{
		registry:        registry,
		recoveryUseCase: recoveryUseCase,
		storage:         storage,
		detector:        detector,
		checker:         checker,
		autoRecover:     autoRecover,
		logger:          logger,
	}
}

// RegisterRoutes mounts the isolation and recovery routes on the given group.
func (h *IntegrityHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/isolation", h.ListIsolatedHandler)
	group.DELETE("/isolation/:tenant_id", h.ReleaseIsolationHandler)
	group.POST("/tenants/:tenant_id/integrity-check", h.IntegrityCheckHandler)
	group.POST("/tenants/:tenant_id/recovery", h.TriggerRecoveryHandler)
	group.POST("/tenants/:tenant_id/recovery/continue", h.ContinueRecoveryHandler)
}

func (h *IntegrityHandler) validTenantID(c *gin.Context) (string, bool) {
	id := c.Param("tenant_id")
	if err := customValidation.TenantID.Validate(id); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid tenant_id: %w", err), h.logger)
		return "", false
	}
	return id, true
}

// ListIsolatedHandler returns currently isolated tenants, paginated with
// offset and limit query parameters.
// GET /v1/isolation
func (h *IntegrityHandler) ListIsolatedHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	snapshot := h.registry.ListIsolated()

	records := make([]isolation.Record, 0, len(snapshot))
	for _, record := range snapshot {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].TenantID < records[j].TenantID
	})

	total := len(records)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, dto.NewIsolationListResponse(records[offset:end], total))
}

// ReleaseIsolationHandler releases a tenant from isolation after operator review.
// DELETE /v1/isolation/:tenant_id
func (h *IntegrityHandler) ReleaseIsolationHandler(c *gin.Context) {
	tenantID, ok := h.validTenantID(c)
	if !ok {
		return
	}

	if !h.registry.IsIsolated(tenantID) {
		httputil.HandleErrorGin(c, apperrors.Wrapf(apperrors.ErrNotFound, "tenant %s is not isolated", tenantID), h.logger)
		return
	}

	h.registry.Release(tenantID)
	h.logger.Info("tenant isolation released by operator",
		slog.String("tenant_id", tenantID),
	)
	c.Status(http.StatusNoContent)
}

// IntegrityCheckHandler runs the full integrity sweep for one tenant and
// returns any corruption reports without triggering recovery.
// POST /v1/tenants/:tenant_id/integrity-check
func (h *IntegrityHandler) IntegrityCheckHandler(c *gin.Context) {
	tenantID, ok := h.validTenantID(c)
	if !ok {
		return
	}

	reports, err := h.detector.RunIntegrityCheck(c.Request.Context(), tenantID, h.checker)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.IntegrityCheckResponse{
		TenantID: tenantID,
		Clean:    len(reports) == 0,
		Reports:  make([]dto.CorruptionReportResponse, 0, len(reports)),
	}
	for _, report := range reports {
		response.Reports = append(response.Reports, dto.NewCorruptionReportResponse(report))
	}

	c.JSON(http.StatusOK, response)
}

// TriggerRecoveryHandler reports corruption for a tenant. The tenant is
// isolated immediately; recovery runs in the same request when auto-recovery
// applies, otherwise the attempt stays pending for a later continue call.
// POST /v1/tenants/:tenant_id/recovery
func (h *IntegrityHandler) TriggerRecoveryHandler(c *gin.Context) {
	tenantID, ok := h.validTenantID(c)
	if !ok {
		return
	}

	var req dto.TriggerRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	severity := integrityDomain.Severity(req.Severity)
	if severity == "" {
		severity = integrityDomain.SeverityHigh
	}
	report := integrityDomain.NewCorruptionReport(
		tenantID,
		integrityDomain.CorruptionKind(req.Kind),
		severity,
		req.Details,
		req.AffectedTables...,
	)

	autoRecover := h.autoRecover
	if req.AutoRecover != nil {
		autoRecover = *req.AutoRecover
	}

	recovery, err := h.recoveryUseCase.HandleCorruption(c.Request.Context(), report, h.storage, autoRecover)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	status := http.StatusOK
	if recovery.Status == integrityDomain.RecoveryPending {
		status = http.StatusAccepted
	}
	c.JSON(status, dto.NewRecoveryReportResponse(recovery))
}

// ContinueRecoveryHandler resumes recovery for a tenant whose corruption was
// reported without auto-recovery.
// POST /v1/tenants/:tenant_id/recovery/continue
func (h *IntegrityHandler) ContinueRecoveryHandler(c *gin.Context) {
	tenantID, ok := h.validTenantID(c)
	if !ok {
		return
	}

	if !h.registry.IsIsolated(tenantID) {
		httputil.HandleErrorGin(c, apperrors.Wrapf(apperrors.ErrNotFound, "tenant %s has no pending recovery", tenantID), h.logger)
		return
	}

	var req dto.TriggerRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	severity := integrityDomain.Severity(req.Severity)
	if severity == "" {
		severity = integrityDomain.SeverityHigh
	}
	report := integrityDomain.NewCorruptionReport(
		tenantID,
		integrityDomain.CorruptionKind(req.Kind),
		severity,
		req.Details,
		req.AffectedTables...,
	)

	recovery, err := h.recoveryUseCase.ContinueRecovery(c.Request.Context(), report, h.storage)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecoveryReportResponse(recovery))
}
