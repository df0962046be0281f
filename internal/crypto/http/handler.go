// Package http provides HTTP handlers for tenant encryption operations.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/http/dto"
	cryptoUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/usecase"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/httputil"
	customValidation "github.com/MASITH-developpement/Azalscore-sub013/internal/validation"
)

// CryptoHandler handles HTTP requests for tenant encryption and decryption.
type CryptoHandler struct {
	cryptoUseCase cryptoUsecase.TenantCryptoUseCase
	logger        *slog.Logger
}

// NewCryptoHandler creates a new crypto handler with required dependencies.
func NewCryptoHandler(
	cryptoUseCase cryptoUsecase.TenantCryptoUseCase,
	logger *slog.Logger,
) *CryptoHandler {
	return &CryptoHandler{
		cryptoUseCase: cryptoUseCase,
		logger:        logger,
	}
}

// RegisterRoutes mounts the crypto routes on the given group.
func (h *CryptoHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/tenants/:tenant_id/encrypt", h.EncryptHandler)
	group.POST("/tenants/:tenant_id/decrypt", h.DecryptHandler)
	group.POST("/tenants/:tenant_id/verify", h.VerifyIntegrityHandler)
	group.POST("/tenants/:tenant_id/rotate-key", h.RotateKeyHandler)
}

// validTenantID extracts and validates the tenant ID path parameter.
func (h *CryptoHandler) validTenantID(c *gin.Context) (string, bool) {
	id := c.Param("tenant_id")
	if err := customValidation.TenantID.Validate(id); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid tenant_id: %w", err), h.logger)
		return "", false
	}
	return id, true
}

// EncryptHandler encrypts plaintext under the tenant's derived key.
// POST /v1/tenants/:tenant_id/encrypt
func (h *CryptoHandler) EncryptHandler(c *gin.Context) {
	tenantID, ok := h.validTenantID(c)
	if !ok {
		return
	}

	var req dto.EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := base64.StdEncoding.DecodeString(req.Plaintext)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 plaintext: %w", err), h.logger)
		return
	}

	ciphertext, err := h.cryptoUseCase.Encrypt(c.Request.Context(), tenantID, plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Ciphertext: ciphertext})
}

// DecryptHandler decrypts a ciphertext envelope for the tenant.
// POST /v1/tenants/:tenant_id/decrypt
func (h *CryptoHandler) DecryptHandler(c *gin.Context) {
	tenantID, ok := h.validTenantID(c)
	if !ok {
		return
	}

	var req dto.DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.cryptoUseCase.Decrypt(c.Request.Context(), tenantID, req.Ciphertext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptResponse{
		Plaintext: base64.StdEncoding.EncodeToString(plaintext),
	})
}

// VerifyIntegrityHandler checks whether a ciphertext authenticates without
// returning the plaintext.
// POST /v1/tenants/:tenant_id/verify
func (h *CryptoHandler) VerifyIntegrityHandler(c *gin.Context) {
	tenantID, ok := h.validTenantID(c)
	if !ok {
		return
	}

	var req dto.VerifyIntegrityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	valid, err := h.cryptoUseCase.VerifyIntegrity(c.Request.Context(), tenantID, req.Ciphertext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyIntegrityResponse{Valid: valid})
}

// RotateKeyHandler rotates the tenant's salt and re-encrypts the supplied
// ciphertexts under the new key.
// POST /v1/tenants/:tenant_id/rotate-key
func (h *CryptoHandler) RotateKeyHandler(c *gin.Context) {
	tenantID, ok := h.validTenantID(c)
	if !ok {
		return
	}

	var req dto.RotateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	rotated, err := h.cryptoUseCase.RotateTenantKey(c.Request.Context(), tenantID, req.Ciphertexts)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RotateKeyResponse{Ciphertexts: rotated})
}
