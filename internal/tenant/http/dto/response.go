// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/domain"
)

// TenantResponse describes a provisioned tenant. The salt itself is never
// returned over HTTP.
type TenantResponse struct {
	TenantID  string     `json:"tenant_id"`
	CreatedAt time.Time  `json:"created_at"`
	RotatedAt *time.Time `json:"rotated_at,omitempty"`
}

// NewTenantResponse converts a domain salt record to its HTTP representation.
func NewTenantResponse(salt *domain.TenantSalt) TenantResponse {
	return TenantResponse{
		TenantID:  salt.TenantID,
		CreatedAt: salt.CreatedAt,
		RotatedAt: salt.RotatedAt,
	}
}

// RotateSaltResponse acknowledges a completed salt rotation.
type RotateSaltResponse struct {
	TenantID  string    `json:"tenant_id"`
	RotatedAt time.Time `json:"rotated_at"`
}

// TenantListResponse is the payload for listing known tenants.
type TenantListResponse struct {
	TenantIDs []string `json:"tenant_ids"`
	Count     int      `json:"count"`
}
