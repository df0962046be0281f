package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/MASITH-developpement/Azalscore-sub013/internal/validation"
)

// CreateTenantRequest contains the parameters for provisioning a tenant salt.
type CreateTenantRequest struct {
	TenantID string `json:"tenant_id"`
}

// Validate checks if the create tenant request is valid.
func (r *CreateTenantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TenantID,
			validation.Required,
			customValidation.TenantID,
		),
	)
}
