package commands

import (
	"context"
	"fmt"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/app"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/config"
	customValidation "github.com/MASITH-developpement/Azalscore-sub013/internal/validation"
)

// RunCreateTenant provisions a fresh key-derivation salt for a new tenant.
func RunCreateTenant(ctx context.Context, tenantID string, io IOTuple) error {
	if err := customValidation.TenantID.Validate(tenantID); err != nil {
		return fmt.Errorf("invalid tenant_id: %w", err)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	saltUseCase, err := container.SaltUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize salt use case: %w", err)
	}

	salt, err := saltUseCase.CreateTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	fmt.Fprintf(io.Writer, "tenant %s created at %s\n", salt.TenantID, salt.CreatedAt.Format("2006-01-02T15:04:05Z"))
	return nil
}

// RunRotateTenantSalt rotates the tenant's salt. Ciphertext written under the
// old salt must be re-encrypted through the rotate-key API afterwards.
func RunRotateTenantSalt(ctx context.Context, tenantID string, io IOTuple) error {
	if err := customValidation.TenantID.Validate(tenantID); err != nil {
		return fmt.Errorf("invalid tenant_id: %w", err)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	saltUseCase, err := container.SaltUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize salt use case: %w", err)
	}

	if _, _, err := saltUseCase.RotateSalt(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to rotate salt: %w", err)
	}

	fmt.Fprintf(io.Writer, "salt rotated for tenant %s\n", tenantID)
	fmt.Fprintln(io.Writer, "existing ciphertext must be re-encrypted through the rotate-key endpoint")
	return nil
}
