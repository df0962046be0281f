package app

import (
	"context"
	"fmt"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/database"
	integrityService "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/service"
	recoveryRepository "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/repository"
	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
)

// CorruptionDetector returns the stateless corruption detector.
func (c *Container) CorruptionDetector() *integrityService.CorruptionDetector {
	c.detectorInit.Do(func() {
		c.detector = integrityService.NewCorruptionDetector()
	})
	return c.detector
}

// BackupService returns the filesystem-backed backup repository.
func (c *Container) BackupService() recoveryUsecase.BackupService {
	c.backupServiceInit.Do(func() {
		c.backupService = recoveryRepository.NewFilesystemBackupRepository(c.config.BackupDir, c.Logger())
	})
	return c.backupService
}

// TenantStorage returns the reintegration storage handle over the primary database.
func (c *Container) TenantStorage() (recoveryUsecase.StorageHandle, error) {
	var err error
	c.tenantStorageInit.Do(func() {
		c.tenantStorage, err = c.initTenantStorage()
		if err != nil {
			c.initErrors["tenantStorage"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantStorage"]; exists {
		return nil, storedErr
	}
	return c.tenantStorage, nil
}

// IntegrityChecker returns the SQL sweep checker over the configured targets.
func (c *Container) IntegrityChecker() (integrityService.IntegrityChecker, error) {
	var err error
	c.integrityCheckerInit.Do(func() {
		c.integrityChecker, err = c.initIntegrityChecker()
		if err != nil {
			c.initErrors["integrityChecker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["integrityChecker"]; exists {
		return nil, storedErr
	}
	return c.integrityChecker, nil
}

// RecoveryUseCase returns the recovery orchestrator wrapped with business metrics.
func (c *Container) RecoveryUseCase() (recoveryUsecase.RecoveryUseCase, error) {
	var err error
	c.recoveryUseCaseInit.Do(func() {
		c.recoveryUseCase, err = c.initRecoveryUseCase()
		if err != nil {
			c.initErrors["recoveryUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recoveryUseCase"]; exists {
		return nil, storedErr
	}
	return c.recoveryUseCase, nil
}

// initTenantStorage creates the tenant storage handle.
func (c *Container) initTenantStorage() (recoveryUsecase.StorageHandle, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant storage: %w", err)
	}
	return database.NewTenantStorage(db, c.config.DBDriver), nil
}

// initIntegrityChecker creates the SQL integrity checker with a tenant-scoped
// decryption closure over the encryption service.
func (c *Container) initIntegrityChecker() (integrityService.IntegrityChecker, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for integrity checker: %w", err)
	}

	targets, err := integrityService.ParseCheckTargets(c.config.IntegrityCheckTargets)
	if err != nil {
		return nil, fmt.Errorf("failed to parse integrity check targets: %w", err)
	}

	saltUseCase, err := c.SaltUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get salt use case for integrity checker: %w", err)
	}

	encryptor, err := c.Encryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor for integrity checker: %w", err)
	}

	decryptFor := func(ctx context.Context, tenantID string) (integrityService.DecryptFunc, error) {
		salt, err := saltUseCase.GetSalt(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to get salt for tenant %s: %w", tenantID, err)
		}
		return func(ciphertext string) ([]byte, error) {
			return encryptor.Decrypt(tenantID, salt, ciphertext)
		}, nil
	}

	return integrityService.NewSQLIntegrityChecker(
		db,
		c.config.DBDriver,
		targets,
		c.CorruptionDetector(),
		decryptFor,
		c.Logger(),
	), nil
}

// initRecoveryUseCase creates the recovery orchestrator with all its collaborators.
func (c *Container) initRecoveryUseCase() (recoveryUsecase.RecoveryUseCase, error) {
	saltUseCase, err := c.SaltUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get salt use case for recovery use case: %w", err)
	}

	encryptor, err := c.Encryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor for recovery use case: %w", err)
	}

	checker, err := c.IntegrityChecker()
	if err != nil {
		return nil, fmt.Errorf("failed to get integrity checker for recovery use case: %w", err)
	}

	useCase := recoveryUsecase.NewRecoveryUseCase(
		c.BackupService(),
		c.Alerter(),
		recoveryUsecase.NewRegistryIsolator(c.IsolationRegistry()),
		saltUseCase,
		encryptor,
		c.CorruptionDetector(),
		checker,
		c.Logger(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for recovery use case: %w", err)
	}

	return recoveryUsecase.NewRecoveryUseCaseWithMetrics(useCase, businessMetrics), nil
}
