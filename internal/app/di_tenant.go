package app

import (
	"fmt"

	tenantRepository "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/repository"
	tenantUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/usecase"
)

// SaltRepository returns the tenant salt repository for the configured driver.
func (c *Container) SaltRepository() (tenantUsecase.SaltRepository, error) {
	var err error
	c.saltRepositoryInit.Do(func() {
		c.saltRepository, err = c.initSaltRepository()
		if err != nil {
			c.initErrors["saltRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["saltRepository"]; exists {
		return nil, storedErr
	}
	return c.saltRepository, nil
}

// SaltUseCase returns the tenant salt use case.
func (c *Container) SaltUseCase() (tenantUsecase.SaltUseCase, error) {
	var err error
	c.saltUseCaseInit.Do(func() {
		c.saltUseCase, err = c.initSaltUseCase()
		if err != nil {
			c.initErrors["saltUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["saltUseCase"]; exists {
		return nil, storedErr
	}
	return c.saltUseCase, nil
}

// initSaltRepository creates the salt repository based on the database driver.
func (c *Container) initSaltRepository() (tenantUsecase.SaltRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for salt repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return tenantRepository.NewPostgreSQLSaltRepository(db), nil
	case "mysql":
		return tenantRepository.NewMySQLSaltRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSaltUseCase creates the salt use case with its dependencies.
func (c *Container) initSaltUseCase() (tenantUsecase.SaltUseCase, error) {
	repo, err := c.SaltRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get salt repository for salt use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction manager for salt use case: %w", err)
	}

	cache, err := c.CipherCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher cache for salt use case: %w", err)
	}

	return tenantUsecase.NewSaltUseCase(
		repo,
		txManager,
		cache,
		c.Logger(),
		c.config.SaltFallbackEnabled,
	), nil
}
