package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
	cryptoService "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/service"
	cryptoUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/usecase"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// MasterSecret returns the master secret loaded from the environment,
// unwrapped through the configured KMS keeper when KMS_KEY_URI is set.
func (c *Container) MasterSecret() (*cryptoDomain.MasterSecret, error) {
	var err error
	c.masterSecretInit.Do(func() {
		c.masterSecret, err = c.initMasterSecret()
		if err != nil {
			c.initErrors["masterSecret"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterSecret"]; exists {
		return nil, storedErr
	}
	return c.masterSecret, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDeriver returns the PBKDF2 key-derivation service.
func (c *Container) KeyDeriver() (cryptoService.KeyDeriver, error) {
	var err error
	c.keyDeriverInit.Do(func() {
		c.keyDeriver, err = c.initKeyDeriver()
		if err != nil {
			c.initErrors["keyDeriver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyDeriver"]; exists {
		return nil, storedErr
	}
	return c.keyDeriver, nil
}

// CipherCache returns the memoized per-tenant cipher cache.
func (c *Container) CipherCache() (cryptoService.CipherCache, error) {
	var err error
	c.cipherCacheInit.Do(func() {
		c.cipherCache, err = c.initCipherCache()
		if err != nil {
			c.initErrors["cipherCache"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cipherCache"]; exists {
		return nil, storedErr
	}
	return c.cipherCache, nil
}

// Encryptor returns the tenant encryption service.
func (c *Container) Encryptor() (cryptoService.Encryptor, error) {
	var err error
	c.encryptorInit.Do(func() {
		c.encryptor, err = c.initEncryptor()
		if err != nil {
			c.initErrors["encryptor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptor"]; exists {
		return nil, storedErr
	}
	return c.encryptor, nil
}

// CryptoUseCase returns the tenant crypto use case wired to the recovery
// pipeline and wrapped with business metrics.
func (c *Container) CryptoUseCase() (cryptoUsecase.TenantCryptoUseCase, error) {
	var err error
	c.cryptoUseCaseInit.Do(func() {
		c.cryptoUseCase, err = c.initCryptoUseCase()
		if err != nil {
			c.initErrors["cryptoUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoUseCase"]; exists {
		return nil, storedErr
	}
	return c.cryptoUseCase, nil
}

// initMasterSecret loads the master secret, using the KMS keeper when configured.
func (c *Container) initMasterSecret() (*cryptoDomain.MasterSecret, error) {
	ctx := context.Background()

	var unwrapper cryptoDomain.SecretUnwrapper
	if c.config.KMSKeyURI != "" {
		keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		unwrapper = keeper
	}

	masterSecret, err := cryptoDomain.LoadMasterSecretFromEnv(ctx, unwrapper)
	if err != nil {
		return nil, fmt.Errorf("failed to load master secret: %w", err)
	}
	return masterSecret, nil
}

// initKeyDeriver creates the key-derivation service from the master secret.
func (c *Container) initKeyDeriver() (cryptoService.KeyDeriver, error) {
	masterSecret, err := c.MasterSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get master secret for key derivation: %w", err)
	}
	return cryptoService.NewKeyDerivation(masterSecret, c.config.KDFIterations), nil
}

// initCipherCache creates the cipher cache for the configured algorithm.
func (c *Container) initCipherCache() (cryptoService.CipherCache, error) {
	deriver, err := c.KeyDeriver()
	if err != nil {
		return nil, fmt.Errorf("failed to get key deriver for cipher cache: %w", err)
	}

	var algorithm cryptoDomain.Algorithm
	switch c.config.EncryptionAlgorithm {
	case string(cryptoDomain.AESGCM):
		algorithm = cryptoDomain.AESGCM
	case string(cryptoDomain.ChaCha20):
		algorithm = cryptoDomain.ChaCha20
	default:
		return nil, fmt.Errorf("unsupported encryption algorithm: %s", c.config.EncryptionAlgorithm)
	}

	return cryptoService.NewCipherCache(
		deriver,
		c.AEADManager(),
		algorithm,
		c.config.CipherCacheMaxEntries,
	), nil
}

// initEncryptor creates the encryption service over the cipher cache.
func (c *Container) initEncryptor() (cryptoService.Encryptor, error) {
	cache, err := c.CipherCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher cache for encryptor: %w", err)
	}
	return cryptoService.NewEncryptionService(cache), nil
}

// initCryptoUseCase creates the tenant crypto use case with all its dependencies.
func (c *Container) initCryptoUseCase() (cryptoUsecase.TenantCryptoUseCase, error) {
	saltUseCase, err := c.SaltUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get salt use case for crypto use case: %w", err)
	}

	encryptor, err := c.Encryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor for crypto use case: %w", err)
	}

	recoveryUseCase, err := c.RecoveryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get recovery use case for crypto use case: %w", err)
	}

	storage, err := c.TenantStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant storage for crypto use case: %w", err)
	}

	useCase := cryptoUsecase.NewTenantCryptoUseCase(
		saltUseCase,
		encryptor,
		recoveryUseCase,
		storage,
		c.config.RecoveryAutoEnabled,
		c.Logger(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for crypto use case: %w", err)
	}

	return cryptoUsecase.NewTenantCryptoUseCaseWithMetrics(useCase, businessMetrics), nil
}
