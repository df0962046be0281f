package usecase

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"time"

	cryptoService "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/service"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/database"
	apperrors "github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
	tenantDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/domain"
)

// saltUseCase implements SaltUseCase.
type saltUseCase struct {
	repo          SaltRepository
	txManager     database.TxManager
	cipherCache   cryptoService.CipherCache
	logger        *slog.Logger
	allowDegraded bool
}

// NewSaltUseCase creates a SaltUseCase.
//
// allowDegraded enables the deterministic fallback salt when the salt store is
// unreachable. The fallback is weaker than a persisted random salt (it is
// derivable from the tenant ID alone) and exists only so that read paths can
// limp along through a salt-store outage; it is off by default.
func NewSaltUseCase(
	repo SaltRepository,
	txManager database.TxManager,
	cipherCache cryptoService.CipherCache,
	logger *slog.Logger,
	allowDegraded bool,
) SaltUseCase {
	return &saltUseCase{
		repo:          repo,
		txManager:     txManager,
		cipherCache:   cipherCache,
		logger:        logger,
		allowDegraded: allowDegraded,
	}
}

// GetSalt returns the tenant's persisted salt.
//
// A missing record propagates ErrTenantSaltNotFound: an unknown tenant must
// not be given a synthesized salt, or encrypt calls would mint undecryptable
// ciphertext. The degraded fallback applies only to infrastructure failures.
func (s *saltUseCase) GetSalt(ctx context.Context, tenantID string) ([]byte, error) {
	record, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if s.allowDegraded {
			s.logger.Warn("salt store unavailable, using derived fallback salt - REDUCED SECURITY",
				slog.String("tenant_id", tenantID),
				slog.Any("error", err),
			)
			return degradedSalt(tenantID), nil
		}
		return nil, err
	}

	return record.Salt, nil
}

// CreateTenant generates and persists a fresh random salt for a new tenant.
func (s *saltUseCase) CreateTenant(ctx context.Context, tenantID string) (*tenantDomain.TenantSalt, error) {
	salt, err := tenantDomain.GenerateSalt()
	if err != nil {
		return nil, err
	}

	record := &tenantDomain.TenantSalt{
		TenantID:  tenantID,
		Salt:      salt,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("tenant salt created", slog.String("tenant_id", tenantID))
	return record, nil
}

// RotateSalt swaps the tenant's salt for a fresh random one.
//
// The tenant's cached ciphers are cleared so no operation can keep encrypting
// under the retired salt. Existing ciphertext stays encrypted under the old
// salt until the caller's rotation campaign re-encrypts it row by row via
// Encryptor.RotateKey; both salts are returned for that purpose.
func (s *saltUseCase) RotateSalt(ctx context.Context, tenantID string) ([]byte, []byte, error) {
	newSalt, err := tenantDomain.GenerateSalt()
	if err != nil {
		return nil, nil, err
	}

	// Read and swap commit as one unit; the repositories pick the
	// transaction up from the context.
	var oldSalt []byte
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		record, err := s.repo.Get(ctx, tenantID)
		if err != nil {
			return err
		}
		oldSalt = record.Salt
		return s.repo.UpdateSalt(ctx, tenantID, newSalt)
	})
	if err != nil {
		return nil, nil, err
	}

	s.cipherCache.ClearTenant(tenantID)

	s.logger.Info("tenant salt rotated", slog.String("tenant_id", tenantID))
	return oldSalt, newSalt, nil
}

// ListTenantIDs enumerates all known tenants.
func (s *saltUseCase) ListTenantIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListTenantIDs(ctx)
}

// degradedSalt derives a deterministic 32-byte salt from the tenant ID.
// Unique per tenant but guessable; acceptable only as a last resort.
func degradedSalt(tenantID string) []byte {
	sum := sha256.Sum256([]byte("azalscore-degraded-salt:" + tenantID))
	return sum[:]
}
