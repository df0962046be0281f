package usecase

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
	cryptoService "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/service"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
	tenantUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/usecase"
)

// tenantCryptoUseCase implements TenantCryptoUseCase over the salt store and
// the encryption service.
type tenantCryptoUseCase struct {
	salts       tenantUsecase.SaltUseCase
	encryptor   cryptoService.Encryptor
	sink        CorruptionSink
	storage     recoveryUsecase.StorageHandle
	autoRecover bool
	logger      *slog.Logger
}

// NewTenantCryptoUseCase creates a TenantCryptoUseCase. sink may be nil when
// no recovery pipeline is wired (CLI utilities); corruption is then only
// returned to the caller.
func NewTenantCryptoUseCase(
	salts tenantUsecase.SaltUseCase,
	encryptor cryptoService.Encryptor,
	sink CorruptionSink,
	storage recoveryUsecase.StorageHandle,
	autoRecover bool,
	logger *slog.Logger,
) TenantCryptoUseCase {
	return &tenantCryptoUseCase{
		salts:       salts,
		encryptor:   encryptor,
		sink:        sink,
		storage:     storage,
		autoRecover: autoRecover,
		logger:      logger,
	}
}

func (u *tenantCryptoUseCase) Encrypt(ctx context.Context, tenantID string, plaintext []byte) (string, error) {
	salt, err := u.salts.GetSalt(ctx, tenantID)
	if err != nil {
		return "", errors.Wrap(err, "get tenant salt")
	}
	return u.encryptor.Encrypt(tenantID, salt, plaintext)
}

func (u *tenantCryptoUseCase) Decrypt(ctx context.Context, tenantID, ciphertext string) ([]byte, error) {
	salt, err := u.salts.GetSalt(ctx, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "get tenant salt")
	}

	plaintext, err := u.encryptor.Decrypt(tenantID, salt, ciphertext)
	if err != nil {
		u.maybeRaiseCorruption(ctx, tenantID, ciphertext, err)
		return nil, err
	}
	return plaintext, nil
}

func (u *tenantCryptoUseCase) EncryptStructured(ctx context.Context, tenantID string, record any) (string, error) {
	salt, err := u.salts.GetSalt(ctx, tenantID)
	if err != nil {
		return "", errors.Wrap(err, "get tenant salt")
	}
	return u.encryptor.EncryptStructured(tenantID, salt, record)
}

func (u *tenantCryptoUseCase) DecryptStructured(ctx context.Context, tenantID, ciphertext string, out any) error {
	salt, err := u.salts.GetSalt(ctx, tenantID)
	if err != nil {
		return errors.Wrap(err, "get tenant salt")
	}

	if err := u.encryptor.DecryptStructured(tenantID, salt, ciphertext, out); err != nil {
		u.maybeRaiseCorruption(ctx, tenantID, ciphertext, err)
		return err
	}
	return nil
}

func (u *tenantCryptoUseCase) VerifyIntegrity(ctx context.Context, tenantID, ciphertext string) (bool, error) {
	salt, err := u.salts.GetSalt(ctx, tenantID)
	if err != nil {
		return false, errors.Wrap(err, "get tenant salt")
	}
	return u.encryptor.VerifyIntegrity(tenantID, salt, ciphertext)
}

// RotateTenantKey swaps the tenant's salt and re-encrypts the supplied
// ciphertexts under the new derived key. Callers own the campaign over all
// of a tenant's stored ciphertext; partially rotated data must be retried
// with the returned values persisted first.
func (u *tenantCryptoUseCase) RotateTenantKey(ctx context.Context, tenantID string, ciphertexts []string) ([]string, error) {
	oldSalt, newSalt, err := u.salts.RotateSalt(ctx, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "rotate tenant salt")
	}

	rotated := make([]string, len(ciphertexts))
	for i, ciphertext := range ciphertexts {
		rotated[i], err = u.encryptor.RotateKey(tenantID, oldSalt, newSalt, ciphertext)
		if err != nil {
			return nil, errors.Wrapf(err, "re-encrypt ciphertext %d of %d", i+1, len(ciphertexts))
		}
	}

	u.logger.Info("tenant key rotated",
		slog.String("tenant_id", tenantID),
		slog.Int("ciphertexts", len(rotated)),
	)
	return rotated, nil
}

// maybeRaiseCorruption hands authentication failures to the recovery
// pipeline. Generic failures (malformed envelope, wrong input) are not
// corruption and never trigger recovery.
func (u *tenantCryptoUseCase) maybeRaiseCorruption(ctx context.Context, tenantID, ciphertext string, err error) {
	if u.sink == nil || !errors.Is(err, cryptoDomain.ErrDataCorruption) {
		return
	}

	report := integrityDomain.NewCorruptionReport(
		tenantID,
		integrityDomain.DecryptionFailed,
		integrityDomain.SeverityCritical,
		fmt.Sprintf("decrypt failed: %v", err),
	)

	if _, handleErr := u.sink.HandleCorruption(ctx, report, u.storage, u.autoRecover); handleErr != nil {
		if errors.Is(handleErr, integrityDomain.ErrRecoveryInProgress) {
			u.logger.Info("corruption reported while recovery already running",
				slog.String("tenant_id", tenantID))
			return
		}
		u.logger.Error("corruption handoff failed",
			slog.String("tenant_id", tenantID),
			slog.Any("error", handleErr),
		)
	}
}
