package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/app"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/config"
	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	customValidation "github.com/MASITH-developpement/Azalscore-sub013/internal/validation"
)

// RunIntegritySweep checks every known tenant's data integrity, fanning out
// across tenants up to SweepConcurrency. With autoRecover true each corrupted
// tenant is handed to the recovery pipeline; otherwise corrupted tenants are
// isolated and left pending for an operator.
func RunIntegritySweep(ctx context.Context, autoRecover bool, io IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	saltUseCase, err := container.SaltUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize salt use case: %w", err)
	}

	checker, err := container.IntegrityChecker()
	if err != nil {
		return fmt.Errorf("failed to initialize integrity checker: %w", err)
	}

	recoveryUseCase, err := container.RecoveryUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize recovery use case: %w", err)
	}

	storage, err := container.TenantStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize tenant storage: %w", err)
	}

	tenantIDs, err := saltUseCase.ListTenantIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	logger.Info("starting integrity sweep",
		slog.Int("tenants", len(tenantIDs)),
		slog.Int("concurrency", cfg.SweepConcurrency),
		slog.Bool("auto_recover", autoRecover),
	)

	var (
		mu        sync.Mutex
		corrupted int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.SweepConcurrency)

	for _, tenantID := range tenantIDs {
		group.Go(func() error {
			reports, err := checker.CheckTenant(groupCtx, tenantID)
			if err != nil {
				return fmt.Errorf("sweep failed for tenant %s: %w", tenantID, err)
			}
			if len(reports) == 0 {
				return nil
			}

			mu.Lock()
			corrupted++
			mu.Unlock()

			for _, report := range reports {
				recovery, err := recoveryUseCase.HandleCorruption(groupCtx, report, storage, autoRecover)
				if err != nil {
					logger.Error("recovery handoff failed",
						slog.String("tenant_id", tenantID),
						slog.Any("error", err),
					)
					continue
				}
				logger.Info("corruption handled",
					slog.String("tenant_id", tenantID),
					slog.String("kind", string(report.Kind)),
					slog.String("recovery_status", string(recovery.Status)),
				)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(io.Writer, "sweep completed: %d tenant(s) checked, %d corrupted\n", len(tenantIDs), corrupted)
	return nil
}

// RunRecoverTenant triggers recovery for one tenant from an operator-supplied
// corruption description.
func RunRecoverTenant(ctx context.Context, tenantID, details string, io IOTuple) error {
	if err := customValidation.TenantID.Validate(tenantID); err != nil {
		return fmt.Errorf("invalid tenant_id: %w", err)
	}
	if details == "" {
		details = "operator-triggered recovery"
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	recoveryUseCase, err := container.RecoveryUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize recovery use case: %w", err)
	}

	storage, err := container.TenantStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize tenant storage: %w", err)
	}

	report := integrityDomain.NewCorruptionReport(
		tenantID,
		integrityDomain.DecryptionFailed,
		integrityDomain.SeverityHigh,
		details,
	)

	recovery, err := recoveryUseCase.HandleCorruption(ctx, report, storage, true)
	if err != nil {
		return fmt.Errorf("recovery failed: %w", err)
	}

	fmt.Fprintf(io.Writer, "recovery for tenant %s finished with status %s\n", tenantID, recovery.Status)
	if len(recovery.TablesRecovered) > 0 {
		fmt.Fprintf(io.Writer, "tables recovered: %v (%d rows)\n", recovery.TablesRecovered, recovery.RowsRecovered)
	}
	if len(recovery.TablesFailed) > 0 {
		fmt.Fprintf(io.Writer, "tables failed: %v\n", recovery.TablesFailed)
	}
	if recovery.ErrorMessage != "" {
		fmt.Fprintf(io.Writer, "error: %s\n", recovery.ErrorMessage)
	}
	return nil
}
