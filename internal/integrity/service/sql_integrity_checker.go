package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
)

var sqlIdentPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func validIdentifier(name string) error {
	if !sqlIdentPattern.MatchString(name) {
		return fmt.Errorf("invalid SQL identifier %q", name)
	}
	return nil
}

// CheckTarget names one table the sweep inspects and which columns carry
// integrity-relevant data. ChecksumColumn and FormatColumn are optional.
type CheckTarget struct {
	Table            string
	KeyColumn        string
	CiphertextColumn string
	ChecksumColumn   string
	FormatColumn     string
}

// DecryptProvider yields a tenant-scoped decryption closure for the sweep.
type DecryptProvider func(ctx context.Context, tenantID string) (DecryptFunc, error)

// SQLIntegrityChecker implements IntegrityChecker over the primary database.
//
// For each configured target it scans the tenant's rows and runs the
// row-level detectors: every ciphertext must decrypt, stored checksums must
// match the recomputed digest, and structured payloads must parse. Findings
// are aggregated into one report per table and kind so a table with ten
// thousand broken rows produces one report, not ten thousand.
type SQLIntegrityChecker struct {
	db         *sql.DB
	driver     string
	targets    []CheckTarget
	detector   *CorruptionDetector
	decryptFor DecryptProvider
	logger     *slog.Logger
}

// NewSQLIntegrityChecker creates a checker scanning the given targets.
func NewSQLIntegrityChecker(
	db *sql.DB,
	driver string,
	targets []CheckTarget,
	detector *CorruptionDetector,
	decryptFor DecryptProvider,
	logger *slog.Logger,
) *SQLIntegrityChecker {
	return &SQLIntegrityChecker{
		db:         db,
		driver:     driver,
		targets:    targets,
		detector:   detector,
		decryptFor: decryptFor,
		logger:     logger,
	}
}

// CheckTenant scans every configured target for the tenant and returns the
// aggregated corruption reports, empty if the tenant is clean.
func (c *SQLIntegrityChecker) CheckTenant(ctx context.Context, tenantID string) ([]*integrityDomain.CorruptionReport, error) {
	decryptFn, err := c.decryptFor(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to build decryption closure for tenant %s: %w", tenantID, err)
	}

	var reports []*integrityDomain.CorruptionReport
	for _, target := range c.targets {
		tableReports, err := c.checkTarget(ctx, tenantID, target, decryptFn)
		if err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", target.Table, err)
		}
		reports = append(reports, tableReports...)
	}
	return reports, nil
}

// tableFindings accumulates row-level verdicts for one target.
type tableFindings struct {
	decryptFailed int
	checksumBad   int
	formatBad     int
	firstDetail   map[integrityDomain.CorruptionKind]string
}

func (c *SQLIntegrityChecker) checkTarget(
	ctx context.Context,
	tenantID string,
	target CheckTarget,
	decryptFn DecryptFunc,
) ([]*integrityDomain.CorruptionReport, error) {
	for _, ident := range []string{target.Table, target.KeyColumn, target.CiphertextColumn} {
		if err := validIdentifier(ident); err != nil {
			return nil, err
		}
	}
	for _, ident := range []string{target.ChecksumColumn, target.FormatColumn} {
		if ident != "" {
			if err := validIdentifier(ident); err != nil {
				return nil, err
			}
		}
	}

	query := c.buildQuery(target)
	rows, err := c.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	findings := tableFindings{firstDetail: make(map[integrityDomain.CorruptionKind]string)}
	for rows.Next() {
		var (
			key        string
			ciphertext sql.NullString
			checksum   sql.NullString
			format     sql.NullString
		)
		dest := []any{&key, &ciphertext}
		if target.ChecksumColumn != "" {
			dest = append(dest, &checksum)
		}
		if target.FormatColumn != "" {
			dest = append(dest, &format)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		if !ciphertext.Valid || ciphertext.String == "" {
			continue
		}

		plaintext, decryptErr := decryptFn(ciphertext.String)
		if report := c.detector.DetectDecryptionCorruption(tenantID, ciphertext.String, wrapResult(plaintext, decryptErr)); report != nil {
			findings.decryptFailed++
			recordFirst(findings.firstDetail, report)
			continue
		}

		if checksum.Valid && checksum.String != "" {
			if report := c.detector.DetectChecksumCorruption(tenantID, plaintext, checksum.String); report != nil {
				findings.checksumBad++
				recordFirst(findings.firstDetail, report)
			}
		}
		if format.Valid && format.String != "" {
			if report := c.detector.DetectFormatCorruption(tenantID, plaintext, format.String); report != nil {
				findings.formatBad++
				recordFirst(findings.firstDetail, report)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return summarize(tenantID, target.Table, findings), nil
}

// buildQuery assembles the scan query for a target. Identifiers have been
// validated; only the tenant ID travels as a bind parameter.
func (c *SQLIntegrityChecker) buildQuery(target CheckTarget) string {
	columns := target.KeyColumn + ", " + target.CiphertextColumn
	if target.ChecksumColumn != "" {
		columns += ", " + target.ChecksumColumn
	}
	if target.FormatColumn != "" {
		columns += ", " + target.FormatColumn
	}

	placeholder := "?"
	if c.driver == "postgres" {
		placeholder = "$1"
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE tenant_id = %s", columns, target.Table, placeholder)
}

// wrapResult re-expresses an already-performed decryption as a DecryptFunc so
// the detector classifies the outcome without decrypting twice.
func wrapResult(plaintext []byte, err error) DecryptFunc {
	return func(string) ([]byte, error) {
		return plaintext, err
	}
}

func recordFirst(details map[integrityDomain.CorruptionKind]string, report *integrityDomain.CorruptionReport) {
	if _, seen := details[report.Kind]; !seen {
		details[report.Kind] = report.Details
	}
}

// summarize folds the row-level findings into at most one report per
// corruption kind for the table.
func summarize(tenantID, table string, findings tableFindings) []*integrityDomain.CorruptionReport {
	var reports []*integrityDomain.CorruptionReport

	add := func(kind integrityDomain.CorruptionKind, severity integrityDomain.Severity, count int) {
		if count == 0 {
			return
		}
		report := integrityDomain.NewCorruptionReport(
			tenantID,
			kind,
			severity,
			fmt.Sprintf("%d row(s) in %s: %s", count, table, findings.firstDetail[kind]),
			table,
		)
		report.AffectedRowsCount = count
		reports = append(reports, report)
	}

	add(integrityDomain.DecryptionFailed, integrityDomain.SeverityCritical, findings.decryptFailed)
	add(integrityDomain.ChecksumMismatch, integrityDomain.SeverityHigh, findings.checksumBad)
	add(integrityDomain.DataFormatInvalid, integrityDomain.SeverityMedium, findings.formatBad)
	return reports
}
