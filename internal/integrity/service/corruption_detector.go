// Package service implements corruption detection for tenant data.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
)

// previewLen caps how much of a ciphertext or checksum appears in report
// details. Previews identify the offending value without dumping it.
const previewLen = 24

// DecryptFunc attempts to decrypt a ciphertext; used by the decryption check
// so the detector stays decoupled from the encryption service.
type DecryptFunc func(ciphertext string) ([]byte, error)

// IntegrityChecker is the owner-implemented full-sweep hook, written against
// the concrete storage schema. Returns one report per finding, empty if clean.
type IntegrityChecker interface {
	CheckTenant(ctx context.Context, tenantID string) ([]*integrityDomain.CorruptionReport, error)
}

// CorruptionDetector provides pure, stateless corruption checks.
//
// Each check returns nil when the data is clean and a CorruptionReport when it
// is not; detectors never mutate isolation state or trigger recovery - that is
// the caller's decision.
type CorruptionDetector struct{}

// NewCorruptionDetector creates a CorruptionDetector.
func NewCorruptionDetector() *CorruptionDetector {
	return &CorruptionDetector{}
}

// DetectDecryptionCorruption runs decryptFn over the ciphertext and reports
// any failure as decryption corruption. The report carries a truncated
// ciphertext preview, never key material.
func (d *CorruptionDetector) DetectDecryptionCorruption(
	tenantID, ciphertext string,
	decryptFn DecryptFunc,
) *integrityDomain.CorruptionReport {
	if _, err := decryptFn(ciphertext); err != nil {
		return integrityDomain.NewCorruptionReport(
			tenantID,
			integrityDomain.DecryptionFailed,
			integrityDomain.SeverityCritical,
			fmt.Sprintf("decryption failed for ciphertext %q: %v", preview(ciphertext), err),
		)
	}
	return nil
}

// DetectChecksumCorruption recomputes SHA-256 over data and compares it to the
// expected hex digest. A mismatch yields a checksum_mismatch report with
// truncated expected/actual previews.
func (d *CorruptionDetector) DetectChecksumCorruption(
	tenantID string,
	data []byte,
	expectedChecksumHex string,
) *integrityDomain.CorruptionReport {
	sum := sha256.Sum256(data)
	actual := hex.EncodeToString(sum[:])

	if !strings.EqualFold(actual, expectedChecksumHex) {
		return integrityDomain.NewCorruptionReport(
			tenantID,
			integrityDomain.ChecksumMismatch,
			integrityDomain.SeverityHigh,
			fmt.Sprintf("checksum mismatch: expected %s, got %s",
				preview(expectedChecksumHex), preview(actual)),
		)
	}
	return nil
}

// DetectFormatCorruption parses data as the expected structured format.
// Only JSON is supported; a parse failure yields a data_format_invalid report
// with the parser's error offset when available.
func (d *CorruptionDetector) DetectFormatCorruption(
	tenantID string,
	data []byte,
	expectedFormat string,
) *integrityDomain.CorruptionReport {
	if expectedFormat != "json" {
		return integrityDomain.NewCorruptionReport(
			tenantID,
			integrityDomain.DataFormatInvalid,
			integrityDomain.SeverityMedium,
			fmt.Sprintf("unsupported expected format %q", expectedFormat),
		)
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		details := fmt.Sprintf("invalid JSON: %v", err)
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			details = fmt.Sprintf("invalid JSON at offset %d: %v", syntaxErr.Offset, err)
		}
		return integrityDomain.NewCorruptionReport(
			tenantID,
			integrityDomain.DataFormatInvalid,
			integrityDomain.SeverityMedium,
			details,
		)
	}
	return nil
}

// RunIntegrityCheck executes the owner-implemented full sweep for one tenant.
// Used proactively by the scheduled sweep and as the post-recovery
// verification gate. Returns the accumulated reports, empty if clean.
func (d *CorruptionDetector) RunIntegrityCheck(
	ctx context.Context,
	tenantID string,
	checker IntegrityChecker,
) ([]*integrityDomain.CorruptionReport, error) {
	reports, err := checker.CheckTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("integrity check for tenant %s: %w", tenantID, err)
	}
	return reports, nil
}

// preview truncates s for inclusion in report details.
func preview(s string) string {
	if len(s) <= previewLen {
		return s
	}
	return s[:previewLen] + "..."
}
