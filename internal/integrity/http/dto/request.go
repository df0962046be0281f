// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	customValidation "github.com/MASITH-developpement/Azalscore-sub013/internal/validation"
)

// TriggerRecoveryRequest contains the parameters for reporting corruption and
// optionally triggering automatic recovery.
type TriggerRecoveryRequest struct {
	Kind           string   `json:"kind"`
	Severity       string   `json:"severity"`
	Details        string   `json:"details"`
	AffectedTables []string `json:"affected_tables"`
	AutoRecover    *bool    `json:"auto_recover"` // Defaults to the server's recovery policy
}

// Validate checks if the trigger recovery request is valid.
func (r *TriggerRecoveryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind,
			validation.Required,
			validation.By(validateCorruptionKind),
		),
		validation.Field(&r.Severity,
			validation.By(validateSeverity),
		),
		validation.Field(&r.Details,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 2048),
		),
	)
}

func validateCorruptionKind(value any) error {
	s, _ := value.(string)
	switch integrityDomain.CorruptionKind(s) {
	case integrityDomain.DecryptionFailed,
		integrityDomain.ChecksumMismatch,
		integrityDomain.DataFormatInvalid,
		integrityDomain.ForeignKeyViolation,
		integrityDomain.SchemaMismatch,
		integrityDomain.BackupCorrupted:
		return nil
	}
	return validation.NewError("validation_corruption_kind", "must be a known corruption kind")
}

func validateSeverity(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	switch integrityDomain.Severity(s) {
	case integrityDomain.SeverityLow,
		integrityDomain.SeverityMedium,
		integrityDomain.SeverityHigh,
		integrityDomain.SeverityCritical:
		return nil
	}
	return validation.NewError("validation_severity", "must be one of low, medium, high, critical")
}
