// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
)

var (
	// tenantIDRegex restricts tenant identifiers to a safe identifier
	// alphabet; tenant IDs end up in key-derivation input, AAD, and SQL
	// predicates, so anything exotic is rejected at the boundary.
	tenantIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]{0,127}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// TenantID validates tenant identifier format.
var TenantID = validation.NewStringRuleWithError(
	func(s string) bool {
		return tenantIDRegex.MatchString(s)
	},
	validation.NewError(
		"validation_tenant_id",
		"must be 1-128 characters of letters, digits, dot, underscore or dash, starting with a letter or digit",
	),
)

// CiphertextEnvelope validates the versioned ciphertext envelope prefix.
var CiphertextEnvelope = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.HasPrefix(s, "v1:") && len(s) > len("v1:")
	},
	validation.NewError("validation_ciphertext_envelope", "must be a v1 ciphertext envelope"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
