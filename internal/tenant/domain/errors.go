package domain

import (
	"github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
)

var (
	// ErrTenantSaltNotFound indicates no salt record exists for the tenant.
	ErrTenantSaltNotFound = errors.Wrap(errors.ErrNotFound, "tenant salt not found")

	// ErrTenantSaltExists indicates the tenant already has a salt record.
	// Salts are created once; use rotation to change one.
	ErrTenantSaltExists = errors.Wrap(errors.ErrConflict, "tenant salt already exists")
)
