package repository

import (
	"errors"
	"fmt"

	"github.com/amirasaad/debtfree/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors.
// This keeps infrastructure concerns (database errors) within the infrastructure layer.
// Errors that already carry a domain sentinel pass through unchanged; anything
// the store cannot classify is wrapped as domain.ErrStorage.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrAlreadyExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrInvalidReference
	case isDomainError(err):
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

// WrapError wraps a GORM operation and automatically maps errors.
//
// Usage:
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(person).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrValidation,
		domain.ErrInvalidReference,
		domain.ErrStorage,
		domain.ErrMissingParent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
