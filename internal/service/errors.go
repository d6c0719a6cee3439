package service

import (
	"errors"

	"go-inventory-ledger/internal/serviceerrors"

	"gorm.io/gorm"
)

// repoError maps a repository error: missing rows become NotFound, anything
// else is a storage failure.
func repoError(err error, notFoundMsg, storageMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return serviceerrors.NewNotFoundError(notFoundMsg)
	}
	return serviceerrors.NewStorageError(storageMsg, err)
}

// insertError maps a failed insert. A unique index violation that slipped
// past the duplicate pre-check (two concurrent creates) becomes a Conflict.
func insertError(err error, conflictMsg, storageMsg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return serviceerrors.NewConflictError(conflictMsg)
	}
	return serviceerrors.NewStorageError(storageMsg, err)
}
