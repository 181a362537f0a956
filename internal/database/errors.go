// Package database holds the shared store handle and the error taxonomy used
// by the per-domain repository packages underneath it.
package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the referenced row (or row pair) does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a store-level uniqueness constraint was violated
	// (duplicate ISBN, duplicate category name, duplicate book/category pair).
	ErrConflict = errors.New("record already exists")

	// ErrValidation means the input was malformed before it reached the store.
	ErrValidation = errors.New("invalid input")
)

// Translate maps store-level failures onto the taxonomy where the semantics
// are unambiguous. Anything else passes through untouched and surfaces to the
// caller as a store error.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	// The sqlite driver predates gorm's error translation for some constraint
	// shapes, so fall back to matching the driver message.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrConflict
	}
	return err
}
