package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Outcome classes surfaced to callers. Services wrap them with context using
// fmt.Errorf("%w: ..."), callers classify with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("meal unavailable")
	ErrRejected     = errors.New("rejected")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("invalid credentials")
)

// notFound turns gorm's missing-record error into ErrNotFound naming the resource.
func notFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %v", ErrNotFound, resource, id)
	}
	return err
}
