package services

import (
	"errors"

	"github.com/waste-point/web-go/repository"
	"github.com/waste-point/web-go/uploads"
)

var (
	ErrUnauthenticated = errors.New("please login to continue")
	ErrForbidden       = errors.New("admin access required")
	ErrStorage         = errors.New("storage failure")

	ErrValidation      = repository.ErrValidation
	ErrNotFound        = repository.ErrNotFound
	ErrInvalidStatus   = repository.ErrInvalidStatus
	ErrUnsupportedType = uploads.ErrUnsupportedType
	ErrTooLarge        = uploads.ErrTooLarge
)

// UserFacing reports whether err's message is safe to show as is. Anything
// else should be replaced by a generic message and logged.
func UserFacing(err error) bool {
	for _, target := range []error{
		ErrUnauthenticated, ErrForbidden, ErrValidation, ErrNotFound, ErrInvalidStatus,
		ErrUnsupportedType, ErrTooLarge, repository.ErrDuplicateEmail, repository.ErrInvalidCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
