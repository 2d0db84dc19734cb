package services

import (
	"github.com/waste-point/web-go/models"
	"github.com/waste-point/web-go/session"
)

// Authorize is the one place capabilities are checked.
func Authorize(sess *session.Context, capability models.Capability) error {
	if sess == nil {
		return ErrUnauthenticated
	}
	if !sess.Can(capability) {
		return ErrForbidden
	}
	return nil
}
