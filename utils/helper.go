package utils

import (
	"errors"
	"log"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/waste-point/web-go/services"
)

const GenericErrorMessage = "Something went wrong, please try again."

// RedirectForError turns a workflow error into a flash and a redirect. Errors
// the user cannot act on are logged and replaced with a generic message.
func RedirectForError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		Redirect(c, "/login", FlashWarning, "Please login.")
	case errors.Is(err, services.ErrForbidden):
		Redirect(c, "/", FlashDanger, "Admin access required.")
	default:
		Redirect(c, fallback, FlashDanger, ErrorMessage(c, err))
	}
}

// ErrorMessage is the text shown to the user for err.
func ErrorMessage(c *gin.Context, err error) string {
	if !services.UserFacing(err) {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		return GenericErrorMessage
	}

	msg := strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:] + "."
}
