package middleware

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/waste-point/web-go/services"
	"github.com/waste-point/web-go/session"
	"github.com/waste-point/web-go/utils"
)

// LoadSession attaches the session named by the request cookie, if any.
// Anonymous requests continue without one.
func LoadSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessions.FromRequest(c)
		switch {
		case err == nil:
			utils.SetSession(c, sess)
		case !errors.Is(err, session.ErrNoSession):
			log.Printf("Failed to load session: %v", err)
		}
		c.Next()
	}
}

// RequireSession redirects anonymous requests to the login page.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.GetSession(c) == nil {
			utils.RedirectForError(c, services.ErrUnauthenticated, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
