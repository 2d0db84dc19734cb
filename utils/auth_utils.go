package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/waste-point/web-go/session"
)

type contextKey string

const SessionContextKey contextKey = "session"

func SetSession(c *gin.Context, sess *session.Context) {
	c.Set(string(SessionContextKey), sess)
}

// GetSession returns the request's session, or nil for anonymous requests.
func GetSession(c *gin.Context) *session.Context {
	value, exists := c.Get(string(SessionContextKey))
	if !exists {
		return nil
	}
	if sess, ok := value.(*session.Context); ok {
		return sess
	}
	return nil
}
