package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRF runs gorilla/csrf inside the gin chain. Placed after BodyLimit, the
// token lookup only ever parses a capped body.
func CSRF(key []byte, opts ...csrf.Option) gin.HandlerFunc {
	protect := csrf.Protect(key, opts...)
	return func(c *gin.Context) {
		passed := false
		protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}
