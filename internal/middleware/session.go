// internal/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "storefront_session"

// CartSession pins an anonymous cart session to the caller via cookie. The
// id is issued once and reused on every later request.
func CartSession(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" || uuid.Validate(sessionID) != nil {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sessionID, 60*60*24*365, "/", "", secure, true)
		}
		c.Set("session_id", sessionID)
		c.Next()
	}
}
