// internal/middleware/session_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CartSession(false))
	engine.GET("/whoami", func(c *gin.Context) {
		sessionID, _ := c.Get("session_id")
		c.String(http.StatusOK, sessionID.(string))
	})
	return engine
}

func TestCartSessionIssuesCookie(t *testing.T) {
	engine := sessionTestEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "storefront_session", cookies[0].Name)
	assert.NoError(t, uuid.Validate(cookies[0].Value))
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, w.Body.String())
}

func TestCartSessionReusesCookie(t *testing.T) {
	engine := sessionTestEngine()
	existing := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "storefront_session", Value: existing})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Empty(t, w.Result().Cookies(), "a valid session cookie is never reissued")
	assert.Equal(t, existing, w.Body.String())
}

func TestCartSessionRejectsMalformedCookie(t *testing.T) {
	engine := sessionTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "storefront_session", Value: "not-a-uuid"})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1, "a malformed session id is replaced")
	assert.NotEqual(t, "not-a-uuid", cookies[0].Value)
}
