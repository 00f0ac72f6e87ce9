package router

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"alumni-form/internal/handlers"
	"alumni-form/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	csrfTokenSessionKey = "csrf_token"
	csrfTokenFormKey    = "_csrf"
	csrfTokenHeaderKey  = "X-CSRF-Token"
)

// CSRFProtection keeps a per-session token and checks it on unsafe methods.
// The token is read from the _csrf form field or the X-CSRF-Token header.
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(csrfTokenSessionKey).(string)
		if token == "" {
			newToken, err := utils.GenerateSecureToken(32)
			if err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSRF token"))
				return
			}
			token = newToken
			session.Set(csrfTokenSessionKey, token)
			if err := session.Save(); err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
		}

		c.Set(handlers.CSRFTokenKey, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		submitted := c.GetHeader(csrfTokenHeaderKey)
		if submitted == "" {
			submitted = c.PostForm(csrfTokenFormKey)
		}
		if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
			if c.GetHeader("HX-Request") == "true" {
				// Stale page; send the visitor somewhere that issues a fresh token.
				c.Header("HX-Redirect", handlers.FormPath)
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.AbortWithError(http.StatusForbidden, errors.New("invalid CSRF token"))
			return
		}

		c.Next()
	}
}
