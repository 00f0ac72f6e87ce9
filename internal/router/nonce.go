package router

import (
	"errors"
	"net/http"

	"alumni-form/internal/handlers"
	"alumni-form/internal/utils"

	"github.com/gin-gonic/gin"
)

// NonceMiddleware creates a fresh CSP nonce for each request and stores it in
// the gin context for the header and the templates.
func NonceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce, err := utils.GenerateSecureToken(16)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSP nonce"))
			return
		}
		c.Set(handlers.CSPNonceKey, nonce)
		c.Next()
	}
}
