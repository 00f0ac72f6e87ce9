package handlers

import (
	"net/http"

	"alumni-form/internal/formstate"

	"github.com/gin-gonic/gin"
)

func Health(registry *formstate.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "visitors": registry.Len()})
	}
}
