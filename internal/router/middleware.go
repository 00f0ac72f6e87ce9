package router

import (
	"net/http"

	"alumni-form/internal/formstate"
	"alumni-form/internal/handlers"
	"alumni-form/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const visitorSessionKey = "visitorID"

// VisitorMiddleware attaches the visitor's form controller to the context. New
// visitors get an ID in their session; a controller created for an existing
// session starts from the draft saved there.
func VisitorMiddleware(registry *formstate.Registry, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		visitorID, ok := session.Get(visitorSessionKey).(string)
		if !ok || visitorID == "" {
			visitorID = uuid.NewString()
			session.Set(visitorSessionKey, visitorID)
			if err := session.Save(); err != nil {
				log.Error("Failed to save visitor session", zap.Error(err))
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			log.Debug("New visitor", zap.String("visitor_id", visitorID))
		}

		ctrl := registry.GetOrCreate(visitorID, func() *models.FormRecord {
			return handlers.LoadDraft(session)
		})
		c.Set(handlers.ControllerKey, ctrl)
		c.Next()
	}
}
