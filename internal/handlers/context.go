package handlers

import (
	"net/http"

	"alumni-form/internal/formstate"
	"alumni-form/internal/views"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Keys under which middleware stores per-request values in the gin context.
const (
	CSRFTokenKey  = "csrf_token"
	CSPNonceKey   = "csp_nonce"
	ControllerKey = "form_controller"
)

// FormPath is where the alumni form is served.
const FormPath = "/alumni/form"

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func controllerFrom(c *gin.Context) *formstate.Controller {
	return c.MustGet(ControllerKey).(*formstate.Controller)
}

// renderFragment writes component on its own.
func renderFragment(c *gin.Context, log *zap.Logger, status int, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		log.Error("Failed to render fragment", zap.Error(err), zap.String("path", c.Request.URL.Path))
	}
}

// renderPage writes component as a full page, or as a fragment for htmx requests.
func renderPage(c *gin.Context, log *zap.Logger, status int, title string, component templ.Component) {
	if isHTMX(c) {
		renderFragment(c, log, status, component)
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	err := views.Page(c.Request.Context(), c.Writer, title, c.GetString(CSRFTokenKey), c.GetString(CSPNonceKey), component)
	if err != nil {
		log.Error("Failed to render page", zap.Error(err), zap.String("path", c.Request.URL.Path))
	}
}

func badRequest(c *gin.Context, msg string) {
	c.String(http.StatusBadRequest, msg)
}
