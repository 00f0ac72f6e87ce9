// Package router wires middleware and routes for the alumni form server.
package router

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"alumni-form/internal/config"
	"alumni-form/internal/formstate"
	"alumni-form/internal/handlers"
	"alumni-form/internal/models"
	"alumni-form/internal/services"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

const sessionName = "alumni_session"

// Deps are the long-lived services the routes depend on.
type Deps struct {
	Fields   *models.FieldSet
	Registry *formstate.Registry
	QR       *services.QRService
	// ProjectRoot is where the assets directory lives.
	ProjectRoot string
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(http.StatusTooManyRequests, "Too many requests. Try again in "+time.Until(info.ResetTime).Round(time.Second).String())
}

func Setup(log *zap.Logger, deps Deps) *gin.Engine {
	conf := config.Get()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   conf.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions(sessionName, store))

	router.Use(NonceMiddleware())
	router.Use(CSRFProtection())

	router.Use(func(c *gin.Context) {
		if c.GetHeader("HX-Request") != "true" {
			csp := fmt.Sprintf(
				"default-src 'self'; img-src 'self' data:; script-src 'self' https://unpkg.com 'nonce-%s'; style-src 'self' 'unsafe-inline'",
				c.GetString(handlers.CSPNonceKey),
			)
			c.Header("Content-Security-Policy", csp)
		}
		c.Next()
	})

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "same-origin",
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	router.Static("/assets", filepath.Join(deps.ProjectRoot, "assets"))
	router.GET("/health", handlers.Health(deps.Registry))

	homeHandler := handlers.NewHomeHandler(log, deps.QR)
	formHandler := handlers.NewFormHandler(log, deps.Fields)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: conf.RateLimit.SubmitPerMinute,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/", homeHandler.ShowHome)

	form := router.Group(handlers.FormPath)
	form.Use(VisitorMiddleware(deps.Registry, log))
	{
		form.GET("", formHandler.ShowForm)
		form.GET("/panel", formHandler.ShowPanel)
		form.GET("/export", formHandler.Export)
		form.POST("/fields/:field", formHandler.UpdateField)
		form.POST("/fields/:field/focus", formHandler.FocusField)
		form.POST("/fields/:field/blur", formHandler.BlurField)
		form.POST("/national-id/toggle", formHandler.ToggleNationalID)
		form.POST("/submit", limiter, formHandler.Submit)
	}

	return router
}
