package handlers

import (
	"net/http"
	"strings"

	"alumni-form/internal/config"
	"alumni-form/internal/services"
	"alumni-form/internal/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HomeHandler struct {
	log *zap.Logger
	qr  *services.QRService
}

func NewHomeHandler(log *zap.Logger, qr *services.QRService) *HomeHandler {
	return &HomeHandler{log: log, qr: qr}
}

// ShowHome renders the landing page with a link and QR code to the form. A
// QR failure is logged and the page is served without the image.
func (h *HomeHandler) ShowHome(c *gin.Context) {
	target := FormURL(c)
	uri, err := h.qr.DataURI(target)
	if err != nil {
		h.log.Warn("Failed to generate QR code", zap.Error(err), zap.String("url", target))
	}
	renderPage(c, h.log, http.StatusOK, "Alumni", views.Home(views.HomeView{FormPath: FormPath, QRDataURI: uri}))
}

// FormURL is the absolute address of the form, taken from server.public_url
// or else from the request.
func FormURL(c *gin.Context) string {
	base := strings.TrimRight(config.Get().Server.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + FormPath
}
