package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"alumni-form/internal/formstate"
	"alumni-form/internal/models"
	"alumni-form/internal/services"
	"alumni-form/internal/views"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const formTitle = "แบบฟอร์มศิษย์เก่า"

type FormHandler struct {
	log    *zap.Logger
	fields *models.FieldSet
	now    func() time.Time
}

func NewFormHandler(log *zap.Logger, fields *models.FieldSet) *FormHandler {
	return &FormHandler{log: log, fields: fields, now: time.Now}
}

func (h *FormHandler) view(c *gin.Context, ctrl *formstate.Controller) views.FormView {
	return views.NewFormView(h.fields, ctrl.Snapshot(), c.GetString(CSRFTokenKey))
}

// fieldParam resolves :field. It writes a 404 and returns false for names
// outside the form.
func (h *FormHandler) fieldParam(c *gin.Context) (models.FieldDef, bool) {
	field, err := models.ParseField(c.Param("field"))
	if err != nil {
		c.String(http.StatusNotFound, "Unknown field")
		return models.FieldDef{}, false
	}
	def, _ := h.fields.Def(field)
	return def, true
}

// applyValue copies the posted value of def, if any, into the controller.
// It reports whether a value was applied; on a rejected value it writes a 400
// and ok is false.
func (h *FormHandler) applyValue(c *gin.Context, ctrl *formstate.Controller, def models.FieldDef) (applied, ok bool) {
	value, present := c.GetPostForm(string(def.ID))
	if !present {
		return false, true
	}
	if err := def.CheckLength(value); err != nil {
		badRequest(c, err.Error())
		return false, false
	}
	if err := ctrl.UpdateField(def.ID, value); err != nil {
		badRequest(c, err.Error())
		return false, false
	}
	return true, true
}

// ShowForm renders the form page.
func (h *FormHandler) ShowForm(c *gin.Context) {
	ctrl := controllerFrom(c)
	renderPage(c, h.log, http.StatusOK, formTitle, views.FormPage(h.view(c, ctrl)))
}

// ShowPanel renders only the <form>; the success overlay polls it to pick up
// the reset.
func (h *FormHandler) ShowPanel(c *gin.Context) {
	ctrl := controllerFrom(c)
	renderFragment(c, h.log, http.StatusOK, views.FormPanel(h.view(c, ctrl)))
}

// UpdateField stores a keystroke's value without validating and returns the
// refreshed progress bar.
func (h *FormHandler) UpdateField(c *gin.Context) {
	def, ok := h.fieldParam(c)
	if !ok {
		return
	}
	ctrl := controllerFrom(c)
	applied, ok := h.applyValue(c, ctrl, def)
	if !ok {
		return
	}
	if !applied {
		badRequest(c, "missing value for "+string(def.ID))
		return
	}
	saveDraft(sessions.Default(c), h.log, ctrl.Record())
	renderFragment(c, h.log, http.StatusOK, views.Progress(ctrl.Snapshot().Completion))
}

func (h *FormHandler) FocusField(c *gin.Context) {
	def, ok := h.fieldParam(c)
	if !ok {
		return
	}
	if err := controllerFrom(c).Focus(def.ID); err != nil {
		badRequest(c, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// BlurField marks the field visited, validates it and returns the re-rendered
// field.
func (h *FormHandler) BlurField(c *gin.Context) {
	def, ok := h.fieldParam(c)
	if !ok {
		return
	}
	ctrl := controllerFrom(c)
	applied, ok := h.applyValue(c, ctrl, def)
	if !ok {
		return
	}
	if applied {
		saveDraft(sessions.Default(c), h.log, ctrl.Record())
	}
	state, err := ctrl.Blur(def.ID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	renderFragment(c, h.log, http.StatusOK, views.Field(views.NewFieldView(def, state, ctrl.Snapshot().ShowNationalID)))
}

// ToggleNationalID flips the national ID mask.
func (h *FormHandler) ToggleNationalID(c *gin.Context) {
	def, _ := h.fields.Def(models.NationalID)
	ctrl := controllerFrom(c)
	if _, ok := h.applyValue(c, ctrl, def); !ok {
		return
	}
	show := ctrl.ToggleNationalID()
	renderFragment(c, h.log, http.StatusOK, views.Field(views.NewFieldView(def, ctrl.Field(models.NationalID), show)))
}

// Submit syncs every posted value, validates and hands the record to the
// submitter. An invalid form scrolls to its first invalid field.
func (h *FormHandler) Submit(c *gin.Context) {
	ctrl := controllerFrom(c)
	session := sessions.Default(c)

	for _, def := range h.fields.Fields {
		if _, ok := h.applyValue(c, ctrl, def); !ok {
			return
		}
	}
	saveDraft(session, h.log, ctrl.Record())

	res, err := ctrl.Submit(c.Request.Context())
	switch {
	case errors.Is(err, formstate.ErrSubmitInProgress):
		c.String(http.StatusConflict, "Submission already in progress")
		return
	case err != nil:
		h.log.Error("Alumni form submission failed", zap.Error(err))
	case !res.Submitted:
		h.log.Debug("Alumni form rejected by validation", zap.String("first_invalid", string(res.FirstInvalid)))
		if isHTMX(c) {
			c.Header("HX-Reswap", fmt.Sprintf("outerHTML show:#field-%s:top", res.FirstInvalid))
		}
	default:
		clearDraft(session, h.log)
	}

	view := h.view(c, ctrl)
	if isHTMX(c) {
		renderFragment(c, h.log, http.StatusOK, views.FormPanel(view))
		return
	}
	renderPage(c, h.log, http.StatusOK, formTitle, views.FormPage(view))
}

// Export downloads the current record as JSON.
func (h *FormHandler) Export(c *gin.Context) {
	name, body, err := services.Export(controllerFrom(c).Record(), h.now())
	if errors.Is(err, services.ErrNothingToExport) {
		badRequest(c, "Nothing to export")
		return
	}
	if err != nil {
		h.log.Error("Failed to export alumni data", zap.Error(err))
		c.String(http.StatusInternalServerError, "Could not export data")
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
