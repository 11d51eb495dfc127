package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"harbor-control/internal/api/middleware"
	"harbor-control/internal/dto"
	"harbor-control/internal/model"
	"harbor-control/internal/pagination"
	"harbor-control/internal/service"
	pkgerrors "harbor-control/pkg/errors"
	"harbor-control/pkg/response"
)

const msgNotEditable = "This boat is pending deletion or archived and can no longer be edited."

// Ajax failure reasons of a body that could not be decoded.
const (
	ReasonBodyTooLarge = "body_too_large"
	ReasonMalformed    = "malformed"
)

// PageHandler server-rendered pages and the endpoints their scripts call.
type PageHandler struct {
	boatSvc      service.BoatService
	lifecycleSvc service.LifecycleService
	trafficSvc   service.TrafficService
	logger       *zap.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(svc *service.Service, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		boatSvc:      svc.Boat,
		lifecycleSvc: svc.Lifecycle,
		trafficSvc:   svc.Traffic,
		logger:       logger,
	}
}

// ────────────────────── Boats ──────────────────────

// Index boat list with the create form.
// GET /
func (h *PageHandler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, dto.BoatForm{BookingType: model.BookingYearly.String()}, nil)
}

// CreateBoat POST /
func (h *PageHandler) CreateBoat(c *gin.Context) {
	var form dto.BoatForm
	if err := bindForm(c, &form); err != nil {
		h.renderBindFailure(c, err)
		return
	}

	_, err := h.boatSvc.Create(c.Request.Context(), &form)
	var ve *pkgerrors.ValidationError
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/")
	case errors.As(err, &ve):
		h.renderIndex(c, http.StatusBadRequest, form, ve.Fields)
	default:
		h.renderFailure(c, err)
	}
}

func (h *PageHandler) renderIndex(c *gin.Context, status int, form dto.BoatForm, fieldErrs map[string][]string) {
	params := bindListParams(c)
	result, err := h.boatSvc.List(c.Request.Context(), &params)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	h.html(c, status, "index.html", boatFormData(gin.H{
		"Title":  "Boats",
		"Params": params,
		"Result": result,
		"Action": "/",
	}, form, fieldErrs))
}

// EditBoat update form of an active boat.
// GET /update/:id
func (h *PageHandler) EditBoat(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		h.renderError(c, http.StatusNotFound, "Boat not found.")
		return
	}

	boat, err := h.boatSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	if boat.Deleted || boat.Archived {
		h.renderError(c, http.StatusBadRequest, msgNotEditable)
		return
	}

	h.renderUpdate(c, http.StatusOK, id, boat.Name, service.FormFromBoat(boat), nil)
}

// UpdateBoat POST /update/:id
func (h *PageHandler) UpdateBoat(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		h.renderError(c, http.StatusNotFound, "Boat not found.")
		return
	}

	var form dto.BoatForm
	if err := bindForm(c, &form); err != nil {
		h.renderBindFailure(c, err)
		return
	}

	_, err := h.boatSvc.Update(c.Request.Context(), id, &form)
	var ve *pkgerrors.ValidationError
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/")
	case errors.As(err, &ve):
		h.renderUpdate(c, http.StatusBadRequest, id, form.Name, form, ve.Fields)
	default:
		h.renderFailure(c, err)
	}
}

func (h *PageHandler) renderUpdate(c *gin.Context, status int, id uint, name string, form dto.BoatForm, fieldErrs map[string][]string) {
	h.html(c, status, "update.html", boatFormData(gin.H{
		"Title":  "Edit " + name,
		"ID":     id,
		"Action": c.Request.URL.Path,
	}, form, fieldErrs))
}

// DeleteBoat legacy hard delete, kept for old bookmarks and scripts.
// POST /delete_boat/:id
func (h *PageHandler) DeleteBoat(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		h.renderError(c, http.StatusNotFound, "Boat not found.")
		return
	}

	if err := h.boatSvc.Delete(c.Request.Context(), id); err != nil {
		h.renderFailure(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ────────────────────── Traffic ──────────────────────

// Traffic the log, one day per page unless mode=per.
// GET /traffic/
func (h *PageHandler) Traffic(c *gin.Context) {
	params := bindListParams(c)
	ctx := c.Request.Context()

	result, err := h.trafficSvc.List(ctx, &params)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	boats, err := h.boatSvc.Selectable(ctx)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	h.html(c, http.StatusOK, "traffic.html", gin.H{
		"Title":      "Traffic",
		"Params":     params,
		"Result":     result,
		"Boats":      boats,
		"BoatTypes":  model.BoatTypes,
		"Directions": model.Directions,
	})
}

// CreateTraffic records an entry for the page script.
// POST /traffic/create/
func (h *PageHandler) CreateTraffic(c *gin.Context) {
	var form dto.TrafficForm
	if err := bindForm(c, &form); err != nil {
		status, _ := bindStatus(err)
		reason := ReasonMalformed
		if status == http.StatusRequestEntityTooLarge {
			reason = ReasonBodyTooLarge
		}
		response.AjaxFail(c, status, response.Ajax{Reason: reason})
		return
	}

	result, err := h.trafficSvc.Create(c.Request.Context(), &form)
	if err != nil {
		var ve *pkgerrors.ValidationError
		if errors.As(err, &ve) {
			response.AjaxFail(c, http.StatusBadRequest, response.Ajax{Errors: ve.Fields})
			return
		}
		h.ajaxFailure(c, err)
		return
	}

	updated := result.BoatUpdated
	response.AjaxOK(c, response.Ajax{ID: result.ID, BoatUpdated: &updated})
}

// ────────────────────── Lifecycle ──────────────────────

// Pending boats waiting to be archived with the time left.
// GET /pending_deletions/
func (h *PageHandler) Pending(c *gin.Context) {
	pending, err := h.lifecycleSvc.ListPending(c.Request.Context())
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	h.html(c, http.StatusOK, "pending.html", gin.H{
		"Title":   "Pending deletions",
		"Pending": pending,
	})
}

// SoftDelete POST /boats/:id/delete/
func (h *PageHandler) SoftDelete(c *gin.Context) {
	h.ajaxTransition(c, h.lifecycleSvc.SoftDelete)
}

// Archive POST /pending_deletions/:id/archive/
func (h *PageHandler) Archive(c *gin.Context) {
	h.ajaxTransition(c, h.lifecycleSvc.Archive)
}

// CancelDelete POST /pending_deletions/:id/cancel/
func (h *PageHandler) CancelDelete(c *gin.Context) {
	h.ajaxTransition(c, h.lifecycleSvc.CancelDelete)
}

func (h *PageHandler) ajaxTransition(c *gin.Context, fn func(ctx context.Context, id uint) (*dto.LifecycleResult, error)) {
	id, ok := ParseID(c)
	if !ok {
		response.AjaxFail(c, http.StatusNotFound, response.Ajax{Reason: ReasonNotFound})
		return
	}

	result, err := fn(c.Request.Context(), id)
	if err != nil {
		h.ajaxFailure(c, err)
		return
	}

	affected := result.Affected
	response.AjaxOK(c, response.Ajax{ID: result.ID, Affected: &affected})
}

// ── helpers ──

func (h *PageHandler) ajaxFailure(c *gin.Context, err error) {
	status, _, reason := classifyLifecycleError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("page request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	response.AjaxFail(c, status, response.Ajax{Reason: reason})
}

// renderFailure renders the error page matching err.
func (h *PageHandler) renderFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBoatNotFound), errors.Is(err, pagination.ErrInvalidPage):
		h.renderError(c, http.StatusNotFound, "Page not found.")
	case errors.Is(err, service.ErrBoatNotEditable):
		h.renderError(c, http.StatusBadRequest, msgNotEditable)
	case errors.Is(err, pkgerrors.ErrStorageLocked):
		h.renderError(c, http.StatusServiceUnavailable, "The database is busy. Please try again.")
	default:
		h.logger.Error("page request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Something went wrong.")
	}
}

func (h *PageHandler) renderBindFailure(c *gin.Context, err error) {
	status, _ := bindStatus(err)
	if status == http.StatusRequestEntityTooLarge {
		h.renderError(c, status, "The submitted form is too large.")
		return
	}
	h.renderError(c, status, "The submitted form could not be read.")
}

func (h *PageHandler) renderError(c *gin.Context, status int, message string) {
	h.html(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// html renders a page with the response's CSP nonce, which every inline
// <script> and <style> must carry.
func (h *PageHandler) html(c *gin.Context, status int, name string, data gin.H) {
	data["Nonce"] = middleware.CSPNonce(c)
	c.HTML(status, name, data)
}

// boatFormData adds the boat form and its choices to data.
func boatFormData(data gin.H, form dto.BoatForm, fieldErrs map[string][]string) gin.H {
	if fieldErrs == nil {
		fieldErrs = map[string][]string{}
	}
	data["Form"] = form
	data["Errors"] = fieldErrs
	data["BoatTypes"] = model.BoatTypes
	data["States"] = model.States
	data["BookingTypes"] = model.BookingTypes
	return data
}
