package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"harbor-control/internal/dto"
	"harbor-control/internal/service"
	pkgerrors "harbor-control/pkg/errors"
	"harbor-control/pkg/response"
)

// Reasons reported when a lifecycle transition is refused.
const (
	ReasonAlreadyDeleted  = "already_deleted"
	ReasonAlreadyArchived = "already_archived"
	ReasonNotDeleted      = "not_deleted"
	ReasonNotEditable     = "not_editable"
	ReasonNotFound        = "not_found"
	ReasonStorageLocked   = "storage_locked"
)

// LifecycleHandler soft-delete, archive and cancel over the JSON API.
type LifecycleHandler struct {
	lifecycleSvc service.LifecycleService
}

// NewLifecycleHandler creates a LifecycleHandler.
func NewLifecycleHandler(lifecycleSvc service.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{lifecycleSvc: lifecycleSvc}
}

type transitionFunc func(ctx context.Context, id uint) (*dto.LifecycleResult, error)

// SoftDelete POST /api/v1/boats/:id/soft-delete
func (h *LifecycleHandler) SoftDelete(c *gin.Context) {
	h.transition(c, h.lifecycleSvc.SoftDelete)
}

// Archive POST /api/v1/boats/:id/archive
func (h *LifecycleHandler) Archive(c *gin.Context) {
	h.transition(c, h.lifecycleSvc.Archive)
}

// CancelDelete POST /api/v1/boats/:id/cancel-delete
func (h *LifecycleHandler) CancelDelete(c *gin.Context) {
	h.transition(c, h.lifecycleSvc.CancelDelete)
}

func (h *LifecycleHandler) transition(c *gin.Context, fn transitionFunc) {
	id, ok := ParseID(c)
	if !ok {
		response.NotFound(c, 12001, "boat not found")
		return
	}

	result, err := fn(c.Request.Context(), id)
	if err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListPending boats waiting to be archived, newest deletion first.
// GET /api/v1/pending-deletions
func (h *LifecycleHandler) ListPending(c *gin.Context) {
	pending, err := h.lifecycleSvc.ListPending(c.Request.Context())
	if err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": pending})
}

// ArchiveExpired runs one auto-archive sweep now.
// POST /api/v1/pending-deletions/archive-expired
func (h *LifecycleHandler) ArchiveExpired(c *gin.Context) {
	summary, err := h.lifecycleSvc.ArchiveExpired(c.Request.Context())
	if err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.OK(c, summary)
}

func (h *LifecycleHandler) handleLifecycleError(c *gin.Context, err error) {
	status, code, reason := classifyLifecycleError(err)
	switch status {
	case http.StatusInternalServerError:
		response.InternalError(c)
	case http.StatusServiceUnavailable:
		response.StorageLocked(c)
	default:
		response.Error(c, status, code, reason)
	}
}

// classifyLifecycleError maps a lifecycle failure onto status, API code and
// the reason string the pages show.
func classifyLifecycleError(err error) (status, code int, reason string) {
	switch {
	case errors.Is(err, service.ErrBoatNotFound):
		return http.StatusNotFound, 12001, ReasonNotFound
	case errors.Is(err, service.ErrBoatNotEditable):
		return http.StatusBadRequest, 12002, ReasonNotEditable
	case errors.Is(err, service.ErrBoatAlreadyDeleted):
		return http.StatusBadRequest, 12101, ReasonAlreadyDeleted
	case errors.Is(err, service.ErrBoatAlreadyArchived):
		return http.StatusBadRequest, 12102, ReasonAlreadyArchived
	case errors.Is(err, service.ErrBoatNotDeleted):
		return http.StatusBadRequest, 12103, ReasonNotDeleted
	case errors.Is(err, pkgerrors.ErrStorageLocked):
		return http.StatusServiceUnavailable, response.CodeStorageLocked, ReasonStorageLocked
	default:
		return http.StatusInternalServerError, response.CodeInternal, ""
	}
}
